package classifier

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// Matcher decides whether a rule applies to a key. Match receives the key
// as written and its lowercase form.
type Matcher interface {
	Match(key, lower string) bool
	String() string
}

// Rule maps keys accepted by Match to Zone.
type Rule struct {
	Zone  domain.ZoneType
	Match Matcher
}

// String renders the rule in the "zone:matcher:pattern" config form.
func (r Rule) String() string {
	return r.Zone.String() + ":" + r.Match.String()
}

// exactMatcher matches whole keys, case-sensitively: builder framework keys
// such as elType are case-significant.
type exactMatcher struct {
	keys []string
}

// Exact matches any of keys exactly.
func Exact(keys ...string) Matcher {
	return exactMatcher{keys: keys}
}

func (m exactMatcher) Match(key, _ string) bool {
	return slices.Contains(m.keys, key)
}

func (m exactMatcher) String() string {
	return "exact:" + strings.Join(m.keys, "|")
}

type containsMatcher struct {
	subs []string
}

// Contains matches keys containing any of subs, case-insensitively.
func Contains(subs ...string) Matcher {
	return containsMatcher{subs: lowerAll(subs)}
}

func (m containsMatcher) Match(_, lower string) bool {
	for _, s := range m.subs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func (m containsMatcher) String() string {
	return "contains:" + strings.Join(m.subs, "|")
}

type prefixMatcher struct {
	prefixes []string
}

// Prefix matches keys starting with any of prefixes, case-insensitively.
func Prefix(prefixes ...string) Matcher {
	return prefixMatcher{prefixes: lowerAll(prefixes)}
}

func (m prefixMatcher) Match(_, lower string) bool {
	for _, p := range m.prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func (m prefixMatcher) String() string {
	return "prefix:" + strings.Join(m.prefixes, "|")
}

type suffixMatcher struct {
	suffixes []string
}

// Suffix matches keys ending with any of suffixes, case-insensitively.
func Suffix(suffixes ...string) Matcher {
	return suffixMatcher{suffixes: lowerAll(suffixes)}
}

func (m suffixMatcher) Match(_, lower string) bool {
	for _, s := range m.suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

func (m suffixMatcher) String() string {
	return "suffix:" + strings.Join(m.suffixes, "|")
}

type patternMatcher struct {
	re *regexp.Regexp
}

// Pattern matches keys against a regular expression. The expression sees
// the key as written; use (?i) for case-insensitive patterns.
func Pattern(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", domain.ErrInvalidInput, expr, err)
	}
	return patternMatcher{re: re}, nil
}

func (m patternMatcher) Match(key, _ string) bool {
	return m.re.MatchString(key)
}

func (m patternMatcher) String() string {
	return "pattern:" + m.re.String()
}

// ParseRule parses "zone:matcher:arg", where matcher is exact, contains,
// prefix, suffix or pattern and arg is a |-separated list (a regular
// expression for pattern).
func ParseRule(s string) (Rule, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[2] == "" {
		return Rule{}, fmt.Errorf("%w: rule %q must be zone:matcher:pattern", domain.ErrInvalidInput, s)
	}
	zone, err := domain.ParseZoneType(parts[0])
	if err != nil {
		return Rule{}, err
	}

	var m Matcher
	args := strings.Split(parts[2], "|")
	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "exact":
		m = Exact(args...)
	case "contains":
		m = Contains(args...)
	case "prefix":
		m = Prefix(args...)
	case "suffix":
		m = Suffix(args...)
	case "pattern":
		m, err = Pattern(parts[2])
		if err != nil {
			return Rule{}, err
		}
	default:
		return Rule{}, fmt.Errorf("%w: matcher %q", domain.ErrUnsupportedType, parts[1])
	}
	return Rule{Zone: zone, Match: m}, nil
}

// DefaultRules is the built-in rule table. Order is the tie-break: a key
// such as "title_color" is content because the content rule comes first.
func DefaultRules() []Rule {
	return []Rule{
		{Zone: domain.ZoneStructural, Match: Exact(
			"elType", "widgetType", "elements", "isInner", "id", "_id",
			"columns", "rows", "section", "column", "_column_size", "_inline_size",
			"layout", "structure", "content_width", "column_structure",
			"specialty", "fullwidth",
		)},
		{Zone: domain.ZoneContent, Match: Contains(
			"text", "title", "content", "description", "heading", "editor",
			"caption", "label", "html", "placeholder", "quote", "subtitle",
		)},
		{Zone: domain.ZoneContent, Match: Exact(
			"image", "video", "url", "link", "alt", "icon", "gallery",
			"shortcode", "address", "menu", "src",
		)},
		{Zone: domain.ZoneStyling, Match: Contains(
			"color", "background", "margin", "padding", "border", "font", "size",
			"typography", "spacing", "width", "height", "align", "shadow",
			"opacity", "gradient", "gap", "radius", "css_classes", "_css", "style",
		)},
		{Zone: domain.ZoneBehavioral, Match: Contains(
			"animation", "motion", "hover", "scroll", "trigger", "entrance",
			"delay", "duration", "easing", "interaction", "onclick", "sticky",
			"parallax",
		)},
	}
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// Package classifier partitions an element's settings into semantic zones.
//
// Each key is run through an ordered rule table, first match wins, and keys
// no rule accepts fall into the meta zone. Keys carrying an override suffix
// (responsive breakpoints, hover and sticky states) are classified as their
// base key so a setting and its overrides always travel together.
package classifier

import (
	"slices"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// Classifier holds an immutable rule table and suffix list. It is safe for
// concurrent use.
type Classifier struct {
	rules    []Rule
	suffixes []string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules prepends rules to the table, so they win over the defaults.
func WithRules(rules ...Rule) Option {
	return func(c *Classifier) {
		c.rules = append(slices.Clone(rules), c.rules...)
	}
}

// WithSuffixes replaces the override suffix list.
func WithSuffixes(suffixes ...string) Option {
	return func(c *Classifier) {
		c.suffixes = sortSuffixes(suffixes)
	}
}

// New creates a classifier over the default table and suffixes.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:    DefaultRules(),
		suffixes: sortSuffixes(domain.DefaultOverrideSuffixes()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromSettings builds a classifier from configuration.
func FromSettings(s domain.ClassifierSettings) (*Classifier, error) {
	var opts []Option
	if len(s.Suffixes) > 0 {
		opts = append(opts, WithSuffixes(s.Suffixes...))
	}
	if len(s.Rules) > 0 {
		rules := make([]Rule, 0, len(s.Rules))
		for _, spec := range s.Rules {
			r, err := ParseRule(spec)
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		}
		opts = append(opts, WithRules(rules...))
	}
	return New(opts...), nil
}

// Rules returns the rule table in evaluation order.
func (c *Classifier) Rules() []Rule {
	return slices.Clone(c.rules)
}

// Suffixes returns the override suffixes in matching order.
func (c *Classifier) Suffixes() []string {
	return slices.Clone(c.suffixes)
}

// BaseKey strips override suffixes from key until none applies. A suffix is
// only stripped when something remains in front of it.
func (c *Classifier) BaseKey(key string) string {
	for {
		stripped := false
		for _, s := range c.suffixes {
			if len(key) > len(s) && strings.HasSuffix(key, s) {
				key = key[:len(key)-len(s)]
				stripped = true
				break
			}
		}
		if !stripped {
			return key
		}
	}
}

// ZoneOf resolves the zone of a single key.
func (c *Classifier) ZoneOf(key string) domain.ZoneType {
	base := c.BaseKey(key)
	lower := strings.ToLower(base)
	for _, r := range c.rules {
		if r.Match.Match(base, lower) {
			return r.Zone
		}
	}
	return domain.ZoneMeta
}

// Classify partitions one element's attributes (not its children) into
// zones. Zones come out in enum order, one per non-empty bucket, each
// holding a copy of its keys in source order. Non-empty content is carried
// by the content zone.
func (c *Classifier) Classify(el *domain.Element, path domain.Path) []domain.Zone {
	if el == nil {
		return nil
	}

	var buckets [len(bucketOrder)]*domain.Attributes
	el.Attributes.Each(func(key string, value domain.Value) {
		z := c.ZoneOf(key)
		if buckets[z] == nil {
			buckets[z] = domain.NewAttributes()
		}
		buckets[z].Set(key, value.Clone())
	})

	var content *string
	if el.Content != "" {
		s := el.Content
		content = &s
		if buckets[domain.ZoneContent] == nil {
			buckets[domain.ZoneContent] = domain.NewAttributes()
		}
	}

	zones := make([]domain.Zone, 0, len(bucketOrder))
	for _, zt := range bucketOrder {
		data := buckets[zt]
		if data == nil {
			continue
		}
		z := domain.Zone{
			Type:         zt,
			Path:         slices.Clone(path),
			Data:         data,
			OriginalKeys: data.Keys(),
		}
		if zt == domain.ZoneContent {
			z.Content = content
		}
		if z.Path == nil {
			z.Path = domain.Path{}
		}
		zones = append(zones, z)
	}
	return zones
}

// bucketOrder is the enum order zones are emitted in.
var bucketOrder = [...]domain.ZoneType{
	domain.ZoneStructural,
	domain.ZoneContent,
	domain.ZoneStyling,
	domain.ZoneBehavioral,
	domain.ZoneMeta,
}

// sortSuffixes orders suffixes longest first so "_tablet_extra" is tried
// before "_tablet".
func sortSuffixes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b string) int {
		return len(b) - len(a)
	})
	return out
}

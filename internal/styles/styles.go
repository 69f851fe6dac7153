// Package styles collects design tokens (colours, font families and
// spacing) from the styling zones of a document and renders them as CSS
// custom properties.
package styles

import (
	"cmp"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

type category int

const (
	colors category = iota
	fonts
	spacing
)

var (
	colorPattern  = regexp.MustCompile(`#[0-9a-fA-F]{8}\b|#[0-9a-fA-F]{6}\b|#[0-9a-fA-F]{3,4}\b|(?i:rgba?|hsla?)\([^)]*\)`)
	lengthPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)(px|em|rem|%|vh|vw)$`)
)

// genericFonts are family keywords, not fonts.
var genericFonts = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true, "cursive": true,
	"fantasy": true, "system-ui": true, "inherit": true, "initial": true,
	"default": true, "none": true,
}

// systemFonts ship with browsers and are left out of the font import.
var systemFonts = map[string]bool{
	"arial": true, "helvetica": true, "georgia": true, "times new roman": true,
	"verdana": true, "tahoma": true, "courier new": true, "trebuchet ms": true,
}

// Extract collects the tokens of a classified document. root supplies
// site-wide kit globals and embedded stylesheets; elements supplies the
// styling zones.
func Extract(root *domain.Element, elements []domain.ElementZones) *domain.DesignTokens {
	c := newCollector()
	c.kit(root)
	for _, el := range elements {
		for _, z := range el.Zones {
			if z.Type != domain.ZoneStyling {
				continue
			}
			z.Data.Each(func(key string, v domain.Value) {
				var x any
				if err := v.Decode(&x); err == nil {
					c.walk(key, x, false)
				}
			})
		}
	}
	if root != nil {
		root.Walk(func(_ domain.Path, el *domain.Element) bool {
			if el.Type == "style" {
				c.stylesheet(el.Content)
			}
			return true
		})
	}
	return c.tokens()
}

type collector struct {
	byValue [3]map[string]*domain.Token
	order   [3][]*domain.Token
}

func newCollector() *collector {
	c := &collector{}
	for i := range c.byValue {
		c.byValue[i] = make(map[string]*domain.Token)
	}
	return c
}

func (c *collector) add(cat category, name, value string, uses int) {
	if value == "" {
		return
	}
	t, ok := c.byValue[cat][value]
	if !ok {
		t = &domain.Token{Value: value}
		c.byValue[cat][value] = t
		c.order[cat] = append(c.order[cat], t)
	}
	if t.Name == "" {
		t.Name = name
	}
	t.Uses += uses
}

type kitEntry struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Color string `json:"color"`
	Font  string `json:"typography_font_family"`
}

// kit reads Elementor global colours and fonts from document settings.
func (c *collector) kit(root *domain.Element) {
	if root == nil {
		return
	}
	sources := []*domain.Attributes{root.Attributes}
	for _, key := range []string{"page_settings", "settings"} {
		if v, ok := root.Attributes.Get(key); ok {
			if a, err := domain.ParseAttributes(v.Raw()); err == nil {
				sources = append(sources, a)
			}
		}
	}
	for _, src := range sources {
		for _, key := range []string{"system_colors", "custom_colors", "system_typography", "custom_typography"} {
			v, ok := src.Get(key)
			if !ok {
				continue
			}
			var entries []kitEntry
			if err := v.Decode(&entries); err != nil {
				continue
			}
			for _, e := range entries {
				name := slug(e.Title)
				if name == "" {
					name = slug(e.ID)
				}
				c.add(colors, name, normColor(e.Color), 0)
				c.add(fonts, name, fontFamily(e.Font), 0)
			}
		}
	}
}

func (c *collector) walk(key string, x any, inSpacing bool) {
	norm := normKey(key)
	inSpacing = inSpacing || isSpacingKey(norm)

	switch x := x.(type) {
	case string:
		c.text(norm, x, inSpacing)
	case []any:
		for _, e := range x {
			c.walk(key, e, inSpacing)
		}
	case map[string]any:
		if unit, ok := x["unit"].(string); ok && inSpacing {
			// Elementor dimension and slider controls
			for _, side := range []string{"top", "right", "bottom", "left", "size"} {
				if n := number(x[side]); n != "" {
					c.add(spacing, "", n+unit, 1)
				}
			}
			return
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			c.walk(k, x[k], inSpacing)
		}
	}
}

func (c *collector) text(norm, s string, inSpacing bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return
	case strings.Contains(norm, "fontfamily") || strings.HasSuffix(norm, "font"):
		c.add(fonts, "", fontFamily(s), 1)
		return
	case norm == "style" && strings.Contains(s, ":"):
		c.declarations(s)
		return
	case strings.HasSuffix(norm, "css") && strings.Contains(s, "{"):
		c.stylesheet(s)
		return
	}

	for _, m := range colorPattern.FindAllString(s, -1) {
		c.add(colors, "", normColor(m), 1)
	}
	if inSpacing {
		// Divi packs sides as "10px|20px|10px|20px|false|false".
		parts := strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ' ' })
		for _, p := range parts {
			if lengthPattern.MatchString(p) && !isZero(p) {
				c.add(spacing, "", p, 1)
			}
		}
	}
}

// declarations reads an inline style attribute.
func (c *collector) declarations(s string) {
	decls, err := parser.ParseDeclarations(s)
	if err != nil {
		return
	}
	c.decls(decls)
}

// stylesheet reads a style element or a custom CSS setting.
func (c *collector) stylesheet(s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	sheet, err := parser.Parse(s)
	if err != nil {
		return
	}
	c.rules(sheet.Rules)
}

func (c *collector) rules(rules []*css.Rule) {
	for _, r := range rules {
		c.decls(r.Declarations)
		c.rules(r.Rules)
	}
}

func (c *collector) decls(decls []*css.Declaration) {
	for _, d := range decls {
		c.walk(d.Property, d.Value, false)
	}
}

// tokens names and orders what was collected. Kit globals come first under
// their own names; the rest follow by use count.
func (c *collector) tokens() *domain.DesignTokens {
	byUses := func(a, b *domain.Token) int { return cmp.Compare(b.Uses, a.Uses) }
	bySize := func(a, b *domain.Token) int {
		ua, ub := unit(a.Value), unit(b.Value)
		if ua != ub {
			return cmp.Compare(ua, ub)
		}
		return cmp.Compare(magnitude(a.Value), magnitude(b.Value))
	}

	return &domain.DesignTokens{
		Colors: finish(c.order[colors], byUses, func(i int, _ string) string {
			return strconv.Itoa(i)
		}),
		Fonts: finish(c.order[fonts], byUses, func(_ int, v string) string {
			return slug(v)
		}),
		Spacing: finish(c.order[spacing], bySize, func(i int, _ string) string {
			return strconv.Itoa(i)
		}),
	}
}

func finish(all []*domain.Token, order func(a, b *domain.Token) int, name func(i int, value string) string) []domain.Token {
	var named, rest []*domain.Token
	for _, t := range all {
		if t.Name != "" {
			named = append(named, t)
		} else {
			rest = append(rest, t)
		}
	}
	slices.SortStableFunc(rest, order)

	out := make([]domain.Token, 0, len(all))
	taken := make(map[string]bool)
	for _, t := range named {
		taken[t.Name] = true
		out = append(out, *t)
	}
	for i, t := range rest {
		n := name(i+1, t.Value)
		for base, k := n, 2; taken[n]; k++ {
			n = fmt.Sprintf("%s-%d", base, k)
		}
		taken[n] = true
		t.Name = n
		out = append(out, *t)
	}
	return out
}

// CSS renders tokens as a :root block of custom properties, preceded by a
// Google Fonts import when web fonts are used.
func CSS(t *domain.DesignTokens) string {
	var sb strings.Builder
	if t == nil {
		t = &domain.DesignTokens{}
	}

	var families []string
	for _, f := range t.Fonts {
		if !systemFonts[strings.ToLower(f.Value)] {
			families = append(families, "family="+url.QueryEscape(f.Value))
		}
	}
	if len(families) > 0 {
		fmt.Fprintf(&sb, "@import url('https://fonts.googleapis.com/css2?%s&display=swap');\n\n", strings.Join(families, "&"))
	}

	sb.WriteString(":root {\n")
	for _, c := range t.Colors {
		fmt.Fprintf(&sb, "  --color-%s: %s;\n", c.Name, c.Value)
	}
	for _, f := range t.Fonts {
		fmt.Fprintf(&sb, "  --font-%s: '%s', sans-serif;\n", f.Name, f.Value)
	}
	for _, s := range t.Spacing {
		fmt.Fprintf(&sb, "  --spacing-%s: %s;\n", s.Name, s.Value)
	}
	sb.WriteString("}\n")
	return sb.String()
}

// normColor returns a colour as lowercase #rrggbb. Colours with an alpha
// channel keep their notation without spaces.
func normColor(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "#") {
		switch len(s) {
		case 4, 7:
			col, err := colorful.Hex(s)
			if err != nil {
				return ""
			}
			return col.Hex()
		case 5, 9:
			return s
		}
		return ""
	}

	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return ""
	}
	fn := s[:open]
	args := strings.FieldsFunc(s[open+1:end], func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(args) < 3 {
		return ""
	}
	nums := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(a, "%"), "deg"), 64)
		if err != nil {
			return ""
		}
		nums[i] = f
	}
	if len(nums) > 3 && nums[3] < 1 {
		return strings.Join(strings.Fields(s), "")
	}

	var col colorful.Color
	switch fn {
	case "rgb", "rgba":
		col = colorful.Color{R: nums[0] / 255, G: nums[1] / 255, B: nums[2] / 255}
	case "hsl", "hsla":
		col = colorful.Hsl(nums[0], nums[1]/100, nums[2]/100)
	default:
		return ""
	}
	return col.Clamped().Hex()
}

// fontFamily returns the first named family of a font setting.
func fontFamily(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "var:") || strings.Contains(s, "var(") {
		return ""
	}
	if i := strings.IndexByte(s, '|'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(strings.TrimSpace(s), `'"`)
	if genericFonts[strings.ToLower(s)] {
		return ""
	}
	return s
}

func normKey(key string) string {
	return strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(key))
}

func isSpacingKey(norm string) bool {
	if strings.Contains(norm, "letterspacing") || strings.Contains(norm, "wordspacing") {
		return false
	}
	for _, k := range []string{"margin", "padding", "gap", "spacing"} {
		if strings.Contains(norm, k) {
			return true
		}
	}
	return false
}

func number(x any) string {
	switch v := x.(type) {
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		v = strings.TrimSpace(v)
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f == 0 {
			return ""
		}
		return v
	}
	return ""
}

func isZero(length string) bool {
	return magnitude(length) == 0
}

func unit(length string) string {
	return strings.TrimLeft(length, "-.0123456789")
}

func magnitude(length string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSuffix(length, unit(length)), 64)
	return f
}

func slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}

// Package convert rebuilds a document from one page-builder dialect in
// another. Every source element is mapped to a universal kind by its
// adapter; the target's table turns the kind and the element's content
// fields into target elements. Elements without a kind are unwrapped when
// they hold children and become text otherwise.
package convert

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/classifier"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/htmltext"
)

// Universal kinds.
const (
	KindSection = "section"
	KindRow     = "row"
	KindColumn  = "column"
	KindHeading = "heading"
	KindText    = "text"
	KindImage   = "image"
	KindButton  = "button"
	KindDivider = "divider"
	KindSpacer  = "spacer"
	KindHTML    = "html"
	KindVideo   = "video"
)

// Kinds a source may report for elements that are not content of their
// own. Neither is listed in Kinds or reported as unmapped.
const (
	// KindWrapper elements are replaced by their converted children.
	KindWrapper = "wrapper"
	// KindIgnore elements are dropped with everything inside them.
	KindIgnore = "ignore"
)

// Kinds lists every universal kind.
var Kinds = []string{
	KindSection, KindRow, KindColumn, KindHeading, KindText, KindImage,
	KindButton, KindDivider, KindSpacer, KindHTML, KindVideo,
}

// Source is what the converter needs from the source adapter.
type Source interface {
	Framework() string
	Kind(el *domain.Element) string
}

// PayloadDecoder is implemented by sources that store raw HTML encoded.
type PayloadDecoder interface {
	DecodePayload(el *domain.Element) (string, bool)
}

// LeafSource is implemented by sources whose content elements hold their
// inline markup as children. Children of a leaf are not converted.
type LeafSource interface {
	Leaf(el *domain.Element) bool
}

// Fields is the dialect-neutral content of one element.
type Fields struct {
	Kind  string
	Text  string // plain text
	HTML  string // markup body
	URL   string // image or video source
	Alt   string
	Link  string
	Level int // heading level, 1-6
}

// Handler builds target elements for one source element. children are the
// element's already converted children.
type Handler func(f Fields, children []*domain.Element) []*domain.Element

// Target describes how to write one dialect.
type Target struct {
	Name     string
	Handlers map[string]Handler
	// Finish assembles the document root from the converted top level.
	Finish func(r *Run, top []*domain.Element) *domain.Element
}

// Result is a converted document.
type Result struct {
	Document *domain.Document
	// Unmapped lists "path:type" for source elements without a kind.
	Unmapped []string
}

// Converter maps documents between dialects.
type Converter struct {
	classifier *classifier.Classifier
	targets    map[string]*Target
}

// New creates a converter with the built-in targets. A nil classifier
// selects the default rule table.
func New(c *classifier.Classifier) *Converter {
	if c == nil {
		c = classifier.New()
	}
	conv := &Converter{classifier: c, targets: make(map[string]*Target)}
	for _, t := range builtinTargets() {
		conv.Register(t)
	}
	return conv
}

// Register adds or replaces a target.
func (c *Converter) Register(t *Target) {
	c.targets[t.Name] = t
}

// Targets returns the target names, sorted.
func (c *Converter) Targets() []string {
	names := make([]string, 0, len(c.targets))
	for name := range c.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns the kinds the target handles explicitly, in kind order.
func (c *Converter) Kinds(target string) []string {
	t, ok := c.targets[target]
	if !ok {
		return nil
	}
	var out []string
	for _, k := range Kinds {
		if _, ok := t.Handlers[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Supports reports whether target is a registered target.
func (c *Converter) Supports(target string) bool {
	_, ok := c.targets[target]
	return ok
}

// Convert rebuilds doc, read by src, as a target document.
func (c *Converter) Convert(doc *domain.Document, src Source, target string) (*Result, error) {
	t, ok := c.targets[target]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrUnsupportedConversion, src.Framework(), target)
	}
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	r := &Run{conv: c, src: src, target: t, kinds: make(map[*domain.Element]string)}
	var top []*domain.Element
	for i, child := range doc.Root.Children {
		out, err := r.convert(child, domain.Path{i})
		if err != nil {
			return nil, err
		}
		top = append(top, out...)
	}

	root := t.Finish(r, top)
	if target == src.Framework() {
		root.Attributes = doc.Root.Attributes.Clone()
	}
	return &Result{
		Document: &domain.Document{Framework: target, Root: root},
		Unmapped: r.unmapped,
	}, nil
}

// Run is the state of one conversion.
type Run struct {
	conv     *Converter
	src      Source
	target   *Target
	kinds    map[*domain.Element]string
	unmapped []string
}

// KindOf returns the universal kind a converted element was built for.
func (r *Run) KindOf(el *domain.Element) string {
	return r.kinds[el]
}

// Mark records the kind of an element built outside a handler.
func (r *Run) Mark(el *domain.Element, kind string) *domain.Element {
	r.kinds[el] = kind
	return el
}

func (r *Run) convert(el *domain.Element, path domain.Path) ([]*domain.Element, error) {
	if el == nil {
		return nil, fmt.Errorf("%w: nil element at %s", domain.ErrMalformedTree, path)
	}

	kind := r.src.Kind(el)
	if kind == KindIgnore {
		return nil, nil
	}

	var children []*domain.Element
	inner := el.Children
	if ls, ok := r.src.(LeafSource); ok && ls.Leaf(el) {
		inner = nil
	}
	for i, child := range inner {
		out, err := r.convert(child, path.Child(i))
		if err != nil {
			return nil, err
		}
		children = append(children, out...)
	}
	if kind == KindWrapper {
		return children, nil
	}

	h, ok := r.target.Handlers[kind]
	if !ok {
		if kind == "" && len(children) == 0 && strings.TrimSpace(el.Content) == "" && el.Attributes.Len() == 0 {
			return nil, nil
		}
		r.unmapped = append(r.unmapped, path.String()+":"+el.Type)
		if len(children) > 0 {
			return children, nil
		}
		kind = KindText
		if h, ok = r.target.Handlers[kind]; !ok {
			return nil, nil
		}
	}

	f := r.conv.fields(kind, el, r.src)
	if kind == KindText && f.Text == "" && f.HTML == "" {
		return children, nil
	}
	out := h(f, children)
	for _, o := range out {
		if _, seen := r.kinds[o]; !seen {
			r.kinds[o] = kind
		}
	}
	return out, nil
}

// fields extracts content fields from the element's content zone.
func (c *Converter) fields(kind string, el *domain.Element, src Source) Fields {
	f := Fields{Kind: kind}

	body := el.Content
	if dec, ok := src.(PayloadDecoder); ok {
		if html, ok := dec.DecodePayload(el); ok {
			body = html
		}
	}
	f.HTML = strings.TrimSpace(body)

	for _, z := range c.classifier.Classify(el, nil) {
		if z.Type != domain.ZoneContent {
			continue
		}
		z.Data.Each(func(key string, v domain.Value) {
			s := stringOrURL(v)
			if s == "" {
				return
			}
			lower := strings.ToLower(key)
			switch {
			case lower == "alt" || strings.HasSuffix(lower, "_alt"):
				setOnce(&f.Alt, s)
			case strings.Contains(lower, "link") || lower == "button_url" || lower == "href":
				setOnce(&f.Link, linkURL(s))
			case lower == "src" || lower == "image" || lower == "video" || strings.Contains(lower, "url"):
				setOnce(&f.URL, s)
			case isTextKey(lower):
				setOnce(&f.Text, s)
			}
		})
	}

	if f.HTML == "" && f.Text != "" {
		if htmltext.IsMarkup(f.Text) {
			f.HTML = f.Text
		} else {
			f.HTML = htmltext.Escape(f.Text)
		}
	}
	if f.Text == "" || htmltext.IsMarkup(f.Text) {
		f.Text = htmltext.Text(f.HTML)
	}

	switch kind {
	case KindImage:
		setOnce(&f.URL, htmltext.Attr(f.HTML, "img", "src"))
		setOnce(&f.Alt, htmltext.Attr(f.HTML, "img", "alt"))
		if !htmltext.IsMarkup(f.HTML) {
			setOnce(&f.URL, f.HTML)
		}
		setOnce(&f.URL, f.Link)
	case KindVideo:
		setOnce(&f.URL, htmltext.Attr(f.HTML, "iframe", "src"))
		setOnce(&f.URL, f.Link)
		if !htmltext.IsMarkup(f.HTML) {
			setOnce(&f.URL, f.Text)
		}
	case KindButton:
		setOnce(&f.Link, htmltext.Attr(f.HTML, "a", "href"))
		setOnce(&f.Link, f.URL)
	case KindHeading:
		f.Level = headingLevel(el, f.HTML)
	}
	return f
}

var textKeys = []string{"text", "title", "content", "heading", "editor", "caption", "label", "html"}

func isTextKey(lower string) bool {
	for _, k := range textKeys {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// headingLevel reads the level from markup or the usual level settings.
func headingLevel(el *domain.Element, html string) int {
	if n := htmltext.HeadingLevel(html); n > 0 {
		return n
	}
	for _, key := range []string{"header_size", "level", "size", "font_container", "title_tag"} {
		v, ok := el.Attributes.Get(key)
		if !ok {
			continue
		}
		s, isString := v.AsString()
		if !isString {
			s = string(v.Raw())
		}
		if i := strings.Index(s, "h"); i >= 0 && i+1 < len(s) {
			s = s[i+1 : i+2]
		}
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 6 {
			return n
		}
	}
	return 2
}

// stringOrURL returns a string value, or the "url" member of an object
// value such as {"url": "...", "id": 12}.
func stringOrURL(v domain.Value) string {
	if s, ok := v.AsString(); ok {
		return strings.TrimSpace(s)
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := v.Decode(&obj); err != nil {
		return ""
	}
	return strings.TrimSpace(obj.URL)
}

// linkURL unpacks "url:...|title:..." link strings.
func linkURL(s string) string {
	if !strings.HasPrefix(s, "url:") {
		return s
	}
	for _, part := range strings.Split(s, "|") {
		if u, ok := strings.CutPrefix(part, "url:"); ok {
			if dec, err := url.QueryUnescape(u); err == nil {
				return dec
			}
			return u
		}
	}
	return s
}

func setOnce(dst *string, v string) {
	if *dst == "" {
		*dst = strings.TrimSpace(v)
	}
}

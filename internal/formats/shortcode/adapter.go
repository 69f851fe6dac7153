// Package shortcode reads and writes the bracket shortcode layouts used by
// Divi (et_pb_*), WPBakery (vc_*) and Avada (fusion_*).
//
// Each builder tag becomes an element whose attributes are the tag's
// attributes in source order. A tag whose body holds only text keeps it as
// content; a tag holding nested builder tags gets children, with the text
// between them kept as "#text" children. Tags that are never closed are
// written back open, and whatever followed them becomes their siblings.
package shortcode

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/htmltext"
)

// Ensure Adapter implements the interface.
var _ driven.FormatAdapter = (*Adapter)(nil)

const (
	// RootType is the element type of the document root.
	RootType = "document"

	// TextType holds text between tags.
	TextType = "#text"
)

// Frame bookkeeping keys and closing styles.
const (
	metaClose    = "@close"
	metaQuotes   = "@quotes"
	metaShadowed = "@shadowed"

	closeVoid  = "void"  // [tag /]
	closeTight = "tight" // [tag/]
	closeOpen  = "open"  // [tag] never closed
)

// Adapter implements driven.FormatAdapter for one shortcode dialect.
type Adapter struct {
	dialect Dialect
}

// New creates an adapter for d.
func New(d Dialect) *Adapter {
	return &Adapter{dialect: d}
}

// Framework returns the dialect name.
func (a *Adapter) Framework() string {
	return a.dialect.Name
}

// Extensions returns the dialect's file extensions.
func (a *Adapter) Extensions() []string {
	return append([]string(nil), a.dialect.Extensions...)
}

// Dialect returns the dialect description.
func (a *Adapter) Dialect() Dialect {
	return a.dialect
}

// Parse reads a shortcode document.
func (a *Adapter) Parse(ctx context.Context, data []byte) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := build(lex(string(data), a.dialect.Prefix))
	return &domain.Document{Framework: a.dialect.Name, Root: root}, nil
}

// item is a text run or an element inside a tag being built.
type item struct {
	text string
	el   *domain.Element
}

type open struct {
	el    *domain.Element
	items []item
}

// build assembles the tree. Closing tags without a matching open tag are
// kept as text.
func build(tokens []token) *domain.Element {
	root := &open{el: &domain.Element{Type: RootType}}
	stack := []*open{root}
	top := func() *open { return stack[len(stack)-1] }

	for _, tok := range tokens {
		switch tok.kind {
		case tokText:
			top().items = append(top().items, item{text: tok.text})

		case tokOpen:
			el := &domain.Element{
				Type:       tok.name,
				Attributes: tok.attrs,
				Frame:      frameFor(tok),
			}
			if tok.close != "" {
				top().items = append(top().items, item{el: el})
				continue
			}
			stack = append(stack, &open{el: el})

		case tokClose:
			i := len(stack) - 1
			for i > 0 && stack[i].el.Type != tok.name {
				i--
			}
			if i == 0 {
				top().items = append(top().items, item{text: tok.text})
				continue
			}
			for len(stack)-1 > i {
				unclose(&stack)
			}
			done := stack[i]
			stack = stack[:i]
			top().items = append(top().items, item{el: finish(done)})
		}
	}
	for len(stack) > 1 {
		unclose(&stack)
	}

	root.el.Children = make([]*domain.Element, 0, len(root.items))
	for _, it := range root.items {
		root.el.Children = append(root.el.Children, it.element())
	}
	return root.el
}

// unclose pops the top tag as never closed and hoists what it collected
// into its parent after it.
func unclose(stack *[]*open) {
	s := *stack
	o := s[len(s)-1]
	*stack = s[:len(s)-1]
	parent := s[len(s)-2]

	o.el.Frame.Set(metaClose, domain.StringValue(closeOpen))
	parent.items = append(parent.items, item{el: o.el})
	parent.items = append(parent.items, o.items...)
}

// finish turns collected items into content or children.
func finish(o *open) *domain.Element {
	hasChild := false
	for _, it := range o.items {
		if it.el != nil {
			hasChild = true
			break
		}
	}
	if !hasChild {
		var sb strings.Builder
		for _, it := range o.items {
			sb.WriteString(it.text)
		}
		o.el.Content = sb.String()
		return o.el
	}
	o.el.Children = make([]*domain.Element, 0, len(o.items))
	for _, it := range o.items {
		o.el.Children = append(o.el.Children, it.element())
	}
	return o.el
}

func (it item) element() *domain.Element {
	if it.el != nil {
		return it.el
	}
	return &domain.Element{Type: TextType, Content: it.text}
}

func frameFor(tok token) *domain.Attributes {
	f := domain.NewAttributes()
	if tok.close != "" {
		f.Set(metaClose, domain.StringValue(tok.close))
	}
	if len(tok.quotes) > 0 {
		f.Set(metaQuotes, domain.MustValue(tok.quotes))
	}
	if len(tok.shadow) > 0 {
		f.Set(metaShadowed, domain.MustValue(tok.shadow))
	}
	return f
}

// Serialize writes a shortcode document.
func (a *Adapter) Serialize(ctx context.Context, doc *domain.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	var buf bytes.Buffer
	for i, child := range doc.Root.Children {
		if err := writeNode(&buf, child, domain.Path{i}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, el *domain.Element, path domain.Path) error {
	if el == nil {
		return fmt.Errorf("%w: nil element at %s", domain.ErrMalformedTree, path)
	}
	if el.Type == TextType {
		buf.WriteString(el.Content)
		return nil
	}

	var quotes map[string]string
	if v, ok := el.Frame.Get(metaQuotes); ok {
		if err := v.Decode(&quotes); err != nil {
			return fmt.Errorf("%w: attribute quotes at %s: %v", domain.ErrInvalidInput, path, err)
		}
	}

	var shadows []shadowed
	if v, ok := el.Frame.Get(metaShadowed); ok {
		if err := v.Decode(&shadows); err != nil {
			return fmt.Errorf("%w: repeated attributes at %s: %v", domain.ErrInvalidInput, path, err)
		}
	}

	buf.WriteByte('[')
	buf.WriteString(el.Type)

	// Repeated names go back at their source positions, as long as the
	// attribute they repeat is still there.
	pos, next := 0, 0
	flush := func(all bool) {
		for next < len(shadows) && (all || shadows[next].At <= pos) {
			if sh := shadows[next]; el.Attributes.Has(sh.Key) {
				writeShadowed(buf, sh)
			}
			next++
			pos++
		}
	}
	var err error
	el.Attributes.Each(func(key string, v domain.Value) {
		if err != nil {
			return
		}
		flush(false)
		err = writeAttr(buf, key, v, quotes)
		pos++
	})
	flush(true)
	if err != nil {
		return fmt.Errorf("attribute of %s at %s: %w", el.Type, path, err)
	}

	empty := el.Content == "" && len(el.Children) == 0
	switch style := el.Frame.GetString(metaClose); {
	case style == closeVoid && empty:
		buf.WriteString(" /]")
		return nil
	case style == closeTight && empty:
		buf.WriteString("/]")
		return nil
	case style == closeOpen && empty:
		buf.WriteByte(']')
		return nil
	}

	buf.WriteByte(']')
	buf.WriteString(el.Content)
	for i, child := range el.Children {
		if err := writeNode(buf, child, path.Child(i)); err != nil {
			return err
		}
	}
	buf.WriteString("[/")
	buf.WriteString(el.Type)
	buf.WriteByte(']')
	return nil
}

// attrEscaper keeps values from ending the quote or the tag.
var attrEscaper = strings.NewReplacer(`"`, "&quot;", "]", "&#93;", "[", "&#91;")

func writeAttr(buf *bytes.Buffer, key string, v domain.Value, quotes map[string]string) error {
	buf.WriteByte(' ')
	if string(v.Raw()) == "true" && !v.IsString() {
		buf.WriteString(key)
		return nil
	}

	s, ok := v.AsString()
	if !ok {
		// Non-string values written by a transformer keep their JSON form.
		s = string(v.Raw())
	}

	q, recorded := quotes[key]
	if !recorded {
		q = `"`
	}
	if q == "" && (s == "" || strings.ContainsAny(s, " \t\r\n[]'\"") || strings.HasSuffix(s, "/")) {
		q = `"`
	}
	if q == "'" && strings.ContainsAny(s, "']") {
		q = `"`
	}

	buf.WriteString(key)
	buf.WriteByte('=')
	buf.WriteString(q)
	if q == `"` {
		_, err := attrEscaper.WriteString(buf, s)
		if err != nil {
			return err
		}
	} else {
		buf.WriteString(s)
	}
	buf.WriteString(q)
	return nil
}

func writeShadowed(buf *bytes.Buffer, sh shadowed) {
	buf.WriteByte(' ')
	buf.WriteString(sh.Key)
	if sh.Bare {
		return
	}
	buf.WriteByte('=')
	buf.WriteString(sh.Quote)
	buf.WriteString(sh.Value)
	buf.WriteString(sh.Quote)
}

// Kind maps an element to its universal kind. Text modules whose content
// starts with a heading element are headings.
func (a *Adapter) Kind(el *domain.Element) string {
	if el == nil {
		return ""
	}
	if el.Type == TextType {
		switch {
		case strings.TrimSpace(el.Content) == "":
			return ""
		case htmltext.IsMarkup(el.Content):
			return "html"
		}
		return "text"
	}
	kind := a.dialect.Kinds[el.Type]
	if kind == "text" && isHeading(el.Content) {
		return "heading"
	}
	return kind
}

// Package bootstrap reads and writes plain HTML pages laid out with the
// Bootstrap grid (container, row, col-*).
//
// Each tag becomes an element named after the tag with the tag's attributes.
// A tag holding only text keeps it as content; a tag holding other tags gets
// children, with the text between them kept as "#text" children. The source
// of every tag is kept in the frame, so an untouched page serializes to the
// input byte for byte.
package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.FormatAdapter = (*Adapter)(nil)

// Framework is the dialect name.
const Framework = "bootstrap"

const (
	// RootType is the element type of the document root.
	RootType = "document"

	// TextType holds text, comments and doctypes between tags.
	TextType = "#text"
)

// Frame bookkeeping keys.
const (
	metaOpen     = "@open"     // source of the start tag
	metaEnd      = "@end"      // source of the end tag
	metaVoid     = "@void"     // start tag has no end tag
	metaUnclosed = "@unclosed" // end tag missing from the source
)

// voidElements never take an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Adapter implements driven.FormatAdapter for Bootstrap HTML.
type Adapter struct{}

// New creates a Bootstrap HTML adapter.
func New() *Adapter {
	return &Adapter{}
}

// Framework returns "bootstrap".
func (a *Adapter) Framework() string {
	return Framework
}

// Extensions returns the file extensions pages are written under.
func (a *Adapter) Extensions() []string {
	return []string{".html", ".htm"}
}

type open struct {
	el    *domain.Element
	items []*domain.Element
}

// Parse reads an HTML page.
func (a *Adapter) Parse(ctx context.Context, data []byte) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := &domain.Element{Type: RootType}
	stack := []*open{{el: root}}
	top := func() *open { return stack[len(stack)-1] }
	text := func(s string) {
		o := top()
		if n := len(o.items); n > 0 && o.items[n-1].Type == TextType {
			o.items[n-1].Content += s
			return
		}
		o.items = append(o.items, &domain.Element{Type: TextType, Content: s})
	}

	z := html.NewTokenizer(bytes.NewReader(data))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			break
		}
		raw := string(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			el := &domain.Element{
				Type:       tok.Data,
				Attributes: tagAttributes(tok),
				Frame:      domain.NewAttributes(),
			}
			el.Frame.Set(metaOpen, domain.StringValue(raw))
			if tt == html.SelfClosingTagToken || voidElements[tok.Data] {
				el.Frame.Set(metaVoid, domain.MustValue(true))
				top().items = append(top().items, el)
				continue
			}
			stack = append(stack, &open{el: el})

		case html.EndTagToken:
			name, _ := z.TagName()
			i := openIndex(stack, string(name))
			if i <= 0 {
				text(raw)
				continue
			}
			for len(stack)-1 > i {
				closeOpen(&stack, true)
			}
			top().el.Frame.Set(metaEnd, domain.StringValue(raw))
			closeOpen(&stack, false)

		default:
			text(raw)
		}
	}
	for len(stack) > 1 {
		closeOpen(&stack, true)
	}
	finish(stack[0])
	return &domain.Document{Framework: Framework, Root: root}, nil
}

// openIndex returns the innermost open element named name, or -1. The
// root at index 0 never matches.
func openIndex(stack []*open, name string) int {
	for i := len(stack) - 1; i > 0; i-- {
		if stack[i].el.Type == name {
			return i
		}
	}
	return -1
}

// closeOpen pops the innermost open element into its parent.
func closeOpen(stack *[]*open, unclosed bool) {
	s := *stack
	o := s[len(s)-1]
	if unclosed {
		o.el.Frame.Set(metaUnclosed, domain.MustValue(true))
	}
	finish(o)
	parent := s[len(s)-2]
	parent.items = append(parent.items, o.el)
	*stack = s[:len(s)-1]
}

// finish turns collected items into content or children.
func finish(o *open) {
	for _, it := range o.items {
		if it.Type != TextType {
			o.el.Children = o.items
			return
		}
	}
	var sb strings.Builder
	for _, it := range o.items {
		sb.WriteString(it.Content)
	}
	o.el.Content = sb.String()
}

// tagAttributes keeps the first of repeated attributes, as browsers do.
func tagAttributes(tok html.Token) *domain.Attributes {
	if len(tok.Attr) == 0 {
		return nil
	}
	a := domain.NewAttributes()
	for _, attr := range tok.Attr {
		if attr.Namespace != "" || a.Has(attr.Key) {
			continue
		}
		a.Set(attr.Key, domain.StringValue(attr.Val))
	}
	return a
}

// Serialize writes an HTML page.
func (a *Adapter) Serialize(ctx context.Context, doc *domain.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	var buf bytes.Buffer
	buf.WriteString(doc.Root.Content)
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
	if el.Type == "" || strings.ContainsAny(el.Type, " \t\r\n<>/=\"'") {
		return fmt.Errorf("%w: bad tag name %q at %s", domain.ErrMalformedTree, el.Type, path)
	}

	if err := writeStartTag(buf, el); err != nil {
		return fmt.Errorf("start tag at %s: %w", path, err)
	}

	void := flag(el.Frame, metaVoid) || (el.Frame == nil && voidElements[el.Type])
	if void && el.Content == "" && len(el.Children) == 0 {
		return nil
	}

	buf.WriteString(el.Content)
	for i, child := range el.Children {
		if err := writeNode(buf, child, path.Child(i)); err != nil {
			return err
		}
	}

	switch end := el.Frame.GetString(metaEnd); {
	case end != "":
		buf.WriteString(end)
	case flag(el.Frame, metaUnclosed):
	default:
		buf.WriteString("</")
		buf.WriteString(el.Type)
		buf.WriteByte('>')
	}
	return nil
}

// writeStartTag writes the source tag when the element still has the
// attributes read from it, and builds a new tag otherwise.
func writeStartTag(buf *bytes.Buffer, el *domain.Element) error {
	if raw := el.Frame.GetString(metaOpen); raw != "" {
		z := html.NewTokenizer(strings.NewReader(raw))
		if tt := z.Next(); tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			tok := z.Token()
			if tok.Data == el.Type && tagAttributes(tok).Equal(el.Attributes) {
				buf.WriteString(raw)
				return nil
			}
		}
	}

	buf.WriteByte('<')
	buf.WriteString(el.Type)
	var err error
	el.Attributes.Each(func(key string, v domain.Value) {
		if err != nil {
			return
		}
		if strings.ContainsAny(key, " \t\r\n<>/=\"'") || key == "" {
			err = fmt.Errorf("%w: bad attribute name %q", domain.ErrInvalidInput, key)
			return
		}
		buf.WriteByte(' ')
		buf.WriteString(key)
		if string(v.Raw()) == "true" && !v.IsString() {
			return
		}
		s, ok := v.AsString()
		if !ok {
			s = string(v.Raw())
		}
		buf.WriteString(`="`)
		buf.WriteString(html.EscapeString(s))
		buf.WriteByte('"')
	})
	if err != nil {
		return err
	}
	buf.WriteByte('>')
	return nil
}

func flag(frame *domain.Attributes, key string) bool {
	v, ok := frame.Get(key)
	return ok && string(v.Raw()) == "true"
}

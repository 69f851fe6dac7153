package bootstrap

import (
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// NewTag builds an element for tag holding content or children. attrs may
// be nil. Tags built here have no frame and are written from their
// attributes.
func NewTag(tag string, attrs *domain.Attributes, content string, children ...*domain.Element) *domain.Element {
	return &domain.Element{
		Type:       tag,
		Attributes: attrs,
		Content:    content,
		Children:   children,
	}
}

// NewText builds a node written out as is.
func NewText(s string) *domain.Element {
	return &domain.Element{Type: TextType, Content: s}
}

// Indent puts every child of built elements on its own line, two spaces
// deeper than its parent. Elements read from a page are left alone.
func Indent(el *domain.Element, depth int) {
	if el == nil || el.Frame != nil || len(el.Children) == 0 {
		return
	}
	pad := "\n" + strings.Repeat("  ", depth+1)
	out := make([]*domain.Element, 0, 2*len(el.Children)+1)
	for _, ch := range el.Children {
		if ch.Type == TextType && strings.TrimSpace(ch.Content) == "" {
			continue
		}
		out = append(out, NewText(pad))
		if ch.Type == TextType {
			ch.Content = strings.TrimSpace(ch.Content)
		}
		Indent(ch, depth+1)
		out = append(out, ch)
	}
	out = append(out, NewText("\n"+strings.Repeat("  ", depth)))
	el.Children = out
}

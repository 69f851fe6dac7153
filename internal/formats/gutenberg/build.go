package gutenberg

import (
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// NewBlock builds a leaf block holding html. Core blocks are written with
// the short name. attrs may be nil.
func NewBlock(name string, attrs *domain.Attributes, html string) *domain.Element {
	el := &domain.Element{
		Type:       name,
		Attributes: attrs,
		Content:    html,
		Frame:      domain.NewAttributes(),
	}
	if strings.HasPrefix(name, "core/") {
		el.Frame.Set(metaShort, domain.MustValue(true))
	}
	return el
}

// NewContainer builds a block whose inner blocks sit between the open and
// close markup, separated by blank lines.
func NewContainer(name string, attrs *domain.Attributes, open, close string, children []*domain.Element) *domain.Element {
	el := NewBlock(name, attrs, "")
	layout := make([]any, 0, 2*len(children)+1)
	layout = append(layout, open)
	for i := range children {
		if i > 0 {
			layout = append(layout, "\n\n")
		}
		layout = append(layout, nil)
	}
	layout = append(layout, close)
	el.Frame.Set(metaInner, domain.MustValue(layout))
	el.Children = children
	return el
}

package shortcode

import "github.com/custodia-labs/pagebridge/internal/core/domain"

// NewTag builds a paired tag. attrs may be nil.
func NewTag(name string, attrs *domain.Attributes, content string, children ...*domain.Element) *domain.Element {
	return &domain.Element{Type: name, Attributes: attrs, Content: content, Children: children}
}

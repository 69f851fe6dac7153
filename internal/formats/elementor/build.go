package elementor

import "github.com/custodia-labs/pagebridge/internal/core/domain"

// NewWidget builds a widget. The envelope is synthesized on write.
func NewWidget(widget string, settings *domain.Attributes) *domain.Element {
	return &domain.Element{Type: WidgetPrefix + widget, Attributes: settings}
}

// NewContainer builds a section or column element.
func NewContainer(elType string, settings *domain.Attributes, children []*domain.Element) *domain.Element {
	return &domain.Element{Type: elType, Attributes: settings, Children: children}
}

package driven

import (
	"context"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// FormatAdapter translates between one page-builder dialect and the
// element tree. Parse followed by Serialize of an unmodified tree must
// reproduce the document.
type FormatAdapter interface {
	// Framework returns the dialect name (elementor, gutenberg, divi, ...).
	Framework() string

	// Extensions returns file extensions (with dot) this dialect is
	// usually stored under.
	Extensions() []string

	// Parse reads a document into a tree.
	Parse(ctx context.Context, data []byte) (*domain.Document, error)

	// Serialize writes a tree back out in this dialect.
	Serialize(ctx context.Context, doc *domain.Document) ([]byte, error)

	// Kind maps an element of this dialect to a universal kind (section,
	// column, heading, text, ...). Unknown elements return "".
	Kind(el *domain.Element) string
}

// SerializeOptions tune Serialize for adapters that support them.
type SerializeOptions struct {
	// Indent pretty-prints structured output.
	Indent bool
}

// ConfigurableSerializer is implemented by adapters whose output layout
// can be tuned.
type ConfigurableSerializer interface {
	SerializeWith(ctx context.Context, doc *domain.Document, opts SerializeOptions) ([]byte, error)
}

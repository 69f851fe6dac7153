// Package formats lists the built-in page-builder dialects.
package formats

import (
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/formats/bootstrap"
	"github.com/custodia-labs/pagebridge/internal/formats/elementor"
	"github.com/custodia-labs/pagebridge/internal/formats/gutenberg"
	"github.com/custodia-labs/pagebridge/internal/formats/shortcode"
)

// Builtin returns a fresh adapter for every supported dialect.
func Builtin() []driven.FormatAdapter {
	return []driven.FormatAdapter{
		elementor.New(),
		gutenberg.New(),
		shortcode.NewDivi(),
		shortcode.NewWPBakery(),
		shortcode.NewAvada(),
		bootstrap.New(),
	}
}

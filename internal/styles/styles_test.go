package styles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/engine"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/formats/bootstrap"
	"github.com/custodia-labs/pagebridge/internal/formats/elementor"
	"github.com/custodia-labs/pagebridge/internal/formats/gutenberg"
	"github.com/custodia-labs/pagebridge/internal/formats/shortcode"
)

func extract(t *testing.T, a driven.FormatAdapter, in string) *domain.DesignTokens {
	t.Helper()
	doc, err := a.Parse(context.Background(), []byte(in))
	require.NoError(t, err)
	elements, err := engine.New(nil).Classify(doc.Root)
	require.NoError(t, err)
	return Extract(doc.Root, elements)
}

func TestExtract_ElementorKitAndSettings(t *testing.T) {
	in := `{"title":"Home","page_settings":{` +
		`"system_colors":[{"_id":"primary","title":"Primary","color":"#6EC1E4"}],` +
		`"system_typography":[{"_id":"primary","title":"Primary","typography_font_family":"Roboto"}]},` +
		`"content":[{"id":"a","elType":"section","settings":{"background_color":"#FFF",` +
		`"padding":{"unit":"px","top":"20","right":"0","bottom":"20","left":"0","isLinked":false}},"elements":[` +
		`{"id":"w","elType":"widget","widgetType":"heading","settings":{"title":"Hi","typography_font_family":"Open Sans",` +
		`"typography_font_weight":"600","_margin":{"unit":"px","top":"10","right":"","bottom":"","left":""}},"elements":[]}]}]}`

	got := extract(t, elementor.New(), in)
	assert.Equal(t, []domain.Token{
		{Name: "primary", Value: "#6ec1e4", Uses: 0},
		{Name: "1", Value: "#ffffff", Uses: 1},
	}, got.Colors)
	assert.Equal(t, []domain.Token{
		{Name: "primary", Value: "Roboto", Uses: 0},
		{Name: "open-sans", Value: "Open Sans", Uses: 1},
	}, got.Fonts)
	assert.Equal(t, []domain.Token{
		{Name: "1", Value: "10px", Uses: 1},
		{Name: "2", Value: "20px", Uses: 2},
	}, got.Spacing)
}

func TestExtract_DiviShortcodes(t *testing.T) {
	in := `[et_pb_section custom_padding="10px|20px|10px|20px|false|false" background_color="rgba(0, 0, 0, 0.5)"]` +
		`[et_pb_text body_font="Open Sans|700|||||||" border_color_all="#333"]x[/et_pb_text][/et_pb_section]`

	got := extract(t, shortcode.NewDivi(), in)
	assert.Equal(t, []domain.Token{
		{Name: "1", Value: "rgba(0,0,0,0.5)", Uses: 1},
		{Name: "2", Value: "#333333", Uses: 1},
	}, got.Colors)
	assert.Equal(t, []domain.Token{{Name: "open-sans", Value: "Open Sans", Uses: 1}}, got.Fonts)
	assert.Equal(t, []domain.Token{
		{Name: "1", Value: "10px", Uses: 2},
		{Name: "2", Value: "20px", Uses: 2},
	}, got.Spacing)
}

func TestExtract_GutenbergStyleObject(t *testing.T) {
	in := `<!-- wp:paragraph {"style":{"color":{"text":"#111111"},"spacing":{"padding":{"top":"2em"}},` +
		`"typography":{"fontFamily":"var:preset|font-family|inter"}}} -->` + "\n<p>x</p>\n<!-- /wp:paragraph -->"

	got := extract(t, gutenberg.New(), in)
	assert.Equal(t, []domain.Token{{Name: "1", Value: "#111111", Uses: 1}}, got.Colors)
	assert.Empty(t, got.Fonts)
	assert.Equal(t, []domain.Token{{Name: "1", Value: "2em", Uses: 1}}, got.Spacing)
}

func TestExtract_BootstrapStylesheetsAndInlineStyles(t *testing.T) {
	in := `<html><head><style>.hero { color: #0d6efd; font-family: "Inter", sans-serif; padding: 3rem 0 }</style></head>` +
		`<body><div class="col" style="margin: 1rem; background: hsl(0, 100%, 50%)">x</div></body></html>`

	got := extract(t, bootstrap.New(), in)
	assert.Equal(t, []domain.Token{
		{Name: "1", Value: "#ff0000", Uses: 1},
		{Name: "2", Value: "#0d6efd", Uses: 1},
	}, got.Colors)
	assert.Equal(t, []domain.Token{{Name: "inter", Value: "Inter", Uses: 1}}, got.Fonts)
	assert.Equal(t, []domain.Token{
		{Name: "1", Value: "1rem", Uses: 1},
		{Name: "2", Value: "3rem", Uses: 1},
	}, got.Spacing)
}

func TestExtract_Empty(t *testing.T) {
	got := Extract(nil, nil)
	assert.True(t, got.Empty())
	assert.Equal(t, ":root {\n}\n", CSS(got))
}

func TestCSS(t *testing.T) {
	tokens := &domain.DesignTokens{
		Colors:  []domain.Token{{Name: "primary", Value: "#6ec1e4"}, {Name: "1", Value: "#333333"}},
		Fonts:   []domain.Token{{Name: "open-sans", Value: "Open Sans"}, {Name: "arial", Value: "Arial"}},
		Spacing: []domain.Token{{Name: "1", Value: "10px"}},
	}

	want := "@import url('https://fonts.googleapis.com/css2?family=Open+Sans&display=swap');\n\n" +
		":root {\n" +
		"  --color-primary: #6ec1e4;\n" +
		"  --color-1: #333333;\n" +
		"  --font-open-sans: 'Open Sans', sans-serif;\n" +
		"  --font-arial: 'Arial', sans-serif;\n" +
		"  --spacing-1: 10px;\n" +
		"}\n"
	assert.Equal(t, want, CSS(tokens))
}

func TestNormColor(t *testing.T) {
	tests := map[string]string{
		"#FFF":                     "#ffffff",
		"#6EC1E4":                  "#6ec1e4",
		"#00000080":                "#00000080",
		"rgb(255, 0, 0)":           "#ff0000",
		"RGBA(0, 0, 255, 1)":       "#0000ff",
		"rgba(0, 0, 0, 0.5)":       "rgba(0,0,0,0.5)",
		"rgb(0 128 0)":             "#008000",
		"hsl(120, 100%, 25%)":      "#008000",
		"hsla(0deg, 100%, 50%, 1)": "#ff0000",
		"#12":                      "",
		"rgb(1, 2)":                "",
		"cmyk(0, 0, 0, 0)":         "",
		"":                         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, normColor(in), in)
	}
}

func TestFontFamily(t *testing.T) {
	tests := map[string]string{
		"Roboto":                         "Roboto",
		"'Open Sans', sans-serif":        "Open Sans",
		`"Inter"`:                        "Inter",
		"Lato|700|on||||||":              "Lato",
		"sans-serif":                     "",
		"Default":                        "",
		"var:preset|font-family|inter":   "",
		"var(--wp--preset--font-family)": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, fontFamily(in), in)
	}
}

func TestSpacingKeys(t *testing.T) {
	assert.True(t, isSpacingKey(normKey("custom_padding")))
	assert.True(t, isSpacingKey(normKey("_margin")))
	assert.True(t, isSpacingKey(normKey("column-gap")))
	assert.False(t, isSpacingKey(normKey("letter_spacing")))
	assert.False(t, isSpacingKey(normKey("font_size")))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "open-sans", slug("Open Sans"))
	assert.Equal(t, "accent-2", slug(" Accent #2 "))
	assert.Equal(t, "", slug("--"))
}

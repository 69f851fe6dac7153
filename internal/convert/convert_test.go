package convert

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/formats/bootstrap"
	"github.com/custodia-labs/pagebridge/internal/formats/elementor"
	"github.com/custodia-labs/pagebridge/internal/formats/gutenberg"
	"github.com/custodia-labs/pagebridge/internal/formats/shortcode"
)

const elementorPage = `[{"id":"a1","elType":"section","settings":{},"elements":[{"id":"b1","elType":"column","settings":{"_column_size":100},"elements":[` +
	`{"id":"c1","elType":"widget","widgetType":"heading","settings":{"title":"Welcome","header_size":"h3"},"elements":[]},` +
	`{"id":"c2","elType":"widget","widgetType":"text-editor","settings":{"editor":"<p>Hello <strong>there</strong></p>"},"elements":[]},` +
	`{"id":"c3","elType":"widget","widgetType":"button","settings":{"text":"Go","link":{"url":"/go","is_external":""}},"elements":[]}` +
	`]}]}]`

const gutenbergPost = `<!-- wp:heading {"level":3} -->
<h3 class="wp-block-heading">Welcome</h3>
<!-- /wp:heading -->

<!-- wp:paragraph -->
<p>First</p>
<!-- /wp:paragraph -->

<!-- wp:image {"id":12} -->
<figure class="wp-block-image"><img src="/a.png" alt="A"/></figure>
<!-- /wp:image -->
`

// convertBytes parses in with from, converts to target and serializes.
func convertBytes(t *testing.T, from, to driven.FormatAdapter, in string) (string, *Result) {
	t.Helper()
	ctx := context.Background()
	doc, err := from.Parse(ctx, []byte(in))
	require.NoError(t, err)

	res, err := New(nil).Convert(doc, from, to.Framework())
	require.NoError(t, err)

	out, err := to.Serialize(ctx, res.Document)
	require.NoError(t, err)
	return string(out), res
}

func TestConverter_Targets(t *testing.T) {
	c := New(nil)
	assert.Equal(t, []string{"avada", "bootstrap", "divi", "elementor", "gutenberg", "wpbakery"}, c.Targets())
	for _, target := range c.Targets() {
		assert.Equal(t, Kinds, c.Kinds(target), target)
	}
	assert.Nil(t, c.Kinds("joomla"))
	assert.True(t, c.Supports("divi"))
	assert.False(t, c.Supports("joomla"))
}

func TestConvert_ElementorToGutenberg(t *testing.T) {
	out, res := convertBytes(t, elementor.New(), gutenberg.New(), elementorPage)
	assert.Empty(t, res.Unmapped)

	assert.True(t, strings.HasPrefix(out, "<!-- wp:group -->\n<div class=\"wp-block-group\"><!-- wp:columns -->"), out)
	assert.Contains(t, out, "<!-- wp:heading {\"level\":3} -->\n<h3 class=\"wp-block-heading\">Welcome</h3>\n<!-- /wp:heading -->")
	assert.Contains(t, out, "<!-- wp:paragraph -->\n<p>Hello <strong>there</strong></p>\n<!-- /wp:paragraph -->")
	assert.Contains(t, out, `<a class="wp-block-button__link wp-element-button" href="/go">Go</a>`)

	back, err := gutenberg.New().Parse(context.Background(), []byte(out))
	require.NoError(t, err)
	group := back.Root.Children[0]
	assert.Equal(t, "core/group", group.Type)
	column := group.Children[0].Children[0]
	assert.Equal(t, "core/column", column.Type)

	var kinds []string
	for _, el := range column.Children {
		kinds = append(kinds, gutenberg.New().Kind(el))
	}
	assert.Equal(t, []string{"heading", "text", ""}, kinds)
	assert.Equal(t, "core/buttons", column.Children[2].Type)
}

func TestConvert_GutenbergToElementor(t *testing.T) {
	out, res := convertBytes(t, gutenberg.New(), elementor.New(), gutenbergPost)
	assert.Empty(t, res.Unmapped)

	back, err := elementor.New().Parse(context.Background(), []byte(out))
	require.NoError(t, err)
	require.Len(t, back.Root.Children, 1)

	section := back.Root.Children[0]
	assert.Equal(t, "section", section.Type)
	require.Len(t, section.Children, 1)
	column := section.Children[0]
	assert.Equal(t, "column", column.Type)
	v, _ := column.Attributes.Get("_column_size")
	assert.Equal(t, "100", string(v.Raw()))

	require.Len(t, column.Children, 3)
	heading, text, image := column.Children[0], column.Children[1], column.Children[2]
	assert.Equal(t, "widget:heading", heading.Type)
	assert.Equal(t, "Welcome", heading.Attributes.GetString("title"))
	assert.Equal(t, "h3", heading.Attributes.GetString("header_size"))
	assert.Equal(t, "widget:text-editor", text.Type)
	assert.Equal(t, "<p>First</p>", text.Attributes.GetString("editor"))

	assert.Equal(t, "widget:image", image.Type)
	var img map[string]string
	v, _ = image.Attributes.Get("image")
	require.NoError(t, v.Decode(&img))
	assert.Equal(t, "/a.png", img["url"])
	assert.Equal(t, "A", img["alt"])
}

func TestConvert_ElementorToDivi(t *testing.T) {
	out, _ := convertBytes(t, elementor.New(), shortcode.NewDivi(), elementorPage)
	assert.Equal(t,
		`[et_pb_section][et_pb_row][et_pb_column type="4_4"]`+
			`[et_pb_text]<h3>Welcome</h3>[/et_pb_text]`+
			`[et_pb_text]<p>Hello <strong>there</strong></p>[/et_pb_text]`+
			`[et_pb_button button_url="/go" button_text="Go"][/et_pb_button]`+
			`[/et_pb_column][/et_pb_row][/et_pb_section]`,
		out)

	back, err := shortcode.NewDivi().Parse(context.Background(), []byte(out))
	require.NoError(t, err)
	heading := back.Root.Children[0].Children[0].Children[0].Children[0]
	assert.Equal(t, "heading", shortcode.NewDivi().Kind(heading))
}

func TestConvert_DiviInnerRowToWPBakery(t *testing.T) {
	in := `[et_pb_section][et_pb_row][et_pb_column type="4_4"][et_pb_row_inner]` +
		`[et_pb_column_inner type="1_2"][et_pb_text]a[/et_pb_text][/et_pb_column_inner]` +
		`[et_pb_column_inner type="1_2"][et_pb_text]b[/et_pb_text][/et_pb_column_inner]` +
		`[/et_pb_row_inner][/et_pb_column][/et_pb_row][/et_pb_section]`

	out, _ := convertBytes(t, shortcode.NewDivi(), shortcode.NewWPBakery(), in)
	assert.Equal(t,
		`[vc_row][vc_column][vc_row_inner]`+
			`[vc_column_inner width="1/2"][vc_column_text]a[/vc_column_text][/vc_column_inner]`+
			`[vc_column_inner width="1/2"][vc_column_text]b[/vc_column_text][/vc_column_inner]`+
			`[/vc_row_inner][/vc_column][/vc_row]`,
		out)
}

func TestConvert_EncodedPayloadAcrossDialects(t *testing.T) {
	in := `[vc_row][vc_column][vc_raw_html]JTNDcCUyMGNsYXNzJTNEJTIyeCUyMiUzRWhpJTIwdGhlcmUlM0MlMkZwJTNF[/vc_raw_html][/vc_column][/vc_row]`

	out, _ := convertBytes(t, shortcode.NewWPBakery(), shortcode.NewAvada(), in)
	assert.Equal(t,
		`[fusion_builder_container][fusion_builder_row][fusion_builder_column type="1_1"]`+
			`[fusion_code]PHAgY2xhc3M9IngiPmhpIHRoZXJlPC9wPg==[/fusion_code]`+
			`[/fusion_builder_column][/fusion_builder_row][/fusion_builder_container]`,
		out)

	out, _ = convertBytes(t, shortcode.NewWPBakery(), gutenberg.New(), in)
	assert.Contains(t, out, "<!-- wp:html --><p class=\"x\">hi there</p><!-- /wp:html -->")
}

const bootstrapPage = `<!DOCTYPE html>
<html><head><title>Landing</title><script>var x = 1;</script></head>
<body>
<!-- hero -->
<section class="py-5"><div class="container"><div class="row">
<div class="col-md-6"><h2>Hi <em>there</em></h2><p>Body</p></div>
<div class="col-md-6"><img src="/a.png" alt="A"><a class="btn btn-primary" href="/go">Go</a></div>
</div></div></section>
</body></html>
`

func TestConvert_ElementorToBootstrap(t *testing.T) {
	out, res := convertBytes(t, elementor.New(), bootstrap.New(), elementorPage)
	assert.Empty(t, res.Unmapped)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>\n<html lang=\"en\">\n  <head>"), out)
	assert.Contains(t, out, `<link href="`+BootstrapCSS+`" rel="stylesheet">`)
	assert.Contains(t, out, "<section class=\"py-5\">\n      <div class=\"container\">\n        <div class=\"row\">\n          <div class=\"col-12\">")
	assert.Contains(t, out, "<h3>Welcome</h3>")
	assert.Contains(t, out, "<p>Hello <strong>there</strong></p>")
	assert.Contains(t, out, `<a href="/go" class="btn btn-primary">Go</a>`)
	assert.Contains(t, out, `<script src="`+BootstrapJS+`"></script>`)

	ctx := context.Background()
	back, err := bootstrap.New().Parse(ctx, []byte(out))
	require.NoError(t, err)
	again, err := bootstrap.New().Serialize(ctx, back)
	require.NoError(t, err)
	assert.Equal(t, out, string(again))
}

func TestConvert_BootstrapToGutenberg(t *testing.T) {
	out, res := convertBytes(t, bootstrap.New(), gutenberg.New(), bootstrapPage)
	assert.Empty(t, res.Unmapped)

	assert.True(t, strings.HasPrefix(out, "<!-- wp:group -->"), out)
	assert.Contains(t, out, "<!-- wp:heading -->\n<h2 class=\"wp-block-heading\">Hi there</h2>\n<!-- /wp:heading -->")
	assert.Contains(t, out, "<!-- wp:paragraph -->\n<p>Body</p>\n<!-- /wp:paragraph -->")
	assert.Contains(t, out, `<img src="/a.png" alt="A"/>`)
	assert.Contains(t, out, `href="/go">Go</a>`)
	assert.Equal(t, 2, strings.Count(out, "<!-- wp:column -->"))
	assert.Equal(t, 1, strings.Count(out, "<!-- wp:heading"))
	assert.NotContains(t, out, "Landing")
	assert.NotContains(t, out, "var x")
	assert.NotContains(t, out, "hero")
}

func TestConvert_BootstrapColumnWidths(t *testing.T) {
	assert.Equal(t, "col-12", columnClass(1))
	assert.Equal(t, "col-12 col-md-6", columnClass(2))
	assert.Equal(t, "col-12 col-md-4", columnClass(3))
	assert.Equal(t, "col-12 col-md", columnClass(5))
}

func TestConvert_BootstrapVideo(t *testing.T) {
	in := "<!-- wp:embed {\"url\":\"https://www.youtube.com/watch?v=abc123\"} -->\n<figure class=\"wp-block-embed\"></figure>\n<!-- /wp:embed -->"
	out, res := convertBytes(t, gutenberg.New(), bootstrap.New(), in)
	assert.Empty(t, res.Unmapped)
	assert.Contains(t, out, `<div class="ratio ratio-16x9">`)
	assert.Contains(t, out, `<iframe src="https://www.youtube.com/embed/abc123" title="Video" allowfullscreen></iframe>`)

	assert.Equal(t, "xyz", youTubeID("https://youtu.be/xyz"))
	assert.Equal(t, "", youTubeID("https://example.com/a.mp4"))
}

func TestConvert_UnmappedElements(t *testing.T) {
	in := `[{"id":"w1","elType":"widget","widgetType":"icon-list","settings":{"icon_list":[{"icon":"star"}]},"elements":[]},` +
		`{"id":"w2","elType":"widget","widgetType":"testimonial","settings":{"testimonial_content":"Great","testimonial_name":"Ann"},"elements":[]}]`

	out, res := convertBytes(t, elementor.New(), shortcode.NewDivi(), in)
	assert.Equal(t, []string{"0:widget:icon-list", "1:widget:testimonial"}, res.Unmapped)
	assert.Equal(t, `[et_pb_section][et_pb_row][et_pb_column type="4_4"][et_pb_text]Great[/et_pb_text][/et_pb_column][/et_pb_row][/et_pb_section]`, out)
}

func TestConvert_UnknownContainersAreUnwrapped(t *testing.T) {
	in := "<!-- wp:acme/slider -->\n<div><!-- wp:paragraph -->\n<p>Slide</p>\n<!-- /wp:paragraph --></div>\n<!-- /wp:acme/slider -->"

	out, res := convertBytes(t, gutenberg.New(), shortcode.NewAvada(), in)
	assert.Equal(t, []string{"0:acme/slider"}, res.Unmapped)
	assert.Contains(t, out, "[fusion_text]<p>Slide</p>[/fusion_text]")
	assert.NotContains(t, out, "slider")
}

func TestConvert_SameFrameworkKeepsDocumentSettings(t *testing.T) {
	in := `{"title":"Home","version":"0.4","content":` + elementorPage + `}`
	out, _ := convertBytes(t, elementor.New(), elementor.New(), in)
	assert.True(t, strings.HasPrefix(out, `{"title":"Home","version":"0.4","content":[`), out)
}

func TestConvert_Errors(t *testing.T) {
	c := New(nil)
	doc := &domain.Document{Root: &domain.Element{Type: "document"}}

	_, err := c.Convert(doc, elementor.New(), "joomla")
	assert.ErrorIs(t, err, domain.ErrUnsupportedConversion)

	_, err = c.Convert(nil, elementor.New(), "divi")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	doc.Root.Children = []*domain.Element{nil}
	_, err = c.Convert(doc, elementor.New(), "divi")
	assert.ErrorIs(t, err, domain.ErrMalformedTree)
}

func TestConvert_EmptyDocument(t *testing.T) {
	out, res := convertBytes(t, gutenberg.New(), elementor.New(), "\n\n")
	assert.Empty(t, res.Unmapped)
	assert.Equal(t, "[]", out)
}

func TestFields(t *testing.T) {
	c := New(nil)
	src := shortcode.NewWPBakery()

	heading := shortcode.NewTag("vc_custom_heading", attrs("text", "Hi", "font_container", "tag:h4|text_align:left"), "")
	f := c.fields(KindHeading, heading, src)
	assert.Equal(t, "Hi", f.Text)
	assert.Equal(t, 4, f.Level)

	button := shortcode.NewTag("vc_btn", attrs("title", "Buy", "link", "url:%2Fshop%3Fa%3D1|title:Shop||"), "")
	f = c.fields(KindButton, button, src)
	assert.Equal(t, "Buy", f.Text)
	assert.Equal(t, "/shop?a=1", f.Link)

	video := shortcode.NewTag("vc_video", attrs("link", "https://youtu.be/x"), "")
	f = c.fields(KindVideo, video, src)
	assert.Equal(t, "https://youtu.be/x", f.URL)

	frame := shortcode.NewTag("fusion_imageframe", attrs("alt", "Logo"), " https://x.test/logo.png ")
	f = c.fields(KindImage, frame, shortcode.NewAvada())
	assert.Equal(t, "https://x.test/logo.png", f.URL)
	assert.Equal(t, "Logo", f.Alt)

	plain := shortcode.NewTag("fusion_title", nil, "Tom & Jerry")
	f = c.fields(KindHeading, plain, shortcode.NewAvada())
	assert.Equal(t, "Tom & Jerry", f.Text)
	assert.Equal(t, 2, f.Level)
}

package elementor

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/engine"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
)

const exportDoc = `{"version":"0.4","title":"Landing","type":"page","content":[` +
	`{"id":"a1b2c3d","elType":"section","settings":{"background_color":"#fff","padding":{"unit":"px","top":"10"},"padding_tablet":{"unit":"px","top":"5"}},"elements":[` +
	`{"id":"c0l1","elType":"column","settings":{"_column_size":100},"elements":[` +
	`{"id":"h1x","elType":"widget","settings":{"title":"Hello <em>world<\/em>","header_size":"h2","title_tablet":"Hi"},"elements":[],"widgetType":"heading"},` +
	`{"id":"t1x","elType":"widget","settings":[],"elements":[],"widgetType":"divider"}` +
	`],"isInner":false}` +
	`],"isInner":false}` +
	`],"page_settings":[]}`

func parse(t *testing.T, in string) *domain.Document {
	t.Helper()
	doc, err := New().Parse(context.Background(), []byte(in))
	require.NoError(t, err)
	return doc
}

func serialize(t *testing.T, doc *domain.Document) string {
	t.Helper()
	out, err := New().Serialize(context.Background(), doc)
	require.NoError(t, err)
	return string(out)
}

func TestAdapter_Metadata(t *testing.T) {
	a := New()
	assert.Equal(t, "elementor", a.Framework())
	assert.Equal(t, []string{".json"}, a.Extensions())
}

func TestParse_Wrapper(t *testing.T) {
	doc := parse(t, exportDoc)

	assert.Equal(t, Framework, doc.Framework)
	root := doc.Root
	assert.Equal(t, RootType, root.Type)
	assert.Equal(t, []string{"version", "title", "type", "page_settings"}, root.Attributes.Keys())
	require.Len(t, root.Children, 1)

	section := root.Children[0]
	assert.Equal(t, "section", section.Type)
	assert.Equal(t, []string{"background_color", "padding", "padding_tablet"}, section.Attributes.Keys())

	heading := root.Find(domain.Path{0, 0, 0})
	require.NotNil(t, heading)
	assert.Equal(t, "widget:heading", heading.Type)
	assert.Equal(t, "Hello <em>world</em>", heading.Attributes.GetString("title"))
	assert.Equal(t, "h1x", heading.Frame.GetString("id"))

	divider := root.Find(domain.Path{0, 0, 1})
	require.NotNil(t, divider)
	assert.Nil(t, divider.Attributes)
}

func TestRoundTrip_ByteIdentical(t *testing.T) {
	tests := map[string]string{
		"wrapper":          exportDoc,
		"array":            `[{"id":"s1","elType":"section","settings":{"gap":"no"},"elements":[]}]`,
		"element":          `{"id":"w1","elType":"widget","settings":{"editor":"<p>x<\/p>"},"elements":[],"widgetType":"text-editor"}`,
		"elements wrapper": `{"title":"T","elements":[]}`,
		"extra envelope":   `[{"id":"s1","elType":"section","isInner":true,"settings":{},"elements":[],"editSettings":{"defaultEditRoute":"content"}}]`,
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, in, serialize(t, parse(t, in)))
		})
	}
}

func TestRoundTrip_PrettyInputCompacts(t *testing.T) {
	var pretty bytes.Buffer
	require.NoError(t, json.Indent(&pretty, []byte(exportDoc), "", "  "))

	doc := parse(t, pretty.String())
	assert.Equal(t, exportDoc, serialize(t, doc))
}

func TestSerializeWith_Indent(t *testing.T) {
	doc := parse(t, exportDoc)
	out, err := New().SerializeWith(context.Background(), doc, driven.SerializeOptions{Indent: true})
	require.NoError(t, err)

	assert.Contains(t, string(out), "\n    \"version\": \"0.4\"")
	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, out))
	assert.Equal(t, exportDoc, compact.String())
}

func TestIdentityTransform_RoundTrip(t *testing.T) {
	doc := parse(t, exportDoc)
	res, err := engine.New(nil).Transform(doc.Root, domain.AllZones(), engine.Identity)
	require.NoError(t, err)

	out := serialize(t, &domain.Document{Framework: Framework, Root: res.Tree})
	assert.Equal(t, exportDoc, out)
}

func TestContentTransform_KeepsStyling(t *testing.T) {
	doc := parse(t, exportDoc)
	rename := func(z domain.Zone) (domain.Zone, error) {
		if z.Data.Has("title") {
			z.Data.Set("title", domain.StringValue("Bonjour"))
		}
		return z, nil
	}
	res, err := engine.New(nil).Transform(doc.Root, domain.NewZoneSet(domain.ZoneContent), rename)
	require.NoError(t, err)

	out := serialize(t, &domain.Document{Framework: Framework, Root: res.Tree})
	assert.Contains(t, out, `"title":"Bonjour","header_size":"h2","title_tablet":"Hi"`)
	assert.Contains(t, out, `"padding":{"unit":"px","top":"10"}`)
	assert.Contains(t, out, `{"version":"0.4","title":"Bonjour"`)
}

func TestSerialize_AddedKeysOnEmptySettings(t *testing.T) {
	doc := parse(t, `[{"id":"d1","elType":"widget","settings":[],"elements":[],"widgetType":"divider"}]`)
	divider := doc.Root.Children[0]
	divider.Attributes = domain.NewAttributes()
	divider.Attributes.Set("color", domain.StringValue("#000"))

	out := serialize(t, doc)
	assert.Equal(t, `[{"id":"d1","elType":"widget","settings":{"color":"#000"},"elements":[],"widgetType":"divider"}]`, out)
}

func TestSerialize_WrapperDropsRemovedKeys(t *testing.T) {
	doc := parse(t, `{"version":"0.4","title":"T","content":[]}`)
	doc.Root.Attributes.Delete("title")
	doc.Root.Attributes.Set("type", domain.StringValue("page"))

	assert.Equal(t, `{"version":"0.4","content":[],"type":"page"}`, serialize(t, doc))
}

func TestSerialize_SynthesizedEnvelope(t *testing.T) {
	section := domain.NewElement("section")
	column := domain.NewElement("column")
	column.Attributes.Set("_column_size", domain.MustValue(100))
	heading := domain.NewElement("widget:heading")
	heading.Attributes.Set("title", domain.StringValue("New"))
	section.Append(column.Append(heading))

	root := &domain.Element{Type: RootType}
	root.Append(section)

	out := serialize(t, &domain.Document{Framework: Framework, Root: root})

	back := parse(t, out)
	h := back.Root.Find(domain.Path{0, 0, 0})
	require.NotNil(t, h)
	assert.Equal(t, "widget:heading", h.Type)
	assert.Equal(t, "New", h.Attributes.GetString("title"))
	assert.Equal(t, NewID(domain.Path{0, 0, 0}, "widget:heading"), h.Frame.GetString("id"))
	assert.Len(t, h.Frame.GetString("id"), 7)
	assert.Equal(t, "heading", back.Root.Find(domain.Path{0, 0, 0}).Frame.GetString("widgetType"))
}

func TestSerialize_ConvertedRootWithAttributes(t *testing.T) {
	root := domain.NewElement(RootType)
	root.Attributes.Set("title", domain.StringValue("Converted"))

	assert.Equal(t, `{"title":"Converted","content":[]}`, serialize(t, &domain.Document{Framework: Framework, Root: root}))
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":        "  ",
		"scalar":       `"text"`,
		"no elements":  `{"title":"x"}`,
		"bad element":  `[1]`,
		"broken json":  `[{"id":`,
		"bad child":    `[{"elType":"section","elements":["x"]}]`,
		"bad settings": `[{"elType":"section","settings":{"a":}}]`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New().Parse(context.Background(), []byte(in))
			assert.Error(t, err)
		})
	}
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Parse(ctx, []byte(exportDoc))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSerialize_NilDocument(t *testing.T) {
	_, err := New().Serialize(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKind(t *testing.T) {
	doc := parse(t, `[{"id":"s","elType":"section","isInner":true,"settings":{},"elements":[]},{"id":"s2","elType":"container","settings":{},"elements":[]}]`)
	a := New()

	assert.Equal(t, "row", a.Kind(doc.Root.Children[0]))
	assert.Equal(t, "section", a.Kind(doc.Root.Children[1]))

	tests := map[string]string{
		"column":             "column",
		"widget:heading":     "heading",
		"widget:text-editor": "text",
		"widget:image":       "image",
		"widget:button":      "button",
		"widget:video":       "video",
		"widget:html":        "html",
		"widget:icon-list":   "",
		"document":           "",
	}
	for typ, want := range tests {
		assert.Equal(t, want, a.Kind(domain.NewElement(typ)), typ)
	}
	assert.Equal(t, "", a.Kind(nil))
}

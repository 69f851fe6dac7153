package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

func element(keys ...string) *domain.Element {
	el := domain.NewElement("widget:test")
	for _, k := range keys {
		el.Attributes.Set(k, domain.StringValue(k+"-value"))
	}
	return el
}

func zoneKeys(zones []domain.Zone) map[domain.ZoneType][]string {
	out := make(map[domain.ZoneType][]string)
	for _, z := range zones {
		out[z.Type] = z.Keys()
	}
	return out
}

func TestZoneOf_DefaultTable(t *testing.T) {
	c := New()

	tests := []struct {
		key  string
		want domain.ZoneType
	}{
		{"elType", domain.ZoneStructural},
		{"id", domain.ZoneStructural},
		{"_column_size", domain.ZoneStructural},
		{"title", domain.ZoneContent},
		{"editor", domain.ZoneContent},
		{"button_text", domain.ZoneContent},
		{"image", domain.ZoneContent},
		{"link", domain.ZoneContent},
		{"background_color", domain.ZoneStyling},
		{"background_image", domain.ZoneStyling},
		{"padding", domain.ZoneStyling},
		{"header_size", domain.ZoneStyling},
		{"typography_font_family", domain.ZoneStyling},
		{"hover_animation", domain.ZoneBehavioral},
		{"motion_fx_scrolling", domain.ZoneBehavioral},
		{"_element_id", domain.ZoneMeta},
		{"button_type", domain.ZoneMeta},
		{"admin_label", domain.ZoneContent},
		{"totally_unknown", domain.ZoneMeta},
		{"", domain.ZoneMeta},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ZoneOf(tt.key))
		})
	}
}

func TestZoneOf_ExactIsCaseSensitive(t *testing.T) {
	c := New()
	assert.Equal(t, domain.ZoneStructural, c.ZoneOf("elType"))
	assert.Equal(t, domain.ZoneMeta, c.ZoneOf("ELTYPE"))
}

func TestZoneOf_ContainsIsCaseInsensitive(t *testing.T) {
	c := New()
	assert.Equal(t, domain.ZoneStyling, c.ZoneOf("BackgroundColor"))
	assert.Equal(t, domain.ZoneContent, c.ZoneOf("SubTitle"))
}

func TestZoneOf_FirstMatchWins(t *testing.T) {
	c := New()

	// Both content ("title") and styling ("color") substrings: the content
	// rule is earlier in the table.
	assert.Equal(t, domain.ZoneContent, c.ZoneOf("title_color"))
	// Styling precedes behavioral.
	assert.Equal(t, domain.ZoneStyling, c.ZoneOf("hover_color"))
}

// The suffix list in effect for these tests, spelled out so a change to the
// defaults is a deliberate, reviewed change.
var documentedSuffixes = []string{
	"__hover_enabled",
	"_last_edited",
	"_mobile_extra",
	"_tablet_extra",
	"_widescreen",
	"__sticky",
	"__hover",
	"_laptop",
	"_tablet",
	"_mobile",
	"_phone",
}

func TestDefaultSuffixes(t *testing.T) {
	assert.ElementsMatch(t, documentedSuffixes, New().Suffixes())
}

func TestBaseKey(t *testing.T) {
	c := New()

	tests := []struct {
		key  string
		want string
	}{
		{"spacing", "spacing"},
		{"spacing_tablet", "spacing"},
		{"spacing_mobile", "spacing"},
		{"spacing_mobile_extra", "spacing"},
		{"spacing_tablet_extra", "spacing"},
		{"font_size_phone", "font_size"},
		{"font_size_last_edited", "font_size"},
		{"background_color__hover", "background_color"},
		{"background_color__hover_enabled", "background_color"},
		{"padding__sticky_tablet", "padding"},
		{"_tablet", "_tablet"},
		{"_mobile", "_mobile"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, c.BaseKey(tt.key))
		})
	}
}

func TestClassify_ResponsiveOverrideCohesion(t *testing.T) {
	el := domain.NewElement("section")
	el.Attributes.Set("spacing", domain.MustValue(map[string]any{"size": 10, "unit": "px"}))
	el.Attributes.Set("spacing_tablet", domain.MustValue(map[string]any{"size": 8, "unit": "px"}))
	el.Attributes.Set("spacing_mobile", domain.MustValue(map[string]any{"size": 4, "unit": "px"}))

	zones := New().Classify(el, domain.Path{})

	require.Len(t, zones, 1)
	assert.Equal(t, domain.ZoneStyling, zones[0].Type)
	assert.Equal(t, []string{"spacing", "spacing_tablet", "spacing_mobile"}, zones[0].OriginalKeys)
}

func TestClassify_OverrideInheritsBaseZoneOverOwnMatch(t *testing.T) {
	c := New()

	// Unstripped, "_inline_size_tablet" would hit the styling "size" rule
	// and "columns_mobile" would fall to meta.
	assert.Equal(t, domain.ZoneStructural, c.ZoneOf("_inline_size"))
	assert.Equal(t, domain.ZoneStructural, c.ZoneOf("_inline_size_tablet"))
	assert.Equal(t, domain.ZoneStructural, c.ZoneOf("columns_mobile"))

	el := element("_inline_size", "_inline_size_tablet", "_inline_size_mobile", "columns", "columns_mobile")
	zones := c.Classify(el, domain.Path{0})

	require.Len(t, zones, 1)
	assert.Equal(t, domain.ZoneStructural, zones[0].Type)
}

func TestClassify_CustomSuffixes(t *testing.T) {
	c := New(WithSuffixes("_small"))

	assert.Equal(t, domain.ZoneStructural, c.ZoneOf("columns_small"))
	assert.Equal(t, domain.ZoneMeta, c.ZoneOf("columns_tablet"))
}

func TestClassify_StablePartition(t *testing.T) {
	el := element("id", "title", "background_color", "title_tablet", "custom", "hover_animation", "description", "padding")

	zones := New().Classify(el, domain.Path{1, 2})
	keys := zoneKeys(zones)

	assert.Equal(t, []string{"id"}, keys[domain.ZoneStructural])
	assert.Equal(t, []string{"title", "title_tablet", "description"}, keys[domain.ZoneContent])
	assert.Equal(t, []string{"background_color", "padding"}, keys[domain.ZoneStyling])
	assert.Equal(t, []string{"hover_animation"}, keys[domain.ZoneBehavioral])
	assert.Equal(t, []string{"custom"}, keys[domain.ZoneMeta])

	var order []domain.ZoneType
	for _, z := range zones {
		order = append(order, z.Type)
		assert.Equal(t, "1/2", z.Path.String())
		assert.Equal(t, z.OriginalKeys, z.Keys())
	}
	assert.Equal(t, domain.AllZoneTypes, order)
}

func TestClassify_CoverageIsExact(t *testing.T) {
	keys := []string{
		"id", "title", "title_tablet", "size", "header_size", "link", "hover_animation",
		"_css_classes", "_element_id", "align_mobile", "motion_fx_motion_fx_scrolling",
		"editor", "html_tag", "button_type", "background_background",
	}
	el := element(keys...)

	zones := New().Classify(el, domain.Path{})

	seen := make(map[string]int)
	for _, z := range zones {
		for _, k := range z.Keys() {
			seen[k]++
		}
	}
	assert.Len(t, seen, len(keys))
	for _, k := range keys {
		assert.Equal(t, 1, seen[k], "key %q must be in exactly one zone", k)
	}
	assert.LessOrEqual(t, len(zones), 5)
}

func TestClassify_ContentPayload(t *testing.T) {
	el := domain.NewElement("core/paragraph")
	el.Attributes.Set("align", domain.StringValue("center"))
	el.Content = "<p>Hello</p>"

	zones := New().Classify(el, domain.Path{})
	require.Len(t, zones, 2)

	assert.Equal(t, domain.ZoneContent, zones[0].Type)
	require.NotNil(t, zones[0].Content)
	assert.Equal(t, "<p>Hello</p>", *zones[0].Content)
	assert.Equal(t, 0, zones[0].Data.Len())
	assert.Empty(t, zones[0].OriginalKeys)

	assert.Equal(t, domain.ZoneStyling, zones[1].Type)
	assert.Nil(t, zones[1].Content)
}

func TestClassify_EmptyElement(t *testing.T) {
	assert.Empty(t, New().Classify(domain.NewElement("spacer"), domain.Path{}))
	assert.Empty(t, New().Classify(&domain.Element{Type: "bare"}, domain.Path{}))
	assert.Nil(t, New().Classify(nil, domain.Path{}))
}

func TestClassify_DataIsACopy(t *testing.T) {
	el := element("title")
	path := domain.Path{3}

	zones := New().Classify(el, path)
	require.Len(t, zones, 1)

	zones[0].Data.Set("title", domain.StringValue("mutated"))
	zones[0].Data.Set("extra", domain.StringValue("x"))
	zones[0].Path[0] = 7

	assert.Equal(t, "title-value", el.Attributes.GetString("title"))
	assert.Equal(t, 1, el.Attributes.Len())
	assert.Equal(t, 3, path[0])
}

func TestClassify_MalformedValuesPassThrough(t *testing.T) {
	el := domain.NewElement("widget")
	el.Attributes.Set("title", domain.RawValue([]byte(`{not json`)))
	el.Attributes.Set("weird", domain.Value{})

	zones := New().Classify(el, domain.Path{})
	keys := zoneKeys(zones)

	assert.Equal(t, []string{"title"}, keys[domain.ZoneContent])
	assert.Equal(t, []string{"weird"}, keys[domain.ZoneMeta])
	v, _ := zones[0].Data.Get("title")
	assert.Equal(t, `{not json`, v.String())
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		spec    string
		key     string
		want    domain.ZoneType
		wantErr bool
	}{
		{spec: "content:exact:cta", key: "cta", want: domain.ZoneContent},
		{spec: "behavioral:prefix:fx_|anim_", key: "anim_speed", want: domain.ZoneBehavioral},
		{spec: "styling:suffix:_skin", key: "button_skin", want: domain.ZoneStyling},
		{spec: "meta:contains:Tracking", key: "ga_tracking_id", want: domain.ZoneMeta},
		{spec: "structural:pattern:^row_[0-9]+$", key: "row_12", want: domain.ZoneStructural},
		{spec: "content:exact", wantErr: true},
		{spec: "layout:exact:x", wantErr: true},
		{spec: "content:fuzzy:x", wantErr: true},
		{spec: "content:pattern:([", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			r, err := ParseRule(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Zone)
			assert.True(t, r.Match.Match(tt.key, lower(tt.key)))
		})
	}
}

func TestFromSettings_CustomRulesWin(t *testing.T) {
	c, err := FromSettings(domain.ClassifierSettings{
		Rules: []string{"meta:exact:title_tag"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ZoneMeta, c.ZoneOf("title_tag"))
	assert.Equal(t, domain.ZoneContent, c.ZoneOf("title"))
	assert.Equal(t, "meta:exact:title_tag", c.Rules()[0].String())
	assert.Len(t, c.Rules(), len(DefaultRules())+1)
}

func TestFromSettings_BadRule(t *testing.T) {
	_, err := FromSettings(domain.ClassifierSettings{Rules: []string{"nope"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFromSettings_Defaults(t *testing.T) {
	c, err := FromSettings(domain.ClassifierSettings{})
	require.NoError(t, err)
	assert.Equal(t, New().Suffixes(), c.Suffixes())
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + 32
		}
	}
	return string(out)
}

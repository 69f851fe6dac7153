package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneType_String(t *testing.T) {
	assert.Equal(t, "structural", ZoneStructural.String())
	assert.Equal(t, "content", ZoneContent.String())
	assert.Equal(t, "styling", ZoneStyling.String())
	assert.Equal(t, "behavioral", ZoneBehavioral.String())
	assert.Equal(t, "meta", ZoneMeta.String())
	assert.Equal(t, "zone(9)", ZoneType(9).String())
}

func TestParseZoneType(t *testing.T) {
	for _, zt := range AllZoneTypes {
		got, err := ParseZoneType(zt.String())
		require.NoError(t, err)
		assert.Equal(t, zt, got)
	}

	got, err := ParseZoneType(" Behavioural ")
	require.NoError(t, err)
	assert.Equal(t, ZoneBehavioral, got)

	_, err = ParseZoneType("layout")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestZoneSet(t *testing.T) {
	s := NewZoneSet(ZoneContent, ZoneStyling)

	assert.True(t, s.Has(ZoneContent))
	assert.True(t, s.Has(ZoneStyling))
	assert.False(t, s.Has(ZoneMeta))
	assert.False(t, s.Has(ZoneType(42)))
	assert.Equal(t, "content,styling", s.String())
	assert.Equal(t, []ZoneType{ZoneContent, ZoneStyling}, s.Types())
	assert.True(t, ZoneSet(0).Empty())
	assert.Equal(t, s, s.Add(ZoneType(-1)))
}

func TestParseZoneSet(t *testing.T) {
	tests := []struct {
		in      string
		want    ZoneSet
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "content", want: NewZoneSet(ZoneContent)},
		{in: "content, styling ,", want: NewZoneSet(ZoneContent, ZoneStyling)},
		{in: "all", want: AllZones()},
		{in: "content,bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseZoneSet(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZoneSet_JSON(t *testing.T) {
	type wrapper struct {
		Zones ZoneSet `json:"zones"`
	}

	b, err := json.Marshal(wrapper{Zones: NewZoneSet(ZoneStyling, ZoneContent)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"zones":"content,styling"}`, string(b))

	var got wrapper
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, NewZoneSet(ZoneContent, ZoneStyling), got.Zones)

	assert.Error(t, json.Unmarshal([]byte(`{"zones":"layout"}`), &got))
}

func TestZone_CloneIsDeep(t *testing.T) {
	content := "<p>x</p>"
	data := NewAttributes()
	data.Set("title", StringValue("Hi"))
	z := Zone{
		Type:         ZoneContent,
		Path:         Path{0, 1},
		Data:         data,
		OriginalKeys: []string{"title"},
		Content:      &content,
	}

	c := z.Clone()
	c.Data.Set("title", StringValue("Changed"))
	c.Path[0] = 9
	*c.Content = "other"
	c.OriginalKeys[0] = "nope"

	assert.Equal(t, "Hi", z.Data.GetString("title"))
	assert.Equal(t, "0/1", z.Path.String())
	assert.Equal(t, "<p>x</p>", *z.Content)
	assert.Equal(t, []string{"title"}, z.OriginalKeys)
}

func TestZone_String(t *testing.T) {
	z := Zone{Type: ZoneStyling, Path: Path{2}, OriginalKeys: []string{"a", "b"}}
	assert.Equal(t, "Zone(styling, path=2, keys=2)", z.String())
}

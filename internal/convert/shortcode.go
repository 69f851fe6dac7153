package convert

import (
	"fmt"
	"net/url"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/formats/shortcode"
	"github.com/custodia-labs/pagebridge/internal/htmltext"
)

// leafFunc returns the tag, attributes and content for one leaf kind.
type leafFunc func(f Fields) (tag string, a *domain.Attributes, content string)

// shortcodeTable describes one shortcode dialect as a target.
type shortcodeTable struct {
	adapter *shortcode.Adapter

	section, row, column  string
	rowInner, columnInner string
	// threeLayers is false for dialects whose rows are their sections.
	threeLayers bool
	width       func(n int) (key, value string)

	leaves map[string]leafFunc
}

var divi = shortcodeTable{
	adapter:     shortcode.NewDivi(),
	section:     "et_pb_section",
	row:         "et_pb_row",
	column:      "et_pb_column",
	rowInner:    "et_pb_row_inner",
	columnInner: "et_pb_column_inner",
	threeLayers: true,
	width: func(n int) (string, string) {
		if n == 1 {
			return "type", "4_4"
		}
		return "type", fmt.Sprintf("1_%d", n)
	},
	leaves: map[string]leafFunc{
		KindHeading: func(f Fields) (string, *domain.Attributes, string) {
			return "et_pb_text", nil, fmt.Sprintf("<h%d>%s</h%d>", f.Level, htmltext.Escape(f.Text), f.Level)
		},
		KindText: func(f Fields) (string, *domain.Attributes, string) {
			return "et_pb_text", nil, f.HTML
		},
		KindImage: func(f Fields) (string, *domain.Attributes, string) {
			return "et_pb_image", attrs("src", f.URL, "alt", f.Alt), ""
		},
		KindButton: func(f Fields) (string, *domain.Attributes, string) {
			return "et_pb_button", attrs("button_url", f.Link, "button_text", f.Text), ""
		},
		KindDivider: func(Fields) (string, *domain.Attributes, string) {
			return "et_pb_divider", nil, ""
		},
		KindSpacer: func(Fields) (string, *domain.Attributes, string) {
			return "et_pb_divider", attrs("show_divider", "off"), ""
		},
		KindHTML: func(f Fields) (string, *domain.Attributes, string) {
			return "et_pb_code", nil, f.HTML
		},
		KindVideo: func(f Fields) (string, *domain.Attributes, string) {
			return "et_pb_video", attrs("src", f.URL), ""
		},
	},
}

var wpbakery = shortcodeTable{
	adapter:     shortcode.NewWPBakery(),
	section:     "vc_row",
	row:         "vc_row",
	column:      "vc_column",
	rowInner:    "vc_row_inner",
	columnInner: "vc_column_inner",
	width: func(n int) (string, string) {
		if n == 1 {
			return "", ""
		}
		return "width", fmt.Sprintf("1/%d", n)
	},
	leaves: map[string]leafFunc{
		KindHeading: func(f Fields) (string, *domain.Attributes, string) {
			return "vc_custom_heading", attrs("text", f.Text, "font_container", fmt.Sprintf("tag:h%d", f.Level)), ""
		},
		KindText: func(f Fields) (string, *domain.Attributes, string) {
			return "vc_column_text", nil, f.HTML
		},
		KindImage: func(f Fields) (string, *domain.Attributes, string) {
			return "vc_single_image", attrs("source", "external_link", "custom_src", f.URL), ""
		},
		KindButton: func(f Fields) (string, *domain.Attributes, string) {
			var link string
			if f.Link != "" {
				link = "url:" + url.QueryEscape(f.Link) + "||"
			}
			return "vc_btn", attrs("title", f.Text, "link", link), ""
		},
		KindDivider: func(Fields) (string, *domain.Attributes, string) {
			return "vc_separator", nil, ""
		},
		KindSpacer: func(Fields) (string, *domain.Attributes, string) {
			return "vc_empty_space", attrs("height", "32px"), ""
		},
		KindHTML: func(f Fields) (string, *domain.Attributes, string) {
			return "vc_raw_html", nil, shortcode.NewWPBakery().EncodePayload("vc_raw_html", f.HTML)
		},
		KindVideo: func(f Fields) (string, *domain.Attributes, string) {
			return "vc_video", attrs("link", f.URL), ""
		},
	},
}

var avada = shortcodeTable{
	adapter:     shortcode.NewAvada(),
	section:     "fusion_builder_container",
	row:         "fusion_builder_row",
	column:      "fusion_builder_column",
	rowInner:    "fusion_builder_row_inner",
	columnInner: "fusion_builder_column_inner",
	threeLayers: true,
	width: func(n int) (string, string) {
		return "type", fmt.Sprintf("1_%d", n)
	},
	leaves: map[string]leafFunc{
		KindHeading: func(f Fields) (string, *domain.Attributes, string) {
			return "fusion_title", attrs("size", fmt.Sprint(f.Level)), htmltext.Escape(f.Text)
		},
		KindText: func(f Fields) (string, *domain.Attributes, string) {
			return "fusion_text", nil, f.HTML
		},
		KindImage: func(f Fields) (string, *domain.Attributes, string) {
			return "fusion_imageframe", attrs("alt", f.Alt), f.URL
		},
		KindButton: func(f Fields) (string, *domain.Attributes, string) {
			return "fusion_button", attrs("link", f.Link), htmltext.Escape(f.Text)
		},
		KindDivider: func(Fields) (string, *domain.Attributes, string) {
			return "fusion_separator", attrs("style_type", "single solid"), ""
		},
		KindSpacer: func(Fields) (string, *domain.Attributes, string) {
			return "fusion_separator", attrs("style_type", "none", "top_margin", "32px"), ""
		},
		KindHTML: func(f Fields) (string, *domain.Attributes, string) {
			return "fusion_code", nil, shortcode.NewAvada().EncodePayload("fusion_code", f.HTML)
		},
		KindVideo: func(f Fields) (string, *domain.Attributes, string) {
			if isYouTube(f.URL) {
				return "fusion_youtube", attrs("id", f.URL), ""
			}
			return "fusion_video", attrs("video", f.URL), ""
		},
	},
}

func shortcodeTarget(t shortcodeTable) *Target {
	container := func(tag string) Handler {
		return func(_ Fields, children []*domain.Element) []*domain.Element {
			return []*domain.Element{shortcode.NewTag(tag, nil, "", children...)}
		}
	}

	handlers := map[string]Handler{
		KindSection: container(t.section),
		KindRow:     container(t.row),
		KindColumn:  container(t.column),
	}
	for kind, build := range t.leaves {
		handlers[kind] = func(f Fields, children []*domain.Element) []*domain.Element {
			tag, a, content := build(f)
			return leaf(shortcode.NewTag(tag, a, content), children)
		}
	}

	var levels []Level
	wrap := func(tag string) func() *domain.Element {
		return func() *domain.Element { return shortcode.NewTag(tag, nil, "") }
	}
	if t.threeLayers {
		levels = []Level{
			{Kinds: []string{KindSection}, Wrap: wrap(t.section)},
			{Kinds: []string{KindRow}, Wrap: wrap(t.row)},
			{Kinds: []string{KindColumn}, Wrap: wrap(t.column)},
		}
	} else {
		levels = []Level{
			{Kinds: []string{KindSection, KindRow}, Wrap: wrap(t.section)},
			{Kinds: []string{KindColumn}, Flatten: []string{KindRow}, Wrap: wrap(t.column)},
		}
	}

	return &Target{
		Name:     t.adapter.Framework(),
		Handlers: handlers,
		Finish: func(r *Run, top []*domain.Element) *domain.Element {
			root := &domain.Element{Type: shortcode.RootType, Children: r.Nest(top, levels)}
			t.finish(root)
			return root
		},
	}
}

// finish renames layers nested inside columns to their inner tags and
// sets column widths.
func (t shortcodeTable) finish(root *domain.Element) {
	Walk(root, func(parent, el *domain.Element) {
		inColumn := parent.Type == t.column || parent.Type == t.columnInner
		switch {
		case inColumn && (el.Type == t.section || el.Type == t.row):
			el.Type = t.rowInner
		case parent.Type == t.rowInner && el.Type == t.column:
			el.Type = t.columnInner
		}
	})

	Walk(root, func(parent, el *domain.Element) {
		if el.Type != t.column && el.Type != t.columnInner {
			return
		}
		n := 0
		for _, sib := range parent.Children {
			if sib.Type == el.Type {
				n++
			}
		}
		key, value := t.width(n)
		if key == "" || el.Attributes.Has(key) {
			return
		}
		if el.Attributes == nil {
			el.Attributes = domain.NewAttributes()
		}
		el.Attributes.Set(key, domain.StringValue(value))
	})
}

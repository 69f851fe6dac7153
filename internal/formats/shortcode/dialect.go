package shortcode

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/htmltext"
)

// Encoding describes how a raw-HTML module stores its body.
type Encoding int

const (
	// Plain bodies are stored as is.
	Plain Encoding = iota
	// Base64 bodies are standard base64.
	Base64
	// Base64URL bodies are base64 of percent-encoded HTML.
	Base64URL
)

// Dialect describes one shortcode page builder.
type Dialect struct {
	Name       string
	Prefix     string
	Extensions []string
	// Kinds maps tag names to universal kinds.
	Kinds map[string]string
	// Encoded lists tags whose body is encoded.
	Encoded map[string]Encoding
}

// Divi is the Divi builder dialect.
var Divi = Dialect{
	Name:       "divi",
	Prefix:     "et_pb_",
	Extensions: []string{".divi"},
	Kinds: map[string]string{
		"et_pb_section":      "section",
		"et_pb_row":          "row",
		"et_pb_row_inner":    "row",
		"et_pb_column":       "column",
		"et_pb_column_inner": "column",
		"et_pb_text":         "text",
		"et_pb_heading":      "heading",
		"et_pb_image":        "image",
		"et_pb_button":       "button",
		"et_pb_divider":      "divider",
		"et_pb_code":         "html",
		"et_pb_video":        "video",
	},
}

// WPBakery is the WPBakery (Visual Composer) dialect.
var WPBakery = Dialect{
	Name:       "wpbakery",
	Prefix:     "vc_",
	Extensions: []string{".vc", ".wpb"},
	Kinds: map[string]string{
		"vc_row":            "section",
		"vc_row_inner":      "row",
		"vc_column":         "column",
		"vc_column_inner":   "column",
		"vc_custom_heading": "heading",
		"vc_column_text":    "text",
		"vc_single_image":   "image",
		"vc_btn":            "button",
		"vc_button2":        "button",
		"vc_separator":      "divider",
		"vc_text_separator": "divider",
		"vc_empty_space":    "spacer",
		"vc_raw_html":       "html",
		"vc_video":          "video",
	},
	Encoded: map[string]Encoding{
		"vc_raw_html": Base64URL,
	},
}

// Avada is the Avada (Fusion Builder) dialect.
var Avada = Dialect{
	Name:       "avada",
	Prefix:     "fusion_",
	Extensions: []string{".avada", ".fusion"},
	Kinds: map[string]string{
		"fusion_builder_container":    "section",
		"fusion_builder_row":          "row",
		"fusion_builder_row_inner":    "row",
		"fusion_builder_column":       "column",
		"fusion_builder_column_inner": "column",
		"fusion_title":                "heading",
		"fusion_text":                 "text",
		"fusion_imageframe":           "image",
		"fusion_button":               "button",
		"fusion_separator":            "divider",
		"fusion_code":                 "html",
		"fusion_youtube":              "video",
		"fusion_vimeo":                "video",
		"fusion_video":                "video",
	},
	Encoded: map[string]Encoding{
		"fusion_code": Base64,
	},
}

// NewDivi creates a Divi adapter.
func NewDivi() *Adapter { return New(Divi) }

// NewWPBakery creates a WPBakery adapter.
func NewWPBakery() *Adapter { return New(WPBakery) }

// NewAvada creates an Avada adapter.
func NewAvada() *Adapter { return New(Avada) }

// DecodePayload returns the HTML body of an encoded raw-HTML module.
// ok is false when the element is not encoded or the body does not decode.
func (a *Adapter) DecodePayload(el *domain.Element) (string, bool) {
	if el == nil {
		return "", false
	}
	enc, found := a.dialect.Encoded[el.Type]
	if !found || enc == Plain {
		return "", false
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(el.Content))
	if err != nil {
		return "", false
	}
	if enc == Base64 {
		return string(raw), true
	}
	s, err := url.QueryUnescape(string(raw))
	if err != nil {
		return "", false
	}
	return s, true
}

// EncodePayload encodes html for a module of the given tag.
func (a *Adapter) EncodePayload(tag, html string) string {
	switch a.dialect.Encoded[tag] {
	case Base64:
		return base64.StdEncoding.EncodeToString([]byte(html))
	case Base64URL:
		escaped := strings.ReplaceAll(url.QueryEscape(html), "+", "%20")
		return base64.StdEncoding.EncodeToString([]byte(escaped))
	}
	return html
}

func isHeading(content string) bool {
	return htmltext.HeadingLevel(strings.TrimSpace(content)) > 0
}

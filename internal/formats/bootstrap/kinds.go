package bootstrap

import (
	"bytes"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/htmltext"
)

// Kinds for elements that are not content of their own.
const (
	// KindWrapper elements are replaced by their children.
	KindWrapper = "wrapper"
	// KindIgnore elements are dropped with everything inside them.
	KindIgnore = "ignore"
)

var tagKinds = map[string]string{
	"h1": "heading", "h2": "heading", "h3": "heading",
	"h4": "heading", "h5": "heading", "h6": "heading",
	"p": "text", "ul": "text", "ol": "text", "blockquote": "text", "table": "text",
	"img": "image", "picture": "image",
	"hr":      "divider",
	"video":   "video",
	"iframe":  "video",
	"section": "section", "header": "section", "footer": "section",
	"html": KindWrapper, "body": KindWrapper, "main": KindWrapper,
	"article": KindWrapper, "figure": KindWrapper,
	"head": KindIgnore, "script": KindIgnore, "style": KindIgnore,
	"noscript": KindIgnore, "template": KindIgnore, "meta": KindIgnore,
	"link": KindIgnore, "title": KindIgnore,
}

// Kind maps an element to its universal kind. Divs are read by their
// grid classes.
func (a *Adapter) Kind(el *domain.Element) string {
	if el == nil {
		return ""
	}
	switch el.Type {
	case TextType:
		s := strings.TrimSpace(el.Content)
		switch {
		case s == "":
			return ""
		case htmltext.IsMarkup(s):
			return "html"
		case strings.HasPrefix(s, "<!"):
			// comments and doctypes
			return KindIgnore
		case strings.HasPrefix(s, "<"):
			return "html"
		}
		return "text"
	case "a":
		if hasClass(el, "btn") {
			return "button"
		}
		return "text"
	case "div":
		return divKind(el)
	}
	return tagKinds[el.Type]
}

func divKind(el *domain.Element) string {
	for _, c := range classes(el) {
		switch {
		case c == "row":
			return "row"
		case c == "col" || strings.HasPrefix(c, "col-"):
			return "column"
		}
	}
	if el.Attributes.GetString("aria-hidden") == "true" && len(el.Children) == 0 && strings.TrimSpace(el.Content) == "" {
		return "spacer"
	}
	if len(el.Children) == 0 && strings.TrimSpace(el.Content) != "" {
		return "text"
	}
	return KindWrapper
}

func classes(el *domain.Element) []string {
	return strings.Fields(el.Attributes.GetString("class"))
}

func hasClass(el *domain.Element, name string) bool {
	for _, c := range classes(el) {
		if c == name {
			return true
		}
	}
	return false
}

// DecodePayload returns the markup of a content element, tags included,
// so converters can read heading levels, links and sources from it.
func (a *Adapter) DecodePayload(el *domain.Element) (string, bool) {
	if !a.Leaf(el) {
		return "", false
	}
	if el.Type == TextType {
		return el.Content, true
	}
	var buf bytes.Buffer
	if err := writeNode(&buf, el, nil); err != nil {
		return "", false
	}
	return buf.String(), true
}

// Leaf reports whether el is a content element whose children are inline
// markup of that content.
func (a *Adapter) Leaf(el *domain.Element) bool {
	switch a.Kind(el) {
	case "heading", "text", "image", "button", "video", "html":
		return true
	}
	return false
}

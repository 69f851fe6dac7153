package convert

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/formats/elementor"
	"github.com/custodia-labs/pagebridge/internal/formats/gutenberg"
	"github.com/custodia-labs/pagebridge/internal/htmltext"
)

func builtinTargets() []*Target {
	return []*Target{
		elementorTarget(),
		gutenbergTarget(),
		shortcodeTarget(divi),
		shortcodeTarget(wpbakery),
		shortcodeTarget(avada),
		bootstrapTarget(),
	}
}

// attrs builds attributes from key/value pairs, skipping empty strings and
// nil values. It returns nil when nothing is set.
func attrs(kv ...any) *domain.Attributes {
	var a *domain.Attributes
	for i := 0; i+1 < len(kv); i += 2 {
		key := kv[i].(string)
		switch v := kv[i+1].(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
		}
		if a == nil {
			a = domain.NewAttributes()
		}
		a.Set(key, domain.MustValue(kv[i+1]))
	}
	return a
}

// leaf returns el followed by any children it cannot hold.
func leaf(el *domain.Element, children []*domain.Element) []*domain.Element {
	return append([]*domain.Element{el}, children...)
}

func isYouTube(u string) bool {
	return strings.Contains(u, "youtube.com") || strings.Contains(u, "youtu.be")
}

func elementorTarget() *Target {
	container := func(elType string) Handler {
		return func(_ Fields, children []*domain.Element) []*domain.Element {
			return []*domain.Element{elementor.NewContainer(elType, nil, children)}
		}
	}
	widget := func(name string, settings func(f Fields) *domain.Attributes) Handler {
		return func(f Fields, children []*domain.Element) []*domain.Element {
			return leaf(elementor.NewWidget(name, settings(f)), children)
		}
	}

	return &Target{
		Name: elementor.Framework,
		Handlers: map[string]Handler{
			KindSection: container("section"),
			KindRow:     container("section"),
			KindColumn:  container("column"),
			KindHeading: widget("heading", func(f Fields) *domain.Attributes {
				return attrs("title", f.Text, "header_size", fmt.Sprintf("h%d", f.Level))
			}),
			KindText: widget("text-editor", func(f Fields) *domain.Attributes {
				return attrs("editor", f.HTML)
			}),
			KindImage: widget("image", func(f Fields) *domain.Attributes {
				return attrs("image", map[string]string{"url": f.URL, "id": "", "alt": f.Alt})
			}),
			KindButton: widget("button", func(f Fields) *domain.Attributes {
				return attrs("text", f.Text, "link", map[string]string{"url": f.Link, "is_external": "", "nofollow": ""})
			}),
			KindDivider: widget("divider", func(Fields) *domain.Attributes { return nil }),
			KindSpacer:  widget("spacer", func(Fields) *domain.Attributes { return nil }),
			KindHTML: widget("html", func(f Fields) *domain.Attributes {
				return attrs("html", f.HTML)
			}),
			KindVideo: widget("video", func(f Fields) *domain.Attributes {
				if isYouTube(f.URL) || f.URL == "" {
					return attrs("youtube_url", f.URL)
				}
				return attrs("video_type", "hosted", "hosted_url", map[string]string{"url": f.URL})
			}),
		},
		Finish: func(r *Run, top []*domain.Element) *domain.Element {
			levels := []Level{
				{Kinds: []string{KindSection, KindRow}, Wrap: func() *domain.Element {
					return elementor.NewContainer("section", nil, nil)
				}},
				{Kinds: []string{KindColumn}, Flatten: []string{KindRow}, Wrap: func() *domain.Element {
					return elementor.NewContainer("column", nil, nil)
				}},
			}
			root := &domain.Element{Type: elementor.RootType, Children: r.Nest(top, levels)}
			Walk(root, func(parent, el *domain.Element) {
				if el.Type != "column" || el.Attributes.Has("_column_size") {
					return
				}
				n := 0
				for _, sib := range parent.Children {
					if sib.Type == "column" {
						n++
					}
				}
				if el.Attributes == nil {
					el.Attributes = domain.NewAttributes()
				}
				el.Attributes.Set("_column_size", domain.MustValue(100/n))
			})
			return root
		},
	}
}

func gutenbergTarget() *Target {
	container := func(name, class string) Handler {
		return func(_ Fields, children []*domain.Element) []*domain.Element {
			if name != "core/columns" {
				children = groupColumns(children)
			}
			open := fmt.Sprintf("\n<div class=\"%s\">", class)
			return []*domain.Element{gutenberg.NewContainer(name, nil, open, "</div>\n", children)}
		}
	}
	block := func(name string, build func(f Fields) (*domain.Attributes, string)) Handler {
		return func(f Fields, children []*domain.Element) []*domain.Element {
			a, html := build(f)
			return leaf(gutenberg.NewBlock(name, a, html), children)
		}
	}
	esc := htmltext.Escape

	return &Target{
		Name: gutenberg.Framework,
		Handlers: map[string]Handler{
			KindSection: container("core/group", "wp-block-group"),
			KindRow:     container("core/columns", "wp-block-columns"),
			KindColumn:  container("core/column", "wp-block-column"),
			KindHeading: block("core/heading", func(f Fields) (*domain.Attributes, string) {
				var a *domain.Attributes
				if f.Level != 2 {
					a = attrs("level", f.Level)
				}
				return a, fmt.Sprintf("\n<h%d class=\"wp-block-heading\">%s</h%d>\n", f.Level, esc(f.Text), f.Level)
			}),
			KindText: func(f Fields, children []*domain.Element) []*domain.Element {
				html := f.HTML
				switch htmltext.FirstTag(html) {
				case "ul", "ol":
					if strings.HasPrefix(html, "<") {
						return leaf(gutenberg.NewBlock("core/list", nil, "\n"+html+"\n"), children)
					}
				case "p":
					if strings.HasPrefix(html, "<p") {
						return leaf(gutenberg.NewBlock("core/paragraph", nil, "\n"+html+"\n"), children)
					}
				}
				return leaf(gutenberg.NewBlock("core/paragraph", nil, "\n<p>"+html+"</p>\n"), children)
			},
			KindImage: block("core/image", func(f Fields) (*domain.Attributes, string) {
				return nil, fmt.Sprintf("\n<figure class=\"wp-block-image\"><img src=\"%s\" alt=\"%s\"/></figure>\n", esc(f.URL), esc(f.Alt))
			}),
			KindButton: func(f Fields, children []*domain.Element) []*domain.Element {
				button := gutenberg.NewBlock("core/button", nil, fmt.Sprintf(
					"\n<div class=\"wp-block-button\"><a class=\"wp-block-button__link wp-element-button\" href=\"%s\">%s</a></div>\n",
					esc(f.Link), esc(f.Text)))
				buttons := gutenberg.NewContainer("core/buttons", nil, "\n<div class=\"wp-block-buttons\">", "</div>\n", []*domain.Element{button})
				return leaf(buttons, children)
			},
			KindDivider: block("core/separator", func(Fields) (*domain.Attributes, string) {
				return nil, "\n<hr class=\"wp-block-separator has-alpha-channel-opacity\"/>\n"
			}),
			KindSpacer: block("core/spacer", func(Fields) (*domain.Attributes, string) {
				return attrs("height", "32px"), "\n<div style=\"height:32px\" aria-hidden=\"true\" class=\"wp-block-spacer\"></div>\n"
			}),
			KindHTML: block("core/html", func(f Fields) (*domain.Attributes, string) {
				return nil, f.HTML
			}),
			KindVideo: func(f Fields, children []*domain.Element) []*domain.Element {
				if isYouTube(f.URL) {
					a := attrs("url", f.URL, "type", "video", "providerNameSlug", "youtube")
					html := fmt.Sprintf("\n<figure class=\"wp-block-embed is-type-video is-provider-youtube wp-block-embed-youtube\"><div class=\"wp-block-embed__wrapper\">\n%s\n</div></figure>\n", f.URL)
					return leaf(gutenberg.NewBlock("core/embed", a, html), children)
				}
				html := fmt.Sprintf("\n<figure class=\"wp-block-video\"><video controls src=\"%s\"></video></figure>\n", esc(f.URL))
				return leaf(gutenberg.NewBlock("core/video", nil, html), children)
			},
		},
		Finish: func(_ *Run, top []*domain.Element) *domain.Element {
			top = groupColumns(top)
			root := &domain.Element{Type: gutenberg.RootType}
			for i, el := range top {
				if i > 0 {
					root.Children = append(root.Children, &domain.Element{Type: gutenberg.FreeformType, Content: "\n\n"})
				}
				root.Children = append(root.Children, el)
			}
			if len(top) > 0 {
				root.Children = append(root.Children, &domain.Element{Type: gutenberg.FreeformType, Content: "\n"})
			}
			return root
		},
	}
}

// groupColumns wraps runs of column blocks in a columns block.
func groupColumns(children []*domain.Element) []*domain.Element {
	var out, run []*domain.Element
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, gutenberg.NewContainer("core/columns", nil, "\n<div class=\"wp-block-columns\">", "</div>\n", run))
		run = nil
	}
	for _, ch := range children {
		if ch.Type == "core/column" {
			run = append(run, ch)
			continue
		}
		flush()
		out = append(out, ch)
	}
	flush()
	return out
}

package convert

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/formats/bootstrap"
	"github.com/custodia-labs/pagebridge/internal/htmltext"
)

// Bootstrap assets linked from converted pages.
const (
	BootstrapCSS = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"
	BootstrapJS  = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"
)

func bootstrapTarget() *Target {
	tag := bootstrap.NewTag
	esc := htmltext.Escape
	container := func(name, class string) Handler {
		return func(_ Fields, children []*domain.Element) []*domain.Element {
			return []*domain.Element{tag(name, attrs("class", class), "", children...)}
		}
	}

	return &Target{
		Name: bootstrap.Framework,
		Handlers: map[string]Handler{
			KindSection: container("section", "py-5"),
			KindRow:     container("div", "row"),
			KindColumn:  container("div", "col"),
			KindHeading: func(f Fields, children []*domain.Element) []*domain.Element {
				return leaf(tag(fmt.Sprintf("h%d", f.Level), nil, esc(f.Text)), children)
			},
			KindText: func(f Fields, children []*domain.Element) []*domain.Element {
				html := f.HTML
				switch htmltext.FirstTag(html) {
				case "p", "ul", "ol", "blockquote", "table", "div":
					if strings.HasPrefix(html, "<") {
						return leaf(bootstrap.NewText(html), children)
					}
				}
				return leaf(tag("p", nil, html), children)
			},
			KindImage: func(f Fields, children []*domain.Element) []*domain.Element {
				a := attrs("src", f.URL, "class", "img-fluid")
				if a == nil {
					a = domain.NewAttributes()
				}
				a.Set("alt", domain.StringValue(f.Alt))
				return leaf(tag("img", a, ""), children)
			},
			KindButton: func(f Fields, children []*domain.Element) []*domain.Element {
				link := f.Link
				if link == "" {
					link = "#"
				}
				return leaf(tag("a", attrs("href", link, "class", "btn btn-primary"), esc(f.Text)), children)
			},
			KindDivider: func(_ Fields, children []*domain.Element) []*domain.Element {
				return leaf(tag("hr", nil, ""), children)
			},
			KindSpacer: func(_ Fields, children []*domain.Element) []*domain.Element {
				return leaf(tag("div", attrs("class", "py-4", "aria-hidden", "true"), ""), children)
			},
			KindHTML: func(f Fields, children []*domain.Element) []*domain.Element {
				return leaf(bootstrap.NewText(f.HTML), children)
			},
			KindVideo: func(f Fields, children []*domain.Element) []*domain.Element {
				if id := youTubeID(f.URL); id != "" {
					frame := tag("iframe", attrs(
						"src", "https://www.youtube.com/embed/"+id,
						"title", "Video",
						"allowfullscreen", true,
					), "")
					return leaf(tag("div", attrs("class", "ratio ratio-16x9"), "", frame), children)
				}
				return leaf(tag("video", attrs("src", f.URL, "class", "w-100", "controls", true), ""), children)
			},
		},
		Finish: func(r *Run, top []*domain.Element) *domain.Element {
			levels := []Level{
				{Kinds: []string{KindSection}, Wrap: func() *domain.Element {
					return tag("section", attrs("class", "py-5"), "")
				}},
				{Kinds: []string{KindRow}, Wrap: func() *domain.Element {
					return tag("div", attrs("class", "row"), "")
				}},
				{Kinds: []string{KindColumn}, Wrap: func() *domain.Element {
					return tag("div", attrs("class", "col"), "")
				}},
			}
			sections := r.Nest(top, levels)

			Walk(&domain.Element{Children: sections}, func(parent, el *domain.Element) {
				if r.KindOf(el) != KindColumn {
					return
				}
				n := 0
				for _, sib := range parent.Children {
					if r.KindOf(sib) == KindColumn {
						n++
					}
				}
				el.Attributes.Set("class", domain.StringValue(columnClass(n)))
			})
			for _, s := range sections {
				if r.KindOf(s) == KindSection {
					s.Children = []*domain.Element{tag("div", attrs("class", "container"), "", s.Children...)}
				}
			}

			head := tag("head", nil, "",
				tag("meta", attrs("charset", "utf-8"), ""),
				tag("meta", attrs("name", "viewport", "content", "width=device-width, initial-scale=1"), ""),
				tag("link", attrs("href", BootstrapCSS, "rel", "stylesheet"), ""),
			)
			body := tag("body", nil, "", append(sections, tag("script", attrs("src", BootstrapJS), ""))...)
			page := tag("html", attrs("lang", "en"), "", head, body)
			bootstrap.Indent(page, 0)

			return &domain.Element{
				Type:     bootstrap.RootType,
				Children: []*domain.Element{bootstrap.NewText("<!DOCTYPE html>\n"), page, bootstrap.NewText("\n")},
			}
		},
	}
}

// columnClass sizes one of n equal columns on the 12-column grid.
func columnClass(n int) string {
	if n <= 1 {
		return "col-12"
	}
	if 12%n == 0 {
		return fmt.Sprintf("col-12 col-md-%d", 12/n)
	}
	return "col-12 col-md"
}

// youTubeID returns the video ID of a YouTube watch, share or embed URL.
func youTubeID(raw string) string {
	if !isYouTube(raw) {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return parts[len(parts)-1]
}

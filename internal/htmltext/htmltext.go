// Package htmltext extracts readable text and simple facts from the HTML
// fragments page builders store in their settings.
package htmltext

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped elements contribute no readable text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Head:     true,
	atom.Svg:      true,
}

// block elements start a new line in Text output.
var block = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Tr: true, atom.Blockquote: true, atom.Pre: true,
	atom.Table: true, atom.Section: true, atom.Article: true, atom.Figure: true,
	atom.Figcaption: true,
}

// Text strips markup and decodes entities. Block elements become line
// breaks and blank lines are dropped.
func Text(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return normalise(fragment)
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	depth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return normalise(sb.String())
		case html.TextToken:
			if depth == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipped[a] && tt == html.StartTagToken {
				depth++
			}
			if block[a] {
				sb.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skipped[a] && depth > 0 {
				depth--
			}
			if block[a] {
				sb.WriteByte('\n')
			}
		}
	}
}

// normalise collapses spaces inside lines and drops empty lines.
func normalise(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Preview returns Text on a single line, cut to at most n runes with an
// ellipsis. n <= 0 disables the cut.
func Preview(fragment string, n int) string {
	s := strings.ReplaceAll(Text(fragment), "\n", " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "…"
}

// IsMarkup reports whether s contains at least one HTML tag.
func IsMarkup(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			return true
		}
	}
}

// FirstTag returns the name of the first element in the fragment, or "".
func FirstTag(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			return string(name)
		}
	}
}

// Attr returns the value of attr on the first tag element in the
// fragment, or "".
func Attr(fragment, tag, attr string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			t := z.Token()
			if t.Data != tag {
				continue
			}
			for _, a := range t.Attr {
				if a.Key == attr {
					return a.Val
				}
			}
			return ""
		}
	}
}

// HeadingLevel returns n for a fragment whose first element is <hn>, or 0.
func HeadingLevel(fragment string) int {
	tag := FirstTag(fragment)
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// Escape escapes text for use inside markup.
func Escape(s string) string {
	return html.EscapeString(s)
}

// MapText applies fn to the text nodes of a fragment and leaves the markup
// byte for byte. Script and style bodies are not text. A fragment without
// markup is passed to fn whole.
func MapText(fragment string, fn func(string) string) string {
	if !IsMarkup(fragment) {
		return fn(fragment)
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	depth := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			raw := string(z.Raw())
			if depth > 0 {
				sb.WriteString(raw)
				continue
			}
			text := html.UnescapeString(raw)
			if out := fn(text); out != text {
				sb.WriteString(html.EscapeString(out))
				continue
			}
			sb.WriteString(raw)
		case html.StartTagToken:
			sb.Write(z.Raw())
			name, _ := z.TagName()
			if a := atom.Lookup(name); a == atom.Script || a == atom.Style {
				depth++
			}
		case html.EndTagToken:
			sb.Write(z.Raw())
			name, _ := z.TagName()
			if a := atom.Lookup(name); (a == atom.Script || a == atom.Style) && depth > 0 {
				depth--
			}
		default:
			sb.Write(z.Raw())
		}
	}
}

package shortcode

import (
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// tokenKind classifies lexer output.
type tokenKind int

const (
	tokText tokenKind = iota
	tokOpen
	tokClose
)

// token is one lexed piece of shortcode source.
type token struct {
	kind   tokenKind
	text   string // tokText: the text; tokOpen/tokClose: the raw tag source
	name   string
	attrs  *domain.Attributes
	quotes map[string]string
	shadow []shadowed
	close  string // closeVoid, closeTight or ""
}

// lex splits src into text and tags whose names start with prefix. Other
// bracketed text stays text.
func lex(src, prefix string) []token {
	var out []token
	textStart := 0
	flush := func(end int) {
		if end > textStart {
			out = append(out, token{kind: tokText, text: src[textStart:end]})
		}
	}

	for i := 0; i < len(src); {
		j := strings.IndexByte(src[i:], '[')
		if j < 0 {
			break
		}
		i += j
		tok, n, ok := lexTag(src[i:], prefix)
		if !ok {
			i++
			continue
		}
		flush(i)
		out = append(out, tok)
		i += n
		textStart = i
	}
	flush(len(src))
	return out
}

// lexTag reads one tag at the start of s. n is the tag length in bytes.
func lexTag(s, prefix string) (token, int, bool) {
	tok := token{kind: tokOpen}
	i := 1
	if i < len(s) && s[i] == '/' {
		tok.kind = tokClose
		i++
	}

	start := i
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	tok.name = s[start:i]
	if tok.name == "" || !isLetter(tok.name[0]) || !strings.HasPrefix(tok.name, prefix) {
		return token{}, 0, false
	}

	if tok.kind == tokClose {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) || s[i] != ']' {
			return token{}, 0, false
		}
		tok.text = s[:i+1]
		return tok, i + 1, true
	}

	// Attributes run to the first ']'; a '[' before it means this is not
	// a tag.
	if i < len(s) && !isSpace(s[i]) && s[i] != ']' && s[i] != '/' {
		return token{}, 0, false
	}
	end := strings.IndexByte(s[i:], ']')
	if end < 0 || strings.IndexByte(s[i:i+end], '[') >= 0 {
		return token{}, 0, false
	}
	end += i

	body := s[i:end]
	if trimmed := strings.TrimRight(body, " \t\r\n"); strings.HasSuffix(trimmed, "/") {
		body = strings.TrimSuffix(trimmed, "/")
		tok.close = closeTight
		if strings.TrimRight(body, " \t\r\n") != body {
			tok.close = closeVoid
		}
	}
	tok.attrs, tok.quotes, tok.shadow = lexAttrs(body)
	tok.text = s[:end+1]
	return tok, end + 1, true
}

// shadowed is an earlier occurrence of a repeated attribute name. The last
// occurrence becomes the element attribute; earlier ones are kept so the
// tag is written back as it was read.
type shadowed struct {
	At    int    `json:"at"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Quote string `json:"quote,omitempty"`
	Bare  bool   `json:"bare,omitempty"`
}

type rawAttr struct {
	name  string
	value string
	quote string
	bare  bool
}

// lexAttrs parses name="v", name='v', name=v and bare positional words.
// A positional word is stored as a key with the value true. When a name
// repeats, the last occurrence wins, as in WordPress.
func lexAttrs(s string) (*domain.Attributes, map[string]string, []shadowed) {
	raw := scanAttrs(s)

	last := make(map[string]int, len(raw))
	for i, r := range raw {
		last[r.name] = i
	}

	attrs := domain.NewAttributes()
	var quotes map[string]string
	var shadows []shadowed
	for i, r := range raw {
		if last[r.name] != i {
			shadows = append(shadows, shadowed{At: i, Key: r.name, Value: r.value, Quote: r.quote, Bare: r.bare})
			continue
		}
		if r.bare {
			attrs.Set(r.name, domain.MustValue(true))
			continue
		}
		attrs.Set(r.name, domain.StringValue(r.value))
		if r.quote != `"` {
			if quotes == nil {
				quotes = make(map[string]string)
			}
			quotes[r.name] = r.quote
		}
	}
	return attrs, quotes, shadows
}

func scanAttrs(s string) []rawAttr {
	var out []rawAttr
	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}

		start := i
		for i < len(s) && !isSpace(s[i]) && s[i] != '=' {
			i++
		}
		name := s[start:i]

		k := i
		for k < len(s) && isSpace(s[k]) {
			k++
		}
		if k >= len(s) || s[k] != '=' {
			out = append(out, rawAttr{name: name, bare: true})
			continue
		}
		i = k + 1
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			out = append(out, rawAttr{name: name})
			break
		}

		switch q := s[i]; q {
		case '"', '\'':
			end := strings.IndexByte(s[i+1:], q)
			if end < 0 {
				out = append(out, rawAttr{name: name, value: s[i+1:], quote: string(q)})
				i = len(s)
				continue
			}
			out = append(out, rawAttr{name: name, value: s[i+1 : i+1+end], quote: string(q)})
			i += end + 2
		default:
			v := i
			for i < len(s) && !isSpace(s[i]) {
				i++
			}
			out = append(out, rawAttr{name: name, value: s[v:i]})
		}
	}
	return out
}

func isNameByte(c byte) bool {
	return isLetter(c) || c >= '0' && c <= '9' || c == '_' || c == '-'
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

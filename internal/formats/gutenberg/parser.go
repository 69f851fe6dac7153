package gutenberg

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// delimiter is one parsed block comment.
type delimiter struct {
	name   string // namespaced name
	short  bool   // written without the core/ namespace
	closer bool
	void   bool
	attrs  *domain.Attributes
	start  int
	end    int
}

// nextDelimiter finds the first block comment at or after from.
func nextDelimiter(src string, from int) (delimiter, bool, error) {
	for {
		i := strings.Index(src[from:], "<!--")
		if i < 0 {
			return delimiter{}, false, nil
		}
		start := from + i
		j := strings.Index(src[start+4:], "-->")
		if j < 0 {
			return delimiter{}, false, nil
		}
		end := start + 4 + j + 3

		d, ok, err := parseDelimiter(src[start+4 : end-3])
		if err != nil {
			return delimiter{}, false, fmt.Errorf("block comment at byte %d: %w", start, err)
		}
		if ok {
			d.start, d.end = start, end
			return d, true, nil
		}
		// A plain HTML comment is content.
		from = end
	}
}

// parseDelimiter reads the inside of "<!-- ... -->". ok is false for
// comments that are not block delimiters.
func parseDelimiter(body string) (delimiter, bool, error) {
	var d delimiter

	s := strings.TrimLeft(body, " \t\r\n")
	if len(s) == len(body) {
		return d, false, nil
	}
	if strings.HasPrefix(s, "/") {
		d.closer = true
		s = s[1:]
	}
	s, ok := strings.CutPrefix(s, "wp:")
	if !ok {
		return d, false, nil
	}

	n := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '/')
	})
	if n < 0 {
		n = len(s)
	}
	d.name, d.short = normaliseName(s[:n])
	if d.name == "" {
		return d, false, nil
	}

	rest := strings.TrimSpace(s[n:])
	if r, cut := strings.CutSuffix(rest, "/"); cut {
		d.void = true
		rest = strings.TrimSpace(r)
	}
	if rest == "" {
		return d, true, nil
	}
	if d.closer || !strings.HasPrefix(rest, "{") {
		return d, false, nil
	}
	attrs, err := domain.ParseAttributes([]byte(rest))
	if err != nil {
		return d, false, fmt.Errorf("%w: block %s attributes: %v", domain.ErrInvalidInput, d.name, err)
	}
	d.attrs = attrs
	return d, true, nil
}

// normaliseName adds the core namespace to bare block names.
func normaliseName(name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return "", false
	}
	if strings.Contains(name, "/") {
		return name, false
	}
	return "core/" + name, true
}

// frame is an element being built. inner holds the HTML segments between
// child blocks; a nil entry marks a child slot.
type frame struct {
	el    *domain.Element
	inner []*string
}

func (f *frame) text(s string) {
	if s == "" {
		return
	}
	f.inner = append(f.inner, &s)
}

func (f *frame) child(el *domain.Element) {
	f.el.Children = append(f.el.Children, el)
	f.inner = append(f.inner, nil)
}

// parse builds the tree rooted at a document element.
func parse(src string) (*domain.Element, error) {
	root := &domain.Element{Type: RootType}
	stack := []*frame{}
	pos := 0

	emitText := func(s string) {
		if s == "" {
			return
		}
		if len(stack) == 0 {
			root.Children = append(root.Children, &domain.Element{Type: FreeformType, Content: s})
			return
		}
		stack[len(stack)-1].text(s)
	}
	attach := func(el *domain.Element) {
		if len(stack) == 0 {
			root.Children = append(root.Children, el)
			return
		}
		stack[len(stack)-1].child(el)
	}

	for {
		d, ok, err := nextDelimiter(src, pos)
		if err != nil {
			return nil, err
		}
		if !ok {
			emitText(src[pos:])
			break
		}
		emitText(src[pos:d.start])
		pos = d.end

		switch {
		case d.closer:
			if len(stack) == 0 || stack[len(stack)-1].el.Type != d.name {
				return nil, fmt.Errorf("%w: unexpected closing delimiter for %s at byte %d",
					domain.ErrInvalidInput, d.name, d.start)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			attach(finish(top))

		case d.void:
			el := newBlock(d)
			el.Frame.Set(metaVoid, domain.MustValue(true))
			attach(el)

		default:
			stack = append(stack, &frame{el: newBlock(d)})
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: block %s is never closed", domain.ErrInvalidInput, stack[len(stack)-1].el.Type)
	}
	return root, nil
}

func newBlock(d delimiter) *domain.Element {
	el := &domain.Element{
		Type:       d.name,
		Attributes: d.attrs,
		Frame:      domain.NewAttributes(),
	}
	if d.short {
		el.Frame.Set(metaShort, domain.MustValue(true))
	}
	return el
}

// finish turns collected segments into content (leaf blocks) or an
// inner-content layout (blocks with inner blocks).
func finish(f *frame) *domain.Element {
	if len(f.el.Children) == 0 {
		var sb strings.Builder
		for _, s := range f.inner {
			sb.WriteString(*s)
		}
		f.el.Content = sb.String()
		return f.el
	}

	layout := make([]any, len(f.inner))
	for i, s := range f.inner {
		if s != nil {
			layout[i] = *s
		}
	}
	f.el.Frame.Set(metaInner, domain.MustValue(layout))
	return f.el
}

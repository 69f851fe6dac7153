package convert

import (
	"slices"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// Level is one container layer of a target hierarchy.
type Level struct {
	// Kinds accepted at this layer; the first is the kind of wrappers.
	Kinds []string
	// Wrap builds an empty container.
	Wrap func() *domain.Element
	// Flatten lists kinds replaced by their children at this layer.
	Flatten []string
}

// Nest arranges children into the target hierarchy. Runs of elements that
// do not belong at a layer are wrapped in a new container of that layer.
func (r *Run) Nest(children []*domain.Element, levels []Level) []*domain.Element {
	return r.nest(children, levels, 0)
}

func (r *Run) nest(children []*domain.Element, levels []Level, d int) []*domain.Element {
	if d >= len(levels) {
		for _, ch := range children {
			if i := levelOf(levels, r.kinds[ch]); i >= 0 {
				ch.Children = r.nest(ch.Children, levels, i+1)
			}
		}
		return children
	}

	lv := levels[d]
	if len(lv.Flatten) > 0 {
		var flat []*domain.Element
		for _, ch := range children {
			if slices.Contains(lv.Flatten, r.kinds[ch]) {
				flat = append(flat, ch.Children...)
				continue
			}
			flat = append(flat, ch)
		}
		children = flat
	}

	var out, pending []*domain.Element
	flush := func() {
		if len(pending) == 0 {
			return
		}
		w := r.Mark(lv.Wrap(), lv.Kinds[0])
		w.Children = r.nest(pending, levels, d+1)
		out = append(out, w)
		pending = nil
	}
	for _, ch := range children {
		if slices.Contains(lv.Kinds, r.kinds[ch]) {
			flush()
			ch.Children = r.nest(ch.Children, levels, d+1)
			out = append(out, ch)
			continue
		}
		pending = append(pending, ch)
	}
	flush()
	return out
}

func levelOf(levels []Level, kind string) int {
	for i, lv := range levels {
		if slices.Contains(lv.Kinds, kind) {
			return i
		}
	}
	return -1
}

// Walk calls fn for every element below root with its parent.
func Walk(root *domain.Element, fn func(parent, el *domain.Element)) {
	for _, ch := range root.Children {
		fn(root, ch)
		Walk(ch, fn)
	}
}

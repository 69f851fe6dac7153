package domain

// Element is one node of a dialect-neutral page-builder tree.
type Element struct {
	// Type identifies the node's role (section, column, widget:heading,
	// core/paragraph, et_pb_text, ...). It never changes inside a pass.
	Type string

	// Attributes are the node's settings in source order. They are what the
	// classifier partitions into zones.
	Attributes *Attributes

	// Content is free-form text or markup kept out of per-key classification.
	Content string

	// Children are the nested nodes, in document order.
	Children []*Element

	// Frame holds dialect framing the adapter needs to rebuild the node
	// (envelope keys, inner-content slots, closing style). It is never
	// classified or rewritten.
	Frame *Attributes
}

// NewElement creates a leaf element with empty attributes.
func NewElement(elementType string) *Element {
	return &Element{
		Type:       elementType,
		Attributes: NewAttributes(),
	}
}

// Append adds children and returns e.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Clone returns a deep copy of the subtree rooted at e.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := &Element{
		Type:       e.Type,
		Attributes: e.Attributes.Clone(),
		Content:    e.Content,
		Frame:      e.Frame.Clone(),
	}
	if e.Children != nil {
		c.Children = make([]*Element, len(e.Children))
		for i, child := range e.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Equal reports structural equality: type, attribute keys, order and value
// bytes, content, frame and children, recursively.
func (e *Element) Equal(o *Element) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Type != o.Type || e.Content != o.Content {
		return false
	}
	if !e.Attributes.Equal(o.Attributes) || !e.Frame.Equal(o.Frame) {
		return false
	}
	if len(e.Children) != len(o.Children) {
		return false
	}
	for i := range e.Children {
		if !e.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits the subtree in depth-first pre-order. Returning false from fn
// skips the node's children.
func (e *Element) Walk(fn func(path Path, el *Element) bool) {
	e.walk(Path{}, fn)
}

func (e *Element) walk(path Path, fn func(Path, *Element) bool) {
	if e == nil || !fn(path, e) {
		return
	}
	for i, child := range e.Children {
		child.walk(path.Child(i), fn)
	}
}

// Count returns the number of nodes in the subtree.
func (e *Element) Count() int {
	n := 0
	e.Walk(func(Path, *Element) bool {
		n++
		return true
	})
	return n
}

// Find returns the node at path, or nil.
func (e *Element) Find(path Path) *Element {
	cur := e
	for _, i := range path {
		if cur == nil || i < 0 || i >= len(cur.Children) {
			return nil
		}
		cur = cur.Children[i]
	}
	return cur
}

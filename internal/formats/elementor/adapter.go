// Package elementor reads and writes Elementor page JSON.
//
// Three document shapes are accepted: a bare element array, an export
// wrapper object holding the array under "content" or "elements", and a
// single element object. Element settings become attributes; every other
// envelope key (id, elType, widgetType, isInner, ...) is kept in the frame
// with its original bytes, so an untouched tree serializes to the input.
package elementor

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
)

// Ensure Adapter implements the interfaces.
var (
	_ driven.FormatAdapter          = (*Adapter)(nil)
	_ driven.ConfigurableSerializer = (*Adapter)(nil)
)

// Framework is the dialect name.
const Framework = "elementor"

// RootType is the element type of the document root.
const RootType = "document"

// WidgetPrefix prefixes widget element types: "widget:heading".
const WidgetPrefix = "widget:"

const (
	keySettings = "settings"
	keyElements = "elements"
	keyContent  = "content"
	keyElType   = "elType"
	keyWidget   = "widgetType"
	keyID       = "id"
	keyIsInner  = "isInner"

	// Frame keys starting with "@" are adapter bookkeeping, never written.
	metaShape    = "@shape"
	metaChildren = "@children"
	metaOrder    = "@order"

	shapeArray   = "array"
	shapeWrapper = "wrapper"
	shapeElement = "element"
)

// Adapter implements driven.FormatAdapter for Elementor.
type Adapter struct{}

// New creates an Elementor adapter.
func New() *Adapter {
	return &Adapter{}
}

// Framework returns "elementor".
func (a *Adapter) Framework() string {
	return Framework
}

// Extensions returns the file extensions Elementor exports use.
func (a *Adapter) Extensions() []string {
	return []string{".json"}
}

// Parse reads an Elementor document.
func (a *Adapter) Parse(ctx context.Context, data []byte) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty elementor document", domain.ErrInvalidInput)
	}

	root := &domain.Element{Type: RootType, Frame: domain.NewAttributes()}
	switch trimmed[0] {
	case '[':
		root.Frame.Set(metaShape, domain.StringValue(shapeArray))
		children, err := parseElements(trimmed)
		if err != nil {
			return nil, err
		}
		root.Children = children

	case '{':
		obj, err := domain.ParseAttributes(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if obj.Has(keyElType) {
			root.Frame.Set(metaShape, domain.StringValue(shapeElement))
			el, err := parseElement(trimmed)
			if err != nil {
				return nil, err
			}
			root.Children = []*domain.Element{el}
			break
		}
		if err := parseWrapper(root, obj); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: elementor document must be a JSON array or object", domain.ErrInvalidInput)
	}

	return &domain.Document{Framework: Framework, Root: root}, nil
}

// parseWrapper reads an export wrapper. Wrapper keys other than the element
// array become root attributes.
func parseWrapper(root *domain.Element, obj *domain.Attributes) error {
	childKey := ""
	for _, k := range []string{keyContent, keyElements} {
		if v, ok := obj.Get(k); ok && isArray(v.Raw()) {
			childKey = k
			break
		}
	}
	if childKey == "" {
		return fmt.Errorf("%w: no element array under %q or %q", domain.ErrInvalidInput, keyContent, keyElements)
	}

	root.Frame.Set(metaShape, domain.StringValue(shapeWrapper))
	root.Frame.Set(metaChildren, domain.StringValue(childKey))
	root.Frame.Set(metaOrder, domain.MustValue(obj.Keys()))

	root.Attributes = domain.NewAttributes()
	var err error
	obj.Each(func(key string, v domain.Value) {
		if err != nil {
			return
		}
		if key == childKey {
			root.Children, err = parseElements(v.Raw())
			return
		}
		root.Attributes.Set(key, v)
	})
	return err
}

func parseElements(raw []byte) ([]*domain.Element, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: element list: %v", domain.ErrInvalidInput, err)
	}
	out := make([]*domain.Element, 0, len(items))
	for i, item := range items {
		el, err := parseElement(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, el)
	}
	return out, nil
}

// parseElement splits one element object into type, settings, children
// and envelope.
func parseElement(raw []byte) (*domain.Element, error) {
	obj, err := domain.ParseAttributes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	el := &domain.Element{
		Type:  elementType(obj.GetString(keyElType), obj.GetString(keyWidget)),
		Frame: domain.NewAttributes(),
	}

	var perr error
	obj.Each(func(key string, v domain.Value) {
		if perr != nil {
			return
		}
		switch key {
		case keySettings:
			if isObject(v.Raw()) {
				el.Attributes, perr = domain.ParseAttributes(v.Raw())
				el.Frame.Set(key, domain.Value{})
				return
			}
			// Elementor writes empty settings as [].
			el.Frame.Set(key, v)
		case keyElements:
			if isArray(v.Raw()) {
				el.Children, perr = parseElements(v.Raw())
				el.Frame.Set(key, domain.Value{})
				return
			}
			el.Frame.Set(key, v)
		default:
			el.Frame.Set(key, v)
		}
	})
	if perr != nil {
		return nil, perr
	}
	return el, nil
}

// elementType names a node: "section", "column", "container" or
// "widget:<widgetType>".
func elementType(elType, widgetType string) string {
	switch {
	case elType == "widget" && widgetType != "":
		return WidgetPrefix + widgetType
	case elType != "":
		return elType
	default:
		return "unknown"
	}
}

// Serialize writes the document as compact JSON.
func (a *Adapter) Serialize(ctx context.Context, doc *domain.Document) ([]byte, error) {
	return a.SerializeWith(ctx, doc, driven.SerializeOptions{})
}

// SerializeWith writes the document, indenting when asked.
func (a *Adapter) SerializeWith(ctx context.Context, doc *domain.Document, opts driven.SerializeOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	w := &writer{}
	if err := w.root(doc.Root); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	var err error
	if opts.Indent {
		err = json.Indent(&out, w.buf.Bytes(), "", "    ")
	} else {
		err = json.Compact(&out, w.buf.Bytes())
	}
	if err != nil {
		return nil, fmt.Errorf("formatting elementor output: %w", err)
	}
	return out.Bytes(), nil
}

// writer accumulates JSON output.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) root(root *domain.Element) error {
	switch root.Frame.GetString(metaShape) {
	case shapeArray:
		return w.array(root.Children, domain.Path{})
	case shapeElement:
		if len(root.Children) == 1 {
			return w.element(root.Children[0], domain.Path{0})
		}
		return w.array(root.Children, domain.Path{})
	case shapeWrapper:
		return w.wrapper(root)
	default:
		if root.Attributes.Len() == 0 {
			return w.array(root.Children, domain.Path{})
		}
		root = root.Clone()
		if root.Frame == nil {
			root.Frame = domain.NewAttributes()
		}
		root.Frame.Set(metaChildren, domain.StringValue(keyContent))
		return w.wrapper(root)
	}
}

// wrapper writes the export object. Keys follow the recorded order; keys
// the transform removed are skipped and new keys are appended.
func (w *writer) wrapper(root *domain.Element) error {
	childKey := root.Frame.GetString(metaChildren)
	var order []string
	if v, ok := root.Frame.Get(metaOrder); ok {
		if err := v.Decode(&order); err != nil {
			return fmt.Errorf("%w: wrapper key order: %v", domain.ErrInvalidInput, err)
		}
	}

	written := make(map[string]bool, len(order)+1)
	w.buf.WriteByte('{')
	n := 0
	emit := func(key string, fn func() error) error {
		if n > 0 {
			w.buf.WriteByte(',')
		}
		n++
		written[key] = true
		w.key(key)
		return fn()
	}

	for _, key := range order {
		if key == childKey {
			if err := emit(key, func() error { return w.array(root.Children, domain.Path{}) }); err != nil {
				return err
			}
			continue
		}
		v, ok := root.Attributes.Get(key)
		if !ok {
			continue
		}
		if err := emit(key, func() error { w.value(v); return nil }); err != nil {
			return err
		}
	}

	var err error
	root.Attributes.Each(func(key string, v domain.Value) {
		if err != nil || written[key] {
			return
		}
		err = emit(key, func() error { w.value(v); return nil })
	})
	if err != nil {
		return err
	}
	if !written[childKey] {
		if err := emit(childKey, func() error { return w.array(root.Children, domain.Path{}) }); err != nil {
			return err
		}
	}
	w.buf.WriteByte('}')
	return nil
}

func (w *writer) array(children []*domain.Element, path domain.Path) error {
	w.buf.WriteByte('[')
	for i, child := range children {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		if err := w.element(child, path.Child(i)); err != nil {
			return err
		}
	}
	w.buf.WriteByte(']')
	return nil
}

// element writes one element. Elements without a frame were built by a
// converter and get a synthesized envelope.
func (w *writer) element(el *domain.Element, path domain.Path) error {
	if el == nil {
		return fmt.Errorf("%w: nil element at %s", domain.ErrMalformedTree, path)
	}
	frame := el.Frame
	if frame == nil {
		frame = envelope(el, path)
	}

	w.buf.WriteByte('{')
	n := 0
	sep := func() {
		if n > 0 {
			w.buf.WriteByte(',')
		}
		n++
	}

	var err error
	hasSettings, hasElements := false, false
	frame.Each(func(key string, v domain.Value) {
		if err != nil || strings.HasPrefix(key, "@") {
			return
		}
		sep()
		w.key(key)
		switch key {
		case keySettings:
			hasSettings = true
			w.settings(el, v)
		case keyElements:
			hasElements = true
			if v.IsZero() || len(el.Children) > 0 {
				err = w.array(el.Children, path)
				return
			}
			w.value(v)
		default:
			w.value(v)
		}
	})
	if err != nil {
		return err
	}

	if !hasSettings && el.Attributes.Len() > 0 {
		sep()
		w.key(keySettings)
		w.settings(el, domain.Value{})
	}
	if !hasElements && len(el.Children) > 0 {
		sep()
		w.key(keyElements)
		if err := w.array(el.Children, path); err != nil {
			return err
		}
	}
	w.buf.WriteByte('}')
	return nil
}

// settings writes the element's attributes, or the original non-object
// settings value when the element has none.
func (w *writer) settings(el *domain.Element, original domain.Value) {
	if el.Attributes == nil {
		if original.IsZero() {
			w.buf.WriteString("[]")
			return
		}
		w.value(original)
		return
	}
	// WriteJSON only fails on key encoding, which cannot fail for strings.
	_ = el.Attributes.WriteJSON(&w.buf)
}

func (w *writer) key(k string) {
	_, _ = w.buf.Write(domain.StringValue(k).Raw())
	w.buf.WriteByte(':')
}

func (w *writer) value(v domain.Value) {
	if v.IsZero() {
		w.buf.WriteString("null")
		return
	}
	w.buf.Write(v.Raw())
}

// envelope builds the frame of an element that has none.
func envelope(el *domain.Element, path domain.Path) *domain.Attributes {
	f := domain.NewAttributes()
	f.Set(keyID, domain.StringValue(NewID(path, el.Type)))

	if widget, ok := strings.CutPrefix(el.Type, WidgetPrefix); ok {
		f.Set(keyElType, domain.StringValue("widget"))
		f.Set(keySettings, domain.Value{})
		f.Set(keyElements, domain.Value{})
		f.Set(keyWidget, domain.StringValue(widget))
		return f
	}
	f.Set(keyElType, domain.StringValue(el.Type))
	f.Set(keySettings, domain.Value{})
	f.Set(keyElements, domain.Value{})
	f.Set(keyIsInner, domain.MustValue(len(path) > 1 && el.Type == "section"))
	return f
}

// NewID derives a stable 7-hex-digit element id from the element's
// position and type.
func NewID(path domain.Path, elementType string) string {
	sum := blake3.Sum256([]byte(path.String() + "|" + elementType))
	return hex.EncodeToString(sum[:4])[:7]
}

// Kind maps an Elementor element to its universal kind.
func (a *Adapter) Kind(el *domain.Element) string {
	if el == nil {
		return ""
	}
	switch el.Type {
	case "section", "container":
		if v, ok := el.Frame.Get(keyIsInner); ok && string(v.Raw()) == "true" {
			return "row"
		}
		return "section"
	case "column":
		return "column"
	}
	widget, ok := strings.CutPrefix(el.Type, WidgetPrefix)
	if !ok {
		return ""
	}
	return widgetKinds[widget]
}

// widgetKinds maps widget types to universal kinds.
var widgetKinds = map[string]string{
	"heading":     "heading",
	"text-editor": "text",
	"image":       "image",
	"button":      "button",
	"divider":     "divider",
	"spacer":      "spacer",
	"html":        "html",
	"video":       "video",
}

func isObject(raw []byte) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}

func isArray(raw []byte) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}

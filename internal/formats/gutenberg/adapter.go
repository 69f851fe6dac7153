// Package gutenberg reads and writes WordPress block editor markup.
//
// Blocks are delimited by comments such as
//
//	<!-- wp:heading {"level":3} -->
//	<h3 class="wp-block-heading">Title</h3>
//	<!-- /wp:heading -->
//
// Block attributes become element attributes and a leaf block's inner HTML
// becomes its content. For blocks holding inner blocks the HTML between
// children is kept in the frame as an inner-content layout. HTML outside any
// block is kept as core/freeform elements, so the document round-trips.
package gutenberg

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
)

// Ensure Adapter implements the interface.
var _ driven.FormatAdapter = (*Adapter)(nil)

// Framework is the dialect name.
const Framework = "gutenberg"

const (
	// RootType is the element type of the document root.
	RootType = "document"

	// FreeformType holds HTML found outside any block.
	FreeformType = "core/freeform"
)

// Frame bookkeeping keys.
const (
	metaShort = "@short"
	metaVoid  = "@void"
	metaInner = "@inner"
)

// Adapter implements driven.FormatAdapter for block markup.
type Adapter struct{}

// New creates a block markup adapter.
func New() *Adapter {
	return &Adapter{}
}

// Framework returns "gutenberg".
func (a *Adapter) Framework() string {
	return Framework
}

// Extensions returns the file extensions block markup is stored under.
func (a *Adapter) Extensions() []string {
	return []string{".html", ".blocks"}
}

// Parse reads block markup.
func (a *Adapter) Parse(ctx context.Context, data []byte) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := parse(string(data))
	if err != nil {
		return nil, err
	}
	return &domain.Document{Framework: Framework, Root: root}, nil
}

// Serialize writes block markup.
func (a *Adapter) Serialize(ctx context.Context, doc *domain.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Root == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	var buf bytes.Buffer
	for i, child := range doc.Root.Children {
		if err := writeNode(&buf, child, domain.Path{i}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeNode(buf *bytes.Buffer, el *domain.Element, path domain.Path) error {
	if el == nil {
		return fmt.Errorf("%w: nil element at %s", domain.ErrMalformedTree, path)
	}
	if el.Type == FreeformType {
		buf.WriteString(el.Content)
		return nil
	}
	return writeBlock(buf, el, path)
}

func writeBlock(buf *bytes.Buffer, el *domain.Element, path domain.Path) error {
	name := el.Type
	if flag(el.Frame, metaShort) {
		name = strings.TrimPrefix(name, "core/")
	}

	buf.WriteString("<!-- wp:")
	buf.WriteString(name)
	if el.Attributes != nil {
		buf.WriteByte(' ')
		if err := writeAttrs(buf, el.Attributes); err != nil {
			return err
		}
	}

	if flag(el.Frame, metaVoid) && el.Content == "" && len(el.Children) == 0 {
		buf.WriteString(" /-->")
		return nil
	}
	buf.WriteString(" -->")

	if err := writeInner(buf, el, path); err != nil {
		return err
	}

	buf.WriteString("<!-- /wp:")
	buf.WriteString(name)
	buf.WriteString(" -->")
	return nil
}

// writeInner writes a block's inner HTML and inner blocks, following the
// recorded layout when there is one.
func writeInner(buf *bytes.Buffer, el *domain.Element, path domain.Path) error {
	var layout []*string
	if v, ok := el.Frame.Get(metaInner); ok {
		if err := v.Decode(&layout); err != nil {
			return fmt.Errorf("%w: inner layout of %s: %v", domain.ErrInvalidInput, path, err)
		}
	}

	if layout == nil {
		buf.WriteString(el.Content)
		for i, child := range el.Children {
			if err := writeNode(buf, child, path.Child(i)); err != nil {
				return err
			}
		}
		return nil
	}

	next := 0
	for _, seg := range layout {
		if seg != nil {
			buf.WriteString(*seg)
			continue
		}
		if next < len(el.Children) {
			if err := writeNode(buf, el.Children[next], path.Child(next)); err != nil {
				return err
			}
			next++
		}
	}
	for ; next < len(el.Children); next++ {
		if err := writeNode(buf, el.Children[next], path.Child(next)); err != nil {
			return err
		}
	}
	return nil
}

// commentSafe escapes what must not appear inside a block comment. Such
// characters only occur inside JSON strings, where the escapes are
// equivalent.
var commentSafe = strings.NewReplacer(
	"--", `\u002d\u002d`,
	"<", `\u003c`,
	">", `\u003e`,
	"&", `\u0026`,
)

func writeAttrs(buf *bytes.Buffer, attrs *domain.Attributes) error {
	raw, err := attrs.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = commentSafe.WriteString(buf, string(raw))
	return err
}

func flag(frame *domain.Attributes, key string) bool {
	v, ok := frame.Get(key)
	return ok && string(v.Raw()) == "true"
}

// Kind maps a block to its universal kind.
func (a *Adapter) Kind(el *domain.Element) string {
	if el == nil {
		return ""
	}
	if el.Type == FreeformType {
		if strings.TrimSpace(el.Content) == "" {
			return ""
		}
		return "html"
	}
	return blockKinds[el.Type]
}

// blockKinds maps block names to universal kinds.
var blockKinds = map[string]string{
	"core/group":     "section",
	"core/cover":     "section",
	"core/columns":   "row",
	"core/column":    "column",
	"core/heading":   "heading",
	"core/paragraph": "text",
	"core/list":      "text",
	"core/quote":     "text",
	"core/image":     "image",
	"core/button":    "button",
	"core/separator": "divider",
	"core/spacer":    "spacer",
	"core/html":      "html",
	"core/embed":     "video",
	"core/video":     "video",
}

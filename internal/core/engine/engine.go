// Package engine implements the zone-selective lossless transform pass.
//
// A pass walks the tree depth-first in pre-order, classifies every element
// into zones, hands only the selected zones to a caller-supplied
// Transformer and reassembles each element from the rewritten and untouched
// zones. The input tree is never modified; the output shares no memory with
// it. An Engine holds no per-call state and is safe for concurrent use.
package engine

import (
	"fmt"

	"github.com/custodia-labs/pagebridge/internal/core/classifier"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// Transformer rewrites one zone. It receives a private copy and must return
// a zone with the same Type and Path. Returning an error aborts the pass.
type Transformer func(zone domain.Zone) (domain.Zone, error)

// Identity returns every zone unchanged.
func Identity(zone domain.Zone) (domain.Zone, error) {
	return zone, nil
}

// Engine runs transform passes with a fixed classifier.
type Engine struct {
	classifier *classifier.Classifier
}

// New creates an engine. A nil classifier selects the default rule table.
func New(c *classifier.Classifier) *Engine {
	if c == nil {
		c = classifier.New()
	}
	return &Engine{classifier: c}
}

// Classifier returns the classifier the engine uses.
func (e *Engine) Classifier() *classifier.Classifier {
	return e.classifier
}

// Transform rewrites the zones of root whose type is in zones and returns a
// new tree. A nil fn behaves as Identity.
//
// The pass is all-or-nothing: a transformer error or contract violation
// returns no tree.
func (e *Engine) Transform(root *domain.Element, zones domain.ZoneSet, fn Transformer) (*domain.TransformResult, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}
	if fn == nil {
		fn = Identity
	}

	p := &pass{
		classifier: e.classifier,
		selected:   zones,
		fn:         fn,
	}
	tree, err := p.rebuild(root, domain.Path{})
	if err != nil {
		return nil, err
	}

	return &domain.TransformResult{
		Tree:              tree,
		MetadataPreserved: Percentage(p.preserved, p.total),
		KeysTotal:         p.total,
		KeysPreserved:     p.preserved,
		ZonesModified:     p.modified,
		Elements:          p.elements,
	}, nil
}

// Classify returns the zone list of every element in pre-order without
// transforming anything.
func (e *Engine) Classify(root *domain.Element) ([]domain.ElementZones, error) {
	if err := Validate(root); err != nil {
		return nil, err
	}
	var out []domain.ElementZones
	root.Walk(func(path domain.Path, el *domain.Element) bool {
		out = append(out, domain.ElementZones{
			Path:  path,
			Type:  el.Type,
			Zones: e.classifier.Classify(el, path),
		})
		return true
	})
	return out, nil
}

// Validate checks the tree preconditions the engine relies on.
func Validate(root *domain.Element) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", domain.ErrMalformedTree)
	}
	var err error
	root.Walk(func(path domain.Path, el *domain.Element) bool {
		if err != nil {
			return false
		}
		for i, child := range el.Children {
			if child == nil {
				err = fmt.Errorf("%w: nil child at %s", domain.ErrMalformedTree, path.Child(i))
				return false
			}
		}
		return true
	})
	return err
}

// Percentage returns part/total × 100, or 100 when total is zero.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(part) / float64(total) * 100
}

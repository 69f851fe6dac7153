package engine

import (
	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// ContentPayloadKey names the content payload in analysis output, where it
// is listed next to the CONTENT attribute keys.
const ContentPayloadKey = "@content"

// Analyze summarises the zone make-up of the tree. String values of CONTENT
// keys and non-empty content payloads are listed as content items, in
// pre-order then key order.
func (e *Engine) Analyze(root *domain.Element) (*domain.Analysis, error) {
	elements, err := e.Classify(root)
	if err != nil {
		return nil, err
	}

	a := &domain.Analysis{
		ZonesByType:  make(map[string]int),
		KeysByType:   make(map[string]int),
		ElementTypes: make(map[string]int),
	}
	for _, ez := range elements {
		a.TotalElements++
		a.ElementTypes[ez.Type]++
		for _, z := range ez.Zones {
			a.TotalZones++
			a.ZonesByType[z.Type.String()]++
			a.KeysByType[z.Type.String()] += len(z.OriginalKeys)
			a.TotalKeys += len(z.OriginalKeys)

			if z.Type != domain.ZoneContent {
				continue
			}
			z.Data.Each(func(key string, v domain.Value) {
				s, ok := v.AsString()
				if !ok || s == "" {
					return
				}
				a.ContentItems = append(a.ContentItems, domain.ContentItem{
					Path:        ez.Path,
					ElementType: ez.Type,
					Key:         key,
					Value:       s,
				})
			})
			if z.Content != nil {
				a.ContentItems = append(a.ContentItems, domain.ContentItem{
					Path:        ez.Path,
					ElementType: ez.Type,
					Key:         ContentPayloadKey,
					Value:       *z.Content,
				})
			}
		}
	}
	return a, nil
}

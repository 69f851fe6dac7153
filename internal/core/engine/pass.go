package engine

import (
	"fmt"

	"github.com/custodia-labs/pagebridge/internal/core/classifier"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
)

// pass carries the state of one Transform call.
type pass struct {
	classifier *classifier.Classifier
	selected   domain.ZoneSet
	fn         Transformer

	total     int
	preserved int
	modified  []string
	elements  []domain.ElementZones
}

// rebuild reassembles el and then its children.
func (p *pass) rebuild(el *domain.Element, path domain.Path) (*domain.Element, error) {
	zones := p.classifier.Classify(el, path)
	p.elements = append(p.elements, domain.ElementZones{
		Path:  path,
		Type:  el.Type,
		Zones: zones,
	})

	out := &domain.Element{
		Type:    el.Type,
		Content: el.Content,
		Frame:   el.Frame.Clone(),
	}

	rewritten := make(map[domain.ZoneType]domain.Zone)
	owner := make(map[string]domain.ZoneType, el.Attributes.Len())
	for _, z := range zones {
		p.total += len(z.OriginalKeys)
		for _, k := range z.OriginalKeys {
			owner[k] = z.Type
		}
		if !p.selected.Has(z.Type) {
			p.preserved += len(z.OriginalKeys)
			continue
		}

		res, err := p.fn(z.Clone())
		if err != nil {
			return nil, fmt.Errorf("transforming %s zone at %s: %w", z.Type, path, err)
		}
		if res.Type != z.Type || !res.Path.Equal(z.Path) {
			return nil, &domain.ContractViolationError{
				Path:    path,
				Want:    z.Type,
				Got:     res.Type,
				GotPath: res.Path,
			}
		}
		if changed(z, res) {
			p.modified = append(p.modified, path.String()+":"+z.Type.String())
		}
		rewritten[z.Type] = res
	}

	attrs, err := reassemble(el.Attributes, zones, rewritten, owner, path)
	if err != nil {
		return nil, err
	}
	out.Attributes = attrs

	if res, ok := rewritten[domain.ZoneContent]; ok {
		out.Content = ""
		if res.Content != nil {
			out.Content = *res.Content
		}
	}

	if el.Children != nil {
		out.Children = make([]*domain.Element, len(el.Children))
		for i, child := range el.Children {
			c, err := p.rebuild(child, path.Child(i))
			if err != nil {
				return nil, err
			}
			out.Children[i] = c
		}
	}
	return out, nil
}

// reassemble merges zone data back into one ordered mapping. Keys keep
// their source position; a rewritten zone's value replaces the original in
// place, a key the rewrite dropped is omitted and keys the rewrite added are
// appended after all source keys, zone by zone in enum order.
func reassemble(
	src *domain.Attributes,
	zones []domain.Zone,
	rewritten map[domain.ZoneType]domain.Zone,
	owner map[string]domain.ZoneType,
	path domain.Path,
) (*domain.Attributes, error) {
	out := domain.NewAttributes()

	var err error
	src.Each(func(key string, value domain.Value) {
		zt := owner[key]
		res, ok := rewritten[zt]
		if !ok {
			out.Set(key, value.Clone())
			return
		}
		if v, found := res.Data.Get(key); found {
			out.Set(key, v.Clone())
		}
	})

	for _, z := range zones {
		res, ok := rewritten[z.Type]
		if !ok {
			continue
		}
		res.Data.Each(func(key string, value domain.Value) {
			if err != nil {
				return
			}
			if o, known := owner[key]; known {
				if o != z.Type {
					err = &domain.ContractViolationError{
						Path:    path,
						Want:    z.Type,
						Got:     z.Type,
						GotPath: path,
						Key:     key,
						Owner:   o,
					}
				}
				return
			}
			owner[key] = z.Type
			out.Set(key, value.Clone())
		})
		if err != nil {
			return nil, err
		}
	}
	if src == nil && out.Len() == 0 {
		return nil, nil
	}
	return out, nil
}

// changed reports whether a rewrite altered the zone's data or content.
func changed(before, after domain.Zone) bool {
	if !before.Data.Equal(after.Data) {
		return true
	}
	switch {
	case before.Content == nil && after.Content == nil:
		return false
	case before.Content == nil || after.Content == nil:
		return true
	default:
		return *before.Content != *after.Content
	}
}

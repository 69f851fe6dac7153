package domain

// TransformResult is the output of one engine pass.
type TransformResult struct {
	// Tree is the reassembled tree. It shares no memory with the input.
	Tree *Element

	// MetadataPreserved is KeysPreserved / KeysTotal × 100, or 100 when the
	// tree has no attribute keys.
	MetadataPreserved float64

	// KeysTotal counts attribute keys over the whole source tree.
	KeysTotal int

	// KeysPreserved counts keys in zones that were not selected.
	KeysPreserved int

	// ZonesModified lists "path:zone" for selected zones whose data changed.
	ZonesModified []string

	// Elements is the per-element zone list, in pre-order.
	Elements []ElementZones
}

// ContentItem is one piece of user-visible text found by analysis.
type ContentItem struct {
	Path        Path   `json:"path" yaml:"path"`
	ElementType string `json:"element_type" yaml:"element_type"`
	Key         string `json:"key" yaml:"key"`
	Value       string `json:"value" yaml:"value"`
}

// Analysis summarises the zone make-up of a tree.
type Analysis struct {
	TotalElements int            `json:"total_elements" yaml:"total_elements"`
	TotalZones    int            `json:"total_zones" yaml:"total_zones"`
	TotalKeys     int            `json:"total_keys" yaml:"total_keys"`
	ZonesByType   map[string]int `json:"zones_by_type" yaml:"zones_by_type"`
	KeysByType    map[string]int `json:"keys_by_type" yaml:"keys_by_type"`
	ElementTypes  map[string]int `json:"element_types" yaml:"element_types"`
	ContentItems  []ContentItem  `json:"content_items" yaml:"content_items"`
}

// Verification is the outcome of an identity-law check on a document.
type Verification struct {
	// Lossless is true when parse → identity transform → serialize → parse
	// yields a structurally equal tree.
	Lossless bool `json:"lossless" yaml:"lossless"`

	// ByteIdentical is true when the serialized output equals the input.
	ByteIdentical bool `json:"byte_identical" yaml:"byte_identical"`

	// MetadataPreserved is reported by the identity pass.
	MetadataPreserved float64 `json:"metadata_preserved" yaml:"metadata_preserved"`

	// Elements and Keys count what was checked.
	Elements int `json:"elements" yaml:"elements"`
	Keys     int `json:"keys" yaml:"keys"`

	// FirstDifference locates the first mismatching element, if any.
	FirstDifference string `json:"first_difference,omitempty" yaml:"first_difference,omitempty"`
}

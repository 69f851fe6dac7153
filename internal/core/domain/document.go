package domain

import "time"

// Document is a page parsed from one builder dialect.
type Document struct {
	// Framework is the dialect the document was read from or is written in
	// (elementor, gutenberg, divi, ...).
	Framework string

	// Root is the tree root. Document-level settings live on the root's
	// attributes; top-level builder elements are its children.
	Root *Element
}

// TransformRun is the persisted record of one transform pass.
type TransformRun struct {
	// ID is the unique identifier for the run.
	ID string

	// Input names what was transformed (usually a file path).
	Input string

	// Source is the framework the input was parsed as.
	Source string

	// Target is the framework the output was written as.
	Target string

	// Zones is the set of zone types that were eligible for rewriting.
	Zones ZoneSet

	// Transformer is the name of the zone transformer applied.
	Transformer string

	// Fingerprint identifies the (input, options) pair the run computed.
	Fingerprint string

	// MetadataPreserved is the percentage of source keys emitted unchanged.
	MetadataPreserved float64

	// KeysTotal is the number of attribute keys in the source tree.
	KeysTotal int

	// KeysPreserved is the number of keys outside the selected zones.
	KeysPreserved int

	// ZonesModified is how many selected zones the transformer changed.
	ZonesModified int

	// Cached is true when the output came from the transform cache.
	Cached bool

	// CreatedAt is when the run finished.
	CreatedAt time.Time
}

// TransformOutcome is what a transform request produces: the serialized
// target document and the run that describes it.
type TransformOutcome struct {
	// Run describes the pass.
	Run TransformRun

	// Output is the serialized document in the target framework.
	Output []byte

	// ZonesModified lists "path:zone" for every zone the transformer changed.
	ZonesModified []string

	// Unmapped lists "path:type" for source elements the converter had no
	// kind for. Empty when source and target are the same framework.
	Unmapped []string
}

// Clone returns a copy that shares no memory with o.
func (o *TransformOutcome) Clone() *TransformOutcome {
	if o == nil {
		return nil
	}
	c := *o
	c.Output = append([]byte(nil), o.Output...)
	c.ZonesModified = append([]string(nil), o.ZonesModified...)
	c.Unmapped = append([]string(nil), o.Unmapped...)
	return &c
}

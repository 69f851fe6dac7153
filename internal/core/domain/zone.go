package domain

import (
	"fmt"
	"slices"
	"strings"
)

// ZoneType is the semantic role of a group of element settings.
type ZoneType int

const (
	// ZoneStructural holds layout identity: containers, rows, column sizes.
	ZoneStructural ZoneType = iota

	// ZoneContent holds user-visible content: text, media, links.
	ZoneContent

	// ZoneStyling holds presentation: colours, fonts, spacing.
	ZoneStyling

	// ZoneBehavioral holds interactivity: animations, triggers.
	ZoneBehavioral

	// ZoneMeta holds everything else. It is the classifier default.
	ZoneMeta
)

// AllZoneTypes lists every zone type in enum order.
var AllZoneTypes = []ZoneType{ZoneStructural, ZoneContent, ZoneStyling, ZoneBehavioral, ZoneMeta}

// String returns the lowercase name.
func (z ZoneType) String() string {
	switch z {
	case ZoneStructural:
		return "structural"
	case ZoneContent:
		return "content"
	case ZoneStyling:
		return "styling"
	case ZoneBehavioral:
		return "behavioral"
	case ZoneMeta:
		return "meta"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// IsValid returns true if the zone type is recognised.
func (z ZoneType) IsValid() bool {
	return z >= ZoneStructural && z <= ZoneMeta
}

// MarshalText implements encoding.TextMarshaler.
func (z ZoneType) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// ParseZoneType parses a zone name. "behavioural" is accepted.
func ParseZoneType(s string) (ZoneType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "structural":
		return ZoneStructural, nil
	case "content":
		return ZoneContent, nil
	case "styling":
		return ZoneStyling, nil
	case "behavioral", "behavioural":
		return ZoneBehavioral, nil
	case "meta":
		return ZoneMeta, nil
	default:
		return 0, fmt.Errorf("%w: zone %q", ErrUnsupportedType, s)
	}
}

// ZoneSet is a set of zone types.
type ZoneSet uint8

// NewZoneSet builds a set from the given types.
func NewZoneSet(types ...ZoneType) ZoneSet {
	var s ZoneSet
	for _, t := range types {
		s = s.Add(t)
	}
	return s
}

// AllZones is the set of every zone type.
func AllZones() ZoneSet {
	return NewZoneSet(AllZoneTypes...)
}

// Add returns the set with t included.
func (s ZoneSet) Add(t ZoneType) ZoneSet {
	if !t.IsValid() {
		return s
	}
	return s | 1<<uint(t)
}

// Has reports membership.
func (s ZoneSet) Has(t ZoneType) bool {
	return t.IsValid() && s&(1<<uint(t)) != 0
}

// Empty reports whether the set has no members.
func (s ZoneSet) Empty() bool {
	return s == 0
}

// Types returns the members in enum order.
func (s ZoneSet) Types() []ZoneType {
	var out []ZoneType
	for _, t := range AllZoneTypes {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// String renders the set as a comma-separated list ("content,styling").
func (s ZoneSet) String() string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (s ZoneSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ZoneSet) UnmarshalText(b []byte) error {
	set, err := ParseZoneSet(string(b))
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// ParseZoneSet parses a comma-separated list of zone names. "all" selects
// every zone; an empty string is the empty set.
func ParseZoneSet(s string) (ZoneSet, error) {
	var set ZoneSet
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, "all") {
			return AllZones(), nil
		}
		t, err := ParseZoneType(part)
		if err != nil {
			return 0, err
		}
		set = set.Add(t)
	}
	return set, nil
}

// Zone is the classified share of one element's data. Data is always a
// private copy; rewriting it cannot reach the source tree or sibling zones.
type Zone struct {
	// Type is the zone's semantic role.
	Type ZoneType

	// Path locates the owning element.
	Path Path

	// Data holds the attribute keys assigned to this zone, in source order.
	Data *Attributes

	// OriginalKeys records the keys captured in Data at classification time.
	OriginalKeys []string

	// Content carries the element's content payload. Only a content zone of
	// an element with non-empty content sets it.
	Content *string
}

// Keys returns the keys currently held in Data.
func (z Zone) Keys() []string {
	return z.Data.Keys()
}

// Clone returns a deep copy.
func (z Zone) Clone() Zone {
	c := Zone{
		Type:         z.Type,
		Path:         slices.Clone(z.Path),
		Data:         z.Data.Clone(),
		OriginalKeys: slices.Clone(z.OriginalKeys),
	}
	if z.Content != nil {
		s := *z.Content
		c.Content = &s
	}
	return c
}

// String is a compact description for logs.
func (z Zone) String() string {
	return fmt.Sprintf("Zone(%s, path=%s, keys=%d)", z.Type, z.Path, len(z.OriginalKeys))
}

// ElementZones is the diagnostic zone list for one element.
type ElementZones struct {
	Path  Path
	Type  string
	Zones []Zone
}

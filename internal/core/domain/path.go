package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// rootPath is how the empty path is rendered.
const rootPath = "root"

// Path locates an element by the child indices leading to it from the root.
// The empty path is the root itself.
type Path []int

// Child returns the path of the i-th child. The receiver is not aliased.
func (p Path) Child(i int) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, i)
}

// Equal reports element-wise equality.
func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// Depth returns the number of steps from the root.
func (p Path) Depth() int {
	return len(p)
}

// String renders the path as "root" or slash-separated indices ("0/2/1").
func (p Path) String() string {
	if len(p) == 0 {
		return rootPath
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParsePath is the inverse of Path.String.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == rootPath {
		return Path{}, nil
	}
	parts := strings.Split(s, "/")
	p := make(Path, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: bad path segment %q", ErrInvalidInput, part)
		}
		p[i] = n
	}
	return p, nil
}

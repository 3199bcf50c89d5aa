package docschema

import (
	"bufio"
	"io"
	"slices"
	"strings"
	"sync/atomic"
)

// FieldSelector is the set of index fields enabled for emission.
// An empty selector means every field is emitted.
type FieldSelector interface {
	IsEmpty() bool
	Contains(name string) bool
}

var _ FieldSelector = (*FieldSet)(nil)

// FieldSet is an immutable FieldSelector. A nil *FieldSet is empty.
type FieldSet struct {
	names map[string]struct{}
}

// NewFieldSet returns a FieldSet containing names. Blank names are ignored.
func NewFieldSet(names ...string) *FieldSet {
	s := &FieldSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			s.names[name] = struct{}{}
		}
	}
	return s
}

// ParseFieldSet reads a line-oriented field list, one keyword per line.
// Blank lines and lines starting with '#' are skipped, so a field is
// disabled by commenting it out.
func ParseFieldSet(r io.Reader) (*FieldSet, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewFieldSet(names...), nil
}

// IsEmpty reports whether the set has no names (universal mode).
func (s *FieldSet) IsEmpty() bool {
	return s == nil || len(s.names) == 0
}

// Contains reports whether name is in the set.
func (s *FieldSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the set.
func (s *FieldSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the names in the set, sorted.
func (s *FieldSet) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Enabled reports whether a field passes the selector gate.
func Enabled(sel FieldSelector, name string) bool {
	return sel == nil || sel.IsEmpty() || sel.Contains(name)
}

// FieldSetHolder publishes FieldSet snapshots to concurrent readers.
// Reloading installs a new snapshot; published snapshots are never mutated.
type FieldSetHolder struct {
	current atomic.Pointer[FieldSet]
}

// NewFieldSetHolder returns a holder publishing s.
func NewFieldSetHolder(s *FieldSet) *FieldSetHolder {
	h := &FieldSetHolder{}
	h.Store(s)
	return h
}

// Load returns the current snapshot. The result is never nil.
func (h *FieldSetHolder) Load() *FieldSet {
	if s := h.current.Load(); s != nil {
		return s
	}
	return NewFieldSet()
}

// Store installs s as the current snapshot.
func (h *FieldSetHolder) Store(s *FieldSet) {
	if s == nil {
		s = NewFieldSet()
	}
	h.current.Store(s)
}

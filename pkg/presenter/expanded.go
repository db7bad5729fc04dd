package presenter

import "sort"

// ExpandedSet tracks which framework cards are open. The zero value is an
// empty, ready-to-use set.
type ExpandedSet struct {
	ids map[string]struct{}
}

// NewExpandedSet returns a set with the given ids expanded.
func NewExpandedSet(ids ...string) ExpandedSet {
	s := ExpandedSet{}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

// Has reports whether id is expanded.
func (s ExpandedSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Toggle removes id if present and adds it otherwise. Toggling the same id
// twice restores the original set.
func (s *ExpandedSet) Toggle(id string) {
	if s.Has(id) {
		delete(s.ids, id)
		return
	}
	s.add(id)
}

func (s ExpandedSet) Len() int {
	return len(s.ids)
}

// IDs returns the expanded ids in sorted order.
func (s ExpandedSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s ExpandedSet) Clone() ExpandedSet {
	return NewExpandedSet(s.IDs()...)
}

func (s *ExpandedSet) add(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

package usecase

import "sort"

// SelectionSet holds the record ids chosen for a bulk action. Methods never
// mutate the receiver.
type SelectionSet map[string]struct{}

// NewSelectionSet builds a set from ids.
func NewSelectionSet(ids ...string) SelectionSet {
	s := make(SelectionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Toggle returns a copy with id added if absent and removed if present.
func (s SelectionSet) Toggle(id string) SelectionSet {
	out := make(SelectionSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	if _, ok := out[id]; ok {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}

// Has reports whether id is selected.
func (s SelectionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of selected ids.
func (s SelectionSet) Len() int {
	return len(s)
}

// IDs returns the selected ids sorted.
func (s SelectionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ContainsAll reports whether every id in ids is selected.
func (s SelectionSet) ContainsAll(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

// ToggleSelection is the functional form of SelectionSet.Toggle.
func ToggleSelection(set SelectionSet, id string) SelectionSet {
	return set.Toggle(id)
}

// SelectAll selects exactly visibleIDs when checked and nothing otherwise.
// Only the visible page is ever selected, not the whole filtered list.
func SelectAll(visibleIDs []string, checked bool) SelectionSet {
	if !checked {
		return SelectionSet{}
	}
	return NewSelectionSet(visibleIDs...)
}

package refdata

import "weedwatch/utils"

// NameSet is a membership set of normalized scientific names, built
// from the noxious-weed list. All lookups go through utils.Norm so
// callers can pass names in any casing or spacing.
type NameSet map[string]struct{}

// NewNameSet creates an empty NameSet.
func NewNameSet() NameSet {
	return make(NameSet)
}

// Add normalizes the name and inserts it. Returns true if the name was
// newly added, false if already present.
func (s NameSet) Add(name string) bool {
	key := utils.Norm(name)
	if key == "" {
		return false
	}
	if _, exists := s[key]; exists {
		return false
	}
	s[key] = struct{}{}
	return true
}

// Contains reports whether the normalized name is in the set.
func (s NameSet) Contains(name string) bool {
	_, exists := s[utils.Norm(name)]
	return exists
}

// Len returns the number of unique names tracked.
func (s NameSet) Len() int {
	return len(s)
}

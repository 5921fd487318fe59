package auth

import "strings"

// AdminSet holds the identifiers of privileged users
type AdminSet struct {
	ids map[string]bool
}

// NewAdminSet builds a set from identifiers; surrounding whitespace and empty entries are dropped
func NewAdminSet(ids []string) *AdminSet {
	set := &AdminSet{ids: make(map[string]bool)}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set.ids[id] = true
	}
	return set
}

// IsAdmin reports whether userID is an exact member of the set
func (s *AdminSet) IsAdmin(userID string) bool {
	if s == nil {
		return false
	}
	return s.ids[userID]
}

// Len returns the number of admins
func (s *AdminSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

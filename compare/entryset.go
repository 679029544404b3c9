package compare

import (
	"sort"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// EntrySet is a deduplicating, insertion-ordered collection of entries keyed
// by full structural equality (DN plus every attribute value), not by DN
// alone. It is filled during ingestion and read-only afterwards, which is
// what lets every report task share it without locking.
type EntrySet struct {
	entries []*ldap.Entry
	seen    map[string]struct{}
}

func NewEntrySet() *EntrySet {
	return &EntrySet{seen: make(map[string]struct{})}
}

// Add inserts the entry unless a structurally identical entry is already
// present. It reports whether the entry was inserted.
func (s *EntrySet) Add(e *ldap.Entry) bool {
	fp := Fingerprint(e)
	if _, ok := s.seen[fp]; ok {
		return false
	}
	s.seen[fp] = struct{}{}
	s.entries = append(s.entries, e)
	return true
}

// Contains reports whether a structurally identical entry is in the set.
func (s *EntrySet) Contains(e *ldap.Entry) bool {
	_, ok := s.seen[Fingerprint(e)]
	return ok
}

func (s *EntrySet) Len() int {
	return len(s.entries)
}

// Entries returns the entries in insertion order. Callers must not modify
// the returned slice or the entries it holds.
func (s *EntrySet) Entries() []*ldap.Entry {
	return s.entries
}

// Fingerprint renders a canonical form of an entry: the DN followed by every
// attribute with its name case-folded and names and values sorted. Two
// entries have equal fingerprints exactly when they are structurally equal.
func Fingerprint(e *ldap.Entry) string {
	byName := make(map[string][]string, len(e.Attributes))
	names := make([]string, 0, len(e.Attributes))
	for _, a := range e.Attributes {
		n := strings.ToLower(a.Name)
		if _, ok := byName[n]; !ok {
			names = append(names, n)
		}
		byName[n] = append(byName[n], a.Values...)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(e.DN)
	for _, n := range names {
		values := append([]string(nil), byName[n]...)
		sort.Strings(values)
		b.WriteByte(0x1e)
		b.WriteString(n)
		for _, v := range values {
			b.WriteByte(0x1f)
			b.WriteString(v)
		}
	}
	return b.String()
}

package compare

import (
	"github.com/go-ldap/ldap/v3"

	"ldifcompare/ldif"
)

// Lookup indexes are built fresh inside each report task and never shared,
// trading a little recomputation for lock-free isolation. Because an
// EntrySet deduplicates on full content, two entries can still collide on a
// DN or on a matching-attribute value; collisions resolve first-wins in set
// insertion order, which is the record order of the source file. That makes
// the winner deterministic across runs.

// indexByDN builds a lookup from DN to entry.
func indexByDN(set *EntrySet) map[string]*ldap.Entry {
	idx := make(map[string]*ldap.Entry, set.Len())
	for _, e := range set.Entries() {
		if _, ok := idx[e.DN]; !ok {
			idx[e.DN] = e
		}
	}
	return idx
}

// indexByValue builds a lookup keyed by the first value of the named
// attribute. Entries without the attribute are left out of the index
// entirely.
func indexByValue(set *EntrySet, attr string) map[string]*ldap.Entry {
	idx := make(map[string]*ldap.Entry)
	for _, e := range set.Entries() {
		if !ldif.HasAttribute(e, attr) {
			continue
		}
		v := ldif.AttributeValue(e, attr)
		if _, ok := idx[v]; !ok {
			idx[v] = e
		}
	}
	return idx
}

package ldif

import (
	"sort"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Diff returns the ordered list of modifications needed to turn the base
// entry's attributes into the probe entry's. Attribute names are compared
// case-insensitively and the DN is never diffed, so two entries under
// different DNs still produce a purely attribute-level edit script.
// Diff(e, e) is empty. The result is ordered by case-folded attribute name,
// making it deterministic for a given pair of entries.
func Diff(base, probe *ldap.Entry) []Modification {
	type attrPair struct {
		name  string // first-seen spelling
		base  []string
		probe []string
	}

	pairs := make(map[string]*attrPair)
	pair := func(name string) *attrPair {
		folded := strings.ToLower(name)
		p, ok := pairs[folded]
		if !ok {
			p = &attrPair{name: name}
			pairs[folded] = p
		}
		return p
	}

	for _, a := range base.Attributes {
		p := pair(a.Name)
		p.base = append(p.base, a.Values...)
	}
	for _, a := range probe.Attributes {
		p := pair(a.Name)
		p.probe = append(p.probe, a.Values...)
	}

	names := make([]string, 0, len(pairs))
	for folded := range pairs {
		names = append(names, folded)
	}
	sort.Strings(names)

	var mods []Modification
	for _, folded := range names {
		p := pairs[folded]
		switch {
		case len(p.probe) == 0:
			mods = append(mods, Modification{Op: Delete, Name: p.name, Values: p.base})
		case len(p.base) == 0:
			mods = append(mods, Modification{Op: Add, Name: p.name, Values: p.probe})
		case !sameValueSet(p.base, p.probe):
			mods = append(mods, Modification{Op: Replace, Name: p.name, Values: p.probe})
		}
	}
	return mods
}

// sameValueSet compares two value lists as unordered multisets.
func sameValueSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

package compare

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// AttributeFilter strips configured attributes from entries before they
// enter an EntrySet, so volatile attributes like lastLogon never take part
// in any comparison. Names match case-insensitively, either exactly or by
// prefix, mirroring the codec's case rules. Filtering is idempotent.
type AttributeFilter struct {
	exact    map[string]struct{}
	prefixes []string
}

func NewAttributeFilter(names, prefixes []string) *AttributeFilter {
	f := &AttributeFilter{exact: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			f.exact[n] = struct{}{}
		}
	}
	for _, p := range prefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			f.prefixes = append(f.prefixes, p)
		}
	}
	return f
}

// Apply removes every ignored attribute from the entry, in place. The entry
// must not have been published to other goroutines yet.
func (f *AttributeFilter) Apply(e *ldap.Entry) *ldap.Entry {
	kept := e.Attributes[:0]
	for _, a := range e.Attributes {
		if !f.ignored(a.Name) {
			kept = append(kept, a)
		}
	}
	e.Attributes = kept
	return e
}

func (f *AttributeFilter) ignored(name string) bool {
	n := strings.ToLower(name)
	if _, ok := f.exact[n]; ok {
		return true
	}
	for _, p := range f.prefixes {
		if strings.HasPrefix(n, p) {
			return true
		}
	}
	return false
}

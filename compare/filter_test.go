package compare

import (
	"testing"

	"ldifcompare/ldif"
)

func TestAttributeFilter_ExactAndPrefix(t *testing.T) {
	f := NewAttributeFilter([]string{"lastLogon"}, []string{"msDS-"})
	e := entry("cn=a,dc=com", map[string][]string{
		"cn":                    {"a"},
		"lastlogon":             {"12345"},
		"msDS-KeyVersionNumber": {"3"},
		"mail":                  {"a@x"},
	})

	f.Apply(e)

	for _, tc := range []struct {
		name string
		want bool
	}{
		{"cn", true},
		{"mail", true},
		{"lastLogon", false},
		{"msDS-KeyVersionNumber", false},
	} {
		if got := ldif.HasAttribute(e, tc.name); got != tc.want {
			t.Errorf("HasAttribute(%s) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAttributeFilter_Idempotent(t *testing.T) {
	f := NewAttributeFilter([]string{"logonTime"}, []string{"ds-sync-"})
	e := entry("cn=a,dc=com", map[string][]string{
		"cn":           {"a"},
		"logonTime":    {"now"},
		"ds-sync-hist": {"x"},
	})

	f.Apply(e)
	first := Fingerprint(e)
	f.Apply(e)
	if Fingerprint(e) != first {
		t.Error("second filter pass changed the entry")
	}
}

func TestAttributeFilter_EmptyConfigKeepsEverything(t *testing.T) {
	f := NewAttributeFilter(nil, nil)
	e := entry("cn=a,dc=com", map[string][]string{"cn": {"a"}, "mail": {"a@x"}})
	f.Apply(e)
	if len(e.Attributes) != 2 {
		t.Errorf("expected 2 attributes, got %d", len(e.Attributes))
	}
}

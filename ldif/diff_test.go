package ldif

import (
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_SelfIsEmpty(t *testing.T) {
	e := ldap.NewEntry("cn=same,dc=com", map[string][]string{
		"cn":   {"same"},
		"mail": {"same@example.com", "other@example.com"},
	})
	assert.Empty(t, Diff(e, e))
}

func TestDiff_ReplaceAddDelete(t *testing.T) {
	base := ldap.NewEntry("cn=x,dc=com", map[string][]string{
		"cn":        {"x"},
		"title":     {"engineer"},
		"telephone": {"111"},
	})
	probe := ldap.NewEntry("cn=x,dc=com", map[string][]string{
		"cn":    {"x"},
		"title": {"manager"},
		"mail":  {"x@example.com"},
	})

	mods := Diff(base, probe)
	require.Len(t, mods, 3)

	// Ordered by case-folded attribute name: mail, telephone, title.
	assert.Equal(t, Modification{Op: Add, Name: "mail", Values: []string{"x@example.com"}}, mods[0])
	assert.Equal(t, Modification{Op: Delete, Name: "telephone", Values: []string{"111"}}, mods[1])
	assert.Equal(t, Modification{Op: Replace, Name: "title", Values: []string{"manager"}}, mods[2])
}

func TestDiff_AttributeNamesCaseInsensitive(t *testing.T) {
	base := ldap.NewEntry("cn=x,dc=com", map[string][]string{"Mail": {"x@example.com"}})
	probe := ldap.NewEntry("cn=x,dc=com", map[string][]string{"mail": {"x@example.com"}})
	assert.Empty(t, Diff(base, probe))
}

func TestDiff_ValueOrderIrrelevant(t *testing.T) {
	base := ldap.NewEntry("cn=x,dc=com", map[string][]string{"member": {"a", "b"}})
	probe := ldap.NewEntry("cn=x,dc=com", map[string][]string{"member": {"b", "a"}})
	assert.Empty(t, Diff(base, probe))
}

func TestDiff_DNNeverDiffed(t *testing.T) {
	base := ldap.NewEntry("cn=old,dc=com", map[string][]string{"cn": {"v"}})
	probe := ldap.NewEntry("cn=new,dc=com", map[string][]string{"cn": {"v"}})
	assert.Empty(t, Diff(base, probe))
}

func TestModification_String(t *testing.T) {
	m := Modification{Op: Replace, Name: "telephoneNumber", Values: []string{"555-1234"}}
	assert.Equal(t, "replace: telephoneNumber\ntelephoneNumber: 555-1234", m.String())

	del := Modification{Op: Delete, Name: "title", Values: []string{"engineer"}}
	assert.Equal(t, "delete: title\ntitle: engineer", del.String())
}

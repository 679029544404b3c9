package ldif

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// HasAttribute reports whether the entry carries the named attribute.
// Attribute names are compared case-insensitively.
func HasAttribute(e *ldap.Entry, name string) bool {
	for _, a := range e.Attributes {
		if strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

// AttributeValue returns the first value of the named attribute, or "" when
// the entry does not carry it.
func AttributeValue(e *ldap.Entry, name string) string {
	for _, a := range e.Attributes {
		if strings.EqualFold(a.Name, name) && len(a.Values) > 0 {
			return a.Values[0]
		}
	}
	return ""
}

// AttributeValues returns every value of the named attribute, merging
// case-variant spellings.
func AttributeValues(e *ldap.Entry, name string) []string {
	var values []string
	for _, a := range e.Attributes {
		if strings.EqualFold(a.Name, name) {
			values = append(values, a.Values...)
		}
	}
	return values
}

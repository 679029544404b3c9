package ldif

import (
	"fmt"
	"strings"
)

// Operation identifies the kind of change a Modification describes.
type Operation int

const (
	Add Operation = iota
	Delete
	Replace
)

func (o Operation) String() string {
	switch o {
	case Add:
		return "add"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// Modification describes one attribute-level change needed to transform a
// base entry into a probe entry. Values keep the order they carry on the
// entry that contributed them.
type Modification struct {
	Op     Operation
	Name   string
	Values []string
}

// String renders the modification in LDIF change record syntax, e.g.
//
//	replace: telephoneNumber
//	telephoneNumber: 555-1234
func (m Modification) String() string {
	var b strings.Builder
	b.WriteString(m.Op.String())
	b.WriteString(": ")
	b.WriteString(m.Name)
	for _, v := range m.Values {
		b.WriteByte('\n')
		b.WriteString(m.Name)
		b.WriteString(": ")
		b.WriteString(v)
	}
	return b.String()
}

// ParseError reports a single malformed record. The reader has already
// skipped past the record, so callers may log the error and continue with
// the next call to Next.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ldif: line %d: %s", e.Line, e.Msg)
}

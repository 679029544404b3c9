package ldif

import (
	"bufio"
	"encoding/base64"
	"io"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Column at which long lines are folded onto continuation lines.
const foldWidth = 76

// Writer serializes entries, comments and delete change records to an LDIF
// stream. It buffers output; call Flush before closing the underlying file.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteVersionHeader writes the "version: 1" marker. Call once, before any
// records.
func (w *Writer) WriteVersionHeader() error {
	_, err := w.w.WriteString("version: 1\n\n")
	return err
}

// WriteComment writes one folded comment line, optionally followed by a
// blank separator line.
func (w *Writer) WriteComment(comment string, blankAfter bool) error {
	if err := w.fold("# " + comment); err != nil {
		return err
	}
	if blankAfter {
		return w.w.WriteByte('\n')
	}
	return nil
}

// WriteEntry writes the entry as one LDIF record, preceded by any comments
// and followed by a blank separator line.
func (w *Writer) WriteEntry(e *ldap.Entry, comments ...string) error {
	for _, c := range comments {
		if err := w.WriteComment(c, false); err != nil {
			return err
		}
	}
	if err := w.writeValue("dn", e.DN); err != nil {
		return err
	}
	for _, attr := range e.Attributes {
		for _, v := range attr.Values {
			if err := w.writeValue(attr.Name, v); err != nil {
				return err
			}
		}
	}
	return w.w.WriteByte('\n')
}

// WriteDelete appends a delete change record for the given DN.
func (w *Writer) WriteDelete(dn string, comments ...string) error {
	for _, c := range comments {
		if err := w.WriteComment(c, false); err != nil {
			return err
		}
	}
	if err := w.writeValue("dn", dn); err != nil {
		return err
	}
	if err := w.fold("changetype: delete"); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) writeValue(name, value string) error {
	if safeValue(value) {
		return w.fold(name + ": " + value)
	}
	return w.fold(name + ":: " + base64.StdEncoding.EncodeToString([]byte(value)))
}

// safeValue reports whether the value may appear verbatim after a single
// colon under the SAFE-STRING rules: ASCII, no leading space/colon/'<', no
// control characters, no trailing space.
func safeValue(v string) bool {
	if v == "" {
		return true
	}
	switch v[0] {
	case ' ', ':', '<':
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c < 0x20 || c >= 0x7f {
			return false
		}
	}
	return !strings.HasSuffix(v, " ")
}

// fold writes a logical line, splitting it across continuation lines at the
// fold width. Folded output only ever carries ASCII (plain safe values or
// base64), so byte-wise splitting is safe.
func (w *Writer) fold(line string) error {
	if len(line) <= foldWidth {
		_, err := w.w.WriteString(line + "\n")
		return err
	}
	if _, err := w.w.WriteString(line[:foldWidth] + "\n"); err != nil {
		return err
	}
	for rest := line[foldWidth:]; len(rest) > 0; {
		n := foldWidth - 1
		if n > len(rest) {
			n = len(rest)
		}
		if _, err := w.w.WriteString(" " + rest[:n] + "\n"); err != nil {
			return err
		}
		rest = rest[n:]
	}
	return nil
}

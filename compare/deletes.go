package compare

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/go-ldap/ldap/v3"

	"ldifcompare/ldif"
)

// deleteWriter emits one delete change record per non-matched right-side
// entry. Both non-match tasks may discover deletable entries concurrently,
// so every write is mutex-guarded. The file is opened lazily, on the first
// delete, so no deletes artifact appears when everything matches.
type deleteWriter struct {
	mu   sync.Mutex
	path string
	f    *os.File
	w    *ldif.Writer
}

func newDeleteWriter(path string) *deleteWriter {
	return &deleteWriter{path: path}
}

func (d *deleteWriter) WriteDelete(dn string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		f, err := os.Create(d.path)
		if err != nil {
			return fmt.Errorf("create deletes file: %w", err)
		}
		d.f = f
		d.w = ldif.NewWriter(f)
		if err := d.w.WriteVersionHeader(); err != nil {
			return err
		}
	}
	if err := d.w.WriteDelete(dn); err != nil {
		return fmt.Errorf("write delete record for %s: %w", dn, err)
	}
	return nil
}

// Close flushes and closes the file if it was ever opened.
func (d *deleteWriter) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	if err := d.w.Flush(); err != nil {
		d.f.Close()
		return err
	}
	return d.f.Close()
}

// missingReport collects probe entries that lack their matching attribute.
// The report file is shared by both non-match directions, so it gets the
// same serialized, lazily-opened treatment as the deletes sink.
type missingReport struct {
	mu   sync.Mutex
	path string
	f    *os.File
	w    *bufio.Writer
}

func newMissingReport(path string) *missingReport {
	return &missingReport{path: path}
}

func (m *missingReport) Report(e *ldap.Entry, attr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		f, err := os.Create(m.path)
		if err != nil {
			return fmt.Errorf("create missing-attribute report: %w", err)
		}
		m.f = f
		m.w = bufio.NewWriter(f)
		fmt.Fprintln(m.w, "Entries that lack their matching attribute and were excluded from matching.")
	}
	fmt.Fprintln(m.w)
	fmt.Fprintf(m.w, "Entry '%s' has no value for matching attribute '%s'\n", e.DN, attr)
	return nil
}

func (m *missingReport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil
	}
	if err := m.w.Flush(); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}

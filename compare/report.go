package compare

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"ldifcompare/ldif"
)

// Marker written instead of modifications when a matched pair has no
// attribute-level difference.
const noDiffMarker = "NO DIFF"

// textReport is a buffered text sink for one report file. Each report is
// owned by a single task, so it needs no locking.
type textReport struct {
	f *os.File
	w *bufio.Writer
}

func newTextReport(path, heading string) (*textReport, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report %s: %w", path, err)
	}
	r := &textReport{f: f, w: bufio.NewWriter(f)}
	if heading != "" {
		fmt.Fprintln(r.w, heading)
	}
	return r, nil
}

func (r *textReport) Close() error {
	if err := r.w.Flush(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

// ldifSink couples an LDIF writer with its backing file. The version header
// and any file-level comments are written up front, before any records.
type ldifSink struct {
	f *os.File
	w *ldif.Writer
}

func newLDIFSink(path string, comments ...string) (*ldifSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create ldif sink %s: %w", path, err)
	}
	s := &ldifSink{f: f, w: ldif.NewWriter(f)}
	if err := s.w.WriteVersionHeader(); err != nil {
		f.Close()
		return nil, err
	}
	for i, c := range comments {
		if err := s.w.WriteComment(c, i == len(comments)-1); err != nil {
			f.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *ldifSink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// writeDiffBlock appends one labeled block to a change record report: a
// blank separator, the header naming the matched pair, then each
// modification in order. With markEmpty set, an empty edit script is made
// explicit with the NO DIFF marker instead of being silent.
func writeDiffBlock(w io.Writer, header string, mods []ldif.Modification, markEmpty bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, header)
	if len(mods) == 0 {
		if markEmpty {
			fmt.Fprintln(w, noDiffMarker)
		}
		return
	}
	for _, m := range mods {
		fmt.Fprintln(w, m.String())
	}
}

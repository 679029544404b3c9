package ldif

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Reader pulls entries out of an LDIF stream one record at a time.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{scanner: sc}
}

// Next returns the next entry in the stream, io.EOF once the stream is
// exhausted, or a *ParseError for a malformed record. A *ParseError is
// recoverable: the offending record has been consumed and the following
// call to Next resumes at the next record. Any other error is a stream
// failure and ends the read.
func (r *Reader) Next() (*ldap.Entry, error) {
	lines, start, err := r.paragraph()
	if err != nil {
		return nil, err
	}

	// A version marker may lead the first record or stand on its own.
	if strings.HasPrefix(strings.ToLower(lines[0]), "version:") {
		lines = lines[1:]
		if len(lines) == 0 {
			return r.Next()
		}
	}

	name, dn, err := splitLine(lines[0])
	if err != nil || !strings.EqualFold(name, "dn") {
		return nil, &ParseError{Line: start, Msg: "record does not start with a dn line"}
	}

	attrs := make(map[string][]string, len(lines)-1)
	spelling := make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		name, value, err := splitLine(line)
		if err != nil {
			return nil, &ParseError{Line: start, Msg: fmt.Sprintf("entry %s: %v", dn, err)}
		}
		if strings.EqualFold(name, "changetype") {
			return nil, &ParseError{Line: start, Msg: fmt.Sprintf("entry %s: change records are not supported in input", dn)}
		}
		// Attribute names are case-insensitive; keep the first spelling.
		folded := strings.ToLower(name)
		canon, ok := spelling[folded]
		if !ok {
			canon = name
			spelling[folded] = name
		}
		attrs[canon] = append(attrs[canon], value)
	}

	return ldap.NewEntry(dn, attrs), nil
}

// paragraph collects the logical lines of the next record, unfolding
// continuation lines and dropping comments. It returns io.EOF when the
// stream holds no further records.
func (r *Reader) paragraph() ([]string, int, error) {
	var logical []string
	start := 0
	inComment := false
	for r.scanner.Scan() {
		r.line++
		raw := strings.TrimRight(r.scanner.Text(), "\r")
		if raw == "" {
			if len(logical) > 0 {
				return logical, start, nil
			}
			inComment = false
			continue
		}
		if strings.HasPrefix(raw, " ") {
			// Continuation of the previous physical line.
			if inComment {
				continue
			}
			if len(logical) == 0 {
				start = r.line
				logical = append(logical, raw[1:])
				continue
			}
			logical[len(logical)-1] += raw[1:]
			continue
		}
		inComment = strings.HasPrefix(raw, "#")
		if inComment {
			continue
		}
		if len(logical) == 0 {
			start = r.line
		}
		logical = append(logical, raw)
	}
	if err := r.scanner.Err(); err != nil {
		return nil, r.line, fmt.Errorf("read ldif stream: %w", err)
	}
	if len(logical) > 0 {
		return logical, start, nil
	}
	return nil, r.line, io.EOF
}

func splitLine(line string) (name, value string, err error) {
	i := strings.Index(line, ":")
	if i <= 0 {
		return "", "", fmt.Errorf("missing attribute separator in %q", line)
	}
	name = line[:i]
	rest := line[i+1:]
	switch {
	case strings.HasPrefix(rest, ":"):
		decoded, derr := base64.StdEncoding.DecodeString(strings.TrimLeft(rest[1:], " "))
		if derr != nil {
			return "", "", fmt.Errorf("bad base64 value for %s: %v", name, derr)
		}
		value = string(decoded)
	case strings.HasPrefix(rest, "<"):
		return "", "", fmt.Errorf("URL value for %s is not supported", name)
	default:
		value = strings.TrimLeft(rest, " ")
	}
	return name, value, nil
}

package ldif

import (
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, input string) ([]*struct {
	DN    string
	Attrs map[string][]string
}, []error) {
	t.Helper()
	var entries []*struct {
		DN    string
		Attrs map[string][]string
	}
	var parseErrs []error
	r := NewReader(strings.NewReader(input))
	for {
		e, err := r.Next()
		if err == io.EOF {
			return entries, parseErrs
		}
		if _, ok := err.(*ParseError); ok {
			parseErrs = append(parseErrs, err)
			continue
		}
		if err != nil {
			t.Fatalf("unexpected stream error: %v", err)
		}
		attrs := make(map[string][]string)
		for _, a := range e.Attributes {
			attrs[a.Name] = append(attrs[a.Name], a.Values...)
		}
		entries = append(entries, &struct {
			DN    string
			Attrs map[string][]string
		}{e.DN, attrs})
	}
}

func TestReader_BasicEntries(t *testing.T) {
	input := `version: 1

dn: cn=alice,dc=example,dc=com
cn: alice
mail: alice@example.com
mail: a.smith@example.com

dn: cn=bob,dc=example,dc=com
cn: bob
`
	entries, errs := readAll(t, input)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].DN != "cn=alice,dc=example,dc=com" {
		t.Errorf("unexpected DN: %s", entries[0].DN)
	}
	if got := entries[0].Attrs["mail"]; len(got) != 2 || got[1] != "a.smith@example.com" {
		t.Errorf("unexpected mail values: %v", got)
	}
}

func TestReader_FoldingAndBase64(t *testing.T) {
	input := "dn: cn=carol,dc=exam\n ple,dc=com\n" +
		"description:: aGVsbG8gd29ybGQ=\n" +
		"cn: carol\n"
	entries, errs := readAll(t, input)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].DN != "cn=carol,dc=example,dc=com" {
		t.Errorf("folded DN not joined: %s", entries[0].DN)
	}
	if got := entries[0].Attrs["description"]; len(got) != 1 || got[0] != "hello world" {
		t.Errorf("base64 value not decoded: %v", got)
	}
}

func TestReader_CommentsSkipped(t *testing.T) {
	input := "# file comment\n# folded comment that goes on\n and on\n\ndn: cn=d,dc=com\ncn: d\n"
	entries, errs := readAll(t, input)
	if len(errs) != 0 || len(entries) != 1 {
		t.Fatalf("got %d entries, errors %v", len(entries), errs)
	}
}

func TestReader_MalformedRecordIsSkippable(t *testing.T) {
	input := `cn: no-dn-line
cn: still-not-an-entry

dn: cn=ok,dc=com
cn: ok
`
	entries, errs := readAll(t, input)
	if len(errs) != 1 {
		t.Fatalf("expected 1 parse error, got %v", errs)
	}
	if len(entries) != 1 || entries[0].DN != "cn=ok,dc=com" {
		t.Fatalf("reader did not recover after malformed record: %+v", entries)
	}
}

func TestReader_ChangeRecordRejected(t *testing.T) {
	input := `dn: cn=gone,dc=com
changetype: delete

dn: cn=kept,dc=com
cn: kept
`
	entries, errs := readAll(t, input)
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "change records") {
		t.Fatalf("expected change record parse error, got %v", errs)
	}
	if len(entries) != 1 || entries[0].DN != "cn=kept,dc=com" {
		t.Fatalf("reader did not continue past change record: %+v", entries)
	}
}

func TestReader_CaseVariantAttributeNamesMerge(t *testing.T) {
	input := "dn: cn=e,dc=com\nCN: e\ncn: other\n"
	entries, errs := readAll(t, input)
	if len(errs) != 0 || len(entries) != 1 {
		t.Fatalf("got %d entries, errors %v", len(entries), errs)
	}
	if got := entries[0].Attrs["CN"]; len(got) != 2 {
		t.Fatalf("case variants not merged under first spelling: %v", entries[0].Attrs)
	}
}

func TestReader_EmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

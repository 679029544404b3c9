package compare

import (
	"fmt"

	"ldifcompare/ldif"
)

// Strategy selects how entries from the two snapshots are matched. Exactly
// one of the two implementations is chosen per run.
type Strategy interface {
	strategyName() string
}

// IdentityKey matches entries across the snapshots by their DN.
type IdentityKey struct{}

func (IdentityKey) strategyName() string { return "dn" }

// AttributeValue matches entries by the value of a configured attribute on
// each side, for snapshots whose DNs are not stable (e.g. after a tree
// migration).
type AttributeValue struct {
	Names MatchingAttributeNames
}

func (AttributeValue) strategyName() string { return "matching-attribute" }

// MatchingAttributeNames carries the attribute name used as the join key on
// each side. When the configuration names only one attribute, both fields
// hold it.
type MatchingAttributeNames struct {
	Left  string
	Right string
}

// matchByDN indexes the base set by DN and probes it with every entry of
// the probe set. Probe entries that are structurally present in the base
// set are matched with nothing to report. Entries whose DN matches but
// whose content differs get a diff block turning the base entry into the
// probe entry and, when diffRecords is non-nil, a copy of the probe entry
// in the differing-entries LDIF file. Entries whose DN is absent from the
// base side are unique to the probe side and go to the unique sink.
func matchByDN(base, probe *EntrySet, report *textReport, unique *ldifSink, diffRecords *ldifSink) error {
	idx := indexByDN(base)
	for _, p := range probe.Entries() {
		if base.Contains(p) {
			continue
		}
		b, ok := idx[p.DN]
		if !ok {
			if err := unique.w.WriteEntry(p); err != nil {
				return fmt.Errorf("write unique entry %s: %w", p.DN, err)
			}
			continue
		}
		writeDiffBlock(report.w, p.DN, ldif.Diff(b, p), false)
		if diffRecords != nil {
			if err := diffRecords.w.WriteEntry(p); err != nil {
				return fmt.Errorf("write differing entry %s: %w", p.DN, err)
			}
		}
	}
	return nil
}

// matchByAttribute indexes the base set by the value of baseAttr and probes
// it with probeAttr's value from every probe entry. Matched pairs get a
// diff block turning the probe entry into the base entry; pairs with no
// difference are marked explicitly. Probe entries without the attribute are
// skipped here - the non-match pass owns missing-attribute reporting so
// each entry is reported exactly once per direction.
func matchByAttribute(base, probe *EntrySet, baseAttr, probeAttr string, report *textReport) error {
	idx := indexByValue(base, baseAttr)
	for _, p := range probe.Entries() {
		if !ldif.HasAttribute(p, probeAttr) {
			continue
		}
		v := ldif.AttributeValue(p, probeAttr)
		b, ok := idx[v]
		if !ok {
			continue
		}
		header := fmt.Sprintf("Matched '%s' using value '%s' with '%s'", p.DN, v, b.DN)
		writeDiffBlock(report.w, header, ldif.Diff(p, b), true)
	}
	return nil
}

// findNonMatching probes the base index with every probe entry and reports
// the ones that cannot be matched, to both a text report and an LDIF sink.
// Probe entries missing the probe attribute go to the shared
// missing-attribute report instead. When deletes is non-nil, every
// non-matched entry additionally yields a delete change record. Each probe
// entry therefore lands in exactly one of: matched (silent here),
// non-matched, or missing the matching attribute.
func findNonMatching(base, probe *EntrySet, baseAttr, probeAttr string, report *textReport, sink *ldifSink, missing *missingReport, deletes *deleteWriter) error {
	idx := indexByValue(base, baseAttr)
	for _, p := range probe.Entries() {
		if !ldif.HasAttribute(p, probeAttr) {
			if err := missing.Report(p, probeAttr); err != nil {
				return err
			}
			continue
		}
		v := ldif.AttributeValue(p, probeAttr)
		if _, ok := idx[v]; ok {
			continue
		}
		msg := fmt.Sprintf("No match found '%s' using value '%s'", p.DN, v)
		fmt.Fprintln(report.w)
		fmt.Fprintln(report.w, msg)
		if err := sink.w.WriteEntry(p, msg); err != nil {
			return fmt.Errorf("write non-matched entry %s: %w", p.DN, err)
		}
		if deletes != nil {
			if err := deletes.WriteDelete(p.DN); err != nil {
				return err
			}
		}
	}
	return nil
}

package compare

import (
	"path/filepath"
	"time"
)

// Timestamp prefix shared by every artifact of a run.
const fileNameTimeLayout = "2006-01-02 150405"

// outputPaths holds every artifact path for one run, plus the snapshot base
// names used in report headings. Which files actually get created depends
// on the selected strategy.
type outputPaths struct {
	leftName  string
	rightName string

	changeRecords        string
	reverseChangeRecords string

	// identity-key mode
	diffRecords string
	uniqueLeft  string
	uniqueRight string

	// attribute-value mode
	noMatch               string
	noMatchRecords        string
	reverseNoMatch        string
	reverseNoMatchRecords string
	missingAttribute      string
	deletes               string
}

func newOutputPaths(dir, leftName, rightName string, now time.Time) outputPaths {
	ts := now.Format(fileNameTimeLayout)
	join := func(name string) string {
		return filepath.Join(dir, ts+"-"+name)
	}
	return outputPaths{
		leftName:  leftName,
		rightName: rightName,

		changeRecords:        join("change_records.txt"),
		reverseChangeRecords: join("reverse-change_records.txt"),

		diffRecords: join("diff.ldif"),
		uniqueLeft:  join("unique-" + leftName),
		uniqueRight: join("unique-" + rightName),

		noMatch:               join("no-match.txt"),
		noMatchRecords:        join("no-match.ldif"),
		reverseNoMatch:        join("reverse-no-match.txt"),
		reverseNoMatchRecords: join("reverse-no-match.ldif"),
		missingAttribute:      join("missing-match-attribute.txt"),
		deletes:               join("deletes.ldif"),
	}
}

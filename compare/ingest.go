package compare

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"ldifcompare/ldif"
)

// ingestFile reads one snapshot end to end, filters every entry and folds
// the result into a deduplicated set. Malformed records are logged and
// skipped; a stream-level failure aborts this ingestion only.
func ingestFile(path string, filter *AttributeFilter, log *zap.Logger) (*EntrySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	set := NewEntrySet()
	skipped := 0
	r := ldif.NewReader(f)
	for {
		entry, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *ldif.ParseError
		if errors.As(err, &parseErr) {
			skipped++
			log.Warn("skipping malformed record", zap.String("file", path), zap.Error(parseErr))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot %s: %w", path, err)
		}
		set.Add(filter.Apply(entry))
	}

	log.Info("snapshot loaded",
		zap.String("file", path),
		zap.Int("entries", set.Len()),
		zap.Int("skipped", skipped),
	)
	return set, nil
}

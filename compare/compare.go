package compare

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options carries everything one comparison run needs. It is assembled by
// the caller (CLI or tests), so the engine stays free of any flag parsing.
type Options struct {
	// LeftPath is the snapshot with the "before" state, RightPath the one
	// with the "after" state.
	LeftPath  string
	RightPath string

	// OutputDir receives every artifact, each prefixed with the run
	// timestamp. Created if missing.
	OutputDir string

	// Attributes removed from every entry before comparison, by exact name
	// or by name prefix (both case-insensitive).
	IgnoreAttributes        []string
	IgnoreAttributePrefixes []string

	// Strategy selects DN or matching-attribute matching. Nil means
	// IdentityKey.
	Strategy Strategy

	// GenerateDeletes emits a delete change record for every right-side
	// entry with no match. Attribute-value mode only.
	GenerateDeletes bool

	// Workers bounds the task pool. Zero means the available hardware
	// parallelism.
	Workers int

	// Now fixes the artifact timestamp; zero means time.Now. Used by tests.
	Now time.Time
}

func (o Options) validate() error {
	if o.LeftPath == "" || o.RightPath == "" {
		return errors.New("both snapshot paths are required")
	}
	switch s := o.Strategy.(type) {
	case IdentityKey:
		if o.GenerateDeletes {
			return errors.New("generate-deletes requires matching-attribute mode")
		}
	case AttributeValue:
		if s.Names.Left == "" || s.Names.Right == "" {
			return errors.New("matching attribute names must not be empty")
		}
	default:
		return fmt.Errorf("unknown match strategy %T", o.Strategy)
	}
	return nil
}

// Run executes one comparison. The two snapshots are ingested concurrently
// into canonical sets; after the ingest barrier the report tasks of the
// selected strategy run on the same bounded pool; after the report barrier
// every sink is closed, whatever the outcome. A failing report task is
// logged and surrenders its barrier slot, so siblings always run to
// completion - its artifact is simply partial or missing.
func Run(opts Options, log *zap.Logger) error {
	if opts.Strategy == nil {
		opts.Strategy = IdentityKey{}
	}
	if err := opts.validate(); err != nil {
		return err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	filter := NewAttributeFilter(opts.IgnoreAttributes, opts.IgnoreAttributePrefixes)
	paths := newOutputPaths(opts.OutputDir, filepath.Base(opts.LeftPath), filepath.Base(opts.RightPath), now)
	log.Info("starting comparison",
		zap.String("strategy", opts.Strategy.strategyName()),
		zap.Int("workers", workers),
	)

	// Ingest phase: two tasks, one barrier.
	var left, right *EntrySet
	ingest := &errgroup.Group{}
	ingest.SetLimit(workers)
	ingest.Go(func() error {
		var err error
		left, err = ingestFile(opts.LeftPath, filter, log.With(zap.String("side", "left")))
		return err
	})
	ingest.Go(func() error {
		var err error
		right, err = ingestFile(opts.RightPath, filter, log.With(zap.String("side", "right")))
		return err
	})
	if err := ingest.Wait(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	// Report phase: 2 or 4 tasks depending on the strategy, one barrier,
	// then teardown via the deferred sink closers inside each phase.
	switch s := opts.Strategy.(type) {
	case IdentityKey:
		return runIdentityPhase(left, right, paths, workers, log)
	case AttributeValue:
		return runAttributePhase(left, right, s.Names, opts.GenerateDeletes, paths, workers, log)
	default:
		return fmt.Errorf("unknown match strategy %T", s)
	}
}

func runIdentityPhase(left, right *EntrySet, paths outputPaths, workers int, log *zap.Logger) (err error) {
	forward, err := newTextReport(paths.changeRecords,
		"For the entry from the FIRST LDIF file to match the entry from the SECOND LDIF file the following modifications must be made to the entry from the FIRST LDIF file.")
	if err != nil {
		return err
	}
	defer closeSink(&err, forward, paths.changeRecords, log)

	reverse, err := newTextReport(paths.reverseChangeRecords,
		"For the entry from the SECOND LDIF file to match the entry from the FIRST LDIF file the following modifications must be made to the entry from the SECOND LDIF file.")
	if err != nil {
		return err
	}
	defer closeSink(&err, reverse, paths.reverseChangeRecords, log)

	diffRecords, err := newLDIFSink(paths.diffRecords,
		fmt.Sprintf("This file contains entries from %s that differ in some way from entries in %s", paths.rightName, paths.leftName))
	if err != nil {
		return err
	}
	defer closeSink(&err, diffRecords, paths.diffRecords, log)

	uniqueRight, err := newLDIFSink(paths.uniqueRight,
		"Applicable only when matching using DN!",
		fmt.Sprintf("This file contains entries that only exist in %s, i.e. they are missing for some reason in %s or have been renamed/moved and have a different DN.", paths.rightName, paths.leftName))
	if err != nil {
		return err
	}
	defer closeSink(&err, uniqueRight, paths.uniqueRight, log)

	uniqueLeft, err := newLDIFSink(paths.uniqueLeft,
		"Applicable only when matching using DN!",
		fmt.Sprintf("This file contains entries that only exist in %s, i.e. they are missing for some reason in %s or have been renamed/moved and have a different DN.", paths.leftName, paths.rightName))
	if err != nil {
		return err
	}
	defer closeSink(&err, uniqueLeft, paths.uniqueLeft, log)

	g := &errgroup.Group{}
	g.SetLimit(workers)
	g.Go(task(log, "forward-diff", func() error {
		return matchByDN(left, right, forward, uniqueRight, diffRecords)
	}))
	g.Go(task(log, "reverse-diff", func() error {
		return matchByDN(right, left, reverse, uniqueLeft, nil)
	}))
	return g.Wait()
}

func runAttributePhase(left, right *EntrySet, names MatchingAttributeNames, generateDeletes bool, paths outputPaths, workers int, log *zap.Logger) (err error) {
	forward, err := newTextReport(paths.changeRecords,
		fmt.Sprintf("Matching entries in the FIRST LDIF file using the attribute '%s' from the SECOND LDIF file and displaying modifications that must be made to the entry in the FIRST LDIF file to match the entry from the SECOND LDIF file.", names.Right))
	if err != nil {
		return err
	}
	defer closeSink(&err, forward, paths.changeRecords, log)

	reverse, err := newTextReport(paths.reverseChangeRecords,
		fmt.Sprintf("Matching entries in the SECOND LDIF file using the attribute '%s' from the FIRST LDIF file and displaying modifications that must be made to the entry in the SECOND LDIF file to match the entry from the FIRST LDIF file.", names.Left))
	if err != nil {
		return err
	}
	defer closeSink(&err, reverse, paths.reverseChangeRecords, log)

	noMatch, err := newTextReport(paths.noMatch,
		fmt.Sprintf("Unable to match entries in the FIRST LDIF file using the attribute '%s' from the SECOND LDIF file.", names.Right))
	if err != nil {
		return err
	}
	defer closeSink(&err, noMatch, paths.noMatch, log)

	noMatchRecords, err := newLDIFSink(paths.noMatchRecords)
	if err != nil {
		return err
	}
	defer closeSink(&err, noMatchRecords, paths.noMatchRecords, log)

	reverseNoMatch, err := newTextReport(paths.reverseNoMatch,
		fmt.Sprintf("Unable to match entries in the SECOND LDIF file using the attribute '%s' from the FIRST LDIF file.", names.Left))
	if err != nil {
		return err
	}
	defer closeSink(&err, reverseNoMatch, paths.reverseNoMatch, log)

	reverseNoMatchRecords, err := newLDIFSink(paths.reverseNoMatchRecords)
	if err != nil {
		return err
	}
	defer closeSink(&err, reverseNoMatchRecords, paths.reverseNoMatchRecords, log)

	missing := newMissingReport(paths.missingAttribute)
	defer closeSink(&err, missing, paths.missingAttribute, log)

	var deletes *deleteWriter
	if generateDeletes {
		deletes = newDeleteWriter(paths.deletes)
		defer closeSink(&err, deletes, paths.deletes, log)
	}

	g := &errgroup.Group{}
	g.SetLimit(workers)
	g.Go(task(log, "forward-diff", func() error {
		return matchByAttribute(right, left, names.Right, names.Left, forward)
	}))
	g.Go(task(log, "reverse-diff", func() error {
		return matchByAttribute(left, right, names.Left, names.Right, reverse)
	}))
	g.Go(task(log, "left-non-match", func() error {
		return findNonMatching(right, left, names.Right, names.Left, noMatch, noMatchRecords, missing, nil)
	}))
	g.Go(task(log, "right-non-match", func() error {
		return findNonMatching(left, right, names.Left, names.Right, reverseNoMatch, reverseNoMatchRecords, missing, deletes)
	}))
	return g.Wait()
}

// task wraps a report task so a failure is logged by the task itself before
// it surrenders its barrier slot. The per-phase group carries no context, so
// a failing task never cancels its siblings.
func task(log *zap.Logger, name string, fn func() error) func() error {
	return func() error {
		if err := fn(); err != nil {
			log.Error("report task failed", zap.String("task", name), zap.Error(err))
			return err
		}
		return nil
	}
}

// closeSink closes a sink on the way out of a phase, keeping the first
// error so a failed flush is not lost behind a successful run.
func closeSink(err *error, c io.Closer, path string, log *zap.Logger) {
	if cerr := c.Close(); cerr != nil {
		log.Error("closing sink failed", zap.String("file", path), zap.Error(cerr))
		if *err == nil {
			*err = cerr
		}
	}
}

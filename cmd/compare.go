package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ldifcompare/compare"
	"ldifcompare/config"
	"ldifcompare/logger"
)

var (
	leftPath   string
	rightPath  string
	outputDir  string
	propsPath  string
	logLevel   string
	logFormat  string
	numWorkers int
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two LDIF files and write difference reports",
	Long: `Compares the "left" (before) and "right" (after) LDIF snapshots and writes
change records, unique or non-matching entries and optional delete records
to the output directory. Every file name is prefixed with the run timestamp.

Entries are matched by DN unless the properties file configures a matching
attribute. The properties file takes these keys:

  ignore.attributes=lastLogon,logonTime
  ignore.attribute.prefixes=msDS-
  match.attribute=workforceID          (or leftName,rightName)
  generate.deletes=true`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&leftPath, "left", "l", "", "LDIF file with the before state")
	compareCmd.Flags().StringVarP(&rightPath, "right", "r", "", "LDIF file with the after state")
	compareCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory that will contain the diff files")
	compareCmd.Flags().StringVarP(&propsPath, "properties", "p", "", "properties file that governs the comparison")
	compareCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	compareCmd.Flags().StringVar(&logFormat, "log-format", "console", "log format (console, json)")
	compareCmd.Flags().IntVar(&numWorkers, "workers", 0, "task pool size (default: number of CPUs)")
	_ = compareCmd.MarkFlagRequired("left")
	_ = compareCmd.MarkFlagRequired("right")
	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	l, err := logger.New(logLevel, logFormat)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	l = l.With(zap.String("run_id", uuid.NewString()))

	var cfg config.Config
	if propsPath != "" {
		cfg, err = config.LoadProperties(propsPath)
		if err != nil {
			return err
		}
	}

	opts := compare.Options{
		LeftPath:                leftPath,
		RightPath:               rightPath,
		OutputDir:               outputDir,
		IgnoreAttributes:        cfg.IgnoreAttributes,
		IgnoreAttributePrefixes: cfg.IgnoreAttributePrefixes,
		GenerateDeletes:         cfg.GenerateDeletes,
		Workers:                 numWorkers,
	}
	if cfg.MatchAttributeLeft != "" {
		opts.Strategy = compare.AttributeValue{Names: compare.MatchingAttributeNames{
			Left:  cfg.MatchAttributeLeft,
			Right: cfg.MatchAttributeRight,
		}}
	}

	l.Info("comparing snapshots",
		zap.String("left", leftPath),
		zap.String("right", rightPath),
		zap.String("output", outputDir),
	)
	if err := compare.Run(opts, l); err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	l.Info("comparison finished")
	return nil
}

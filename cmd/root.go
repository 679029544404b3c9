package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "ldifcompare",
	Short: "Compare two LDIF snapshot files",
	Long: `ldifcompare reconciles two LDIF exports of a directory, a "left" file with
some original state and a "right" file with the state after processing, and
writes the differences to a set of report files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

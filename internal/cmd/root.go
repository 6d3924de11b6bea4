// Package cmd wires the loopscope CLI: analyzing usage logs for
// switching patterns, importing session data, and generating
// synthetic fixtures.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for loopscope
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loopscope",
		Short: "Detect switching patterns in app usage logs",
		Long: `Loopscope analyzes app session logs for attention patterns.

It detects death loops (rapid bidirectional app switching), profiles
usage by hour of day, clusters apps that are habitually used together,
and estimates the daily productivity cost of context switching.

Session data comes from a SQLite usage database or JSONL files.
Identical input always produces an identical report.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewAnalyzeCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewGenerateCommand())

	return cmd
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/loopscope/internal/filelock"
	"github.com/harrison/loopscope/internal/source"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic session log for testing",
		Long: `Generate a deterministic synthetic session log in JSONL format.

The generated week contains morning death-loop bursts between the
configured loop pairs, midday work blocks, and sparse evening
browsing. The same seed always produces the same file.

Examples:
  loopscope generate -o sessions.jsonl
  loopscope generate -o sessions.jsonl --days 30 --seed 7`,
		Args: cobra.NoArgs,
		RunE: generateCommand,
	}

	cmd.Flags().StringP("output", "o", "sessions.jsonl", "Output JSONL file")
	cmd.Flags().Int("days", 0, "Number of days to generate (default 7)")
	cmd.Flags().Int64("seed", 0, "Random seed (default 1)")

	return cmd
}

func generateCommand(cmd *cobra.Command, _ []string) error {
	opts := source.DefaultGeneratorOptions()
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		opts.Days = days
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		opts.Seed = seed
	}

	records := source.NewGenerator(opts).Generate()

	var sb strings.Builder
	if err := source.EncodeJSONL(&sb, records); err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if err := filelock.AtomicWrite(outputPath, []byte(sb.String())); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sessions spanning %d days to %s\n",
		len(records), opts.Days, outputPath)
	return nil
}

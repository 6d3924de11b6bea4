package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/loopscope/internal/filelock"
	"github.com/harrison/loopscope/internal/logger"
	"github.com/harrison/loopscope/internal/source"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <sessions.jsonl>...",
		Short: "Import JSONL session logs into the usage database",
		Long: `Import session records from JSONL files into the usage database.

Each input line is one session: {"app_id": "...", "start": <unix>,
"end": <unix>}. Every file becomes one import batch. A file lock
guarantees a single writer even when imports run concurrently.

Examples:
  loopscope import sessions.jsonl
  loopscope import --db .loopscope/usage.db day1.jsonl day2.jsonl`,
		Args: cobra.MinimumNArgs(1),
		RunE: importCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .loopscope/config.yaml)")
	cmd.Flags().String("db", "", "Path to the usage database (overrides config)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")

	return cmd
}

func importCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), logLevel)

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}

	// One importer at a time per database.
	lock := filelock.NewFileLock(dbPath + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	db, err := source.OpenUsageDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open usage database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	totalImported := 0
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}

		records, err := source.DecodeJSONL(ctx, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		if len(records) == 0 {
			log.Warn("%s contains no sessions, skipping", path)
			continue
		}

		batchID, err := db.ImportBatch(ctx, path, records)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		log.Info("imported %d sessions from %s (batch %s)", len(records), path, batchID)
		totalImported += len(records)
	}

	count, err := db.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count sessions: %w", err)
	}
	log.Info("done: %d sessions imported, %d total in %s", totalImported, count, dbPath)
	return nil
}

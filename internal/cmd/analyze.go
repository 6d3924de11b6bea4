package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/loopscope/internal/config"
	"github.com/harrison/loopscope/internal/interpret"
	"github.com/harrison/loopscope/internal/logger"
	"github.com/harrison/loopscope/internal/pattern"
	"github.com/harrison/loopscope/internal/report"
	"github.com/harrison/loopscope/internal/source"
	"github.com/harrison/loopscope/internal/store"
)

// NewAnalyzeCommand creates the analyze command
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze session logs for switching patterns",
		Long: `Analyze app session logs and report detected patterns.

Sessions are read from the usage database (or a JSONL file with
--input) over the configured analysis window. The report covers death
loops, temporal patterns, app clusters, and the estimated daily cost
of context switching.

Configuration is loaded from .loopscope/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  loopscope analyze
  loopscope analyze --window 30
  loopscope analyze --input sessions.jsonl --format json
  loopscope analyze --format markdown --output report.md
  loopscope analyze --interpret static
  loopscope analyze --interpret gemini   # needs GEMINI_API_KEY`,
		Args: cobra.NoArgs,
		RunE: analyzeCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .loopscope/config.yaml)")
	cmd.Flags().String("db", "", "Path to the usage database (overrides config)")
	cmd.Flags().String("input", "", "Read sessions from a JSONL file instead of the database")
	cmd.Flags().Int("window", 0, "Analysis window in days (overrides config)")
	cmd.Flags().String("format", "terminal", "Output format: terminal, json, markdown")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Int("limit", 0, "Maximum death loops to show in terminal output (0 = all)")
	cmd.Flags().String("interpret", "", "Annotate patterns: static or gemini")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error (overrides config)")

	return cmd
}

func analyzeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	logLevel, _ := cmd.Flags().GetString("log-level")
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), logLevel)

	windowDays, _ := cmd.Flags().GetInt("window")
	if windowDays > 0 {
		cfg.Engine.AnalysisWindowDays = windowDays
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	engineCfg := cfg.EngineConfig()

	ctx := cmd.Context()
	sessions, err := readSessions(ctx, cmd, cfg, engineCfg.AnalysisWindowDays, log)
	if err != nil {
		return err
	}
	log.Debug("loaded %d sessions", len(sessions))

	engine := pattern.NewPatternEngine(engineCfg)
	result := engine.Analyze(sessions)
	if result.DroppedRecordCount > 0 {
		log.Warn("dropped %d malformed records", result.DroppedRecordCount)
	}

	doc := report.NewDocument(result)

	interpretMode, _ := cmd.Flags().GetString("interpret")
	if interpretMode != "" {
		if err := annotate(ctx, doc, cfg, interpretMode, log); err != nil {
			return err
		}
	}

	return writeReport(cmd, doc)
}

// loadConfigFromFlags loads configuration honoring the --config flag.
func loadConfigFromFlags(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// readSessions resolves the session source and reads the analysis
// window ending now.
func readSessions(ctx context.Context, cmd *cobra.Command, cfg *config.Config, windowDays int, log logger.Logger) ([]pattern.SessionRecord, error) {
	since := time.Now().AddDate(0, 0, -windowDays)

	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath != "" {
		log.Debug("reading sessions from %s", inputPath)
		reader := source.NewJSONLReader(inputPath)
		sessions, err := reader.ReadWindow(ctx, since, time.Time{})
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", inputPath, err)
		}
		return sessions, nil
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	log.Debug("reading sessions from %s", dbPath)

	db, err := source.OpenUsageDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}
	defer db.Close()

	sessions, err := db.ReadWindow(ctx, since, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}

// annotate classifies detected loops and clusters and attaches the
// results to the document.
func annotate(ctx context.Context, doc *report.Document, cfg *config.Config, mode string, log logger.Logger) error {
	var inner interpret.Interpreter
	switch mode {
	case "static":
		inner = interpret.NewStaticInterpreter(cfg.KeywordTable())
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("--interpret gemini requires GEMINI_API_KEY")
		}
		inner = interpret.NewGeminiInterpreter(apiKey, "")
	default:
		return fmt.Errorf("unsupported interpret mode: %s (supported: static, gemini)", mode)
	}

	var backing store.Store
	if cfg.StorePath != "" {
		s, err := store.NewSQLiteStore(cfg.StorePath)
		if err != nil {
			log.Warn("interpretation store unavailable, caching in memory: %v", err)
			backing = store.NewMemoryStore()
		} else {
			defer s.Close()
			backing = s
		}
	} else {
		backing = store.NewMemoryStore()
	}

	interpreter := interpret.NewCachingInterpreter(inner, backing)
	doc.Interpretations = make(map[string]report.Annotation)

	for i := range doc.DeathLoops {
		summary := interpret.SummarizeLoop(&doc.DeathLoops[i])
		cls, err := interpreter.Classify(ctx, summary)
		if err != nil {
			log.Warn("failed to classify %s/%s: %v", doc.DeathLoops[i].AppA, doc.DeathLoops[i].AppB, err)
			continue
		}
		doc.Interpretations[report.AnnotationKey(summary.Apps...)] = report.Annotation{
			Label:      cls.Label,
			Confidence: cls.Confidence,
			Reasoning:  cls.Reasoning,
		}
	}
	for i := range doc.AppClusters {
		summary := interpret.SummarizeCluster(&doc.AppClusters[i])
		cls, err := interpreter.Classify(ctx, summary)
		if err != nil {
			log.Warn("failed to classify cluster %v: %v", doc.AppClusters[i].Apps, err)
			continue
		}
		doc.Interpretations[report.AnnotationKey(summary.Apps...)] = report.Annotation{
			Label:      cls.Label,
			Confidence: cls.Confidence,
			Reasoning:  cls.Reasoning,
		}
	}
	return nil
}

// writeReport renders or exports the document per --format/--output.
func writeReport(cmd *cobra.Command, doc *report.Document) error {
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if outputPath != "" {
		if format == "terminal" {
			format = "json"
		}
		return report.ExportToFile(doc, outputPath, format)
	}

	if format == "terminal" {
		renderer := report.NewRenderer(cmd.OutOrStdout())
		limit, _ := cmd.Flags().GetInt("limit")
		renderer.Limit = limit
		return renderer.Render(doc)
	}

	content, err := report.ExportToString(doc, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), content)
	return nil
}

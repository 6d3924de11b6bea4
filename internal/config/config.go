// Package config loads loopscope configuration from YAML, merging file
// values over defaults, and exposes the engine tuning plus the
// consolidated keyword table.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/harrison/loopscope/internal/pattern"
)

// EngineConfig mirrors pattern.Config for YAML.
type EngineConfig struct {
	// MaxGapSeconds is the largest inter-session gap that counts as a
	// switch.
	MaxGapSeconds float64 `yaml:"max_gap_seconds"`

	// MinLoopCount is the per-direction minimum for death loops.
	MinLoopCount int `yaml:"min_loop_count"`

	// CooccurrenceWindowSeconds bounds start-time distance for
	// co-occurrence.
	CooccurrenceWindowSeconds float64 `yaml:"cooccurrence_window_seconds"`

	// MinCooccurrence is the minimum pair count for a cluster edge.
	MinCooccurrence int `yaml:"min_cooccurrence"`

	// WorkHourStart and WorkHourEnd bound work hours, inclusive.
	WorkHourStart int `yaml:"work_hour_start"`
	WorkHourEnd   int `yaml:"work_hour_end"`

	// AnalysisWindowDays is the default analysis window length.
	AnalysisWindowDays int `yaml:"analysis_window_days"`
}

// Config represents loopscope configuration options.
type Config struct {
	// LogLevel sets logging verbosity (trace, debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// DBPath is the usage-log SQLite database.
	DBPath string `yaml:"db_path"`

	// StorePath is the derived-results store database; empty disables
	// persistence of interpretation results.
	StorePath string `yaml:"store_path"`

	// KeywordsFile optionally points at a markdown keyword document;
	// it overrides the inline Keywords section when set.
	KeywordsFile string `yaml:"keywords_file"`

	// Keywords lists app-id keywords per category.
	Keywords map[string][]string `yaml:"keywords"`

	// Engine holds the analyzer tuning.
	Engine EngineConfig `yaml:"engine"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		DBPath:    ".loopscope/usage.db",
		StorePath: ".loopscope/interpretations.db",
		Engine: EngineConfig{
			MaxGapSeconds:             10,
			MinLoopCount:              5,
			CooccurrenceWindowSeconds: 60,
			MinCooccurrence:           10,
			WorkHourStart:             9,
			WorkHourEnd:               18,
			AnalysisWindowDays:        7,
		},
	}
}

// LoadConfig loads configuration from path. A missing file returns the
// defaults without error; a malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Merge non-zero file values over defaults.
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.DBPath != "" {
		cfg.DBPath = fileCfg.DBPath
	}
	if fileCfg.StorePath != "" {
		cfg.StorePath = fileCfg.StorePath
	}
	if fileCfg.KeywordsFile != "" {
		cfg.KeywordsFile = fileCfg.KeywordsFile
	}
	if fileCfg.Keywords != nil {
		cfg.Keywords = fileCfg.Keywords
	}
	e := &fileCfg.Engine
	if e.MaxGapSeconds != 0 {
		cfg.Engine.MaxGapSeconds = e.MaxGapSeconds
	}
	if e.MinLoopCount != 0 {
		cfg.Engine.MinLoopCount = e.MinLoopCount
	}
	if e.CooccurrenceWindowSeconds != 0 {
		cfg.Engine.CooccurrenceWindowSeconds = e.CooccurrenceWindowSeconds
	}
	if e.MinCooccurrence != 0 {
		cfg.Engine.MinCooccurrence = e.MinCooccurrence
	}
	if e.WorkHourStart != 0 {
		cfg.Engine.WorkHourStart = e.WorkHourStart
	}
	if e.WorkHourEnd != 0 {
		cfg.Engine.WorkHourEnd = e.WorkHourEnd
	}
	if e.AnalysisWindowDays != 0 {
		cfg.Engine.AnalysisWindowDays = e.AnalysisWindowDays
	}

	return cfg, nil
}

// LoadConfigFromDir loads .loopscope/config.yaml from the given
// directory, falling back to defaults when absent.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".loopscope", "config.yaml"))
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}

	engine := c.EngineConfig()
	if err := engine.Validate(); err != nil {
		return err
	}

	for category := range c.Keywords {
		if !validCategory(category) {
			return fmt.Errorf("unknown keyword category %q", category)
		}
	}
	return nil
}

// EngineConfig converts the loaded settings into the engine's own
// configuration, resolving the keyword table.
func (c *Config) EngineConfig() pattern.Config {
	return pattern.Config{
		MaxGapSeconds:             c.Engine.MaxGapSeconds,
		MinLoopCount:              c.Engine.MinLoopCount,
		CooccurrenceWindowSeconds: c.Engine.CooccurrenceWindowSeconds,
		MinCooccurrence:           c.Engine.MinCooccurrence,
		WorkHourStart:             c.Engine.WorkHourStart,
		WorkHourEnd:               c.Engine.WorkHourEnd,
		AnalysisWindowDays:        c.Engine.AnalysisWindowDays,
		Keywords:                  c.KeywordTable(),
	}
}

// KeywordTable resolves the effective keyword table: the markdown file
// when configured, else the inline section, else the built-in default.
func (c *Config) KeywordTable() pattern.KeywordTable {
	if c.KeywordsFile != "" {
		if table, err := LoadKeywordsMarkdown(c.KeywordsFile); err == nil && len(table) > 0 {
			return table
		}
	}
	if len(c.Keywords) > 0 {
		table := make(pattern.KeywordTable)
		for category, words := range c.Keywords {
			for _, w := range words {
				table[w] = category
			}
		}
		return table
	}
	return pattern.DefaultKeywordTable()
}

func validCategory(category string) bool {
	switch category {
	case pattern.CategoryWork, pattern.CategoryCommunication,
		pattern.CategoryBrowser, pattern.CategoryDistraction,
		pattern.CategoryProductive:
		return true
	default:
		return false
	}
}

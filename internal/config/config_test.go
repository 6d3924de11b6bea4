package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.DBPath != ".loopscope/usage.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, ".loopscope/usage.db")
	}
	if cfg.Engine.MaxGapSeconds != 10 {
		t.Errorf("MaxGapSeconds = %v, want 10", cfg.Engine.MaxGapSeconds)
	}
	if cfg.Engine.MinLoopCount != 5 {
		t.Errorf("MinLoopCount = %d, want 5", cfg.Engine.MinLoopCount)
	}
	if cfg.Engine.CooccurrenceWindowSeconds != 60 {
		t.Errorf("CooccurrenceWindowSeconds = %v, want 60", cfg.Engine.CooccurrenceWindowSeconds)
	}
	if cfg.Engine.MinCooccurrence != 10 {
		t.Errorf("MinCooccurrence = %d, want 10", cfg.Engine.MinCooccurrence)
	}
	if cfg.Engine.WorkHourStart != 9 || cfg.Engine.WorkHourEnd != 18 {
		t.Errorf("work hours = %d-%d, want 9-18", cfg.Engine.WorkHourStart, cfg.Engine.WorkHourEnd)
	}
	if cfg.Engine.AnalysisWindowDays != 7 {
		t.Errorf("AnalysisWindowDays = %d, want 7", cfg.Engine.AnalysisWindowDays)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `log_level: debug
db_path: /tmp/usage.db
engine:
  max_gap_seconds: 15
  min_loop_count: 3
keywords:
  work:
    - code
  distraction:
    - twitter
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.DBPath != "/tmp/usage.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/tmp/usage.db")
	}
	if cfg.Engine.MaxGapSeconds != 15 {
		t.Errorf("MaxGapSeconds = %v, want 15", cfg.Engine.MaxGapSeconds)
	}
	if cfg.Engine.MinLoopCount != 3 {
		t.Errorf("MinLoopCount = %d, want 3", cfg.Engine.MinLoopCount)
	}
	// Unset values keep defaults.
	if cfg.Engine.CooccurrenceWindowSeconds != 60 {
		t.Errorf("CooccurrenceWindowSeconds = %v, want default 60", cfg.Engine.CooccurrenceWindowSeconds)
	}
	if cfg.Engine.WorkHourStart != 9 {
		t.Errorf("WorkHourStart = %d, want default 9", cfg.Engine.WorkHourStart)
	}

	table := cfg.KeywordTable()
	if got, _ := table.Category("vscode"); got != "work" {
		t.Errorf("Category(vscode) = %q, want work", got)
	}
	if got, _ := table.Category("twitter"); got != "distraction" {
		t.Errorf("Category(twitter) = %q, want distraction", got)
	}
	// Inline keywords replace the built-in table entirely.
	if _, ok := table.Category("slack"); ok {
		t.Errorf("Category(slack) matched, want no match with inline keywords")
	}
}

// TestLoadConfigMissingFile tests that a missing file returns defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() with missing file error = %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, "info")
	}
}

// TestLoadConfigMalformedFile tests that invalid YAML returns an error
func TestLoadConfigMalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("log_level: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("LoadConfig() with malformed YAML expected error, got nil")
	}
}

// TestConfigValidation tests validation of config values
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"empty db path", func(c *Config) { c.DBPath = "" }, true},
		{"negative max gap", func(c *Config) { c.Engine.MaxGapSeconds = -1 }, true},
		{"zero min loop count", func(c *Config) { c.Engine.MinLoopCount = 0 }, true},
		{"inverted work hours", func(c *Config) { c.Engine.WorkHourStart = 20; c.Engine.WorkHourEnd = 8 }, true},
		{"bad keyword category", func(c *Config) { c.Keywords = map[string][]string{"games": {"steam"}} }, true},
		{"good keyword category", func(c *Config) { c.Keywords = map[string][]string{"work": {"emacs"}} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestEngineConfig verifies conversion into the analyzer configuration
func TestEngineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.MaxGapSeconds = 20
	cfg.Engine.MinCooccurrence = 4

	ec := cfg.EngineConfig()
	if ec.MaxGapSeconds != 20 {
		t.Errorf("MaxGapSeconds = %v, want 20", ec.MaxGapSeconds)
	}
	if ec.MinCooccurrence != 4 {
		t.Errorf("MinCooccurrence = %d, want 4", ec.MinCooccurrence)
	}
	if len(ec.Keywords) == 0 {
		t.Error("Keywords is empty, want built-in table")
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("engine config Validate() error = %v", err)
	}
}

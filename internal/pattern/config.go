package pattern

import "fmt"

// Config holds every tunable the analyzers consume. Values are injected
// by the caller; the algorithms never hardcode thresholds.
type Config struct {
	// MaxGapSeconds is the largest gap between adjacent sessions that
	// still counts as a switch edge.
	MaxGapSeconds float64

	// MinLoopCount is the per-direction minimum directed edge count for
	// a pair to qualify as a death loop.
	MinLoopCount int

	// CooccurrenceWindowSeconds is the start-time distance within which
	// two sessions co-occur.
	CooccurrenceWindowSeconds float64

	// MinCooccurrence is the minimum co-occurrence count for a cluster
	// graph edge.
	MinCooccurrence int

	// WorkHourStart and WorkHourEnd bound the work-hours range,
	// inclusive on both ends.
	WorkHourStart int
	WorkHourEnd   int

	// AnalysisWindowDays is the nominal window length supplied by the
	// caller (7 or 30 depending on the consumer).
	AnalysisWindowDays int

	// Keywords maps app-id substrings to categories for cluster typing,
	// distraction penalties, and the weak context hint.
	Keywords KeywordTable
}

// DefaultConfig returns the documented default tuning.
func DefaultConfig() Config {
	return Config{
		MaxGapSeconds:             10,
		MinLoopCount:              5,
		CooccurrenceWindowSeconds: 60,
		MinCooccurrence:           10,
		WorkHourStart:             9,
		WorkHourEnd:               18,
		AnalysisWindowDays:        7,
		Keywords:                  DefaultKeywordTable(),
	}
}

// Validate checks configuration values before an engine run.
func (c *Config) Validate() error {
	if c.MaxGapSeconds < 0 {
		return fmt.Errorf("max_gap_seconds must be >= 0, got %v", c.MaxGapSeconds)
	}
	if c.MinLoopCount < 1 {
		return fmt.Errorf("min_loop_count must be >= 1, got %d", c.MinLoopCount)
	}
	if c.CooccurrenceWindowSeconds <= 0 {
		return fmt.Errorf("cooccurrence_window_seconds must be > 0, got %v", c.CooccurrenceWindowSeconds)
	}
	if c.MinCooccurrence < 1 {
		return fmt.Errorf("min_cooccurrence must be >= 1, got %d", c.MinCooccurrence)
	}
	if c.WorkHourStart < 0 || c.WorkHourStart > 23 {
		return fmt.Errorf("work_hour_start must be in [0,23], got %d", c.WorkHourStart)
	}
	if c.WorkHourEnd < c.WorkHourStart || c.WorkHourEnd > 23 {
		return fmt.Errorf("work_hour_end must be in [work_hour_start,23], got %d", c.WorkHourEnd)
	}
	if c.AnalysisWindowDays < 1 {
		return fmt.Errorf("analysis_window_days must be >= 1, got %d", c.AnalysisWindowDays)
	}
	return nil
}

package pattern

import (
	"time"

	"github.com/google/uuid"
)

// PatternEngine runs the four independent analyzers over the same
// immutable session list and assembles a single PatternReport. The
// engine holds no mutable state between runs; calling Analyze twice on
// the same input produces equal reports.
type PatternEngine struct {
	cfg Config

	// Injectable for deterministic tests; default to time.Now and
	// uuid.NewString. Only report assembly metadata uses them.
	now   func() time.Time
	newID func() string
}

// NewPatternEngine creates an engine for the given configuration.
func NewPatternEngine(cfg Config) *PatternEngine {
	return &PatternEngine{
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock overrides the assembly timestamp source.
func (e *PatternEngine) WithClock(now func() time.Time) *PatternEngine {
	e.now = now
	return e
}

// WithIDSource overrides the report id source.
func (e *PatternEngine) WithIDSource(newID func() string) *PatternEngine {
	e.newID = newID
	return e
}

// Analyze produces the report for one analysis window. Malformed
// records (start > end) are dropped and counted; an entirely empty
// input yields an empty report with all aggregates zeroed. The caller
// guarantees sessions are ordered non-decreasing by start.
func (e *PatternEngine) Analyze(sessions []SessionRecord) *PatternReport {
	valid, dropped := SanitizeSessions(sessions)

	graph := NewSwitchGraphBuilder(e.cfg.MaxGapSeconds)
	edges := graph.buildEdges(valid)

	detector := NewDeathLoopDetector(e.cfg.MinLoopCount, e.cfg.WorkHourStart, e.cfg.WorkHourEnd, e.cfg.Keywords)
	profiler := NewTemporalProfiler()
	clusters := NewClusterBuilder(e.cfg.CooccurrenceWindowSeconds, e.cfg.MinCooccurrence, e.cfg.Keywords)
	costModel := NewContextSwitchCostModel()

	return &PatternReport{
		ReportID:           e.newID(),
		GeneratedAt:        e.now().UTC(),
		DeathLoops:         detector.Detect(edges),
		TemporalPatterns:   profiler.Profile(valid),
		AppClusters:        clusters.Build(valid),
		ContextSwitches:    costModel.Compute(valid),
		DroppedRecordCount: dropped,
	}
}

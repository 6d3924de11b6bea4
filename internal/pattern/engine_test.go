package pattern

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

// pinnedEngine returns an engine with fixed id and clock so assembled
// reports are fully deterministic.
func pinnedEngine(cfg Config) *PatternEngine {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return NewPatternEngine(cfg).
		WithClock(func() time.Time { return at }).
		WithIDSource(func() string { return "test-report" })
}

func TestAnalyzeEmptyInput(t *testing.T) {
	report := pinnedEngine(DefaultConfig()).Analyze(nil)

	if report == nil {
		t.Fatal("Expected a report, got nil")
	}
	if len(report.DeathLoops) != 0 || len(report.TemporalPatterns) != 0 || len(report.AppClusters) != 0 {
		t.Error("Expected empty analyzer outputs for empty input")
	}
	if report.ContextSwitches.TotalSwitches != 0 {
		t.Errorf("Expected zeroed switch metrics, got %d switches", report.ContextSwitches.TotalSwitches)
	}
	if report.DroppedRecordCount != 0 {
		t.Errorf("Expected 0 dropped records, got %d", report.DroppedRecordCount)
	}
	if err := report.Validate(); err != nil {
		t.Errorf("Empty report failed validation: %v", err)
	}
}

func TestAnalyzeCountsDroppedRecords(t *testing.T) {
	sessions := []SessionRecord{
		sess("editor", 0, 60),
		sess("broken", 120, 30),
		sess("browser", 200, 230),
		sess("broken2", 400, 300),
	}

	report := pinnedEngine(DefaultConfig()).Analyze(sessions)

	if report.DroppedRecordCount != 2 {
		t.Errorf("Expected 2 dropped records, got %d", report.DroppedRecordCount)
	}
	if report.ContextSwitches.TotalSwitches != 2 {
		t.Errorf("Expected 2 surviving sessions counted as switches, got %d", report.ContextSwitches.TotalSwitches)
	}
}

func TestAnalyzeDeterminism(t *testing.T) {
	sessions := fixtureWeek()
	engine := pinnedEngine(DefaultConfig())

	first, err := json.Marshal(engine.Analyze(sessions))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, err := json.Marshal(engine.Analyze(sessions))
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if !bytes.Equal(first, next) {
			t.Fatalf("Run %d produced different bytes", i+2)
		}
	}
}

func TestAnalyzeIdempotence(t *testing.T) {
	sessions := fixtureWeek()
	engine := pinnedEngine(DefaultConfig())

	a := engine.Analyze(sessions)
	b := engine.Analyze(sessions)

	if !reflect.DeepEqual(a, b) {
		t.Error("Repeated runs over the same input produced different reports")
	}
}

func TestAnalyzeDoesNotMutateInput(t *testing.T) {
	sessions := fixtureWeek()
	snapshot := append([]SessionRecord(nil), sessions...)

	pinnedEngine(DefaultConfig()).Analyze(sessions)

	if !reflect.DeepEqual(sessions, snapshot) {
		t.Error("Analyze mutated its input slice")
	}
}

func TestAnalyzeAssemblesAllSections(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinCooccurrence = 3
	report := pinnedEngine(cfg).Analyze(fixtureWeek())

	if report.ReportID != "test-report" {
		t.Errorf("Expected pinned report id, got %q", report.ReportID)
	}
	if len(report.DeathLoops) == 0 {
		t.Error("Expected at least one death loop from the fixture")
	}
	if len(report.TemporalPatterns) == 0 {
		t.Error("Expected temporal buckets from the fixture")
	}
	if len(report.AppClusters) == 0 {
		t.Error("Expected app clusters from the fixture")
	}
	if report.ContextSwitches.TotalSwitches == 0 {
		t.Error("Expected switch metrics from the fixture")
	}
	if err := report.Validate(); err != nil {
		t.Errorf("Report failed validation: %v", err)
	}
}

// fixtureWeek builds a small but busy synthetic week: a slack/twitter
// death loop each morning plus an editor/terminal working block.
func fixtureWeek() []SessionRecord {
	var sessions []SessionRecord
	for d := 0; d < 7; d++ {
		day := time.Date(2024, 3, 4+d, 9, 30, 0, 0, time.Local)
		offset := 0
		for i := 0; i < 13; i++ {
			app := "slack"
			if i%2 == 1 {
				app = "twitter"
			}
			start := day.Add(time.Duration(offset) * time.Second)
			sessions = append(sessions, SessionRecord{
				AppID: app,
				Start: start,
				End:   start.Add(20 * time.Second),
			})
			offset += 24 // 20s session + 4s gap
		}
		work := day.Add(2 * time.Hour)
		for i := 0; i < 6; i++ {
			app := "vscode"
			if i%2 == 1 {
				app = "terminal"
			}
			start := work.Add(time.Duration(i*40) * time.Second)
			sessions = append(sessions, SessionRecord{
				AppID: app,
				Start: start,
				End:   start.Add(35 * time.Second),
			})
		}
	}
	return sessions
}

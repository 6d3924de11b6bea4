package pattern

import (
	"testing"
	"time"
)

// hourSess builds a session at a given local hour of the test day.
func hourSess(app string, hour, minute, durationSec int) SessionRecord {
	start := time.Date(2024, 3, 4, hour, minute, 0, 0, time.Local)
	return SessionRecord{
		AppID: app,
		Start: start,
		End:   start.Add(time.Duration(durationSec) * time.Second),
	}
}

func TestProfileEmptyInput(t *testing.T) {
	buckets := NewTemporalProfiler().Profile(nil)
	if len(buckets) != 0 {
		t.Errorf("Expected no buckets for empty input, got %d", len(buckets))
	}
}

func TestProfileOmitsEmptyHours(t *testing.T) {
	sessions := []SessionRecord{
		hourSess("editor", 9, 0, 600),
		hourSess("editor", 9, 30, 600),
		hourSess("browser", 14, 0, 300),
	}

	buckets := NewTemporalProfiler().Profile(sessions)

	if len(buckets) != 2 {
		t.Fatalf("Expected 2 non-empty hours, got %d", len(buckets))
	}
	if buckets[0].Hour != 9 || buckets[1].Hour != 14 {
		t.Errorf("Expected hours [9 14], got [%d %d]", buckets[0].Hour, buckets[1].Hour)
	}
	if buckets[0].SessionCount != 2 {
		t.Errorf("Expected 2 sessions at hour 9, got %d", buckets[0].SessionCount)
	}
	if buckets[0].AvgDuration != 600 {
		t.Errorf("Expected avg duration 600s at hour 9, got %v", buckets[0].AvgDuration)
	}
}

func TestProfileSessionCountCompleteness(t *testing.T) {
	var sessions []SessionRecord
	for hour := 8; hour < 20; hour++ {
		for i := 0; i < hour%4+1; i++ {
			sessions = append(sessions, hourSess("app", hour, i, 120))
		}
	}

	buckets := NewTemporalProfiler().Profile(sessions)

	total := 0
	for _, b := range buckets {
		total += b.SessionCount
	}
	if total != len(sessions) {
		t.Errorf("Bucket counts sum to %d, expected %d", total, len(sessions))
	}
}

func TestProfileClassification(t *testing.T) {
	// Hour 9: 8 short sessions (fragmented), hour 15: 1 long session
	// (deep work), hour 20: middling on both axes.
	var sessions []SessionRecord
	for i := 0; i < 8; i++ {
		sessions = append(sessions, hourSess("slack", 9, i, 30))
	}
	sessions = append(sessions, hourSess("editor", 15, 0, 3600))
	sessions = append(sessions, hourSess("browser", 20, 0, 600))
	sessions = append(sessions, hourSess("browser", 20, 20, 600))

	buckets := NewTemporalProfiler().Profile(sessions)
	byHour := make(map[int]TemporalBucket)
	for _, b := range buckets {
		byHour[b.Hour] = b
	}

	if got := byHour[9].Classification; got != ClassPeakDistraction {
		t.Errorf("Hour 9: expected %s, got %s", ClassPeakDistraction, got)
	}
	if got := byHour[15].Classification; got != ClassDeepWork {
		t.Errorf("Hour 15: expected %s, got %s", ClassDeepWork, got)
	}
	if got := byHour[20].Classification; got != ClassTransition {
		t.Errorf("Hour 20: expected %s, got %s", ClassTransition, got)
	}
}

func TestProfileAppsInvolvedFirstSeenCapped(t *testing.T) {
	apps := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"}
	var sessions []SessionRecord
	for i, app := range apps {
		sessions = append(sessions, hourSess(app, 10, i, 60))
	}
	// Repeats must not duplicate entries.
	sessions = append(sessions, hourSess("a1", 10, 30, 60))

	buckets := NewTemporalProfiler().Profile(sessions)
	if len(buckets) != 1 {
		t.Fatalf("Expected 1 bucket, got %d", len(buckets))
	}

	got := buckets[0].AppsInvolved
	if len(got) != 5 {
		t.Fatalf("Expected apps capped at 5, got %d", len(got))
	}
	for i, want := range []string{"a1", "a2", "a3", "a4", "a5"} {
		if got[i] != want {
			t.Errorf("App %d: expected %s (first-seen order), got %s", i, want, got[i])
		}
	}
}

func TestProfileSingleHourIsTransition(t *testing.T) {
	// With one non-empty hour the bucket equals the global baseline on
	// both axes, so neither extreme rule can fire.
	sessions := []SessionRecord{
		hourSess("editor", 11, 0, 300),
		hourSess("editor", 11, 10, 300),
	}
	buckets := NewTemporalProfiler().Profile(sessions)
	if len(buckets) != 1 {
		t.Fatalf("Expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].Classification != ClassTransition {
		t.Errorf("Expected %s, got %s", ClassTransition, buckets[0].Classification)
	}
}

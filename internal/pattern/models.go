// Package pattern implements the deterministic session-sequence
// pattern-detection engine: switch-graph construction, death-loop
// merging, temporal baselining, co-occurrence clustering, and the
// context-switch cost model.
//
// Every analyzer is a pure function of an immutable session slice;
// identical input and configuration produce byte-identical reports.
package pattern

import (
	"errors"
	"time"
)

// Temporal bucket classifications.
const (
	ClassPeakDistraction = "peak_distraction"
	ClassDeepWork        = "deep_work"
	ClassTransition      = "transition"
)

// App cluster types, in classification priority order.
const (
	ClusterWork          = "work_cluster"
	ClusterCommunication = "communication_cluster"
	ClusterBrowsing      = "browsing_cluster"
	ClusterMixed         = "mixed_cluster"
)

// Context-switch severity buckets.
const (
	SeverityLow      = "low"
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SessionRecord is one continuous interval of a single app being in the
// foreground. The input sequence is ordered non-decreasing by Start;
// sessions may be adjacent, gapped, or (rarely) overlapping.
type SessionRecord struct {
	AppID string    `json:"app_id"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate checks the per-record invariant Start <= End.
func (s *SessionRecord) Validate() error {
	if s.AppID == "" {
		return errors.New("session app_id is required")
	}
	if s.End.Before(s.Start) {
		return errors.New("session start must not be after end")
	}
	return nil
}

// Duration returns the foreground time of the session.
func (s *SessionRecord) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// SwitchEdge is a directed transition derived from one adjacent session
// pair. Self-transitions and negative gaps are never emitted.
type SwitchEdge struct {
	FromApp    string    `json:"from_app"`
	ToApp      string    `json:"to_app"`
	GapSeconds float64   `json:"gap_seconds"`
	HourOfDay  int       `json:"hour_of_day"`
	Timestamp  time.Time `json:"timestamp"`
}

// DeathLoop is a pair of apps exhibiting frequent, rapid, bidirectional
// switching. AppA < AppB lexicographically for a canonical identity.
type DeathLoop struct {
	AppA               string  `json:"app_a"`
	AppB               string  `json:"app_b"`
	Occurrences        int     `json:"occurrences"`
	TotalTimeLost      float64 `json:"total_time_lost"` // seconds
	AvgGapSeconds      float64 `json:"avg_gap_seconds"`
	SeverityScore      float64 `json:"severity_score"`       // 0-100
	PeakHours          []int   `json:"peak_hours"`           // top 3 hours
	WorkHourPercentage float64 `json:"work_hour_percentage"` // 0-100
	ContextHint        string  `json:"context_hint,omitempty"`
}

// Validate checks the documented score and identity bounds.
func (d *DeathLoop) Validate() error {
	if d.AppA == "" || d.AppB == "" {
		return errors.New("death loop apps are required")
	}
	if d.AppA >= d.AppB {
		return errors.New("death loop apps must be in lexicographic order")
	}
	if d.SeverityScore < 0 || d.SeverityScore > 100 {
		return errors.New("severity score must be between 0 and 100")
	}
	if d.WorkHourPercentage < 0 || d.WorkHourPercentage > 100 {
		return errors.New("work hour percentage must be between 0 and 100")
	}
	return nil
}

// TemporalBucket aggregates one hour-of-day across the analysis window.
// Hours with zero sessions are omitted, not zero-filled.
type TemporalBucket struct {
	Hour           int      `json:"hour"`
	SessionCount   int      `json:"session_count"`
	AvgDuration    float64  `json:"avg_duration"` // seconds
	Classification string   `json:"classification"`
	AppsInvolved   []string `json:"apps_involved"` // up to 5, first-seen order
}

// AppCluster is a connected set of apps habitually used within a short
// time of each other. Clusters are pairwise disjoint.
type AppCluster struct {
	Apps []string `json:"apps"` // sorted lexicographically
	Type string   `json:"type"`
}

// ContextSwitchMetrics aggregates switch frequency into an estimated
// daily productivity-loss figure.
type ContextSwitchMetrics struct {
	TotalSwitches             int     `json:"total_switches"`
	SwitchesPerDay            float64 `json:"switches_per_day"`
	AvgSessionDuration        float64 `json:"avg_session_duration"` // seconds
	EstimatedDailyLossMinutes float64 `json:"estimated_daily_loss_minutes"`
	Severity                  string  `json:"severity"`
}

// PatternReport is the single assembled output of one engine run.
// ReportID and GeneratedAt are assembly metadata stamped by the
// orchestrator and excluded from the analyzers' determinism guarantee.
type PatternReport struct {
	ReportID           string               `json:"report_id,omitempty"`
	GeneratedAt        time.Time            `json:"generated_at,omitzero"`
	DeathLoops         []DeathLoop          `json:"death_loops"`
	TemporalPatterns   []TemporalBucket     `json:"temporal_patterns"`
	AppClusters        []AppCluster         `json:"app_clusters"`
	ContextSwitches    ContextSwitchMetrics `json:"context_switches"`
	DroppedRecordCount int                  `json:"dropped_record_count"`
}

// Validate checks the report's documented invariants.
func (r *PatternReport) Validate() error {
	for i := range r.DeathLoops {
		if err := r.DeathLoops[i].Validate(); err != nil {
			return err
		}
	}
	if r.DroppedRecordCount < 0 {
		return errors.New("dropped record count cannot be negative")
	}
	return nil
}

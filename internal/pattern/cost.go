package pattern

import "math"

// refocusCeilingSeconds caps the cost attributed to a single switch at
// the research-derived 23-minute refocus figure.
const refocusCeilingSeconds = 23 * 60

// ContextSwitchCostModel aggregates switch frequency into an estimated
// daily productivity-loss figure.
type ContextSwitchCostModel struct{}

// NewContextSwitchCostModel creates a cost model.
func NewContextSwitchCostModel() *ContextSwitchCostModel {
	return &ContextSwitchCostModel{}
}

// Compute derives the aggregate metrics. Every session entry/exit
// counts as one switch. All denominators are guarded; an empty window
// yields zeroed metrics with low severity.
func (m *ContextSwitchCostModel) Compute(sessions []SessionRecord) ContextSwitchMetrics {
	metrics := ContextSwitchMetrics{
		TotalSwitches: len(sessions),
		Severity:      SeverityLow,
	}
	if len(sessions) == 0 {
		return metrics
	}

	days := make(map[string]bool)
	var totalDuration float64
	for _, s := range sessions {
		days[s.Start.Format("2006-01-02")] = true
		totalDuration += s.Duration().Seconds()
	}

	activeDays := len(days)
	if activeDays < 1 {
		activeDays = 1
	}
	metrics.SwitchesPerDay = float64(metrics.TotalSwitches) / float64(activeDays)
	metrics.AvgSessionDuration = totalDuration / float64(len(sessions))

	refocusPenalty := math.Min(refocusCeilingSeconds, metrics.AvgSessionDuration*0.25)
	metrics.EstimatedDailyLossMinutes = metrics.SwitchesPerDay * refocusPenalty / 60
	metrics.Severity = switchSeverity(metrics.SwitchesPerDay)
	return metrics
}

// switchSeverity buckets the per-day switch rate.
func switchSeverity(switchesPerDay float64) string {
	switch {
	case switchesPerDay >= 200:
		return SeverityCritical
	case switchesPerDay >= 100:
		return SeverityHigh
	case switchesPerDay >= 50:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

package pattern

import "sort"

// maxAppsPerBucket caps the apps_involved list of a temporal bucket.
const maxAppsPerBucket = 5

// TemporalProfiler buckets sessions by hour-of-day and classifies each
// hour relative to global statistics.
type TemporalProfiler struct{}

// NewTemporalProfiler creates a profiler.
func NewTemporalProfiler() *TemporalProfiler {
	return &TemporalProfiler{}
}

// hourStats accumulates one hour-of-day group.
type hourStats struct {
	count         int
	totalDuration float64
	apps          []string
	appSeen       map[string]bool
}

// Profile groups sessions into 24 hour-of-day buckets using local-time
// Start and classifies each non-empty hour against the mean per-hour
// duration and count. Hours with zero sessions are omitted. Output is
// ordered by ascending hour.
func (p *TemporalProfiler) Profile(sessions []SessionRecord) []TemporalBucket {
	if len(sessions) == 0 {
		return []TemporalBucket{}
	}

	byHour := make(map[int]*hourStats)
	for _, s := range sessions {
		h := s.Start.Hour()
		st, ok := byHour[h]
		if !ok {
			st = &hourStats{appSeen: make(map[string]bool)}
			byHour[h] = st
		}
		st.count++
		st.totalDuration += s.Duration().Seconds()
		if !st.appSeen[s.AppID] {
			st.appSeen[s.AppID] = true
			st.apps = append(st.apps, s.AppID)
		}
	}

	// Global baselines are means of the per-hour values across
	// non-empty hours only.
	var sumAvgDuration, sumCount float64
	for _, st := range byHour {
		sumAvgDuration += st.totalDuration / float64(st.count)
		sumCount += float64(st.count)
	}
	n := float64(len(byHour))
	globalAvgDuration := sumAvgDuration / n
	globalAvgCount := sumCount / n

	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	buckets := make([]TemporalBucket, 0, len(hours))
	for _, h := range hours {
		st := byHour[h]
		avgDuration := st.totalDuration / float64(st.count)

		apps := st.apps
		if len(apps) > maxAppsPerBucket {
			apps = apps[:maxAppsPerBucket]
		}

		buckets = append(buckets, TemporalBucket{
			Hour:           h,
			SessionCount:   st.count,
			AvgDuration:    avgDuration,
			Classification: classifyHour(avgDuration, float64(st.count), globalAvgDuration, globalAvgCount),
			AppsInvolved:   apps,
		})
	}
	return buckets
}

// classifyHour applies the baseline rule: many short sessions mark a
// distraction peak, few long sessions mark deep work, everything else
// is transition time.
func classifyHour(avgDuration, count, globalAvgDuration, globalAvgCount float64) string {
	switch {
	case avgDuration < 0.5*globalAvgDuration && count > 1.5*globalAvgCount:
		return ClassPeakDistraction
	case avgDuration > 1.5*globalAvgDuration && count < globalAvgCount:
		return ClassDeepWork
	default:
		return ClassTransition
	}
}

package pattern

import (
	"math"
	"sort"
)

// DeathLoopDetector merges directed edge counts per unordered app pair
// into bidirectional loop candidates and scores them.
type DeathLoopDetector struct {
	minLoopCount  int
	workHourStart int
	workHourEnd   int
	keywords      KeywordTable
}

// NewDeathLoopDetector creates a detector. minLoopCount applies to each
// direction independently; the work-hours range is inclusive.
func NewDeathLoopDetector(minLoopCount, workHourStart, workHourEnd int, keywords KeywordTable) *DeathLoopDetector {
	return &DeathLoopDetector{
		minLoopCount:  minLoopCount,
		workHourStart: workHourStart,
		workHourEnd:   workHourEnd,
		keywords:      keywords,
	}
}

// directedStats accumulates observations for one ordered (from,to) pair.
type directedStats struct {
	count    int
	totalGap float64
	hours    []int
}

// Detect aggregates directed edges and emits one DeathLoop per
// unordered pair where both directions individually reach the minimum
// count. Unidirectional pairs are never emitted. Output is sorted by
// severity descending, with the canonical pair key as tie-break.
func (d *DeathLoopDetector) Detect(edges []SwitchEdge) []DeathLoop {
	directed := make(map[[2]string]*directedStats)
	for _, e := range edges {
		key := [2]string{e.FromApp, e.ToApp}
		st, ok := directed[key]
		if !ok {
			st = &directedStats{}
			directed[key] = st
		}
		st.count++
		st.totalGap += e.GapSeconds
		st.hours = append(st.hours, e.HourOfDay)
	}

	seen := make(map[[2]string]bool)
	loops := make([]DeathLoop, 0)
	for key, fwd := range directed {
		a, b := key[0], key[1]
		if a > b {
			a, b = b, a
		}
		pair := [2]string{a, b}
		if seen[pair] {
			continue
		}
		seen[pair] = true

		bwd, ok := directed[[2]string{key[1], key[0]}]
		if !ok {
			continue
		}
		if fwd.count < d.minLoopCount || bwd.count < d.minLoopCount {
			continue
		}
		loops = append(loops, d.buildLoop(a, b, fwd, bwd))
	}

	sort.Slice(loops, func(i, j int) bool {
		if loops[i].SeverityScore != loops[j].SeverityScore {
			return loops[i].SeverityScore > loops[j].SeverityScore
		}
		if loops[i].AppA != loops[j].AppA {
			return loops[i].AppA < loops[j].AppA
		}
		return loops[i].AppB < loops[j].AppB
	})
	return loops
}

// buildLoop assembles and scores one bidirectional candidate. fwd and
// bwd are the two directions in either order; the loop identity is the
// canonical (a < b) pair.
func (d *DeathLoopDetector) buildLoop(a, b string, fwd, bwd *directedStats) DeathLoop {
	occurrences := fwd.count + bwd.count
	totalTimeLost := fwd.totalGap + bwd.totalGap

	fwdAvg := fwd.totalGap / float64(fwd.count)
	bwdAvg := bwd.totalGap / float64(bwd.count)
	avgGap := (fwdAvg + bwdAvg) / 2

	hours := make([]int, 0, len(fwd.hours)+len(bwd.hours))
	hours = append(hours, fwd.hours...)
	hours = append(hours, bwd.hours...)

	workObs := 0
	for _, h := range hours {
		if h >= d.workHourStart && h <= d.workHourEnd {
			workObs++
		}
	}
	workPct := 0.0
	if len(hours) > 0 {
		workPct = 100 * float64(workObs) / float64(len(hours))
	}

	loop := DeathLoop{
		AppA:               a,
		AppB:               b,
		Occurrences:        occurrences,
		TotalTimeLost:      totalTimeLost,
		AvgGapSeconds:      avgGap,
		PeakHours:          topHours(hours, 3),
		WorkHourPercentage: workPct,
		ContextHint:        d.keywords.Hint(a, b),
	}
	loop.SeverityScore = d.severity(&loop)
	return loop
}

// severity combines four weighted factors and clamps to [0,100].
func (d *DeathLoopDetector) severity(loop *DeathLoop) float64 {
	frequencyScore := math.Min(100, float64(loop.Occurrences)/10)
	timeScore := math.Min(100, loop.TotalTimeLost/60)
	workImpact := loop.WorkHourPercentage / 100 * 50

	appPenalty := 0.0
	for _, app := range []string{loop.AppA, loop.AppB} {
		if d.keywords.Matches(app, CategoryDistraction) {
			appPenalty += 10
		}
	}

	score := 0.3*frequencyScore + 0.3*timeScore + 0.2*workImpact + 0.2*appPenalty
	return math.Max(0, math.Min(100, score))
}

// topHours returns the n most frequent hours; ties break by ascending
// hour value so the selection never depends on map iteration order.
func topHours(hours []int, n int) []int {
	counts := make(map[int]int)
	for _, h := range hours {
		counts[h]++
	}

	distinct := make([]int, 0, len(counts))
	for h := range counts {
		distinct = append(distinct, h)
	}
	sort.Slice(distinct, func(i, j int) bool {
		if counts[distinct[i]] != counts[distinct[j]] {
			return counts[distinct[i]] > counts[distinct[j]]
		}
		return distinct[i] < distinct[j]
	})

	if len(distinct) > n {
		distinct = distinct[:n]
	}
	return distinct
}

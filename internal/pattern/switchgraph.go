package pattern

// SwitchGraphBuilder turns adjacent sessions into directed transition
// edges within a gap threshold.
type SwitchGraphBuilder struct {
	maxGapSeconds float64
}

// NewSwitchGraphBuilder creates a builder with the given gap threshold.
func NewSwitchGraphBuilder(maxGapSeconds float64) *SwitchGraphBuilder {
	return &SwitchGraphBuilder{maxGapSeconds: maxGapSeconds}
}

// Build emits one SwitchEdge per adjacent session pair whose gap is in
// [0, maxGapSeconds] and whose apps differ. Records with start > end
// are dropped and counted in the second return value rather than
// raising; dropped records never participate in adjacency.
func (b *SwitchGraphBuilder) Build(sessions []SessionRecord) ([]SwitchEdge, int) {
	valid, dropped := SanitizeSessions(sessions)
	return b.buildEdges(valid), dropped
}

// buildEdges pairs already-sanitized sessions.
func (b *SwitchGraphBuilder) buildEdges(sessions []SessionRecord) []SwitchEdge {
	edges := make([]SwitchEdge, 0, len(sessions))
	for i := 0; i+1 < len(sessions); i++ {
		cur := &sessions[i]
		next := &sessions[i+1]
		if cur.AppID == next.AppID {
			continue
		}
		gap := next.Start.Sub(cur.End).Seconds()
		if gap < 0 || gap > b.maxGapSeconds {
			continue
		}
		edges = append(edges, SwitchEdge{
			FromApp:    cur.AppID,
			ToApp:      next.AppID,
			GapSeconds: gap,
			HourOfDay:  cur.Start.Hour(),
			Timestamp:  cur.Start,
		})
	}
	return edges
}

// SanitizeSessions filters out records violating start <= end and
// returns the surviving slice plus the dropped count. The input slice
// is never mutated.
func SanitizeSessions(sessions []SessionRecord) ([]SessionRecord, int) {
	valid := make([]SessionRecord, 0, len(sessions))
	dropped := 0
	for _, s := range sessions {
		if s.End.Before(s.Start) {
			dropped++
			continue
		}
		valid = append(valid, s)
	}
	return valid, dropped
}

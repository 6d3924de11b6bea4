// Package interpret assigns productivity semantics to detected
// patterns. The engine never requires an interpreter to produce its
// report; this layer annotates after the fact and downstream consumers
// are free to override anything it says.
package interpret

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/harrison/loopscope/internal/pattern"
)

// Pattern kinds accepted by Classify.
const (
	KindDeathLoop = "death_loop"
	KindCluster   = "app_cluster"
)

// Labels emitted by interpreters.
const (
	LabelDistracting = "distracting"
	LabelProductive  = "productive"
	LabelMixed       = "mixed"
)

// PatternSummary is the interpreter-facing projection of a detected
// pattern.
type PatternSummary struct {
	Kind          string   `json:"kind"`
	Apps          []string `json:"apps"`
	Occurrences   int      `json:"occurrences"`
	SeverityScore float64  `json:"severity_score"`
	PeakHours     []int    `json:"peak_hours"`
}

// Classification is an interpreter verdict. Confidence is one of
// "high", "medium", or "low".
type Classification struct {
	Label      string `json:"label"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// Interpreter classifies a detected pattern. Implementations may be
// non-deterministic or remote; callers treat failures as advisory and
// fall back to the unannotated report.
type Interpreter interface {
	Classify(ctx context.Context, summary PatternSummary) (*Classification, error)
}

// SummarizeLoop projects a death loop for classification.
func SummarizeLoop(loop *pattern.DeathLoop) PatternSummary {
	return PatternSummary{
		Kind:          KindDeathLoop,
		Apps:          []string{loop.AppA, loop.AppB},
		Occurrences:   loop.Occurrences,
		SeverityScore: loop.SeverityScore,
		PeakHours:     loop.PeakHours,
	}
}

// SummarizeCluster projects an app cluster for classification.
func SummarizeCluster(cluster *pattern.AppCluster) PatternSummary {
	return PatternSummary{
		Kind: KindCluster,
		Apps: cluster.Apps,
	}
}

// CacheKey derives a stable store key for a summary.
func (s *PatternSummary) CacheKey() string {
	apps := append([]string(nil), s.Apps...)
	sort.Strings(apps)
	return fmt.Sprintf("interpret:%s:%s", s.Kind, strings.Join(apps, "+"))
}

// StaticInterpreter is the deterministic implementation backed by the
// consolidated keyword table. It is the default and the one exercised
// by tests.
type StaticInterpreter struct {
	keywords pattern.KeywordTable
}

// NewStaticInterpreter creates a keyword-backed interpreter.
func NewStaticInterpreter(keywords pattern.KeywordTable) *StaticInterpreter {
	return &StaticInterpreter{keywords: keywords}
}

// Classify implements Interpreter. A pattern dominated by distraction
// keywords is distracting, one dominated by work keywords productive,
// anything else mixed. Confidence reflects how much of the pattern the
// table could account for.
func (si *StaticInterpreter) Classify(_ context.Context, summary PatternSummary) (*Classification, error) {
	if len(summary.Apps) == 0 {
		return nil, fmt.Errorf("summary has no apps")
	}

	distraction := si.keywords.MatchCount(summary.Apps, pattern.CategoryDistraction)
	work := si.keywords.MatchCount(summary.Apps, pattern.CategoryWork) +
		si.keywords.MatchCount(summary.Apps, pattern.CategoryProductive)
	matched := 0
	for _, app := range summary.Apps {
		if _, ok := si.keywords.Category(app); ok {
			matched++
		}
	}

	label := LabelMixed
	switch {
	case distraction > 0 && work == 0:
		label = LabelDistracting
	case work > 0 && distraction == 0:
		label = LabelProductive
	}

	confidence := "low"
	switch {
	case matched == len(summary.Apps):
		confidence = "high"
	case matched > 0:
		confidence = "medium"
	}

	return &Classification{
		Label:      label,
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("keyword table matched %d of %d apps", matched, len(summary.Apps)),
	}, nil
}

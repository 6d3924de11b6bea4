package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/loopscope/internal/pattern"
)

// Renderer writes a human-readable report to a terminal. Colors are
// applied through the color library, which honors NO_COLOR and
// non-TTY writers.
type Renderer struct {
	writer io.Writer

	// Limit caps the number of death loops shown; 0 shows all.
	Limit int
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{writer: w}
}

// Render writes the full report.
func (r *Renderer) Render(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document cannot be nil")
	}

	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	fmt.Fprintln(r.writer, bold.Sprint("=== Usage Pattern Report ==="))
	if !doc.GeneratedAt.IsZero() {
		fmt.Fprintln(r.writer, dim.Sprintf("generated %s", doc.GeneratedAt.Format("2006-01-02 15:04:05")))
	}
	fmt.Fprintln(r.writer)

	r.renderSwitches(doc)
	r.renderLoops(doc)
	r.renderTemporal(doc)
	r.renderClusters(doc)

	if doc.DroppedRecordCount > 0 {
		fmt.Fprintln(r.writer, dim.Sprintf("%d malformed records dropped", doc.DroppedRecordCount))
	}
	return nil
}

func (r *Renderer) renderSwitches(doc *Document) {
	bold := color.New(color.Bold)
	cs := doc.ContextSwitches

	fmt.Fprintln(r.writer, bold.Sprint("Context Switching"))
	fmt.Fprintf(r.writer, "  %d switches (%.1f/day), avg session %.1fs\n",
		cs.TotalSwitches, cs.SwitchesPerDay, cs.AvgSessionDuration)
	fmt.Fprintf(r.writer, "  estimated loss: %.1f min/day (%s)\n",
		cs.EstimatedDailyLossMinutes, severityColor(cs.Severity).Sprint(cs.Severity))
	fmt.Fprintln(r.writer)
}

func (r *Renderer) renderLoops(doc *Document) {
	bold := color.New(color.Bold)

	fmt.Fprintln(r.writer, bold.Sprint("Death Loops"))
	if len(doc.DeathLoops) == 0 {
		fmt.Fprintln(r.writer, "  none detected")
		fmt.Fprintln(r.writer)
		return
	}

	loops := doc.DeathLoops
	if r.Limit > 0 && len(loops) > r.Limit {
		loops = loops[:r.Limit]
	}

	for _, loop := range loops {
		pair := fmt.Sprintf("%s <-> %s", loop.AppA, loop.AppB)
		fmt.Fprintf(r.writer, "  %s  severity %s\n",
			bold.Sprint(pair), loopSeverityColor(loop.SeverityScore).Sprintf("%.1f", loop.SeverityScore))
		fmt.Fprintf(r.writer, "    %d bounces, %.1fs lost, avg gap %.1fs, %.0f%% in work hours\n",
			loop.Occurrences, loop.TotalTimeLost, loop.AvgGapSeconds, loop.WorkHourPercentage)
		if len(loop.PeakHours) > 0 {
			fmt.Fprintf(r.writer, "    peak hours: %s\n", formatHours(loop.PeakHours))
		}
		if loop.ContextHint != "" {
			fmt.Fprintf(r.writer, "    hint: %s\n", loop.ContextHint)
		}
		if ann, ok := doc.Interpretations[AnnotationKey(loop.AppA, loop.AppB)]; ok {
			fmt.Fprintf(r.writer, "    interpretation: %s (%s) %s\n", ann.Label, ann.Confidence, ann.Reasoning)
		}
	}
	if r.Limit > 0 && len(doc.DeathLoops) > r.Limit {
		fmt.Fprintf(r.writer, "  ... %d more\n", len(doc.DeathLoops)-r.Limit)
	}
	fmt.Fprintln(r.writer)
}

func (r *Renderer) renderTemporal(doc *Document) {
	if len(doc.TemporalPatterns) == 0 {
		return
	}
	bold := color.New(color.Bold)

	fmt.Fprintln(r.writer, bold.Sprint("Temporal Patterns"))
	for _, bucket := range doc.TemporalPatterns {
		fmt.Fprintf(r.writer, "  %02d:00  %3d sessions, avg %.1fs  %s  [%s]\n",
			bucket.Hour, bucket.SessionCount, bucket.AvgDuration,
			classColor(bucket.Classification).Sprint(bucket.Classification),
			strings.Join(bucket.AppsInvolved, ", "))
	}
	fmt.Fprintln(r.writer)
}

func (r *Renderer) renderClusters(doc *Document) {
	if len(doc.AppClusters) == 0 {
		return
	}
	bold := color.New(color.Bold)

	fmt.Fprintln(r.writer, bold.Sprint("App Clusters"))
	for _, cluster := range doc.AppClusters {
		fmt.Fprintf(r.writer, "  [%s]  %s\n", strings.Join(cluster.Apps, ", "), cluster.Type)
		if ann, ok := doc.Interpretations[AnnotationKey(cluster.Apps...)]; ok {
			fmt.Fprintf(r.writer, "    interpretation: %s (%s) %s\n", ann.Label, ann.Confidence, ann.Reasoning)
		}
	}
	fmt.Fprintln(r.writer)
}

func severityColor(severity string) *color.Color {
	switch severity {
	case pattern.SeverityLow:
		return color.New(color.FgGreen)
	case pattern.SeverityModerate:
		return color.New(color.FgYellow)
	case pattern.SeverityHigh:
		return color.New(color.FgRed)
	case pattern.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New()
	}
}

func loopSeverityColor(score float64) *color.Color {
	switch {
	case score >= 70:
		return color.New(color.FgRed)
	case score >= 40:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func classColor(classification string) *color.Color {
	switch classification {
	case pattern.ClassDeepWork:
		return color.New(color.FgGreen)
	case pattern.ClassPeakDistraction:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgCyan)
	}
}

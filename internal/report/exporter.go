// Package report renders and exports pattern reports in terminal,
// JSON, and Markdown forms.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/harrison/loopscope/internal/filelock"
	"github.com/harrison/loopscope/internal/pattern"
)

// Annotation is an interpretation attached to a detected loop or
// cluster, keyed by its app set.
type Annotation struct {
	Label      string `json:"label"`
	Confidence string `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// Document is a pattern report plus optional interpretation
// annotations. Annotation keys are the sorted app ids joined by "+".
type Document struct {
	pattern.PatternReport
	Interpretations map[string]Annotation `json:"interpretations,omitempty"`
}

// AnnotationKey builds the annotation map key for a set of apps.
func AnnotationKey(apps ...string) string {
	sorted := make([]string, len(apps))
	copy(sorted, apps)
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}

// Exporter defines the interface for exporting pattern reports
type Exporter interface {
	Export(doc *Document) (string, error)
}

// JSONExporter exports reports in JSON format
type JSONExporter struct {
	Pretty bool // Enable pretty printing with indentation
}

// Export converts a Document to a JSON string
func (je *JSONExporter) Export(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document cannot be nil")
	}
	if err := doc.Validate(); err != nil {
		return "", fmt.Errorf("invalid report: %w", err)
	}

	var data []byte
	var err error
	if je.Pretty {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return string(data), nil
}

// MarkdownExporter exports reports in Markdown format
type MarkdownExporter struct {
	IncludeTimestamp bool // Include the report timestamp in the header
}

// Export converts a Document to a Markdown string
func (me *MarkdownExporter) Export(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document cannot be nil")
	}
	if err := doc.Validate(); err != nil {
		return "", fmt.Errorf("invalid report: %w", err)
	}

	var sb strings.Builder

	sb.WriteString("# Usage Pattern Report\n\n")
	if me.IncludeTimestamp && !doc.GeneratedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("**Generated**: %s\n\n", doc.GeneratedAt.Format("2006-01-02 15:04:05")))
	}

	// Context switching summary
	cs := doc.ContextSwitches
	sb.WriteString("## Context Switching\n\n")
	sb.WriteString(fmt.Sprintf("- **Total Switches**: %d\n", cs.TotalSwitches))
	sb.WriteString(fmt.Sprintf("- **Switches Per Day**: %.1f\n", cs.SwitchesPerDay))
	sb.WriteString(fmt.Sprintf("- **Avg Session Duration**: %.1fs\n", cs.AvgSessionDuration))
	sb.WriteString(fmt.Sprintf("- **Estimated Daily Loss**: %.1f minutes\n", cs.EstimatedDailyLossMinutes))
	sb.WriteString(fmt.Sprintf("- **Severity**: %s\n", cs.Severity))
	if doc.DroppedRecordCount > 0 {
		sb.WriteString(fmt.Sprintf("- **Dropped Records**: %d\n", doc.DroppedRecordCount))
	}
	sb.WriteString("\n")

	// Death loops
	if len(doc.DeathLoops) > 0 {
		sb.WriteString("## Death Loops\n\n")
		sb.WriteString("| Apps | Occurrences | Time Lost | Avg Gap | Severity | Work Hours | Peak Hours |\n")
		sb.WriteString("|------|-------------|-----------|---------|----------|------------|------------|\n")
		for _, loop := range doc.DeathLoops {
			sb.WriteString(fmt.Sprintf("| %s ↔ %s | %d | %.1fs | %.1fs | %.1f | %.0f%% | %s |\n",
				loop.AppA,
				loop.AppB,
				loop.Occurrences,
				loop.TotalTimeLost,
				loop.AvgGapSeconds,
				loop.SeverityScore,
				loop.WorkHourPercentage,
				formatHours(loop.PeakHours)))
		}
		sb.WriteString("\n")
	}

	// Temporal buckets
	if len(doc.TemporalPatterns) > 0 {
		sb.WriteString("## Temporal Patterns\n\n")
		sb.WriteString("| Hour | Sessions | Avg Duration | Classification | Apps |\n")
		sb.WriteString("|------|----------|--------------|----------------|------|\n")
		for _, bucket := range doc.TemporalPatterns {
			sb.WriteString(fmt.Sprintf("| %02d:00 | %d | %.1fs | %s | %s |\n",
				bucket.Hour,
				bucket.SessionCount,
				bucket.AvgDuration,
				bucket.Classification,
				strings.Join(bucket.AppsInvolved, ", ")))
		}
		sb.WriteString("\n")
	}

	// App clusters
	if len(doc.AppClusters) > 0 {
		sb.WriteString("## App Clusters\n\n")
		sb.WriteString("| Apps | Type |\n")
		sb.WriteString("|------|------|\n")
		for _, cluster := range doc.AppClusters {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", strings.Join(cluster.Apps, ", "), cluster.Type))
		}
		sb.WriteString("\n")
	}

	// Interpretations
	if len(doc.Interpretations) > 0 {
		sb.WriteString("## Interpretations\n\n")
		for _, key := range sortedKeys(doc.Interpretations) {
			ann := doc.Interpretations[key]
			sb.WriteString(fmt.Sprintf("- **%s**: %s (%s confidence) - %s\n",
				key, ann.Label, ann.Confidence, ann.Reasoning))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func formatHours(hours []int) string {
	if len(hours) == 0 {
		return "-"
	}
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]Annotation) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExportToString exports a document to a string in the specified
// format. Supported formats: "json", "markdown", "md".
func ExportToString(doc *Document, format string) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document cannot be nil")
	}

	format = strings.ToLower(format)
	if format == "md" {
		format = "markdown"
	}

	var exporter Exporter
	switch format {
	case "json":
		exporter = &JSONExporter{Pretty: true}
	case "markdown":
		exporter = &MarkdownExporter{IncludeTimestamp: true}
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: json, markdown)", format)
	}

	return exporter.Export(doc)
}

// ExportToFile exports a document to a file in the specified format.
// The write is atomic so readers never see a partial report.
func ExportToFile(doc *Document, path string, format string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	content, err := ExportToString(doc, format)
	if err != nil {
		return err
	}

	if err := filelock.AtomicWrite(path, []byte(content)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// NewDocument wraps a report for export.
func NewDocument(r *pattern.PatternReport) *Document {
	if r == nil {
		return nil
	}
	return &Document{PatternReport: *r}
}

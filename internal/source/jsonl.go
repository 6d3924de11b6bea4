// Package source provides the external session-source adapters: a
// SQLite usage-log reader, a JSONL export reader, and a synthetic
// generator. Adapters normalize everything into pattern.SessionRecord
// slices ordered non-decreasing by start, which is the contract the
// engine assumes.
package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/harrison/loopscope/internal/pattern"
)

// Reader produces the session records for one analysis window.
type Reader interface {
	ReadWindow(ctx context.Context, since, until time.Time) ([]pattern.SessionRecord, error)
}

// sessionLine is the JSONL wire format: epoch seconds, local time.
type sessionLine struct {
	AppID string `json:"app_id"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// JSONLReader reads newline-delimited session exports.
type JSONLReader struct {
	path string
}

// NewJSONLReader creates a reader for the given file.
func NewJSONLReader(path string) *JSONLReader {
	return &JSONLReader{path: path}
}

// ReadWindow implements Reader. Records are filtered on start time and
// re-sorted; blank lines are skipped, malformed lines fail with their
// line number.
func (r *JSONLReader) ReadWindow(ctx context.Context, since, until time.Time) ([]pattern.SessionRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open session export: %w", err)
	}
	defer f.Close()

	records, err := DecodeJSONL(ctx, f)
	if err != nil {
		return nil, err
	}
	return filterWindow(records, since, until), nil
}

// DecodeJSONL parses a JSONL stream of session lines.
func DecodeJSONL(ctx context.Context, r io.Reader) ([]pattern.SessionRecord, error) {
	var records []pattern.SessionRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var parsed sessionLine
		if err := json.Unmarshal(line, &parsed); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if parsed.AppID == "" {
			return nil, fmt.Errorf("line %d: missing app_id", lineNo)
		}
		records = append(records, pattern.SessionRecord{
			AppID: parsed.AppID,
			Start: time.Unix(parsed.Start, 0),
			End:   time.Unix(parsed.End, 0),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read session export: %w", err)
	}
	return records, nil
}

// EncodeJSONL writes records in the JSONL wire format.
func EncodeJSONL(w io.Writer, records []pattern.SessionRecord) error {
	enc := json.NewEncoder(w)
	for i := range records {
		line := sessionLine{
			AppID: records[i].AppID,
			Start: records[i].Start.Unix(),
			End:   records[i].End.Unix(),
		}
		if err := enc.Encode(&line); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return nil
}

// filterWindow keeps records whose start is in [since, until) and
// restores non-decreasing start order. Zero bounds disable that side
// of the filter.
func filterWindow(records []pattern.SessionRecord, since, until time.Time) []pattern.SessionRecord {
	filtered := make([]pattern.SessionRecord, 0, len(records))
	for _, rec := range records {
		if !since.IsZero() && rec.Start.Before(since) {
			continue
		}
		if !until.IsZero() && !rec.Start.Before(until) {
			continue
		}
		filtered = append(filtered, rec)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Start.Before(filtered[j].Start)
	})
	return filtered
}

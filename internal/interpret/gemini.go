package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash-lite"

// GeminiInterpreter classifies patterns with the Gemini API. It is
// inherently non-deterministic and excluded from the engine's
// correctness guarantees; callers should wrap it in a CachingInterpreter
// and fall back to StaticInterpreter when it fails.
type GeminiInterpreter struct {
	apiKey string
	model  string
}

// NewGeminiInterpreter creates a remote interpreter. An empty model
// selects the default.
func NewGeminiInterpreter(apiKey, model string) *GeminiInterpreter {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiInterpreter{apiKey: apiKey, model: model}
}

// Classify implements Interpreter. The call is retried with jittered
// backoff on transient failures.
func (gi *GeminiInterpreter) Classify(ctx context.Context, summary PatternSummary) (*Classification, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  gi.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: gi.buildPrompt(summary)},
			},
		},
	}
	temperature := float32(0.1)
	config := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  512,
		ResponseMIMEType: "application/json",
		ResponseSchema:   classificationSchema(),
	}

	var resp *genai.GenerateContentResponse
	err = retry.Do(
		func() error {
			var callErr error
			resp, callErr = client.Models.GenerateContent(ctx, gi.model, contents, config)
			if callErr != nil && !isTransient(callErr) {
				return retry.Unrecoverable(callErr)
			}
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(4),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini classify: %w", err)
	}

	return parseClassification(resp)
}

func (gi *GeminiInterpreter) buildPrompt(summary PatternSummary) string {
	var sb strings.Builder
	sb.WriteString("You review desktop app-usage patterns for a productivity coach.\n")
	fmt.Fprintf(&sb, "Pattern kind: %s\n", summary.Kind)
	fmt.Fprintf(&sb, "Apps involved: %s\n", strings.Join(summary.Apps, ", "))
	if summary.Occurrences > 0 {
		fmt.Fprintf(&sb, "Occurrences in window: %d\n", summary.Occurrences)
	}
	if summary.SeverityScore > 0 {
		fmt.Fprintf(&sb, "Severity score (0-100): %.1f\n", summary.SeverityScore)
	}
	sb.WriteString("Classify the pattern as distracting, productive, or mixed, with a one-sentence reason.")
	return sb.String()
}

func classificationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"label": {
				Type: genai.TypeString,
				Enum: []string{LabelDistracting, LabelProductive, LabelMixed},
			},
			"confidence": {
				Type: genai.TypeString,
				Enum: []string{"high", "medium", "low"},
			},
			"reasoning": {
				Type:        genai.TypeString,
				Description: "One sentence explaining the verdict",
			},
		},
		Required: []string{"label", "confidence", "reasoning"},
	}
}

func parseClassification(resp *genai.GenerateContentResponse) (*Classification, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("no content in response")
	}
	text := candidate.Content.Parts[0].Text
	if text == "" {
		return nil, fmt.Errorf("empty text in response")
	}

	var result Classification
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("parse classification: %w", err)
	}
	if result.Label == "" {
		return nil, fmt.Errorf("classification missing label")
	}
	return &result, nil
}

func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"rate limit", "quota", "timeout", "deadline", "unavailable",
		"internal server error", "502", "503", "504",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

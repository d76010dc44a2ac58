package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

// Decision is the structured output of one analyze-and-next cycle. The
// model emits it as free-form text wrapping a JSON object; parsing failure
// is treated the same as oracle unavailability.
type Decision struct {
	Analysis     string `json:"analysis"`
	Score        int    `json:"score"`
	NextQuestion string `json:"next_question"`
	Category     string `json:"category"`
	Topic        string `json:"topic"`
	ShouldEnd    bool   `json:"should_end"`
	EndReason    string `json:"end_reason"`
}

// FirstQuestion is the structured output of the opening-question call.
type FirstQuestion struct {
	Question string `json:"question"`
	Category string `json:"category"`
	Topic    string `json:"topic"`
}

// skipQuestion is the reduced shape returned by the post-skip call; the
// gateway wraps it into a full Decision with locally synthesized analysis
// and score.
type skipQuestion struct {
	NextQuestion string `json:"next_question"`
	Category     string `json:"category"`
	Topic        string `json:"topic"`
}

// ParseDecision extracts the JSON object from raw model output, validates
// it structurally, and unmarshals it. Defaulting and clamping of optional
// fields is the policy layer's job, not done here.
func ParseDecision(ctx context.Context, raw string) (*Decision, error) {
	j, err := validated(ctx, raw, decisionSchema)
	if err != nil {
		return nil, err
	}

	var d Decision
	if err := json.Unmarshal([]byte(j), &d); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &d, nil
}

// ParseFirstQuestion extracts and validates the opening-question payload.
func ParseFirstQuestion(ctx context.Context, raw string) (*FirstQuestion, error) {
	j, err := validated(ctx, raw, firstQuestionSchema)
	if err != nil {
		return nil, err
	}

	var q FirstQuestion
	if err := json.Unmarshal([]byte(j), &q); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &q, nil
}

func parseSkipQuestion(ctx context.Context, raw string) (*skipQuestion, error) {
	j, err := validated(ctx, raw, skipQuestionSchema)
	if err != nil {
		return nil, err
	}

	var q skipQuestion
	if err := json.Unmarshal([]byte(j), &q); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &q, nil
}

func validated(ctx context.Context, raw string, schema *jsonschema.Schema) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("empty response")
	}

	j := extractJSON(raw)
	if j == "" {
		return "", errors.New("no JSON object found in response")
	}

	verrs, err := schema.ValidateBytes(ctx, []byte(j))
	if err != nil {
		return "", fmt.Errorf("schema validate: %w", err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		return "", fmt.Errorf("response does not match schema: %s", sb.String())
	}

	return j, nil
}

// extractJSON returns the substring from the first '{' to the last '}' in
// the input. This is a pragmatic approach to handle model outputs that wrap
// JSON in text or markdown fences.
func extractJSON(s string) string {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}

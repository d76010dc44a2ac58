// Package oracle is the boundary to the external text-generation service.
// It renders prompts, sends them through a Generator, and parses the
// free-form output into validated decision records. Unavailability and
// malformed output are the same condition here: both surface as an error
// the policy layer answers with its deterministic fallback. Calls are
// never retried.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/interviewer/internal/models"
	"github.com/garnizeh/interviewer/pkg/ollama"
)

// Generator is the transport contract, satisfied by *ollama.Client.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// Gateway exposes the interview's oracle operations over a Generator. It
// is an explicit dependency: construct it once and pass it in, there is no
// lazily initialized singleton.
type Gateway struct {
	gen    Generator
	model  string
	logger *slog.Logger
}

func NewGateway(gen Generator, model string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{gen: gen, model: model, logger: logger}
}

// FirstQuestion asks the oracle for a profile-grounded opening question.
func (g *Gateway) FirstQuestion(ctx context.Context, profile models.Profile) (*FirstQuestion, error) {
	prompt, err := ollama.RenderTemplate(firstQuestionTemplate, map[string]any{
		"Skills":     strings.Join(profile.Skills, ", "),
		"Projects":   strings.Join(profile.Projects, ", "),
		"Experience": strings.Join(profile.Experience, ", "),
	})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	out, err := g.gen.Generate(ctx, g.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	q, err := ParseFirstQuestion(ctx, out)
	if err != nil {
		g.logger.Warn("oracle first question unparseable", slog.Any("err", err))
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if q.Topic == "" {
		q.Topic = "introduction"
	}
	if q.Category == "" {
		q.Category = models.CategoryGeneral
	}
	return q, nil
}

// AnalyzeAndNext runs the core oracle operation of a decision cycle:
// analyze the last answer, score it, and propose the next question or a
// termination signal.
func (g *Gateway) AnalyzeAndNext(
	ctx context.Context,
	profile models.Profile,
	recentHistory []models.ConversationMessage,
	currentTopic string,
	topicQuestionCount int,
	totalAsked int,
	weakStreak int,
) (*Decision, error) {
	prompt, err := ollama.RenderTemplate(analyzeAndNextTemplate, map[string]any{
		"Skills":             strings.Join(profile.Skills, ", "),
		"Projects":           strings.Join(profile.Projects, ", "),
		"Experience":         strings.Join(profile.Experience, ", "),
		"Conversation":       conversationText(recentHistory),
		"CurrentTopic":       currentTopic,
		"TopicQuestionCount": topicQuestionCount,
		"TotalAsked":         totalAsked,
		"WeakStreak":         weakStreak,
	})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	out, err := g.gen.Generate(ctx, g.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	d, err := ParseDecision(ctx, out)
	if err != nil {
		g.logger.Warn("oracle decision unparseable", slog.Any("err", err))
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return d, nil
}

// AfterSkip produces the post-skip decision. It short-circuits to a forced
// termination without calling the oracle at all when the weak streak and
// question floor both say the interview should stop; that local rule takes
// precedence over anything the oracle might answer.
func (g *Gateway) AfterSkip(
	ctx context.Context,
	profile models.Profile,
	recentHistory []models.ConversationMessage,
	totalAsked int,
	weakStreak int,
) (*Decision, error) {
	if weakStreak >= 3 && totalAsked >= 5 {
		return &Decision{
			Analysis:     "Candidate skipped again with too many weak responses.",
			Score:        0,
			NextQuestion: "Thank you for your time. That concludes our interview.",
			Category:     models.CategoryGeneral,
			Topic:        "closing",
			ShouldEnd:    true,
			EndReason:    "Too many consecutive skips and weak answers",
		}, nil
	}

	prompt, err := ollama.RenderTemplate(afterSkipTemplate, map[string]any{
		"Skills":         strings.Join(profile.Skills, ", "),
		"Projects":       strings.Join(profile.Projects, ", "),
		"AskedQuestions": askedQuestionsText(recentHistory, 8),
		"TotalAsked":     totalAsked,
	})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	out, err := g.gen.Generate(ctx, g.model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	q, err := parseSkipQuestion(ctx, out)
	if err != nil {
		g.logger.Warn("oracle skip question unparseable", slog.Any("err", err))
		return nil, fmt.Errorf("parse response: %w", err)
	}

	// Wrap into the decision shape; analysis and score are synthesized
	// locally, skips are never scored by the oracle.
	d := &Decision{
		Analysis:     "Candidate skipped - moving to a different topic.",
		Score:        0,
		NextQuestion: q.NextQuestion,
		Category:     q.Category,
		Topic:        q.Topic,
	}
	if d.Category == "" {
		d.Category = models.CategoryGeneral
	}
	if d.Topic == "" {
		d.Topic = "new_topic"
	}
	return d, nil
}

// AnalyzeProfile extracts a structured profile from raw resume text.
func (g *Gateway) AnalyzeProfile(ctx context.Context, resumeText string) (models.Profile, error) {
	var profile models.Profile

	prompt, err := ollama.RenderTemplate(profileTemplate, map[string]any{"Resume": resumeText})
	if err != nil {
		return profile, fmt.Errorf("render template: %w", err)
	}

	out, err := g.gen.Generate(ctx, g.model, prompt)
	if err != nil {
		return profile, fmt.Errorf("generate: %w", err)
	}

	j, err := validated(ctx, out, profileSchema)
	if err != nil {
		g.logger.Warn("oracle profile unparseable", slog.Any("err", err))
		return profile, fmt.Errorf("parse response: %w", err)
	}
	if err := json.Unmarshal([]byte(j), &profile); err != nil {
		return profile, fmt.Errorf("json unmarshal: %w", err)
	}
	return profile, nil
}

// OverallFeedback asks the oracle for a short closing assessment over the
// answered records. Callers bound results before passing them in.
func (g *Gateway) OverallFeedback(ctx context.Context, results []models.QuestionRecord, averageScore float64, total, answered int) (string, error) {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		answer := r.Answer
		if r.Skipped || answer == "" {
			answer = "Skipped"
		}
		lines = append(lines, fmt.Sprintf("Q%d: %s\nA: %s\nScore: %d/10", r.Number, r.Question, answer, r.Score))
	}

	prompt, err := ollama.RenderTemplate(feedbackTemplate, map[string]any{
		"Summary":      strings.Join(lines, "\n"),
		"AverageScore": fmt.Sprintf("%.1f", averageScore),
		"Total":        total,
		"Answered":     answered,
	})
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}

	out, err := g.gen.Generate(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty feedback")
	}
	return out, nil
}

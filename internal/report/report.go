// Package report aggregates a session's question records into a scored
// interview report.
package report

import (
	"context"
	"log/slog"
	"math"

	"github.com/garnizeh/interviewer/internal/models"
	"github.com/garnizeh/interviewer/internal/oracle"
)

// NoAnswersFeedback is returned whenever nothing was answered, regardless
// of oracle availability.
const NoAnswersFeedback = "No questions were answered in this interview."

// feedbackResultLimit bounds the answered records sent to the oracle.
const feedbackResultLimit = 10

// Generator builds reports over finished sessions. The oracle is optional
// at runtime: when it fails, feedback falls back to fixed bands keyed by
// the average score.
type Generator struct {
	oracle *oracle.Gateway
	logger *slog.Logger
}

func NewGenerator(gw *oracle.Gateway, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{oracle: gw, logger: logger}
}

// Build aggregates the session's records into a report.
func (g *Generator) Build(ctx context.Context, sess *models.Session) *models.Report {
	var answered, skipped []models.QuestionRecord
	for _, q := range sess.Questions {
		switch {
		case q.Skipped:
			skipped = append(skipped, q)
		case q.Answer != "":
			answered = append(answered, q)
		}
	}

	rep := &models.Report{
		SessionID:      sess.ID,
		TotalQuestions: len(sess.Questions),
		Answered:       len(answered),
		Skipped:        len(skipped),
		Results:        append([]models.QuestionRecord(nil), sess.Questions...),
	}

	rep.BestAnswer = bestAnswer(answered)
	rep.WorstAnswer = worstAnswer(answered)
	rep.AverageScore = averageScore(answered)

	if sess.EndTime > 0 {
		rep.DurationSeconds = sess.EndTime - sess.StartTime
	}

	rep.OverallFeedback = g.feedback(ctx, answered, rep.AverageScore, rep.TotalQuestions)

	return rep
}

// bestAnswer is the maximum-score record restricted to substantive
// categories with score >= 6. Generic and behavioral answers are excluded
// on purpose; ties keep the earliest record.
func bestAnswer(answered []models.QuestionRecord) *models.QuestionRecord {
	var best *models.QuestionRecord
	for i := range answered {
		q := &answered[i]
		switch q.Category {
		case models.CategoryTechnical, models.CategorySkill, models.CategoryProject:
		default:
			continue
		}
		if q.Score < 6 {
			continue
		}
		if best == nil || q.Score > best.Score {
			best = q
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

// worstAnswer is the minimum-score record among all answered; ties keep the
// earliest record.
func worstAnswer(answered []models.QuestionRecord) *models.QuestionRecord {
	var worst *models.QuestionRecord
	for i := range answered {
		q := &answered[i]
		if worst == nil || q.Score < worst.Score {
			worst = q
		}
	}
	if worst == nil {
		return nil
	}
	cp := *worst
	return &cp
}

// averageScore is the mean over answered records rounded to one decimal,
// 0 when nothing was answered. Skipped records never contribute: the
// partition is on the skipped flag, not on their out-of-range score 0.
func averageScore(answered []models.QuestionRecord) float64 {
	if len(answered) == 0 {
		return 0
	}
	var sum int
	for _, q := range answered {
		sum += q.Score
	}
	avg := float64(sum) / float64(len(answered))
	return math.Round(avg*10) / 10
}

func (g *Generator) feedback(ctx context.Context, answered []models.QuestionRecord, avg float64, total int) string {
	if len(answered) == 0 {
		return NoAnswersFeedback
	}

	bounded := answered
	if len(bounded) > feedbackResultLimit {
		bounded = bounded[:feedbackResultLimit]
	}

	if g.oracle != nil {
		fb, err := g.oracle.OverallFeedback(ctx, bounded, avg, total, len(answered))
		if err == nil {
			return fb
		}
		g.logger.Warn("oracle unavailable for overall feedback, using banded fallback", slog.Any("err", err))
	}

	return bandedFeedback(avg)
}

func bandedFeedback(avg float64) string {
	switch {
	case avg >= 8:
		return "Excellent performance! You demonstrated strong knowledge and communication skills."
	case avg >= 6:
		return "Good performance. You showed solid understanding with room for improvement in some areas."
	case avg >= 4:
		return "Average performance. Consider practicing more detailed and structured responses."
	default:
		return "Needs improvement. Focus on building deeper knowledge and practicing your responses."
	}
}

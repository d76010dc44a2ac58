// Package interview implements the adaptive interview state machine. Each
// session moves NOT_STARTED -> IN_PROGRESS -> FINISHED; while in progress,
// every answer or skip runs one decision cycle: score the event, update the
// weak streak and topic continuation counters, and either append the next
// question or terminate. The oracle proposes; this package validates,
// repairs, and enforces the hard floors the oracle is not trusted with.
package interview

import (
	"context"
	"errors"
	"log/slog"

	"github.com/garnizeh/interviewer/internal/models"
	"github.com/garnizeh/interviewer/internal/oracle"
	"github.com/garnizeh/interviewer/internal/session"
)

var (
	ErrAlreadyStarted = errors.New("interview already started")
	ErrNotStarted     = errors.New("interview not started")
	ErrFinished       = errors.New("interview already finished")
)

const (
	// minQuestions is the termination floor: the interview never finishes
	// before this many questions have been asked, no matter what the
	// oracle requests.
	minQuestions = 5

	// historyWindow bounds the transcript slice sent to the oracle.
	historyWindow = 16
)

// Turn is the outcome of one engine operation, shaped for the HTTP layer.
type Turn struct {
	Analysis       string
	Score          int
	Question       string
	QuestionNumber int
	Category       string
	Topic          string
	Finished       bool
	EndReason      string
}

// Engine drives interview sessions. Oracle calls happen inside the
// session's own critical section so a decision cycle commits atomically
// with respect to other requests on the same session; sessions never block
// each other.
type Engine struct {
	sessions *session.Store
	oracle   *oracle.Gateway
	logger   *slog.Logger
}

func NewEngine(sessions *session.Store, gw *oracle.Gateway, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{sessions: sessions, oracle: gw, logger: logger}
}

// Start transitions a session to in-progress and issues the first
// question, seeded by the profile rather than by any answer.
func (e *Engine) Start(ctx context.Context, id string) (*Turn, error) {
	var turn Turn
	err := e.sessions.WithSession(id, func(sess *models.Session) error {
		if sess.Started {
			return ErrAlreadyStarted
		}

		first, err := e.oracle.FirstQuestion(ctx, sess.Profile)
		if err != nil {
			e.logger.Warn("oracle unavailable for first question, using fallback",
				slog.String("session_id", id), slog.Any("err", err))
			first = oracle.FallbackFirstQuestion()
		}

		num := session.AddQuestion(sess, first.Question, first.Category)
		session.StartSession(sess, first.Topic)
		session.AppendMessage(sess, models.RoleInterviewer, first.Question)

		turn = Turn{
			Question:       first.Question,
			QuestionNumber: num,
			Category:       first.Category,
			Topic:          first.Topic,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// Answer runs one decision cycle for a submitted answer.
func (e *Engine) Answer(ctx context.Context, id, answer string) (*Turn, error) {
	var turn Turn
	err := e.sessions.WithSession(id, func(sess *models.Session) error {
		if err := checkInProgress(sess); err != nil {
			return err
		}

		// Every issued question was already consumed; close out.
		if sess.CurrentQuestionIndex >= len(sess.Questions) {
			session.FinishSession(sess)
			turn = Turn{Analysis: "Interview complete!", Finished: true}
			return nil
		}

		session.AppendMessage(sess, models.RoleCandidate, answer)

		totalAsked := len(sess.Questions)
		d, err := e.oracle.AnalyzeAndNext(ctx, sess.Profile,
			session.RecentHistory(sess, historyWindow),
			sess.CurrentTopic, sess.TopicQuestionCount, totalAsked, sess.WeakStreak)
		if err != nil {
			e.logger.Warn("oracle unavailable for decision, using fallback rotation",
				slog.String("session_id", id), slog.Any("err", err))
			d = oracle.FallbackDecision(sess.Profile, totalAsked)
		}
		sanitize(d, sess.CurrentTopic)

		session.RecordAnswer(sess, answer, d.Score, d.Analysis)
		applyScoring(sess, d)

		if d.ShouldEnd {
			if totalAsked >= minQuestions {
				session.FinishSession(sess)
				turn = Turn{
					Analysis:  d.Analysis,
					Score:     d.Score,
					Question:  d.NextQuestion,
					Category:  d.Category,
					Topic:     sess.CurrentTopic,
					Finished:  true,
					EndReason: d.EndReason,
				}
				return nil
			}
			// The floor is ours, not the oracle's: keep going.
			e.logger.Warn("oracle requested end before question floor, continuing",
				slog.String("session_id", id), slog.Int("total_asked", totalAsked))
		}

		num := session.AddQuestion(sess, d.NextQuestion, d.Category)
		session.AppendMessage(sess, models.RoleInterviewer, d.NextQuestion)

		turn = Turn{
			Analysis:       d.Analysis,
			Score:          d.Score,
			Question:       d.NextQuestion,
			QuestionNumber: num,
			Category:       d.Category,
			Topic:          sess.CurrentTopic,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// Skip runs the skip decision path: the skipped question always counts as
// weak and always forces a topic switch.
func (e *Engine) Skip(ctx context.Context, id string) (*Turn, error) {
	var turn Turn
	err := e.sessions.WithSession(id, func(sess *models.Session) error {
		if err := checkInProgress(sess); err != nil {
			return err
		}

		session.RecordSkip(sess)
		sess.WeakStreak++

		totalAsked := len(sess.Questions)
		d, err := e.oracle.AfterSkip(ctx, sess.Profile,
			session.RecentHistory(sess, historyWindow), totalAsked, sess.WeakStreak)
		if err != nil {
			e.logger.Warn("oracle unavailable after skip, using fallback rotation",
				slog.String("session_id", id), slog.Any("err", err))
			d = oracle.FallbackSkipDecision(sess.Profile, totalAsked)
		}

		if d.ShouldEnd && totalAsked >= minQuestions {
			session.FinishSession(sess)
			turn = Turn{
				Question:  d.NextQuestion,
				Category:  d.Category,
				Topic:     d.Topic,
				Finished:  true,
				EndReason: d.EndReason,
			}
			return nil
		}

		// Skips never continue the prior topic.
		sess.CurrentTopic = d.Topic
		sess.TopicQuestionCount = 1

		num := session.AddQuestion(sess, d.NextQuestion, d.Category)
		session.AppendMessage(sess, models.RoleInterviewer, d.NextQuestion)

		turn = Turn{
			Question:       d.NextQuestion,
			QuestionNumber: num,
			Category:       d.Category,
			Topic:          d.Topic,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// End forces the terminal state. Ending a finished session is a no-op; the
// first end time wins.
func (e *Engine) End(ctx context.Context, id string) error {
	return e.sessions.Finish(id)
}

func checkInProgress(sess *models.Session) error {
	if !sess.Started {
		return ErrNotStarted
	}
	if sess.Finished {
		return ErrFinished
	}
	return nil
}

package interview

import (
	"strings"

	"github.com/garnizeh/interviewer/internal/models"
	"github.com/garnizeh/interviewer/internal/oracle"
)

// sanitize repairs an answer decision before any state is derived from it.
// It runs unconditionally, fallback decisions included: the score is
// clamped into [1,10] and every missing optional field gets its default
// (topic falls back to the prior topic, category to general, analysis to a
// neutral placeholder). Skip decisions bypass this; their score 0 is
// synthesized locally, not received from the oracle.
func sanitize(d *oracle.Decision, priorTopic string) {
	if d.Score < 1 {
		d.Score = 1
	} else if d.Score > 10 {
		d.Score = 10
	}
	if strings.TrimSpace(d.Topic) == "" {
		d.Topic = priorTopic
	}
	if strings.TrimSpace(d.Category) == "" {
		d.Category = models.CategoryGeneral
	}
	if strings.TrimSpace(d.Analysis) == "" {
		d.Analysis = "Answer analyzed."
	}
	if strings.TrimSpace(d.NextQuestion) == "" {
		d.NextQuestion = "Can you tell me more about that?"
	}
}

// applyScoring updates the weak streak and topic continuation counters from
// a sanitized decision.
//
// The weak streak resets to 0 exactly when the score is above 5 and
// increments by exactly 1 otherwise. The topic counter resets to 1 exactly
// when the decision adopts a new topic and increments by 1 otherwise.
func applyScoring(sess *models.Session, d *oracle.Decision) {
	if d.Score > 5 {
		sess.WeakStreak = 0
	} else {
		sess.WeakStreak++
	}

	if d.Topic != sess.CurrentTopic {
		sess.CurrentTopic = d.Topic
		sess.TopicQuestionCount = 1
	} else {
		sess.TopicQuestionCount++
	}
}

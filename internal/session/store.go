// Package session owns the in-memory interview session state: creation,
// lookup, explicit mutation operations, and the append-only conversation
// ledger. All state is volatile by design and lost on restart; only the
// account store persists.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/interviewer/internal/models"
)

// ErrNotFound is the sole existence signal for session lookups.
var ErrNotFound = errors.New("session not found")

// entry pairs a session with its own mutex. The mutex serializes every
// mutating operation on that session, including the oracle call a decision
// cycle makes before writing state back; distinct sessions never contend.
type entry struct {
	mu   sync.Mutex
	sess *models.Session
}

// Store is the repository for sessions. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Create initializes a fresh session in the not-started state and returns
// its identifier.
func (s *Store) Create() string {
	id := uuid.NewString()
	sess := &models.Session{
		ID:           id,
		CurrentTopic: "introduction",
	}

	s.mu.Lock()
	s.entries[id] = &entry{sess: sess}
	s.mu.Unlock()

	return id
}

// Get returns a snapshot of the session. Mutations must go through the
// explicit mutators or WithSession so they hold the session's lock.
func (s *Store) Get(id string) (*models.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.sess), nil
}

// Delete removes the session. Deleting an unknown id is an error so callers
// can distinguish cleanup races.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// WithSession runs fn while holding the session's exclusive lock. fn may
// mutate the session directly; the lock spans whatever fn does, so a
// decision cycle can cover its oracle call and the subsequent state write
// in one critical section. Other sessions proceed concurrently.
func (s *Store) WithSession(id string, fn func(*models.Session) error) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// expiredFinished returns ids of sessions that finished before cutoff.
func (s *Store) expiredFinished(cutoff time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, e := range s.entries {
		e.mu.Lock()
		if e.sess.Finished && e.sess.EndTime > 0 && e.sess.EndTime < cutoff.Unix() {
			ids = append(ids, id)
		}
		e.mu.Unlock()
	}
	return ids
}

// SetProfile stores the raw resume text and the structured profile.
func (s *Store) SetProfile(id, resumeText string, profile models.Profile) error {
	return s.WithSession(id, func(sess *models.Session) error {
		sess.ResumeText = resumeText
		sess.Profile = profile
		return nil
	})
}

// Start transitions the session to in-progress.
func (s *Store) Start(id, topic string) error {
	return s.WithSession(id, func(sess *models.Session) error {
		StartSession(sess, topic)
		return nil
	})
}

// AddQuestion appends a question record and returns its 1-based ordinal.
func (s *Store) AddQuestion(id, question, category string) (int, error) {
	var num int
	err := s.WithSession(id, func(sess *models.Session) error {
		num = AddQuestion(sess, question, category)
		return nil
	})
	return num, err
}

// RecordAnswer records the answer for the current question and advances the
// question index.
func (s *Store) RecordAnswer(id, answer string, score int, feedback string) error {
	return s.WithSession(id, func(sess *models.Session) error {
		RecordAnswer(sess, answer, score, feedback)
		return nil
	})
}

// RecordSkip marks the current question skipped and advances the index.
func (s *Store) RecordSkip(id string) error {
	return s.WithSession(id, func(sess *models.Session) error {
		RecordSkip(sess)
		return nil
	})
}

// Finish transitions the session to the terminal finished state.
func (s *Store) Finish(id string) error {
	return s.WithSession(id, func(sess *models.Session) error {
		FinishSession(sess)
		return nil
	})
}

// StartSession marks sess started and seeds the adaptive tracking fields.
func StartSession(sess *models.Session, topic string) {
	if topic == "" {
		topic = "introduction"
	}
	sess.Started = true
	sess.StartTime = time.Now().Unix()
	sess.CurrentTopic = topic
	sess.TopicQuestionCount = 1
	sess.WeakStreak = 0
}

// FinishSession marks sess finished. The transition is terminal; repeated
// calls keep the first end time.
func FinishSession(sess *models.Session) {
	if sess.Finished {
		return
	}
	sess.Finished = true
	sess.EndTime = time.Now().Unix()
}

// AddQuestion appends a question record to sess and returns its ordinal.
func AddQuestion(sess *models.Session, question, category string) int {
	num := len(sess.Questions) + 1
	sess.Questions = append(sess.Questions, models.QuestionRecord{
		Number:   num,
		Question: question,
		Category: category,
	})
	return num
}

// RecordAnswer mutates the current question record exactly once and
// advances the question index.
func RecordAnswer(sess *models.Session, answer string, score int, feedback string) {
	idx := sess.CurrentQuestionIndex
	if idx >= len(sess.Questions) {
		return
	}
	sess.Questions[idx].Answer = answer
	sess.Questions[idx].Score = score
	sess.Questions[idx].Feedback = feedback
	sess.CurrentQuestionIndex++
}

// RecordSkip marks the current question skipped and advances the index.
func RecordSkip(sess *models.Session) {
	idx := sess.CurrentQuestionIndex
	if idx >= len(sess.Questions) {
		return
	}
	sess.Questions[idx].Skipped = true
	sess.CurrentQuestionIndex++
}

func snapshot(sess *models.Session) *models.Session {
	cp := *sess
	cp.Questions = append([]models.QuestionRecord(nil), sess.Questions...)
	cp.History = append([]models.ConversationMessage(nil), sess.History...)
	return &cp
}

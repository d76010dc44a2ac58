package session

import "github.com/garnizeh/interviewer/internal/models"

// The conversation ledger is an append-only, ordered transcript embedded in
// the session. Messages are never mutated, trimmed, or removed at write
// time; readers building oracle context bound the window themselves via
// RecentHistory.

// AppendMessage adds one message to the session's transcript.
func (s *Store) AppendMessage(id, role, content string) error {
	return s.WithSession(id, func(sess *models.Session) error {
		AppendMessage(sess, role, content)
		return nil
	})
}

// AppendMessage adds one message to sess's transcript.
func AppendMessage(sess *models.Session, role, content string) {
	sess.History = append(sess.History, models.ConversationMessage{Role: role, Content: content})
}

// RecentHistory returns at most the last n messages in order of occurrence.
func RecentHistory(sess *models.Session, n int) []models.ConversationMessage {
	if n <= 0 || len(sess.History) <= n {
		return sess.History
	}
	return sess.History[len(sess.History)-n:]
}

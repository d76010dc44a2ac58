package models

// Question categories assigned by the oracle (or the fallback rotation).
const (
	CategoryTechnical  = "technical"
	CategoryProject    = "project"
	CategoryBehavioral = "behavioral"
	CategorySkill      = "skill"
	CategoryGeneral    = "general"
)

// Conversation roles.
const (
	RoleInterviewer = "interviewer"
	RoleCandidate   = "candidate"
)

// Profile is the structured candidate profile extracted from a resume.
// It is produced during ingestion and consumed as opaque data by the
// interview engine when building prompts.
type Profile struct {
	Name       string   `json:"name"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Skills     []string `json:"skills"`
	Projects   []string `json:"projects"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Interests  []string `json:"interests"`
	Summary    string   `json:"summary"`
}

// QuestionRecord is one asked question. It is created when the question is
// issued and mutated exactly once, when the candidate answers or skips.
type QuestionRecord struct {
	Number   int    `json:"question_number"`
	Question string `json:"question"`
	Category string `json:"category"`
	Answer   string `json:"answer,omitempty"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback,omitempty"`
	Skipped  bool   `json:"skipped"`
}

// ConversationMessage is one turn of the interview transcript.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is one interview attempt. All fields are owned by the session
// store; callers mutate them only through the store's methods.
type Session struct {
	ID         string           `json:"session_id"`
	ResumeText string           `json:"-"`
	Profile    Profile          `json:"profile"`
	Questions  []QuestionRecord `json:"questions"`

	// CurrentQuestionIndex points at the next unanswered question.
	// Invariant: CurrentQuestionIndex <= len(Questions).
	CurrentQuestionIndex int `json:"current_question_index"`

	Started   bool  `json:"started"`
	Finished  bool  `json:"finished"`
	StartTime int64 `json:"start_time,omitempty"`
	EndTime   int64 `json:"end_time,omitempty"`

	History []ConversationMessage `json:"-"`

	// Adaptive interview tracking.
	CurrentTopic       string `json:"current_topic"`
	TopicQuestionCount int    `json:"topic_question_count"`
	WeakStreak         int    `json:"weak_streak"`
}

// Report aggregates a finished session's question records.
type Report struct {
	SessionID       string           `json:"session_id"`
	TotalQuestions  int              `json:"total_questions"`
	Answered        int              `json:"answered"`
	Skipped         int              `json:"skipped"`
	AverageScore    float64          `json:"average_score"`
	BestAnswer      *QuestionRecord  `json:"best_answer"`
	WorstAnswer     *QuestionRecord  `json:"worst_answer"`
	Results         []QuestionRecord `json:"results"`
	DurationSeconds int64            `json:"duration_seconds"`
	OverallFeedback string           `json:"overall_feedback"`
}

package oracle

import (
	"fmt"
	"strings"

	"github.com/garnizeh/interviewer/internal/models"
)

// Deterministic fallbacks used whenever the oracle is unreachable or its
// output fails validation. They guarantee forward progress: the fallback
// never ends the interview and always supplies a next question.

// FallbackAnalysis is the neutral analysis attached to fallback decisions.
const FallbackAnalysis = "Answer recorded. Let's keep going."

// fallbackScore is the neutral score reported when no analysis happened.
const fallbackScore = 5

// FallbackFirstQuestion is the fixed opening used without oracle help.
func FallbackFirstQuestion() *FirstQuestion {
	return &FirstQuestion{
		Question: "Tell me about yourself and your background.",
		Category: models.CategoryGeneral,
		Topic:    "introduction",
	}
}

// FallbackDecision returns the profile-templated easy question for the
// given position in the interview. The rotation is indexed by the number of
// questions already asked and clamps to its last entry once exhausted.
func FallbackDecision(profile models.Profile, totalAsked int) *Decision {
	s1 := "programming"
	s2 := "your domain"
	if len(profile.Skills) > 0 && profile.Skills[0] != "" {
		s1 = profile.Skills[0]
	}
	if len(profile.Skills) > 1 && profile.Skills[1] != "" {
		s2 = profile.Skills[1]
	}

	pool := []Decision{
		{NextQuestion: fmt.Sprintf("Can you tell me what %s is and why you like using it?", s1), Category: models.CategorySkill, Topic: s1},
		{NextQuestion: "Tell me about a project you enjoyed working on. What did you build?", Category: models.CategoryProject, Topic: "projects"},
		{NextQuestion: "When you find a bug in your code, what is the first thing you usually do?", Category: models.CategoryBehavioral, Topic: "problem_solving"},
		{NextQuestion: fmt.Sprintf("What is %s used for in simple terms?", s2), Category: models.CategoryTechnical, Topic: s2},
		{NextQuestion: "Tell me about something you learned recently that you found interesting.", Category: models.CategoryBehavioral, Topic: "learning"},
		{NextQuestion: "Have you used Git before? What basic commands do you use most often?", Category: models.CategoryTechnical, Topic: "git"},
		{NextQuestion: "How do you usually learn a new technology or tool?", Category: models.CategoryGeneral, Topic: "learning"},
		{NextQuestion: "What is the difference between frontend and backend development?", Category: models.CategoryTechnical, Topic: "basics"},
	}

	idx := totalAsked
	if idx < 0 {
		idx = 0
	}
	if idx >= len(pool) {
		idx = len(pool) - 1
	}

	d := pool[idx]
	d.Analysis = FallbackAnalysis
	d.Score = fallbackScore
	d.ShouldEnd = false
	d.EndReason = ""
	return &d
}

// FallbackSkipDecision is the deterministic post-skip question when the
// oracle is unavailable. Skips force a topic switch, so this rotation is
// separate from the answer rotation and never shares its index.
func FallbackSkipDecision(profile models.Profile, totalAsked int) *Decision {
	pool := []Decision{
		{NextQuestion: "Tell me about another project you worked on.", Category: models.CategoryProject, Topic: "projects"},
		{NextQuestion: "What programming language do you feel most comfortable with and why?", Category: models.CategorySkill, Topic: "languages"},
		{NextQuestion: "In simple terms, what is an API?", Category: models.CategoryTechnical, Topic: "apis"},
		{NextQuestion: "What does a typical day of work or study look like for you?", Category: models.CategoryBehavioral, Topic: "work_style"},
	}

	idx := totalAsked % len(pool)
	if idx < 0 {
		idx = 0
	}

	d := pool[idx]
	d.Analysis = "Candidate skipped - moving to a different topic."
	d.Score = 0
	d.ShouldEnd = false
	d.EndReason = ""
	return &d
}

// commonSkills is the fixed list scanned by the profile fallback.
var commonSkills = []string{
	"python", "javascript", "react", "node", "java", "c++", "sql",
	"html", "css", "typescript", "mongodb", "docker", "aws", "git",
	"machine learning", "deep learning", "flask", "django", "fastapi",
	"angular", "vue", "express", "postgresql", "mysql", "redis",
	"kubernetes", "linux", "rust", "go", "swift", "kotlin",
}

// FallbackProfile synthesizes a profile from a raw resume by scanning for
// well-known skill names.
func FallbackProfile(resumeText string) models.Profile {
	lower := strings.ToLower(resumeText)

	var found []string
	for _, s := range commonSkills {
		if strings.Contains(lower, s) {
			found = append(found, titleCase(s))
		}
	}
	if len(found) == 0 {
		found = []string{"General Programming"}
	}

	summary := resumeText
	if len(summary) > 300 {
		summary = summary[:300]
	}
	if summary == "" {
		summary = "Resume uploaded successfully"
	}

	return models.Profile{
		Skills:     found,
		Projects:   []string{"See resume for project details"},
		Experience: []string{"See resume for experience details"},
		Education:  []string{"See resume for education details"},
		Interests:  []string{},
		Summary:    summary,
	}
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

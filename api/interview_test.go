package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garnizeh/interviewer/api"
	"github.com/garnizeh/interviewer/internal/config"
	"github.com/garnizeh/interviewer/internal/interview"
	"github.com/garnizeh/interviewer/internal/oracle"
	"github.com/garnizeh/interviewer/internal/report"
	"github.com/garnizeh/interviewer/internal/retrieval"
	"github.com/garnizeh/interviewer/internal/session"
	"github.com/garnizeh/interviewer/pkg/repository/mock"
)

// scriptedGenerator replays canned oracle outputs in order.
type scriptedGenerator struct {
	outs  []string
	calls int
}

func (g *scriptedGenerator) Generate(context.Context, string, string) (string, error) {
	if g.calls >= len(g.outs) {
		return "", errors.New("script exhausted")
	}
	out := g.outs[g.calls]
	g.calls++
	if out == "" {
		return "", errors.New("oracle down")
	}
	return out, nil
}

type testServer struct {
	srv   *httptest.Server
	token string
}

func newTestServer(t *testing.T, gen *scriptedGenerator) *testServer {
	t.Helper()

	cfg := &config.Config{JWTSecret: "testsecret", TokenDuration: time.Hour}

	sessions := session.NewStore()
	ret := retrieval.NewEngine()
	gw := oracle.NewGateway(gen, "test-model", nil)

	deps := api.Deps{
		Users:     mock.NewMocks().UserRepo,
		Sessions:  sessions,
		Retrieval: ret,
		Oracle:    gw,
		Interview: interview.NewEngine(sessions, gw, nil),
		Reports:   report.NewGenerator(gw, nil),
	}

	srv := httptest.NewServer(api.SetupRoutes(cfg, "test", "now", deps))
	t.Cleanup(srv.Close)

	ts := &testServer{srv: srv}

	// sign up once to obtain a token for the protected routes
	resp := ts.post(t, "/v1/auth/signup", map[string]string{"name": "Ana", "email": "ana@example.com", "password": "pw"}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status = %d", resp.StatusCode)
	}
	var ar struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	ts.token = ar.Token
	return ts
}

func (ts *testServer) post(t *testing.T, path string, body any, token string) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, ts.srv.URL+path, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func (ts *testServer) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestInterviewFlow(t *testing.T) {
	gen := &scriptedGenerator{outs: []string{
		`{"name":"Ana","skills":["Go","SQL"],"summary":"Backend engineer."}`,
		`{"question":"Why Go?","category":"skill","topic":"go"}`,
		`{"analysis":"solid","score":8,"next_question":"What is a goroutine?","category":"technical","topic":"go"}`,
		`{"next_question":"What is an index?","category":"technical","topic":"databases"}`,
		`Overall a good showing.`,
	}}
	ts := newTestServer(t, gen)

	// protected route without a token
	resp := ts.post(t, "/v1/resume", map[string]string{"text": "Go and SQL developer"}, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated resume status = %d, want 401", resp.StatusCode)
	}

	// upload resume
	var resume struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
		Profile   struct {
			Skills []string `json:"skills"`
		} `json:"resume_data"`
	}
	resp = ts.post(t, "/v1/resume", map[string]string{"text": "Go and SQL developer"}, ts.token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resume status = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &resume)
	if resume.SessionID == "" {
		t.Fatal("no session id")
	}
	if len(resume.Profile.Skills) != 2 {
		t.Fatalf("skills = %v", resume.Profile.Skills)
	}

	// start
	var start struct {
		Question       string `json:"question"`
		QuestionNumber int    `json:"question_number"`
		Category       string `json:"category"`
		Topic          string `json:"topic"`
	}
	resp = ts.post(t, "/v1/interview/start", map[string]string{"session_id": resume.SessionID}, ts.token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &start)
	if start.Question != "Why Go?" || start.QuestionNumber != 1 || start.Topic != "go" {
		t.Fatalf("start = %+v", start)
	}

	// answer
	var answer struct {
		Analysis       string `json:"analysis"`
		Score          int    `json:"score"`
		NextQuestion   string `json:"next_question"`
		QuestionNumber int    `json:"question_number"`
		IsFinished     bool   `json:"is_finished"`
	}
	resp = ts.post(t, "/v1/interview/answer", map[string]string{"session_id": resume.SessionID, "answer": "static types"}, ts.token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer status = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &answer)
	if answer.Score != 8 || answer.NextQuestion != "What is a goroutine?" || answer.QuestionNumber != 2 {
		t.Fatalf("answer = %+v", answer)
	}
	if answer.IsFinished {
		t.Fatal("unexpected finish")
	}

	// skip
	var skip struct {
		NextQuestion   string `json:"next_question"`
		QuestionNumber int    `json:"question_number"`
		Topic          string `json:"topic"`
		IsFinished     bool   `json:"is_finished"`
	}
	resp = ts.post(t, "/v1/interview/skip", map[string]string{"session_id": resume.SessionID}, ts.token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("skip status = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &skip)
	if skip.NextQuestion != "What is an index?" || skip.Topic != "databases" || skip.QuestionNumber != 3 {
		t.Fatalf("skip = %+v", skip)
	}

	// end
	resp = ts.post(t, "/v1/interview/end", map[string]string{"session_id": resume.SessionID}, ts.token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// report
	var rep struct {
		TotalQuestions  int     `json:"total_questions"`
		Answered        int     `json:"answered"`
		Skipped         int     `json:"skipped"`
		AverageScore    float64 `json:"average_score"`
		OverallFeedback string  `json:"overall_feedback"`
	}
	resp = ts.get(t, "/v1/report/"+resume.SessionID, ts.token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report status = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &rep)
	if rep.TotalQuestions != 3 || rep.Answered != 1 || rep.Skipped != 1 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.AverageScore != 8.0 {
		t.Fatalf("average = %v", rep.AverageScore)
	}
	if rep.OverallFeedback != "Overall a good showing." {
		t.Fatalf("feedback = %q", rep.OverallFeedback)
	}
}

func TestInterviewFlow_OracleDown(t *testing.T) {
	// every oracle call fails; the flow must still complete
	gen := &scriptedGenerator{outs: []string{"", "", "", ""}}
	ts := newTestServer(t, gen)

	var resume struct {
		SessionID string `json:"session_id"`
		Profile   struct {
			Skills []string `json:"skills"`
		} `json:"resume_data"`
	}
	resp := ts.post(t, "/v1/resume", map[string]string{"text": "Plenty of Python and Docker work"}, ts.token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resume status = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &resume)
	if len(resume.Profile.Skills) == 0 {
		t.Fatal("fallback profile has no skills")
	}

	var start struct {
		Question string `json:"question"`
	}
	resp = ts.post(t, "/v1/interview/start", map[string]string{"session_id": resume.SessionID}, ts.token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &start)
	if start.Question != "Tell me about yourself and your background." {
		t.Fatalf("question = %q", start.Question)
	}

	var answer struct {
		NextQuestion string `json:"next_question"`
		Score        int    `json:"score"`
		IsFinished   bool   `json:"is_finished"`
	}
	resp = ts.post(t, "/v1/interview/answer", map[string]string{"session_id": resume.SessionID, "answer": "hello"}, ts.token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("answer status = %d", resp.StatusCode)
	}
	decodeBody(t, resp, &answer)
	if answer.IsFinished || answer.NextQuestion == "" {
		t.Fatalf("fallback answer = %+v", answer)
	}
	if answer.Score != 5 {
		t.Fatalf("score = %d, want neutral 5", answer.Score)
	}
}

func TestInterviewHandlers_BadRequests(t *testing.T) {
	ts := newTestServer(t, &scriptedGenerator{})

	paths := []string{"/v1/interview/start", "/v1/interview/answer", "/v1/interview/skip", "/v1/interview/end"}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			// missing session_id
			resp := ts.post(t, p, map[string]string{}, ts.token)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}

			// unknown session
			resp = ts.post(t, p, map[string]string{"session_id": "nope"}, ts.token)
			resp.Body.Close()
			if resp.StatusCode != http.StatusNotFound {
				t.Fatalf("unknown session status = %d, want 404", resp.StatusCode)
			}
		})
	}
}

func TestInterviewHandlers_StateErrors(t *testing.T) {
	gen := &scriptedGenerator{outs: []string{
		`{"name":"A","skills":["Go"],"summary":"s"}`,
		`{"question":"Q1","category":"general","topic":"intro"}`,
	}}
	ts := newTestServer(t, gen)

	var resume struct {
		SessionID string `json:"session_id"`
	}
	resp := ts.post(t, "/v1/resume", map[string]string{"text": "Go developer"}, ts.token)
	decodeBody(t, resp, &resume)

	// answer before start
	resp = ts.post(t, "/v1/interview/answer", map[string]string{"session_id": resume.SessionID, "answer": "a"}, ts.token)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("answer before start = %d (%s), want 400", resp.StatusCode, b)
	}

	// start, then start again
	resp = ts.post(t, "/v1/interview/start", map[string]string{"session_id": resume.SessionID}, ts.token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	resp = ts.post(t, "/v1/interview/start", map[string]string{"session_id": resume.SessionID}, ts.token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("double start = %d, want 400", resp.StatusCode)
	}

	// end, then answer the finished interview
	resp = ts.post(t, "/v1/interview/end", map[string]string{"session_id": resume.SessionID}, ts.token)
	resp.Body.Close()
	resp = ts.post(t, "/v1/interview/answer", map[string]string{"session_id": resume.SessionID, "answer": "late"}, ts.token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("answer after end = %d, want 400", resp.StatusCode)
	}
}

func TestReportHandler_UnknownSession(t *testing.T) {
	ts := newTestServer(t, &scriptedGenerator{})

	resp := ts.get(t, fmt.Sprintf("/v1/report/%s", "missing"), ts.token)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

package oracle

import (
	"context"
	"strings"
	"testing"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Decision
		wantErr bool
	}{
		{
			name: "bare json",
			raw:  `{"analysis":"good","score":8,"next_question":"What is a goroutine?","category":"technical","topic":"concurrency","should_end":false}`,
			want: Decision{Analysis: "good", Score: 8, NextQuestion: "What is a goroutine?", Category: "technical", Topic: "concurrency"},
		},
		{
			name: "json wrapped in prose and fences",
			raw:  "Here is my decision:\n```json\n{\"analysis\":\"ok\",\"score\":6,\"next_question\":\"Next?\"}\n```\nThanks!",
			want: Decision{Analysis: "ok", Score: 6, NextQuestion: "Next?"},
		},
		{
			name: "termination signal",
			raw:  `{"analysis":"weak","score":2,"next_question":"Thanks.","should_end":true,"end_reason":"repeated weak answers"}`,
			want: Decision{Analysis: "weak", Score: 2, NextQuestion: "Thanks.", ShouldEnd: true, EndReason: "repeated weak answers"},
		},
		{
			name:    "empty response",
			raw:     "   \n ",
			wantErr: true,
		},
		{
			name:    "no json object",
			raw:     "I cannot answer that.",
			wantErr: true,
		},
		{
			name:    "missing required next_question",
			raw:     `{"analysis":"good","score":8}`,
			wantErr: true,
		},
		{
			name:    "missing required score",
			raw:     `{"analysis":"good","next_question":"Next?"}`,
			wantErr: true,
		},
		{
			name:    "score of wrong type",
			raw:     `{"score":"eight","next_question":"Next?"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecision(context.Background(), tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecision: %v", err)
			}
			if *got != tt.want {
				t.Fatalf("decision = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestParseFirstQuestion(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    FirstQuestion
		wantErr bool
	}{
		{
			name: "full payload",
			raw:  `{"question":"Tell me about your Go experience.","category":"skill","topic":"go"}`,
			want: FirstQuestion{Question: "Tell me about your Go experience.", Category: "skill", Topic: "go"},
		},
		{
			name: "question only",
			raw:  `{"question":"Walk me through your resume."}`,
			want: FirstQuestion{Question: "Walk me through your resume."},
		},
		{
			name:    "missing question",
			raw:     `{"category":"general","topic":"introduction"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFirstQuestion(context.Background(), tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFirstQuestion: %v", err)
			}
			if *got != tt.want {
				t.Fatalf("first question = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestParseSkipQuestion_MissingNextQuestion(t *testing.T) {
	if _, err := parseSkipQuestion(context.Background(), `{"category":"technical"}`); err == nil {
		t.Fatal("expected error for skip payload without next_question")
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"surrounded by prose", `sure: {"a":1} done`, `{"a":1}`},
		{"nested braces", `{"a":{"b":1}}`, `{"a":{"b":1}}`},
		{"no opening brace", `a":1}`, ""},
		{"no closing brace", `{"a":1`, ""},
		{"braces reversed", `} text {`, ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidated_SchemaErrorMentionsField(t *testing.T) {
	_, err := validated(context.Background(), `{"analysis":"x"}`, decisionSchema)
	if err == nil {
		t.Fatal("expected schema error")
	}
	if !strings.Contains(err.Error(), "schema") {
		t.Fatalf("error does not mention schema: %v", err)
	}
}

package oracle

import (
	"encoding/json"

	"github.com/qri-io/jsonschema"
)

// Decision shapes are fixed at build time, so the schemas are embedded and
// compiled once instead of loaded from storage. A payload missing a
// required field fails validation and routes the caller to the
// deterministic fallback; optional fields are defaulted by the policy
// layer.

const decisionSchemaJSON = `{
  "type": "object",
  "required": ["score", "next_question"],
  "properties": {
    "analysis": {"type": "string"},
    "score": {"type": "integer"},
    "next_question": {"type": "string", "minLength": 1},
    "category": {"type": "string"},
    "topic": {"type": "string"},
    "should_end": {"type": "boolean"},
    "end_reason": {"type": "string"}
  }
}`

const firstQuestionSchemaJSON = `{
  "type": "object",
  "required": ["question"],
  "properties": {
    "question": {"type": "string", "minLength": 1},
    "category": {"type": "string"},
    "topic": {"type": "string"}
  }
}`

const skipQuestionSchemaJSON = `{
  "type": "object",
  "required": ["next_question"],
  "properties": {
    "next_question": {"type": "string", "minLength": 1},
    "category": {"type": "string"},
    "topic": {"type": "string"}
  }
}`

const profileSchemaJSON = `{
  "type": "object",
  "required": ["skills", "summary"],
  "properties": {
    "name": {"type": "string"},
    "email": {"type": "string"},
    "phone": {"type": "string"},
    "skills": {"type": "array", "items": {"type": "string"}},
    "projects": {"type": "array", "items": {"type": "string"}},
    "experience": {"type": "array", "items": {"type": "string"}},
    "education": {"type": "array", "items": {"type": "string"}},
    "interests": {"type": "array", "items": {"type": "string"}},
    "summary": {"type": "string"}
  }
}`

var (
	decisionSchema      = mustSchema(decisionSchemaJSON)
	firstQuestionSchema = mustSchema(firstQuestionSchemaJSON)
	skipQuestionSchema  = mustSchema(skipQuestionSchemaJSON)
	profileSchema       = mustSchema(profileSchemaJSON)
)

func mustSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic("oracle: compile schema: " + err.Error())
	}
	return rs
}

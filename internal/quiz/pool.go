package quiz

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Question is one entry in the fixed question pool.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
	Topics  []string `json:"topics"`
}

const poolSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "prompt", "options", "answer"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "prompt": {"type": "string", "minLength": 1},
      "options": {"type": "array", "items": {"type": "string"}, "minItems": 2},
      "answer": {"type": "integer", "minimum": 0},
      "topics": {"type": "array", "items": {"type": "string"}}
    }
  }
}`

// Pool holds the question bank quizzes sample from.
type Pool struct {
	questions []Question
}

// NewPool wraps an already-validated question list.
func NewPool(questions []Question) *Pool {
	return &Pool{questions: questions}
}

// LoadPool reads a question bank from a JSON file, validating it against the
// pool schema before accepting it. Configuration problems surface here, at
// startup, rather than when a learner starts a quiz.
func LoadPool(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question pool: %w", err)
	}

	return ParsePool(data)
}

// ParsePool validates and decodes raw question bank JSON.
func ParsePool(data []byte) (*Pool, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("pool.schema.json", strings.NewReader(poolSchema)); err != nil {
		return nil, fmt.Errorf("failed to register pool schema: %w", err)
	}

	schema, err := compiler.Compile("pool.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile pool schema: %w", err)
	}

	var document interface{}
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("invalid question pool json: %w", err)
	}

	if err := schema.Validate(document); err != nil {
		return nil, fmt.Errorf("question pool does not match schema: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode question pool: %w", err)
	}

	for _, question := range questions {
		if question.Answer >= len(question.Options) {
			return nil, fmt.Errorf("question %s: answer index %d out of range", question.ID, question.Answer)
		}
	}

	return NewPool(questions), nil
}

// Len returns total pool size.
func (p *Pool) Len() int {
	return len(p.questions)
}

// Filter returns the questions tagged with at least one of the given topics.
// An empty topic list matches the whole pool.
func (p *Pool) Filter(topics []string) []Question {
	if len(topics) == 0 {
		filtered := make([]Question, len(p.questions))
		copy(filtered, p.questions)
		return filtered
	}

	wanted := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		wanted[strings.ToLower(strings.TrimSpace(topic))] = struct{}{}
	}

	var filtered []Question
	for _, question := range p.questions {
		for _, topic := range question.Topics {
			if _, ok := wanted[strings.ToLower(topic)]; ok {
				filtered = append(filtered, question)
				break
			}
		}
	}

	return filtered
}

package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/thywilljoshua/slidenotes/internal/ai"
)

var ErrInvalidQuiz = errors.New("invalid quiz")

type Question struct {
	Question    string   `json:"question" yaml:"question" msgpack:"question"`
	Options     []string `json:"options" yaml:"options" msgpack:"options"`
	Answer      int      `json:"answer" yaml:"answer" msgpack:"answer"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty" msgpack:"explanation,omitempty"`
}

// AnswerLetter is the answer index as A, B, C...
func (q Question) AnswerLetter() string { return Letter(q.Answer) }

type Quiz struct {
	Questions []Question `json:"questions" yaml:"questions" msgpack:"questions"`
}

// Letter maps 0 to "A", 1 to "B" and so on.
func Letter(i int) string {
	if i < 0 || i > 25 {
		return "?"
	}
	return string(rune('A' + i))
}

// QuizSchema is the JSON schema a model answer must satisfy for q.
func QuizSchema(q QuizOptions) map[string]any {
	return map[string]any{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": []string{"questions"},
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": q.Questions,
				"maxItems": q.Questions,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"question", "options", "answer"},
					"properties": map[string]any{
						"question": map[string]any{"type": "string", "minLength": 1},
						"options": map[string]any{
							"type":     "array",
							"minItems": q.Choices,
							"maxItems": q.Choices,
							"items":    map[string]any{"type": "string", "minLength": 1},
						},
						"answer":      map[string]any{"type": "integer", "minimum": 0, "maximum": q.Choices - 1},
						"explanation": map[string]any{"type": "string"},
					},
				},
			},
		},
	}
}

func validateAgainst(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("quiz.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("quiz.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return schema.Validate(v)
}

// ParseQuiz recovers the JSON object from a model answer, checks it against
// QuizSchema(q) and decodes it.
func ParseQuiz(text string, q QuizOptions) (Quiz, error) {
	var out Quiz
	js := ai.StripCodeFences(text)
	if !json.Valid([]byte(js)) {
		js = ai.FindFirstJSON(js)
		if js == "" {
			return out, fmt.Errorf("%w: no JSON object in model output", ErrInvalidQuiz)
		}
	}
	if err := validateAgainst(QuizSchema(q), []byte(js)); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidQuiz, err)
	}
	if err := json.Unmarshal([]byte(js), &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidQuiz, err)
	}
	for i := range out.Questions {
		qq := &out.Questions[i]
		qq.Question = strings.TrimSpace(qq.Question)
		qq.Explanation = strings.TrimSpace(qq.Explanation)
		for j := range qq.Options {
			qq.Options[j] = strings.TrimSpace(qq.Options[j])
		}
	}
	return out, nil
}

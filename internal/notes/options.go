package notes

import (
	"errors"
	"fmt"
	"strings"
)

// Range is an inclusive count range used in prompt wording ("5–7 sentences").
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (r Range) String() string {
	if r.Min == r.Max {
		return fmt.Sprint(r.Min)
	}
	return fmt.Sprintf("%d–%d", r.Min, r.Max)
}

func (r Range) validate(field string) error {
	if r.Min <= 0 || r.Max <= 0 {
		return fmt.Errorf("%s: counts must be positive, got %s", field, r)
	}
	if r.Min > r.Max {
		return fmt.Errorf("%s: min %d is greater than max %d", field, r.Min, r.Max)
	}
	return nil
}

// SizeOptions are the user-chosen sizes substituted into the summary prompt.
type SizeOptions struct {
	Summary   Range `json:"summary" yaml:"summary"`
	MaxWords  int   `json:"max_words" yaml:"max_words"`
	Questions Range `json:"questions" yaml:"questions"`
	Clear     Range `json:"clear" yaml:"clear"`
	Unclear   Range `json:"unclear" yaml:"unclear"`
}

var sizePresets = map[string]SizeOptions{
	"short": {
		Summary:   Range{3, 4},
		MaxWords:  7,
		Questions: Range{2, 3},
		Clear:     Range{1, 1},
		Unclear:   Range{1, 1},
	},
	"medium": {
		Summary:   Range{5, 7},
		MaxWords:  7,
		Questions: Range{3, 4},
		Clear:     Range{1, 2},
		Unclear:   Range{1, 2},
	},
	"long": {
		Summary:   Range{8, 10},
		MaxWords:  12,
		Questions: Range{5, 6},
		Clear:     Range{2, 3},
		Unclear:   Range{2, 3},
	},
}

// DefaultSize is the "medium" preset.
func DefaultSize() SizeOptions { return sizePresets["medium"] }

// SizePreset looks up short, medium or long. An empty name means medium.
func SizePreset(name string) (SizeOptions, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "medium"
	}
	s, ok := sizePresets[name]
	if !ok {
		return SizeOptions{}, fmt.Errorf("unknown size %q, want short, medium or long", name)
	}
	return s, nil
}

func (s SizeOptions) Validate() error {
	if s.MaxWords <= 0 {
		return errors.New("max_words must be positive")
	}
	for _, f := range []struct {
		name string
		r    Range
	}{
		{"summary", s.Summary},
		{"questions", s.Questions},
		{"clear", s.Clear},
		{"unclear", s.Unclear},
	} {
		if err := f.r.validate(f.name); err != nil {
			return err
		}
	}
	return nil
}

const (
	MaxQuizQuestions = 20
	MinQuizChoices   = 2
	MaxQuizChoices   = 6
)

type QuizOptions struct {
	Questions int `json:"questions" yaml:"questions"`
	Choices   int `json:"choices" yaml:"choices"`
}

func DefaultQuiz() QuizOptions { return QuizOptions{Questions: 5, Choices: 4} }

func (q QuizOptions) Validate() error {
	if q.Questions < 1 || q.Questions > MaxQuizQuestions {
		return fmt.Errorf("questions must be between 1 and %d, got %d", MaxQuizQuestions, q.Questions)
	}
	if q.Choices < MinQuizChoices || q.Choices > MaxQuizChoices {
		return fmt.Errorf("choices must be between %d and %d, got %d", MinQuizChoices, MaxQuizChoices, q.Choices)
	}
	return nil
}

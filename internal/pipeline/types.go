package pipeline

import (
	"log/slog"
	"time"

	"github.com/thywilljoshua/slidenotes/internal/ai"
	"github.com/thywilljoshua/slidenotes/internal/extract"
	"github.com/thywilljoshua/slidenotes/internal/notes"
)

type Mode string

const (
	ModeSummary Mode = "summary"
	ModeQuiz    Mode = "quiz"
)

func (m Mode) Valid() bool { return m == ModeSummary || m == ModeQuiz }

// Item is the outcome for one input file. Exactly one of Summary, Quiz or
// Err is set once the file has been processed.
type Item struct {
	Position int            `json:"position" yaml:"position" msgpack:"position"`
	FileName string         `json:"file_name" yaml:"file_name" msgpack:"file_name"`
	Text     string         `json:"text,omitempty" yaml:"-" msgpack:"text,omitempty"`
	Summary  *notes.Summary `json:"summary,omitempty" yaml:"summary,omitempty" msgpack:"summary,omitempty"`
	Quiz     *notes.Quiz    `json:"quiz,omitempty" yaml:"quiz,omitempty" msgpack:"quiz,omitempty"`
	Err      string         `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
}

func (it Item) Failed() bool { return it.Err != "" }

type Result struct {
	Mode Mode `json:"mode" yaml:"mode" msgpack:"mode"`
	// Total is the number of files selected; Items can be shorter when the
	// batch stopped early.
	Total   int           `json:"total" yaml:"total" msgpack:"total"`
	Items   []Item        `json:"items" yaml:"items" msgpack:"items"`
	Failed  int           `json:"failed" yaml:"failed" msgpack:"failed"`
	Elapsed time.Duration `json:"elapsed_ns" yaml:"elapsed" msgpack:"elapsed_ns"`
	Stopped bool          `json:"stopped,omitempty" yaml:"stopped,omitempty" msgpack:"stopped,omitempty"`
}

// Progress is reported before each file and once when the batch ends.
type Progress struct {
	Done  int
	Total int
	File  string
}

func (p Progress) Finished() bool { return p.Done == p.Total }

type Config struct {
	Mode      Mode
	Size      notes.SizeOptions
	Quiz      notes.QuizOptions
	KeepGoing bool
	// KeepText retains the extracted text on each Item.
	KeepText   bool
	Extractor  extract.Extractor
	Generator  ai.Generator
	Logger     *slog.Logger
	OnProgress func(Progress)
}

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/thywilljoshua/slidenotes/internal/notes"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
)

const quizSheet = "Kviz"

// WriteQuizXLSX writes one row per quiz question across all items.
func WriteQuizXLSX(w io.Writer, items []pipeline.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), quizSheet); err != nil {
		return err
	}

	headers := []string{"Prezentacija", "Br.", "Pitanje", "Ponuđeni odgovori", "Tačan odgovor", "Objašnjenje"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(quizSheet, cell, h)
	}

	row := 2
	for _, it := range items {
		if it.Quiz == nil {
			continue
		}
		for i, q := range it.Quiz.Questions {
			opts := make([]string, len(q.Options))
			for j, o := range q.Options {
				opts[j] = notes.Letter(j) + ") " + o
			}
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(quizSheet, cell, v)
			}
			write(1, it.FileName)
			write(2, i+1)
			write(3, q.Question)
			write(4, strings.Join(opts, "\n"))
			write(5, q.AnswerLetter())
			write(6, q.Explanation)
			row++
		}
	}
	if row == 2 {
		return fmt.Errorf("%w: no quiz questions", ErrNothingToExport)
	}

	_ = f.SetColWidth(quizSheet, "A", "A", 28)
	_ = f.SetColWidth(quizSheet, "B", "B", 6)
	_ = f.SetColWidth(quizSheet, "C", "C", 60)
	_ = f.SetColWidth(quizSheet, "D", "D", 48)
	_ = f.SetColWidth(quizSheet, "E", "E", 14)
	_ = f.SetColWidth(quizSheet, "F", "F", 60)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/slidenotes/internal/export"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
)

func quizCmd(a *app) *cobra.Command {
	var questions int
	var choices int
	var docxPath string
	var xlsxPath string
	var answers bool
	var format string
	var keepGoing bool
	var save bool
	var title string

	cmd := &cobra.Command{
		Use:   "quiz <file.pptx|file.pdf>...",
		Short: "Build a multiple-choice quiz from each presentation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := a.cfg.Defaults.Quiz
			if questions > 0 {
				q.Questions = questions
			}
			if choices > 0 {
				q.Choices = choices
			}
			if err := q.Validate(); err != nil {
				return err
			}
			if title == "" {
				title = a.cfg.Export.Title
			}

			res, runErr := a.runBatch(cmd, args, pipeline.Config{
				Mode:      pipeline.ModeQuiz,
				Quiz:      q,
				KeepGoing: keepGoing,
			})
			if res == nil {
				return runErr
			}

			if docxPath != "" {
				o, err := export.BuildQuizOutline(title, res.Items, answers)
				if err == nil {
					err = writeFile(docxPath, func(f *os.File) error { return export.WriteDocx(f, o) })
				}
				if err != nil {
					return errors.Join(runErr, fmt.Errorf("docx: %w", err))
				}
			}
			if xlsxPath != "" {
				err := writeFile(xlsxPath, func(f *os.File) error { return export.WriteQuizXLSX(f, res.Items) })
				if err != nil {
					return errors.Join(runErr, fmt.Errorf("xlsx: %w", err))
				}
			}
			if save {
				if err := a.saveResult(cmd, title, res); err != nil {
					return errors.Join(runErr, err)
				}
			}
			if err := printItems(cmd.OutOrStdout(), format, res, res.Items, answers); err != nil {
				return err
			}
			return runErr
		},
	}
	cmd.Flags().IntVarP(&questions, "questions", "n", 0, "questions per presentation (default from config)")
	cmd.Flags().IntVar(&choices, "choices", 0, "answer options per question (default from config)")
	cmd.Flags().StringVar(&docxPath, "docx", "", "also write the quiz to this .docx file")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the quiz to this .xlsx file")
	cmd.Flags().BoolVar(&answers, "answers", false, "include the answer key")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text|json|yaml")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue with the next file after a failure")
	cmd.Flags().BoolVar(&save, "save", false, "store the result in the history database")
	cmd.Flags().StringVar(&title, "title", "", "document title (default from config)")
	return cmd
}

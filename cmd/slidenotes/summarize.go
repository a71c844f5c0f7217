package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/slidenotes/internal/export"
	"github.com/thywilljoshua/slidenotes/internal/notes"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
)

func summarizeCmd(a *app) *cobra.Command {
	var size string
	var maxWords int
	var docxPath string
	var format string
	var keepGoing bool
	var save bool
	var title string

	cmd := &cobra.Command{
		Use:   "summarize <file.pptx|file.pdf>...",
		Short: "Extract each presentation and write structured notes for it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if size == "" {
				size = a.cfg.Defaults.Size
			}
			opts, err := notes.SizePreset(size)
			if err != nil {
				return err
			}
			if maxWords > 0 {
				opts.MaxWords = maxWords
			}
			if title == "" {
				title = a.cfg.Export.Title
			}

			res, runErr := a.runBatch(cmd, args, pipeline.Config{
				Mode:      pipeline.ModeSummary,
				Size:      opts,
				KeepGoing: keepGoing,
			})
			if res == nil {
				return runErr
			}

			if docxPath != "" {
				o, err := export.BuildSummaryOutline(title, res.Items)
				if err == nil {
					err = writeFile(docxPath, func(f *os.File) error { return export.WriteDocx(f, o) })
				}
				if err != nil {
					return errors.Join(runErr, fmt.Errorf("docx: %w", err))
				}
			}
			if save {
				if err := a.saveResult(cmd, title, res); err != nil {
					return errors.Join(runErr, err)
				}
			}
			if err := printItems(cmd.OutOrStdout(), format, res, res.Items, false); err != nil {
				return err
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&size, "size", "", "summary size preset: short|medium|long (default from config)")
	cmd.Flags().IntVar(&maxWords, "max-words", 0, "override the maximum words per summary sentence")
	cmd.Flags().StringVar(&docxPath, "docx", "", "also write the notes to this .docx file")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text|json|yaml")
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "continue with the next file after a failure")
	cmd.Flags().BoolVar(&save, "save", false, "store the result in the history database")
	cmd.Flags().StringVar(&title, "title", "", "document title (default from config)")
	return cmd
}

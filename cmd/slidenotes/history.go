package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/slidenotes/internal/export"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
)

func historyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show and export stored sessions",
	}
	cmd.AddCommand(historyListCmd(a), historyShowCmd(a), historyExportCmd(a), historyDeleteCmd(a))
	return cmd
}

func historyListCmd(a *app) *cobra.Command {
	var limit int
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			list, err := st.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printSessions(cmd.OutOrStdout(), format, list)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of sessions to list")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text|json|yaml")
	return cmd
}

func historyShowCmd(a *app) *cobra.Command {
	var format string
	var index int
	var answers bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored session, or one result of it with --index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if index >= 0 {
				it, err := st.Result(cmd.Context(), args[0], index)
				if err != nil {
					return err
				}
				return printItems(cmd.OutOrStdout(), format, it, []pipeline.Item{*it}, answers)
			}
			sess, err := st.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printItems(cmd.OutOrStdout(), format, sess, sess.Items, answers)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text|json|yaml")
	cmd.Flags().IntVarP(&index, "index", "i", -1, "show only the result at this zero-based position")
	cmd.Flags().BoolVar(&answers, "answers", false, "include quiz answers")
	return cmd
}

func historyExportCmd(a *app) *cobra.Command {
	var docxPath string
	var xlsxPath string
	var answers bool
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a stored session to .docx or .xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if docxPath == "" && xlsxPath == "" {
				return fmt.Errorf("nothing to do: pass --docx and/or --xlsx")
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			sess, err := st.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			title := sess.Title
			if title == "" {
				title = a.cfg.Export.Title
			}

			if docxPath != "" {
				var o export.Outline
				if sess.Kind == pipeline.ModeQuiz {
					o, err = export.BuildQuizOutline(title, sess.Items, answers)
				} else {
					o, err = export.BuildSummaryOutline(title, sess.Items)
				}
				if err != nil {
					return err
				}
				if err := writeFile(docxPath, func(f *os.File) error { return export.WriteDocx(f, o) }); err != nil {
					return fmt.Errorf("docx: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), docxPath)
			}
			if xlsxPath != "" {
				if sess.Kind != pipeline.ModeQuiz {
					return fmt.Errorf("session %s is a %s session, xlsx export needs a quiz", sess.ID, sess.Kind)
				}
				if err := writeFile(xlsxPath, func(f *os.File) error { return export.WriteQuizXLSX(f, sess.Items) }); err != nil {
					return fmt.Errorf("xlsx: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), xlsxPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&docxPath, "docx", "", "write a .docx file")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write a .xlsx file (quiz sessions)")
	cmd.Flags().BoolVar(&answers, "answers", false, "include the answer key in the .docx")
	return cmd
}

func historyDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			return st.DeleteSession(cmd.Context(), args[0])
		},
	}
}

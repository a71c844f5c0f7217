package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/slidenotes/internal/notes"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
	"github.com/thywilljoshua/slidenotes/internal/store"
)

func printItems(w io.Writer, format string, v any, items []pipeline.Item, answers bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	case "", "text":
		for i, it := range items {
			if i > 0 {
				fmt.Fprintln(w)
			}
			printItemText(w, it, answers)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q, want text|json|yaml", format)
}

func printItemText(w io.Writer, it pipeline.Item, answers bool) {
	fmt.Fprintf(w, "== %s ==\n", it.FileName)
	switch {
	case it.Failed():
		fmt.Fprintf(w, "Greška: %s\n", it.Err)
	case it.Summary != nil:
		printSummary(w, *it.Summary)
	case it.Quiz != nil:
		printQuiz(w, *it.Quiz, answers)
	}
}

func printSummary(w io.Writer, s notes.Summary) {
	if !s.Structured() {
		fmt.Fprintln(w, strings.TrimSpace(s.Raw))
		return
	}
	for _, p := range s.Parts() {
		if p.Text != "" {
			fmt.Fprintf(w, "%s: %s\n", p.Title, p.Text)
			continue
		}
		fmt.Fprintf(w, "%s:\n", p.Title)
		for _, item := range p.Items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
}

func printQuiz(w io.Writer, q notes.Quiz, answers bool) {
	for i, qu := range q.Questions {
		fmt.Fprintf(w, "%d. %s\n", i+1, qu.Question)
		for j, o := range qu.Options {
			fmt.Fprintf(w, "   %s) %s\n", notes.Letter(j), o)
		}
		if answers {
			fmt.Fprintf(w, "   Tačan odgovor: %s", qu.AnswerLetter())
			if qu.Explanation != "" {
				fmt.Fprintf(w, " – %s", qu.Explanation)
			}
			fmt.Fprintln(w)
		}
	}
}

func printSessions(w io.Writer, format string, list []store.Session) error {
	if format == "json" || format == "yaml" {
		return printItems(w, format, list, nil, false)
	}
	for _, s := range list {
		fmt.Fprintf(w, "%s  %-7s  %s  files=%d failed=%d  %s\n",
			s.ID, s.Kind, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.FileCount, s.Failed, s.Title)
	}
	return nil
}

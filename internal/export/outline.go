// Package export turns pipeline results into downloadable documents.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thywilljoshua/slidenotes/internal/notes"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
)

var ErrNothingToExport = errors.New("nothing to export")

const DefaultTitle = "Čola Bilješke AI"

type BlockKind int

const (
	Title BlockKind = iota
	Heading1
	Heading2
	Paragraph
	Bullet
)

type Block struct {
	Kind BlockKind
	Text string
	Bold bool
}

// Outline is a flat, renderer-neutral document.
type Outline struct {
	Blocks []Block
}

func (o *Outline) add(kind BlockKind, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	o.Blocks = append(o.Blocks, Block{Kind: kind, Text: text})
}

// Texts lists block texts in order, which is handy for previews.
func (o Outline) Texts() []string {
	out := make([]string, 0, len(o.Blocks))
	for _, b := range o.Blocks {
		out = append(out, b.Text)
	}
	return out
}

func titleOr(title string) string {
	if strings.TrimSpace(title) == "" {
		return DefaultTitle
	}
	return title
}

// BuildSummaryOutline lays out one section per file: the labelled parts of a
// structured summary, or the raw model text split on blank lines.
func BuildSummaryOutline(title string, items []pipeline.Item) (Outline, error) {
	var o Outline
	o.add(Title, titleOr(title))
	n := 0
	for _, it := range items {
		o.add(Heading1, it.FileName)
		if it.Failed() {
			o.add(Paragraph, "Greška: "+it.Err)
			continue
		}
		if it.Summary == nil {
			continue
		}
		n++
		if !it.Summary.Structured() {
			for _, p := range strings.Split(it.Summary.Raw, "\n\n") {
				o.add(Paragraph, p)
			}
			continue
		}
		for _, part := range it.Summary.Parts() {
			o.add(Heading2, part.Title)
			o.add(Paragraph, part.Text)
			for _, li := range part.Items {
				o.add(Bullet, li)
			}
		}
	}
	if n == 0 {
		return o, fmt.Errorf("%w: no summaries", ErrNothingToExport)
	}
	return o, nil
}

// BuildQuizOutline lists questions with lettered options per file. With
// answers set, an answer key follows all files.
func BuildQuizOutline(title string, items []pipeline.Item, answers bool) (Outline, error) {
	var o Outline
	o.add(Title, titleOr(title))
	n := 0
	for _, it := range items {
		if it.Quiz == nil || len(it.Quiz.Questions) == 0 {
			continue
		}
		o.add(Heading1, it.FileName)
		for i, q := range it.Quiz.Questions {
			n++
			o.Blocks = append(o.Blocks, Block{Kind: Paragraph, Text: fmt.Sprintf("%d. %s", i+1, q.Question), Bold: true})
			for j, opt := range q.Options {
				o.add(Bullet, fmt.Sprintf("%s) %s", notes.Letter(j), opt))
			}
		}
	}
	if n == 0 {
		return o, fmt.Errorf("%w: no quiz questions", ErrNothingToExport)
	}
	if !answers {
		return o, nil
	}
	o.add(Heading1, "Rješenja")
	for _, it := range items {
		if it.Quiz == nil || len(it.Quiz.Questions) == 0 {
			continue
		}
		o.add(Heading2, it.FileName)
		for i, q := range it.Quiz.Questions {
			line := fmt.Sprintf("%d. %s", i+1, q.AnswerLetter())
			if q.Explanation != "" {
				line += " – " + q.Explanation
			}
			o.add(Paragraph, line)
		}
	}
	return o, nil
}

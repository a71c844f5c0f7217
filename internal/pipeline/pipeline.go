// Package pipeline runs a batch of presentations through extraction and the
// model, one file after another.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thywilljoshua/slidenotes/internal/ai"
	"github.com/thywilljoshua/slidenotes/internal/extract"
	"github.com/thywilljoshua/slidenotes/internal/notes"
)

var ErrNoFiles = errors.New("no files selected")

func (c *Config) validate() error {
	if c.Mode == "" {
		c.Mode = ModeSummary
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Extractor == nil {
		return errors.New("no extractor configured")
	}
	if c.Generator == nil {
		return errors.New("no model configured")
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	switch c.Mode {
	case ModeSummary:
		if c.Size == (notes.SizeOptions{}) {
			c.Size = notes.DefaultSize()
		}
		return c.Size.Validate()
	default:
		if c.Quiz == (notes.QuizOptions{}) {
			c.Quiz = notes.DefaultQuiz()
		}
		return c.Quiz.Validate()
	}
}

// Run processes files strictly in order. A failing file stops the batch
// unless cfg.KeepGoing is set; the partial Result is returned either way.
func Run(ctx context.Context, files []extract.File, cfg Config) (*Result, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	res := &Result{Mode: cfg.Mode, Total: len(files)}
	log := cfg.Logger
	progress := func(done int, file string) {
		if cfg.OnProgress != nil {
			cfg.OnProgress(Progress{Done: done, Total: len(files), File: file})
		}
	}

	// the final report goes out on every exit, failures included
	defer progress(len(files), "")

	system := notes.SummaryPrompt(cfg.Size)
	if cfg.Mode == ModeQuiz {
		system = notes.QuizPrompt(cfg.Quiz)
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			res.Stopped = true
			res.Elapsed = time.Since(start)
			return res, err
		}
		progress(i, f.Name)
		log.Info("pipeline.file.start", "mode", cfg.Mode, "file", f.Name, "position", i, "total", len(files))

		item, err := processOne(ctx, f, system, cfg)
		item.Position = i
		if err != nil {
			item.Err = err.Error()
			res.Failed++
			res.Items = append(res.Items, item)
			log.Error("pipeline.file.failed", "file", f.Name, "error", err)
			if !cfg.KeepGoing || ctx.Err() != nil {
				res.Stopped = i < len(files)-1
				res.Elapsed = time.Since(start)
				return res, fmt.Errorf("%s: %w", f.Name, err)
			}
			continue
		}
		res.Items = append(res.Items, item)
		log.Info("pipeline.file.ok", "file", f.Name)
	}

	res.Elapsed = time.Since(start)
	log.Info("pipeline.done",
		"mode", cfg.Mode,
		"files", len(files),
		"failed", res.Failed,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	return res, nil
}

func processOne(ctx context.Context, f extract.File, system string, cfg Config) (Item, error) {
	item := Item{FileName: f.Name}
	if err := extract.CheckType(f.Name); err != nil {
		return item, err
	}
	text, err := cfg.Extractor.Extract(ctx, f)
	if err != nil {
		return item, fmt.Errorf("extract: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return item, fmt.Errorf("extract: %w: %s", extract.ErrEmptyContent, f.Name)
	}
	if cfg.KeepText {
		item.Text = text
	}

	out, err := cfg.Generator.Generate(ctx, ai.Request{
		System: system,
		User:   text,
		JSON:   cfg.Mode == ModeQuiz,
	})
	if err != nil {
		return item, fmt.Errorf("generate: %w", err)
	}

	switch cfg.Mode {
	case ModeQuiz:
		q, err := notes.ParseQuiz(out, cfg.Quiz)
		if err != nil {
			return item, err
		}
		item.Quiz = &q
	default:
		s := notes.ParseSummary(out)
		item.Summary = &s
	}
	return item, nil
}

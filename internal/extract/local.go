package extract

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// Local reads PDF and PPTX text in-process, for running without the
// extraction service.
type Local struct {
	log *slog.Logger
}

func NewLocal(log *slog.Logger) *Local {
	if log == nil {
		log = slog.Default()
	}
	return &Local{log: log}
}

func (l *Local) Extract(ctx context.Context, f File) (string, error) {
	if err := CheckType(f.Name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".pdf":
		text, err = pdfText(f.Data)
		if err == nil {
			l.log.Debug("extract.local.pdf", "file", f.Name, "pages", pageCount(f.Data), "chars", len(text))
		}
	case ".pptx":
		var slides []string
		slides, err = pptxSlides(f.Data)
		if err == nil {
			l.log.Debug("extract.local.pptx", "file", f.Name, "slides", len(slides))
			text = strings.Join(slides, "\n")
		}
	}
	if err != nil {
		return "", err
	}
	return nonEmpty(f.Name, text)
}

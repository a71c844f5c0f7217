// Package api serves the summary and quiz pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	"github.com/thywilljoshua/slidenotes/internal/ai"
	"github.com/thywilljoshua/slidenotes/internal/export"
	"github.com/thywilljoshua/slidenotes/internal/extract"
	"github.com/thywilljoshua/slidenotes/internal/notes"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
	"github.com/thywilljoshua/slidenotes/internal/store"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Extractor extract.Extractor
	Generator ai.Generator
	Store     *store.Store
	Logger    *slog.Logger
	Title     string
	Size      notes.SizeOptions
	Quiz      notes.QuizOptions
	Version   string
}

type Handler struct {
	deps Dependencies
	log  *slog.Logger
	busy atomic.Bool
}

func NewHandler(deps Dependencies) *Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Title == "" {
		deps.Title = export.DefaultTitle
	}
	if deps.Size == (notes.SizeOptions{}) {
		deps.Size = notes.DefaultSize()
	}
	if deps.Quiz == (notes.QuizOptions{}) {
		deps.Quiz = notes.DefaultQuiz()
	}
	return &Handler{deps: deps, log: deps.Logger}
}

// HandleHealth returns server health status
func (h *Handler) HandleHealth(c echo.Context) error {
	status := "ok"
	if err := h.deps.Store.Ping(c.Request().Context()); err != nil {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  status,
		"version": h.deps.Version,
	})
}

// runExclusive allows a single batch at a time, matching one outstanding
// operation in the UI.
func (h *Handler) runExclusive(ctx context.Context, files []extract.File, cfg pipeline.Config) (*pipeline.Result, error) {
	if !h.busy.CompareAndSwap(false, true) {
		return nil, NewConflictError("a batch is already running", nil)
	}
	defer h.busy.Store(false)

	cfg.Extractor = h.deps.Extractor
	cfg.Generator = h.deps.Generator
	cfg.Logger = h.log
	return pipeline.Run(ctx, files, cfg)
}

// readFiles collects the uploaded files from the given form fields, in
// upload order, and rejects types the extractor cannot read.
func readFiles(c echo.Context, fields ...string) ([]extract.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, NewBadRequestError("expected multipart/form-data", err)
	}
	var headers []*multipart.FileHeader
	for _, f := range fields {
		headers = append(headers, form.File[f]...)
	}
	if len(headers) == 0 {
		return nil, NewValidationError(fields[0], pipeline.ErrNoFiles)
	}
	files := make([]extract.File, 0, len(headers))
	for _, fh := range headers {
		if err := extract.CheckType(fh.Filename); err != nil {
			return nil, NewValidationError(fields[0], err)
		}
		src, err := fh.Open()
		if err != nil {
			return nil, NewBadRequestError(fmt.Sprintf("cannot open %s", fh.Filename), err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, NewBadRequestError(fmt.Sprintf("cannot read %s", fh.Filename), err)
		}
		files = append(files, extract.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/thywilljoshua/slidenotes/internal/extract"
	"github.com/thywilljoshua/slidenotes/internal/notes"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
	"github.com/thywilljoshua/slidenotes/internal/store"
)

// HandleExtract returns the extracted text of a single uploaded file.
func (h *Handler) HandleExtract(c echo.Context) error {
	files, err := readFiles(c, "file")
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return NewValidationError("file", errors.New("exactly one file expected"))
	}
	text, err := h.deps.Extractor.Extract(c.Request().Context(), files[0])
	if err != nil {
		if errors.Is(err, extract.ErrEmptyContent) {
			return NewValidationError("file", err)
		}
		return NewBadGatewayError("failed to extract content", err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"file":    files[0].Name,
		"content": text,
	})
}

// HandleSummaries runs the summary pipeline over the uploaded files.
func (h *Handler) HandleSummaries(c echo.Context) error {
	files, err := readFiles(c, "files", "file")
	if err != nil {
		return err
	}
	size, err := h.sizeFromForm(c)
	if err != nil {
		return err
	}
	return h.run(c, files, pipeline.Config{
		Mode:      pipeline.ModeSummary,
		Size:      size,
		KeepGoing: formBool(c, "keep_going"),
	})
}

// HandleQuizzes runs the quiz pipeline over the uploaded files.
func (h *Handler) HandleQuizzes(c echo.Context) error {
	files, err := readFiles(c, "files", "file")
	if err != nil {
		return err
	}
	q := h.deps.Quiz
	if q.Questions, err = formInt(c, "questions", q.Questions); err != nil {
		return err
	}
	if q.Choices, err = formInt(c, "choices", q.Choices); err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return NewValidationError("questions", err)
	}
	return h.run(c, files, pipeline.Config{
		Mode:      pipeline.ModeQuiz,
		Quiz:      q,
		KeepGoing: formBool(c, "keep_going"),
	})
}

func (h *Handler) run(c echo.Context, files []extract.File, cfg pipeline.Config) error {
	res, err := h.runExclusive(c.Request().Context(), files, cfg)
	if res == nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return NewBadRequestError("cannot start batch", err)
	}
	if err != nil {
		h.log.Warn("api.batch.partial", "mode", cfg.Mode, "error", err)
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = h.deps.Title
	}
	sess := store.NewSession(title, res)
	if err := h.deps.Store.SaveSession(c.Request().Context(), sess); err != nil {
		return NewInternalError("failed to save session", err)
	}
	return c.JSON(http.StatusCreated, sess)
}

// sizeFromForm starts from the "size" preset and applies any explicit
// counts on top of it.
func (h *Handler) sizeFromForm(c echo.Context) (notes.SizeOptions, error) {
	size := h.deps.Size
	if name := c.FormValue("size"); name != "" {
		s, err := notes.SizePreset(name)
		if err != nil {
			return size, NewValidationError("size", err)
		}
		size = s
	}
	var err error
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"summary_min", &size.Summary.Min},
		{"summary_max", &size.Summary.Max},
		{"max_words", &size.MaxWords},
		{"questions_min", &size.Questions.Min},
		{"questions_max", &size.Questions.Max},
		{"clear_max", &size.Clear.Max},
		{"unclear_max", &size.Unclear.Max},
	} {
		if *f.dst, err = formInt(c, f.name, *f.dst); err != nil {
			return size, err
		}
	}
	if err := size.Validate(); err != nil {
		return size, NewValidationError("size", err)
	}
	return size, nil
}

func formInt(c echo.Context, name string, def int) (int, error) {
	v := strings.TrimSpace(c.FormValue(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, NewValidationError(name, err)
	}
	return n, nil
}

func formBool(c echo.Context, name string) bool {
	b, _ := strconv.ParseBool(c.FormValue(name))
	return b
}

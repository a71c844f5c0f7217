package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/thywilljoshua/slidenotes/internal/export"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
	"github.com/thywilljoshua/slidenotes/internal/store"
)

const mimeMsgpack = "application/msgpack"

// respond writes v as msgpack when the client asks for it, JSON otherwise.
func respond(c echo.Context, status int, v any) error {
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), mimeMsgpack) {
		data, err := msgpack.Marshal(v)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(status, mimeMsgpack, data)
	}
	return c.JSON(status, v)
}

func (h *Handler) loadSession(c echo.Context) (*store.Session, error) {
	id := c.Param("id")
	sess, err := h.deps.Store.GetSession(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewNotFoundError("session", id)
	}
	if err != nil {
		return nil, fromDomain(err)
	}
	return sess, nil
}

// HandleListSessions returns the most recent sessions without their items.
func (h *Handler) HandleListSessions(c echo.Context) error {
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return err
	}
	list, err := h.deps.Store.ListSessions(c.Request().Context(), limit)
	if err != nil {
		return fromDomain(err)
	}
	if list == nil {
		list = []store.Session{}
	}
	return respond(c, http.StatusOK, list)
}

func (h *Handler) HandleGetSession(c echo.Context) error {
	sess, err := h.loadSession(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, sess)
}

func (h *Handler) HandleDeleteSession(c echo.Context) error {
	id := c.Param("id")
	err := h.deps.Store.DeleteSession(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return NewNotFoundError("session", id)
	}
	if err != nil {
		return fromDomain(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleGetResult returns the item at a zero-based position. Total counts
// the selected files and results the stored items, which is fewer when the
// batch stopped early.
func (h *Handler) HandleGetResult(c echo.Context) error {
	id := c.Param("id")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return NewValidationError("index", err)
	}
	sess, err := h.loadSession(c)
	if err != nil {
		return err
	}
	item, err := h.deps.Store.Result(c.Request().Context(), id, index)
	if errors.Is(err, store.ErrNotFound) {
		return NewNotFoundError("result", c.Param("index"))
	}
	if err != nil {
		return fromDomain(err)
	}
	return respond(c, http.StatusOK, map[string]any{
		"index": index,
		"total":   sess.FileCount,
		"results": len(sess.Items),
		"item":    item,
	})
}

// HandleExportDocx renders the session as a Word document. Quiz sessions
// include the answer key when ?answers=true.
func (h *Handler) HandleExportDocx(c echo.Context) error {
	sess, err := h.loadSession(c)
	if err != nil {
		return err
	}
	title := sess.Title
	if title == "" {
		title = h.deps.Title
	}

	var outline export.Outline
	switch sess.Kind {
	case pipeline.ModeQuiz:
		answers, _ := strconv.ParseBool(c.QueryParam("answers"))
		outline, err = export.BuildQuizOutline(title, sess.Items, answers)
	default:
		outline, err = export.BuildSummaryOutline(title, sess.Items)
	}
	if err != nil {
		return fromDomain(err)
	}

	var buf bytes.Buffer
	if err := export.WriteDocx(&buf, outline); err != nil {
		return NewInternalError("failed to write docx", err)
	}
	return attachment(c, export.Filename(title, ".docx"),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", buf.Bytes())
}

func (h *Handler) HandleExportXLSX(c echo.Context) error {
	sess, err := h.loadSession(c)
	if err != nil {
		return err
	}
	if sess.Kind != pipeline.ModeQuiz {
		return NewConflictError("spreadsheet export is only available for quiz sessions", nil)
	}
	var buf bytes.Buffer
	if err := export.WriteQuizXLSX(&buf, sess.Items); err != nil {
		return fromDomain(err)
	}
	title := sess.Title
	if title == "" {
		title = h.deps.Title
	}
	return attachment(c, export.Filename(title, ".xlsx"),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func attachment(c echo.Context, name, contentType string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, contentType, data)
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		if err == nil {
			err = errors.New("must not be negative")
		}
		return def, NewValidationError(name, err)
	}
	return n, nil
}

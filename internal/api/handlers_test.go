package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nguyenthenguyen/docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/xuri/excelize/v2"

	"github.com/thywilljoshua/slidenotes/internal/ai"
	"github.com/thywilljoshua/slidenotes/internal/config"
	"github.com/thywilljoshua/slidenotes/internal/extract"
	"github.com/thywilljoshua/slidenotes/internal/pipeline"
	"github.com/thywilljoshua/slidenotes/internal/store"
)

type stubExtractor struct {
	fail map[string]error
}

func (s stubExtractor) Extract(ctx context.Context, f extract.File) (string, error) {
	if err := s.fail[f.Name]; err != nil {
		return "", err
	}
	return "sadržaj " + f.Name, nil
}

const quizJSON = `{"questions":[{"question":"Šta je ćelija?","options":["Jedinica života","Organ"],"answer":0,"explanation":"Osnovna jedinica."}]}`

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, req ai.Request) (string, error) {
	if req.JSON {
		return quizJSON, nil
	}
	return "Cilj teme: " + req.User + "\nSažetak: Kratak pregled.\nPitanja:\n1. Zašto?\n", nil
}

func setupHandler(t *testing.T) *Handler {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewHandler(Dependencies{
		Extractor: stubExtractor{fail: map[string]error{
			"prazno.pdf": extract.ErrEmptyContent,
			"pad.pdf":    errors.New("connection refused"),
		}},
		Generator: stubGenerator{},
		Store:     s,
		Title:     "Bilješke",
		Version:   "test",
	})
}

func multipartBody(t *testing.T, field string, names []string, values map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, n := range names {
		part, err := w.CreateFormFile(field, n)
		require.NoError(t, err)
		_, _ = io.WriteString(part, "data of "+n)
	}
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func uploadContext(t *testing.T, target, field string, names []string, values map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	body, ct := multipartBody(t, field, names, values)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %T", err)
	assert.Equal(t, status, apiErr.Status)
	assert.Equal(t, code, apiErr.Code)
}

func createSession(t *testing.T, h *Handler, mode pipeline.Mode) store.Session {
	t.Helper()
	target, handle := "/api/summaries", h.HandleSummaries
	values := map[string]string{}
	if mode == pipeline.ModeQuiz {
		target, handle = "/api/quizzes", h.HandleQuizzes
		values = map[string]string{"questions": "1", "choices": "2"}
	}
	c, rec := uploadContext(t, target, "files", []string{"a.pptx", "b.pdf"}, values)
	require.NoError(t, handle(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	var sess store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	return sess
}

func TestHandleHealth(t *testing.T) {
	h := setupHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.HandleHealth(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)
}

func TestHandleExtract(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		wantStatus int
		errCode    string
	}{
		{name: "pptx", files: []string{"Predavanje.PPTX"}, wantStatus: http.StatusOK},
		{name: "unsupported type", files: []string{"notes.docx"}, wantStatus: http.StatusBadRequest, errCode: "VALIDATION_ERROR"},
		{name: "no file", files: nil, wantStatus: http.StatusBadRequest, errCode: "VALIDATION_ERROR"},
		{name: "two files", files: []string{"a.pdf", "b.pdf"}, wantStatus: http.StatusBadRequest, errCode: "VALIDATION_ERROR"},
		{name: "empty content", files: []string{"prazno.pdf"}, wantStatus: http.StatusBadRequest, errCode: "VALIDATION_ERROR"},
		{name: "service down", files: []string{"pad.pdf"}, wantStatus: http.StatusBadGateway, errCode: "UPSTREAM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupHandler(t)
			c, rec := uploadContext(t, "/api/extract", "file", tt.files, nil)

			err := h.HandleExtract(c)

			if tt.errCode != "" {
				requireAPIError(t, err, tt.wantStatus, tt.errCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.files[0], body["file"])
			assert.Equal(t, "sadržaj "+tt.files[0], body["content"])
		})
	}
}

func TestHandleSummaries(t *testing.T) {
	h := setupHandler(t)
	c, rec := uploadContext(t, "/api/summaries", "files", []string{"a.pptx", "b.pdf"},
		map[string]string{"size": "short", "title": "Biologija"})

	require.NoError(t, h.HandleSummaries(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var sess store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, pipeline.ModeSummary, sess.Kind)
	assert.Equal(t, "Biologija", sess.Title)
	require.Len(t, sess.Items, 2)
	assert.Equal(t, "a.pptx", sess.Items[0].FileName)
	assert.Equal(t, "b.pdf", sess.Items[1].FileName)
	require.NotNil(t, sess.Items[0].Summary)
	assert.Equal(t, "Kratak pregled.", sess.Items[0].Summary.Summary)

	stored, err := h.deps.Store.GetSession(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestHandleSummaries_PartialFailureIsSaved(t *testing.T) {
	h := setupHandler(t)
	c, rec := uploadContext(t, "/api/summaries", "files", []string{"a.pptx", "pad.pdf", "c.pdf"}, nil)

	require.NoError(t, h.HandleSummaries(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var sess store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.Len(t, sess.Items, 2, "the batch stops at the first failure")
	assert.Equal(t, 1, sess.Failed)
	assert.Contains(t, sess.Items[1].Err, "connection refused")
	assert.Equal(t, 3, sess.FileCount, "counts the selected files")
	assert.Equal(t, "Bilješke", sess.Title)
}

func TestHandleSummaries_KeepGoing(t *testing.T) {
	h := setupHandler(t)
	c, rec := uploadContext(t, "/api/summaries", "files", []string{"a.pptx", "pad.pdf", "c.pdf"},
		map[string]string{"keep_going": "true"})

	require.NoError(t, h.HandleSummaries(c))
	var sess store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Len(t, sess.Items, 3)
	assert.Equal(t, 1, sess.Failed)
}

func TestHandleSummaries_Validation(t *testing.T) {
	tests := []struct {
		name   string
		files  []string
		values map[string]string
	}{
		{name: "no files", values: map[string]string{"size": "short"}},
		{name: "unsupported type", files: []string{"a.txt"}},
		{name: "unknown preset", files: []string{"a.pdf"}, values: map[string]string{"size": "huge"}},
		{name: "inverted range", files: []string{"a.pdf"}, values: map[string]string{"summary_min": "9", "summary_max": "2"}},
		{name: "not a number", files: []string{"a.pdf"}, values: map[string]string{"max_words": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupHandler(t)
			c, _ := uploadContext(t, "/api/summaries", "files", tt.files, tt.values)
			requireAPIError(t, h.HandleSummaries(c), http.StatusBadRequest, "VALIDATION_ERROR")
		})
	}
}

func TestHandleSummaries_Busy(t *testing.T) {
	h := setupHandler(t)
	h.busy.Store(true)
	c, _ := uploadContext(t, "/api/summaries", "files", []string{"a.pdf"}, nil)

	requireAPIError(t, h.HandleSummaries(c), http.StatusConflict, "CONFLICT")
}

func TestHandleQuizzes(t *testing.T) {
	h := setupHandler(t)
	c, rec := uploadContext(t, "/api/quizzes", "files", []string{"a.pptx"},
		map[string]string{"questions": "1", "choices": "2"})

	require.NoError(t, h.HandleQuizzes(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var sess store.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, pipeline.ModeQuiz, sess.Kind)
	require.Len(t, sess.Items, 1)
	require.NotNil(t, sess.Items[0].Quiz)
	assert.Equal(t, "A", sess.Items[0].Quiz.Questions[0].AnswerLetter())
}

func TestHandleQuizzes_Validation(t *testing.T) {
	h := setupHandler(t)
	c, _ := uploadContext(t, "/api/quizzes", "files", []string{"a.pdf"}, map[string]string{"choices": "9"})
	requireAPIError(t, h.HandleQuizzes(c), http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestSessionEndpoints(t *testing.T) {
	h := setupHandler(t)
	sess := createSession(t, h, pipeline.ModeSummary)
	e := echo.New()

	get := func(path string, names, values []string, accept string) (echo.Context, *httptest.ResponseRecorder) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if accept != "" {
			req.Header.Set(echo.HeaderAccept, accept)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames(names...)
		c.SetParamValues(values...)
		return c, rec
	}

	t.Run("list", func(t *testing.T) {
		c, rec := get("/api/sessions?limit=5", nil, nil, "")
		require.NoError(t, h.HandleListSessions(c))
		var list []store.Session
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, sess.ID, list[0].ID)
	})

	t.Run("list bad limit", func(t *testing.T) {
		c, _ := get("/api/sessions?limit=-1", nil, nil, "")
		requireAPIError(t, h.HandleListSessions(c), http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("get json", func(t *testing.T) {
		c, rec := get("/api/sessions/"+sess.ID, []string{"id"}, []string{sess.ID}, "")
		require.NoError(t, h.HandleGetSession(c))
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
	})

	t.Run("get msgpack", func(t *testing.T) {
		c, rec := get("/api/sessions/"+sess.ID, []string{"id"}, []string{sess.ID}, mimeMsgpack)
		require.NoError(t, h.HandleGetSession(c))
		assert.Equal(t, mimeMsgpack, rec.Header().Get(echo.HeaderContentType))

		var decoded store.Session
		require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &decoded))
		assert.Equal(t, sess.ID, decoded.ID)
		assert.Len(t, decoded.Items, 2)
	})

	t.Run("get unknown", func(t *testing.T) {
		c, _ := get("/api/sessions/nope", []string{"id"}, []string{"nope"}, "")
		requireAPIError(t, h.HandleGetSession(c), http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("result by index", func(t *testing.T) {
		c, rec := get("/", []string{"id", "index"}, []string{sess.ID, "1"}, "")
		require.NoError(t, h.HandleGetResult(c))
		var body struct {
			Index   int           `json:"index"`
			Total   int           `json:"total"`
			Results int           `json:"results"`
			Item    pipeline.Item `json:"item"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Index)
		assert.Equal(t, 2, body.Total)
		assert.Equal(t, 2, body.Results)
		assert.Equal(t, "b.pdf", body.Item.FileName)
	})

	t.Run("result out of range", func(t *testing.T) {
		c, _ := get("/", []string{"id", "index"}, []string{sess.ID, "2"}, "")
		requireAPIError(t, h.HandleGetResult(c), http.StatusNotFound, "NOT_FOUND")
	})

	t.Run("result bad index", func(t *testing.T) {
		c, _ := get("/", []string{"id", "index"}, []string{sess.ID, "x"}, "")
		requireAPIError(t, h.HandleGetResult(c), http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("xlsx of summary session", func(t *testing.T) {
		c, _ := get("/", []string{"id"}, []string{sess.ID}, "")
		requireAPIError(t, h.HandleExportXLSX(c), http.StatusConflict, "CONFLICT")
	})

	t.Run("delete", func(t *testing.T) {
		c, rec := get("/", []string{"id"}, []string{sess.ID}, "")
		require.NoError(t, h.HandleDeleteSession(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		c, _ = get("/", []string{"id"}, []string{sess.ID}, "")
		requireAPIError(t, h.HandleDeleteSession(c), http.StatusNotFound, "NOT_FOUND")
	})
}

func TestHandleExportXLSX(t *testing.T) {
	h := setupHandler(t)
	sess := createSession(t, h, pipeline.ModeQuiz)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(sess.ID)

	require.NoError(t, h.HandleExportXLSX(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "biljeske.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Kviz")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per file")
	assert.Equal(t, "Šta je ćelija?", rows[1][2])
}

func exportContext(id, query string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/export"+query, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func docxContent(t *testing.T, data []byte) string {
	t.Helper()
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	defer r.Close()
	return r.Editable().GetContent()
}

func TestHandleExportDocx(t *testing.T) {
	h := setupHandler(t)
	summary := createSession(t, h, pipeline.ModeSummary)
	quiz := createSession(t, h, pipeline.ModeQuiz)

	t.Run("summary", func(t *testing.T) {
		c, rec := exportContext(summary.ID, "")
		require.NoError(t, h.HandleExportDocx(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", rec.Header().Get(echo.HeaderContentType))
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `filename="biljeske.docx"`)

		content := docxContent(t, rec.Body.Bytes())
		assert.Contains(t, content, "Bilješke")
		assert.Contains(t, content, "Kratak pregled.")
		assert.Contains(t, content, "• Zašto?")
	})

	t.Run("quiz without answers", func(t *testing.T) {
		c, rec := exportContext(quiz.ID, "")
		require.NoError(t, h.HandleExportDocx(c))
		content := docxContent(t, rec.Body.Bytes())
		assert.Contains(t, content, "1. Šta je ćelija?")
		assert.Contains(t, content, "• A) Jedinica života")
		assert.NotContains(t, content, "Rješenja")
	})

	t.Run("quiz with answers", func(t *testing.T) {
		c, rec := exportContext(quiz.ID, "?answers=true")
		require.NoError(t, h.HandleExportDocx(c))
		content := docxContent(t, rec.Body.Bytes())
		assert.Contains(t, content, "Rješenja")
		assert.Contains(t, content, "1. A – Osnovna jedinica.")
	})

	t.Run("nothing to export", func(t *testing.T) {
		c, rec := uploadContext(t, "/api/summaries", "files", []string{"pad.pdf"}, nil)
		require.NoError(t, h.HandleSummaries(c))
		var failed store.Session
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failed))

		c, _ = exportContext(failed.ID, "")
		requireAPIError(t, h.HandleExportDocx(c), http.StatusConflict, "CONFLICT")
	})

	t.Run("unknown session", func(t *testing.T) {
		c, _ := exportContext("missing", "")
		requireAPIError(t, h.HandleExportDocx(c), http.StatusNotFound, "NOT_FOUND")
	})
}

func TestThemeEndpoints(t *testing.T) {
	h := setupHandler(t)
	e := echo.New()
	do := func(method, body string, fn echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(method, "/api/preferences/theme", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		return rec, fn(e.NewContext(req, rec))
	}

	rec, err := do(http.MethodGet, "", h.HandleGetTheme)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	rec, err = do(http.MethodPut, `{"theme":"dark"}`, h.HandleSetTheme)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())

	rec, err = do(http.MethodPost, "", h.HandleToggleTheme)
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	_, err = do(http.MethodPut, `{"theme":"blue"}`, h.HandleSetTheme)
	requireAPIError(t, err, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestServerRoutesAndErrorHandler(t *testing.T) {
	h := setupHandler(t)
	e := NewServer(config.ServerConfig{BodyLimit: "1M"}, h)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "session not found: missing", apiErr.Message)

	req = httptest.NewRequest(http.MethodGet, "/api/preferences/theme", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "HTTP_ERROR")
}

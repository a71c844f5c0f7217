package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckType(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"deck.pptx", false},
		{"DECK.PPTX", false},
		{"notes.pdf", false},
		{"dir/lecture 3.Pdf", false},
		{"deck.ppt", true},
		{"doc.docx", true},
		{"README", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckType(tt.name)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedType))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_Extract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "deck.pptx", hdr.Filename)
		assert.Equal(t, "raw-bytes", string(data))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":"Slide 1 text"}`))
	}))
	defer srv.Close()

	s := NewService(srv.URL, time.Second, nil)
	text, err := s.Extract(context.Background(), File{Name: "uploads/deck.pptx", Data: []byte("raw-bytes")})
	require.NoError(t, err)
	assert.Equal(t, "Slide 1 text", text)
}

func TestService_ExtractErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		msg     string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", msg: "status 500"},
		{name: "missing content", status: http.StatusOK, body: `{"text":"x"}`, msg: "no content field"},
		{name: "blank content", status: http.StatusOK, body: `{"content":"  \n "}`, wantErr: ErrEmptyContent},
		{name: "not json", status: http.StatusOK, body: `<html>`, msg: "decode extraction response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewService(srv.URL, time.Second, nil).Extract(context.Background(), File{Name: "a.pdf", Data: []byte("x")})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			}
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestService_RejectsTypeBeforeRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	_, err := NewService(srv.URL, time.Second, nil).Extract(context.Background(), File{Name: "a.txt"})
	assert.True(t, errors.Is(err, ErrUnsupportedType))
	assert.False(t, called)
}

func buildPPTX(t *testing.T, slides map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range slides {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const slideXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
<p:cSld><p:spTree><p:sp><p:txBody>
<a:p><a:r><a:t>%s</a:t></a:r><a:r><a:t>%s</a:t></a:r></a:p>
<a:p><a:r><a:t>%s</a:t></a:r></a:p>
</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`

func slide(a, b, c string) string {
	return fmt.Sprintf(slideXML, a, b, c)
}

func TestLocal_PPTX(t *testing.T) {
	data := buildPPTX(t, map[string]string{
		"ppt/slides/slide10.xml":           slide("Ten", "", "last"),
		"ppt/slides/slide2.xml":            slide("Mito", "hondrije", "energija"),
		"ppt/slides/slide1.xml":            slide("Ćelija", " i ", "jezgro"),
		"ppt/slides/slide3.xml":            slide("", "", ""),
		"ppt/slides/_rels/slide1.xml.rels": "<Relationships/>",
		"ppt/notesSlides/notesSlide1.xml":  slide("speaker", "notes", "ignored"),
	})

	text, err := NewLocal(nil).Extract(context.Background(), File{Name: "bio.pptx", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "Ćelija i jezgro\nMitohondrije energija\nTen last", text)
}

func TestLocal_Errors(t *testing.T) {
	l := NewLocal(nil)

	_, err := l.Extract(context.Background(), File{Name: "x.docx"})
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	_, err = l.Extract(context.Background(), File{Name: "x.pptx", Data: []byte("not a zip")})
	assert.ErrorContains(t, err, "open pptx")

	empty := buildPPTX(t, map[string]string{"ppt/slides/slide1.xml": slide("", " ", "")})
	_, err = l.Extract(context.Background(), File{Name: "x.pptx", Data: empty})
	assert.True(t, errors.Is(err, ErrEmptyContent))

	_, err = l.Extract(context.Background(), File{Name: "x.pdf", Data: []byte("not a pdf")})
	assert.ErrorContains(t, err, "open pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Extract(ctx, File{Name: "x.pdf"})
	assert.ErrorIs(t, err, context.Canceled)
}

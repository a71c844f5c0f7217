// Package extract turns uploaded presentations into plain text, either by
// forwarding them to the content-extraction service or by reading them
// locally.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyContent    = errors.New("no text extracted")
)

// File is one uploaded presentation.
type File struct {
	Name string
	Data []byte
}

type Extractor interface {
	Extract(ctx context.Context, f File) (string, error)
}

// Accepted lists the extensions the extraction step understands.
var Accepted = []string{".pptx", ".pdf"}

// CheckType reports whether name has an accepted extension.
func CheckType(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range Accepted {
		if ext == a {
			return nil
		}
	}
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Errorf("%w: %s has extension %s, want one of %s", ErrUnsupportedType, name, ext, strings.Join(Accepted, ", "))
}

func nonEmpty(name, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyContent, name)
	}
	return text, nil
}

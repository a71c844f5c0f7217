package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/slidenotes/internal/ai"
	"github.com/thywilljoshua/slidenotes/internal/config"
	"github.com/thywilljoshua/slidenotes/internal/export"
	"github.com/thywilljoshua/slidenotes/internal/extract"
	"github.com/thywilljoshua/slidenotes/internal/store"
)

// app carries the persistent flags and what is built from them.
type app struct {
	configPath string
	provider   string
	extractor  string
	logLevel   string

	cfg *config.Config
	log *slog.Logger
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, a.configPath != "")
	if err != nil {
		return err
	}
	if a.provider != "" {
		cfg.LLM.Provider = a.provider
	}
	switch e := strings.TrimSpace(a.extractor); {
	case e == "":
	case strings.HasPrefix(e, "http://"), strings.HasPrefix(e, "https://"):
		cfg.Extractor.Mode = "service"
		cfg.Extractor.URL = e
	default:
		cfg.Extractor.Mode = e
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.Logger(cmd.ErrOrStderr())
	slog.SetDefault(a.log)
	return export.SetLicense(cfg.Export.LicenseKey)
}

func (a *app) generator(ctx context.Context) (ai.Generator, error) {
	g, err := ai.New(ctx, a.cfg.AI())
	if err != nil {
		return nil, err
	}
	if o, ok := g.(*ai.OpenAI); ok {
		o.WithLogger(a.log)
	}
	return g, nil
}

func (a *app) openStore() (*store.Store, error) {
	st, err := store.Open(a.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.SetDefaultTheme(store.Theme(a.cfg.Defaults.Theme)); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// readFiles loads the inputs in argument order. Types are checked up front
// so a bad extension fails before anything is sent anywhere.
func readFiles(paths []string) ([]extract.File, error) {
	files := make([]extract.File, 0, len(paths))
	for _, p := range paths {
		if err := extract.CheckType(p); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, extract.File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

// writeFile creates path and hands it to write, removing it on failure.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

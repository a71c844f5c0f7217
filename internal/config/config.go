// Package config loads slidenotes settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thywilljoshua/slidenotes/internal/ai"
	"github.com/thywilljoshua/slidenotes/internal/export"
	"github.com/thywilljoshua/slidenotes/internal/extract"
	"github.com/thywilljoshua/slidenotes/internal/notes"
	"github.com/thywilljoshua/slidenotes/internal/store"
)

const DefaultPath = "slidenotes.yaml"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
	LLM       LLMConfig       `yaml:"llm"`
	Store     StoreConfig     `yaml:"store"`
	Export    ExportConfig    `yaml:"export"`
	Log       LogConfig       `yaml:"log"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	BodyLimit      string `yaml:"body_limit"`
	RequestLogging bool   `yaml:"request_logging"`
	AllowOrigins   string `yaml:"allow_origins"`
}

type ExtractorConfig struct {
	Mode        string `yaml:"mode"` // service | local
	URL         string `yaml:"url"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

type LLMConfig struct {
	Provider    string   `yaml:"provider"` // openai | gemini | noop
	Model       string   `yaml:"model"`
	APIKey      string   `yaml:"api_key"`
	BaseURL     string   `yaml:"base_url"`
	Temperature *float32 `yaml:"temperature"`
	TimeoutSecs int      `yaml:"timeout_seconds"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type ExportConfig struct {
	Title      string `yaml:"title"`
	LicenseKey string `yaml:"license_key"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

type DefaultsConfig struct {
	Size  string            `yaml:"size"`
	Quiz  notes.QuizOptions `yaml:"quiz"`
	Theme string            `yaml:"theme"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			BodyLimit:      "50M",
			RequestLogging: true,
		},
		Extractor: ExtractorConfig{
			Mode:        "service",
			URL:         extract.DefaultServiceURL,
			TimeoutSecs: 120,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			TimeoutSecs: 120,
		},
		Store:  StoreConfig{Path: store.DefaultPath},
		Export: ExportConfig{Title: export.DefaultTitle},
		Log:    LogConfig{Level: "info", Format: "text"},
		Defaults: DefaultsConfig{
			Size:  "medium",
			Quiz:  notes.DefaultQuiz(),
			Theme: string(store.ThemeLight),
		},
	}
}

// Load applies defaults, then the YAML file at path, then the environment.
// A missing file is only an error when it was asked for explicitly.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("SLIDENOTES_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := getenv("SLIDENOTES_EXTRACTOR_URL"); v != "" {
		c.Extractor.URL = v
	}
	if v := getenv("SLIDENOTES_DB"); v != "" {
		c.Store.Path = v
	}
	if v := getenv("SLIDENOTES_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("SLIDENOTES_LLM_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.LLM.TimeoutSecs = n
		}
	}
	if v := getenv("UNIDOC_LICENSE_API_KEY"); v != "" && c.Export.LicenseKey == "" {
		c.Export.LicenseKey = v
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "gemini", "noop", "off":
	default:
		return fmt.Errorf("llm.provider: unknown provider %q", c.LLM.Provider)
	}
	switch c.Extractor.Mode {
	case "service":
		if strings.TrimSpace(c.Extractor.URL) == "" {
			return errors.New("extractor.url is required in service mode")
		}
	case "local":
	default:
		return fmt.Errorf("extractor.mode: want service or local, got %q", c.Extractor.Mode)
	}
	if _, err := notes.SizePreset(c.Defaults.Size); err != nil {
		return fmt.Errorf("defaults.size: %w", err)
	}
	if err := c.Defaults.Quiz.Validate(); err != nil {
		return fmt.Errorf("defaults.quiz: %w", err)
	}
	if _, err := store.ParseTheme(c.Defaults.Theme); err != nil {
		return fmt.Errorf("defaults.theme: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: want debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: want text or json, got %q", c.Log.Format)
	}
	return nil
}

// AI is the generator configuration for ai.New. Without an api_key in the
// file, the key comes from OPENAI_API_KEY or GOOGLE_API_KEY depending on the
// provider, so a --provider flag applied after Load still finds its key.
func (c *Config) AI() ai.Config {
	key := c.LLM.APIKey
	if key == "" {
		if strings.EqualFold(c.LLM.Provider, "gemini") {
			key = os.Getenv("GOOGLE_API_KEY")
		} else {
			key = os.Getenv("OPENAI_API_KEY")
		}
	}
	return ai.Config{
		Provider:    c.LLM.Provider,
		Model:       c.LLM.Model,
		APIKey:      key,
		BaseURL:     c.LLM.BaseURL,
		Temperature: c.LLM.Temperature,
		TimeoutSecs: c.LLM.TimeoutSecs,
	}
}

// NewExtractor builds the configured extractor.
func (c *Config) NewExtractor(log *slog.Logger) extract.Extractor {
	if c.Extractor.Mode == "local" {
		return extract.NewLocal(log)
	}
	return extract.NewService(c.Extractor.URL, time.Duration(c.Extractor.TimeoutSecs)*time.Second, log)
}

// Logger builds the process logger.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

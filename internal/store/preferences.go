package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	themeKey = "theme"
)

func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeLight, ThemeDark:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q, want light or dark", s)
}

func (s *Store) Preference(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("preference %s: %w", key, ErrNotFound)
	}
	return v, err
}

func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	return err
}

// SetDefaultTheme changes what Theme reports before a theme is stored.
func (s *Store) SetDefaultTheme(t Theme) error {
	t, err := ParseTheme(string(t))
	if err != nil {
		return err
	}
	s.defaultTheme = t
	return nil
}

// Theme returns the stored theme, or the default (light) when none has been
// chosen.
func (s *Store) Theme(ctx context.Context) (Theme, error) {
	v, err := s.Preference(ctx, themeKey)
	if errors.Is(err, ErrNotFound) {
		return s.defaultTheme, nil
	}
	if err != nil {
		return "", err
	}
	if t, err := ParseTheme(v); err == nil {
		return t, nil
	}
	return s.defaultTheme, nil
}

func (s *Store) SetTheme(ctx context.Context, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return s.SetPreference(ctx, themeKey, string(t))
}

// ToggleTheme flips light and dark and returns the new value.
func (s *Store) ToggleTheme(ctx context.Context) (Theme, error) {
	cur, err := s.Theme(ctx)
	if err != nil {
		return "", err
	}
	next := ThemeDark
	if cur == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(ctx, next)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thywilljoshua/slidenotes/internal/pipeline"
)

// Session is a stored pipeline run.
type Session struct {
	ID        string          `json:"id" yaml:"id" msgpack:"id"`
	Kind      pipeline.Mode   `json:"kind" yaml:"kind" msgpack:"kind"`
	Title     string          `json:"title,omitempty" yaml:"title,omitempty" msgpack:"title,omitempty"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at" msgpack:"created_at"`
	FileCount int             `json:"file_count" yaml:"file_count" msgpack:"file_count"`
	Failed    int             `json:"failed" yaml:"failed" msgpack:"failed"`
	Items     []pipeline.Item `json:"items,omitempty" yaml:"items,omitempty" msgpack:"items,omitempty"`
}

// NewSession wraps a pipeline result with a fresh id. FileCount is the number
// of files selected, which exceeds len(Items) when the batch stopped early.
func NewSession(title string, res *pipeline.Result) *Session {
	count := res.Total
	if count < len(res.Items) {
		count = len(res.Items)
	}
	return &Session{
		ID:        uuid.New().String(),
		Kind:      res.Mode,
		Title:     title,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		FileCount: count,
		Failed:    res.Failed,
		Items:     res.Items,
	}
}

func (s *Store) SaveSession(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	if sess.FileCount < len(sess.Items) {
		sess.FileCount = len(sess.Items)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, kind, title, created_at, file_count, failed_count) VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, string(sess.Kind), sess.Title, sess.CreatedAt.UnixMilli(), sess.FileCount, sess.Failed)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	for _, it := range sess.Items {
		b, err := json.Marshal(it)
		if err != nil {
			return fmt.Errorf("marshal item %d: %w", it.Position, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO results (session_id, position, file_name, item_json, error) VALUES (?, ?, ?, ?, ?)`,
			sess.ID, it.Position, it.FileName, string(b), it.Err)
		if err != nil {
			return fmt.Errorf("insert result %d: %w", it.Position, err)
		}
	}
	return tx.Commit()
}

func scanSession(row interface{ Scan(...any) error }) (*Session, error) {
	var (
		sess    Session
		kind    string
		created int64
	)
	if err := row.Scan(&sess.ID, &kind, &sess.Title, &created, &sess.FileCount, &sess.Failed); err != nil {
		return nil, err
	}
	sess.Kind = pipeline.Mode(kind)
	sess.CreatedAt = time.UnixMilli(created).UTC()
	return &sess, nil
}

const sessionCols = `id, kind, title, created_at, file_count, failed_count`

// GetSession loads a session with all of its items.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	sess, err := scanSession(s.db.QueryRowContext(ctx, `SELECT `+sessionCols+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT item_json FROM results WHERE session_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var it pipeline.Item
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		sess.Items = append(sess.Items, it)
	}
	return sess, rows.Err()
}

// ListSessions returns the newest sessions first, without items.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+sessionCols+` FROM sessions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sess)
	}
	return out, rows.Err()
}

// Result returns the item at index, as a carousel would page through them.
func (s *Store) Result(ctx context.Context, id string, index int) (*pipeline.Item, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT item_json FROM results WHERE session_id = ? AND position = ?`, id, index).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s result %d: %w", id, index, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var it pipeline.Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return &it, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return nil
}

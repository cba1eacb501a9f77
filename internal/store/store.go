// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/vocquiz/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for word lists, answer history and settings.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// Writes arrive from concurrent tea.Cmds; a single connection serializes them.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS files (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS words (
			file_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			english TEXT NOT NULL,
			japanese TEXT NOT NULL,
			PRIMARY KEY (file_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY,
			file_id TEXT NOT NULL,
			word_id TEXT NOT NULL,
			correct INTEGER NOT NULL,
			answered_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_file_id ON history(file_id);`,
		`CREATE INDEX IF NOT EXISTS idx_history_answered_at ON history(answered_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddFile stores a file together with its words.
func (s *Store) AddFile(ctx context.Context, file model.File) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	createdAt := file.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO files (id, name, created_at) VALUES (?, ?, ?)`,
		file.ID, file.Name, createdAt.Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	if len(file.Words) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO words (file_id, position, id, english, japanese) VALUES (?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, w := range file.Words {
			if _, err = stmt.ExecContext(ctx, file.ID, i, w.ID, w.English, w.Japanese); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// DeleteFile removes a file, its words and every history record that references it.
func (s *Store) DeleteFile(ctx context.Context, id string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = fmt.Errorf("%w: %s", model.ErrFileNotFound, id)
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM words WHERE file_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM history WHERE file_id = ?`, id); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// ListFiles returns every file with its words, oldest first.
func (s *Store) ListFiles(ctx context.Context) ([]model.File, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM files ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	var files []model.File
	index := map[string]int{}
	for rows.Next() {
		var f model.File
		var createdAt string
		if err := rows.Scan(&f.ID, &f.Name, &createdAt); err != nil {
			_ = rows.Close()
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		f.CreatedAt = parsed
		index[f.ID] = len(files)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	wordRows, err := s.db.QueryContext(ctx, `SELECT file_id, id, english, japanese FROM words ORDER BY file_id, position`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := wordRows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for wordRows.Next() {
		var fileID string
		var w model.Word
		if err := wordRows.Scan(&fileID, &w.ID, &w.English, &w.Japanese); err != nil {
			return nil, err
		}
		idx, ok := index[fileID]
		if !ok {
			continue
		}
		files[idx].Words = append(files[idx].Words, w)
	}
	if err := wordRows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

// FileExists reports whether a file with the given id is stored.
func (s *Store) FileExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM files WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AppendHistory appends answer records in a single transaction.
func (s *Store) AppendHistory(ctx context.Context, records []model.AnswerRecord) (err error) {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO history (file_id, word_id, correct, answered_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, r := range records {
		correct := 0
		if r.Correct {
			correct = 1
		}
		if _, err = stmt.ExecContext(ctx, r.FileID, r.WordID, correct, r.Timestamp.UnixMilli()); err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

// ListHistory returns every answer record in insertion order.
func (s *Store) ListHistory(ctx context.Context) ([]model.AnswerRecord, error) {
	return s.queryHistory(ctx, `SELECT file_id, word_id, correct, answered_at FROM history ORDER BY id ASC`)
}

// ListHistoryForFile returns the answer records of one file in insertion order.
func (s *Store) ListHistoryForFile(ctx context.Context, fileID string) ([]model.AnswerRecord, error) {
	return s.queryHistory(ctx, `SELECT file_id, word_id, correct, answered_at FROM history WHERE file_id = ? ORDER BY id ASC`, fileID)
}

func (s *Store) queryHistory(ctx context.Context, query string, args ...any) ([]model.AnswerRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.AnswerRecord
	for rows.Next() {
		var r model.AnswerRecord
		var correct int
		var answeredAt int64
		if err := rows.Scan(&r.FileID, &r.WordID, &correct, &answeredAt); err != nil {
			return nil, err
		}
		r.Correct = correct != 0
		r.Timestamp = time.UnixMilli(answeredAt)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// GetSetting returns a stored setting value. The bool is false when unset.
func (s *Store) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// PutSetting stores or replaces a setting value.
func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

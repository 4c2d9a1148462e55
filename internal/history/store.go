package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"reel/internal/config"
	"reel/internal/session"
)

// Store persists session history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// StartSession records a new session attempt and returns its record.
func (s *Store) StartSession(ctx context.Context, req session.Request) (*Record, error) {
	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Topic:     req.Topic,
		SourceURL: req.SourceURL,
		PDFPath:   req.PDFPath,
		Quality:   req.Quality,
		Voice:     req.Voice,
		Theme:     req.Theme,
		Model:     req.Model,
		Status:    session.StatusConnecting,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (
            id, created_at, updated_at, topic, source_url, pdf_path,
            quality, voice, theme, model, status
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.Format(time.RFC3339Nano),
		rec.UpdatedAt.Format(time.RFC3339Nano),
		rec.Topic, rec.SourceURL, rec.PDFPath,
		rec.Quality, rec.Voice, rec.Theme, rec.Model,
		string(rec.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return rec, nil
}

// Finish stores a session's terminal outcome.
func (s *Store) Finish(ctx context.Context, id string, st session.State) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET
            updated_at = ?, status = ?, failure = ?,
            output_file = ?, tts_audio_url = ?, image_count = ?
        WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		string(st.Status),
		st.Failure,
		st.OutputFile,
		st.TTSAudioURL,
		len(st.Images),
		id,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// List returns sessions newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM sessions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

// Get fetches a session by full ID or unique prefix. Returns nil when no
// session matches and an error when the prefix is ambiguous.
func (s *Store) Get(ctx context.Context, idOrPrefix string) (*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM sessions WHERE id LIKE ? || '%' LIMIT 2`, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	defer rows.Close()

	var matches []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("session id %q is ambiguous", idOrPrefix)
	}
}

// Clear removes all session records and returns the number deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("clear sessions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

const recordColumns = `id, created_at, updated_at, topic, source_url, pdf_path,
    quality, voice, theme, model, status, failure, output_file, tts_audio_url, image_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var createdAt, updatedAt, status string
	err := row.Scan(
		&rec.ID, &createdAt, &updatedAt, &rec.Topic, &rec.SourceURL, &rec.PDFPath,
		&rec.Quality, &rec.Voice, &rec.Theme, &rec.Model,
		&status, &rec.Failure, &rec.OutputFile, &rec.TTSAudioURL, &rec.ImageCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	rec.Status = session.Status(status)
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &rec, nil
}

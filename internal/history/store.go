// Package history keeps a local record of download attempts in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ytget/yt-grabber/internal/logger"
	"github.com/ytget/yt-grabber/internal/model"
)

// DefaultLimit is how many records Recent returns when limit is not positive
const DefaultLimit = 20

// Store persists download records
type Store struct {
	db  *sql.DB
	log logger.Logger
}

// Open opens (or creates) the database at dsn and applies pending migrations
func Open(ctx context.Context, dsn string, log logger.Logger) (*Store, error) {
	if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.WithField("dsn", dsn).Debug("History database opened")

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, log: log}, nil
}

// Record inserts rec. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, rec model.DownloadRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var err error
	for i := range 3 {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO downloads (url, title, kind, quality, output_dir, status, message, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.URL, rec.Title, string(rec.Kind), rec.Quality, rec.OutputDir, rec.Status, rec.Message, rec.CreatedAt.UnixNano())
		if err == nil || !strings.Contains(err.Error(), "database is locked") {
			break
		}
		s.log.WithField("attempt", i+1).Warn("History database locked, retrying...")
		time.Sleep(100 * time.Millisecond * time.Duration(i+1))
	}
	if err != nil {
		return fmt.Errorf("failed to save download record: %w", err)
	}
	return nil
}

// Recent returns the newest records first
func (s *Store) Recent(ctx context.Context, limit int) ([]model.DownloadRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, title, kind, quality, output_dir, status, message, created_at
		FROM downloads
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []model.DownloadRecord
	for rows.Next() {
		var (
			rec     model.DownloadRecord
			kind    string
			created int64
		)
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Title, &kind, &rec.Quality, &rec.OutputDir, &rec.Status, &rec.Message, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.Kind = model.MediaKind(kind)
		rec.CreatedAt = time.Unix(0, created)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

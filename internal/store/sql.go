package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rviscarra/desktop-capture/internal/capture"
	"github.com/rviscarra/desktop-capture/internal/encoders"
)

const createCapturesTable = `
CREATE TABLE IF NOT EXISTS captures (
	id CHAR(36) NOT NULL PRIMARY KEY,
	width INT NOT NULL,
	height INT NOT NULL,
	screens INT NOT NULL,
	codec VARCHAR(16) NOT NULL,
	content_type VARCHAR(64) NOT NULL,
	image_data LONGBLOB NOT NULL,
	captured_at TIMESTAMP(3) NOT NULL
)`

const insertCapture = `INSERT INTO captures
	(id, width, height, screens, codec, content_type, image_data, captured_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// SQLSink stores captures as BLOBs in a MySQL table.
type SQLSink struct {
	db *sql.DB
}

// OpenSQLSink connects to the database at dsn and creates the captures
// table if it does not exist.
func OpenSQLSink(ctx context.Context, dsn string) (*SQLSink, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	sink := NewSQLSink(db)
	if err := sink.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return sink, nil
}

// NewSQLSink wraps an open database handle.
func NewSQLSink(db *sql.DB) *SQLSink {
	return &SQLSink{db: db}
}

// EnsureSchema creates the captures table.
func (s *SQLSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createCapturesTable); err != nil {
		return fmt.Errorf("create captures table: %w", err)
	}
	return nil
}

// Save implements Sink. The location is the capture id.
func (s *SQLSink) Save(ctx context.Context, img *capture.Image) (string, error) {
	id := img.ID.String()
	_, err := s.db.ExecContext(ctx, insertCapture,
		id,
		img.Width,
		img.Height,
		img.Screens,
		encoders.CodecName(img.Codec),
		img.ContentType,
		img.Bytes,
		img.CapturedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert capture %s: %w", id, err)
	}
	return id, nil
}

// Close closes the database handle.
func (s *SQLSink) Close() error {
	return s.db.Close()
}

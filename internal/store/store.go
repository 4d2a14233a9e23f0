package store

import (
	"context"
	"database/sql"
	errs "errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DaanHessen/citk2-editor/internal/editor"
	"github.com/DaanHessen/citk2-editor/internal/util"
)

var ErrNoChange = errs.New("no change")

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error { return d.sql.Close() }

// Open connects to DB per config.
func Open(ctx context.Context, cfg util.Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, wrap(err, "open journal database")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(4)
	sdb.SetMaxIdleConns(2)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, wrap(err, "ping journal database")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// SaveEvent is one journaled save.
type SaveEvent struct {
	ID         uuid.UUID
	Path       string
	BackupPath string
	SavedAt    time.Time
	BlobSHA256 string
	Changes    []string
}

// JournalRepo records saves; it satisfies editor.Journal.
type JournalRepo struct{ db *DB }

func NewJournalRepo(db *DB) *JournalRepo { return &JournalRepo{db: db} }

var _ editor.Journal = (*JournalRepo)(nil)

func (r *JournalRepo) Record(ctx context.Context, e editor.Entry) error {
	changes, err := encodeChanges(e.Changes)
	if err != nil {
		return err
	}
	err = r.db.gorm.WithContext(ctx).Exec(
		`INSERT INTO save_events(id, path, backup_path, saved_at, blob_sha256, changes) VALUES (?,?,?,?,?,?::jsonb)`,
		uuid.New(), e.Path, e.BackupPath, e.SavedAt, e.BlobSHA256, changes,
	).Error
	return wrap(err, "record save")
}

// List returns the newest events, optionally for one path.
func (r *JournalRepo) List(ctx context.Context, path string, limit int) ([]SaveEvent, error) {
	limit = clampLimit(limit)
	q := r.db.gorm.WithContext(ctx)
	var rows *sql.Rows
	var err error
	if path == "" {
		rows, err = q.Raw(`SELECT id, path, backup_path, saved_at, blob_sha256, changes::text FROM save_events ORDER BY saved_at DESC LIMIT ?`, limit).Rows()
	} else {
		rows, err = q.Raw(`SELECT id, path, backup_path, saved_at, blob_sha256, changes::text FROM save_events WHERE path = ? ORDER BY saved_at DESC LIMIT ?`, path, limit).Rows()
	}
	if err != nil {
		return nil, wrap(err, "list saves")
	}
	defer rows.Close()
	var out []SaveEvent
	for rows.Next() {
		var (
			ev      SaveEvent
			changes string
		)
		if err := rows.Scan(&ev.ID, &ev.Path, &ev.BackupPath, &ev.SavedAt, &ev.BlobSHA256, &changes); err != nil {
			return nil, wrap(err, "scan save event")
		}
		if ev.Changes, err = decodeChanges(changes); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func encodeChanges(changes []string) (string, error) {
	if changes == nil {
		changes = []string{}
	}
	b, err := json.Marshal(changes)
	if err != nil {
		return "", wrap(err, "encode changes")
	}
	return string(b), nil
}

func decodeChanges(s string) ([]string, error) {
	var out []string
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, wrap(err, "decode changes")
	}
	return out, nil
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return 20
	case n > 500:
		return 500
	}
	return n
}

// Helper error wrap
func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// Package record persists extraction results to SQLite so intake runs can
// be listed and re-exported later.
package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/docintake/internal/extraction"
	"github.com/joelkehle/docintake/internal/fieldscan"
)

var ErrNotFound = errors.New("record not found")

// Record is one persisted extraction run.
type Record struct {
	ID             int64                     `json:"id"`
	CreatedAt      time.Time                 `json:"created_at"`
	Source         string                    `json:"source"`
	Mode           extraction.Mode           `json:"mode"`
	FallbackReason extraction.FallbackReason `json:"fallback_reason,omitempty"`
	Fields         fieldscan.FieldMap        `json:"fields"`
}

type Store struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS extraction_records (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at      TEXT NOT NULL,
	source          TEXT NOT NULL DEFAULT '',
	mode            TEXT NOT NULL,
	fallback_reason TEXT NOT NULL DEFAULT '',
	fields          TEXT NOT NULL DEFAULT '{}'
);
`

// Open opens (and creates if needed) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a result and returns the stored record with its assigned ID.
func (s *Store) Save(ctx context.Context, source string, res extraction.Result) (Record, error) {
	fieldsJSON, err := json.Marshal(res.Fields)
	if err != nil {
		return Record{}, fmt.Errorf("marshal fields: %w", err)
	}
	now := time.Now().UTC()
	out, err := s.db.ExecContext(ctx,
		`INSERT INTO extraction_records (created_at, source, mode, fallback_reason, fields) VALUES (?, ?, ?, ?, ?)`,
		now.Format(time.RFC3339Nano), source, string(res.Mode), string(res.FallbackReason), string(fieldsJSON))
	if err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}
	id, err := out.LastInsertId()
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:             id,
		CreatedAt:      now,
		Source:         source,
		Mode:           res.Mode,
		FallbackReason: res.FallbackReason,
		Fields:         res.Fields.Clone(),
	}, nil
}

// Get returns one record by ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, mode, fallback_reason, fields FROM extraction_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// List returns the most recent records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, mode, fallback_reason, fields FROM extraction_records ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var createdAt, mode, fallback, fieldsJSON string
	if err := row.Scan(&rec.ID, &createdAt, &rec.Source, &mode, &fallback, &fieldsJSON); err != nil {
		return Record{}, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.Mode = extraction.Mode(mode)
	rec.FallbackReason = extraction.FallbackReason(fallback)
	rec.Fields = make(fieldscan.FieldMap)
	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return Record{}, fmt.Errorf("unmarshal fields: %w", err)
	}
	return rec, nil
}

// Package store provides append-only persistence of meeting records.
//
// Records are written to a local SQLite database and survive process
// restarts. There is no update or delete operation: once appended, a record
// is immutable.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/entrhq/scribe/pkg/summary"
	"github.com/entrhq/scribe/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS meetings (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	filename     TEXT NOT NULL,
	transcript   TEXT NOT NULL,
	summary_raw  TEXT NOT NULL,
	summary_json TEXT,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meetings_created_at ON meetings (created_at DESC);
`

// timeLayout is the stored created_at format. Unlike RFC3339Nano it keeps
// trailing fractional zeros, so the TEXT column is fixed-width and its
// lexicographic order matches chronological order; ORDER BY created_at on
// the raw column is then safe even for same-second timestamps where one
// fraction is a prefix of another.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// StoreError reports a persistence failure. A failed append writes nothing.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// MeetingStore persists meeting records in SQLite.
type MeetingStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the meeting database at path.
func Open(path string) (*MeetingStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, &StoreError{Op: "create data directory", Err: err}
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StoreError{Op: "open database", Err: err}
	}

	// A single connection serializes writes at the pool level, so each
	// append is atomic and readers never observe a half-written record.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StoreError{Op: "ping database", Err: err}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StoreError{Op: "apply schema", Err: err}
	}
	return &MeetingStore{db: db}, nil
}

// Close closes the database connection.
func (s *MeetingStore) Close() error {
	return s.db.Close()
}

// Append stores a new meeting record, assigning its id and timestamp, and
// returns the stored record. summ may be nil when validation failed; the
// raw text is persisted either way.
func (s *MeetingStore) Append(ctx context.Context, filename, transcript, summaryRaw string, summ *summary.Summary) (*types.MeetingRecord, error) {
	createdAt := time.Now().UTC()

	var summaryJSON sql.NullString
	if summ != nil {
		b, err := json.Marshal(summ)
		if err != nil {
			return nil, &StoreError{Op: "serialize summary", Err: err}
		}
		summaryJSON = sql.NullString{String: string(b), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO meetings (filename, transcript, summary_raw, summary_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, filename, transcript, summaryRaw, summaryJSON, createdAt.Format(timeLayout))
	if err != nil {
		return nil, &StoreError{Op: "append meeting", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, &StoreError{Op: "read meeting id", Err: err}
	}

	return &types.MeetingRecord{
		ID:         id,
		Filename:   filename,
		Transcript: transcript,
		SummaryRaw: summaryRaw,
		Summary:    summ,
		CreatedAt:  createdAt,
	}, nil
}

// List returns all meeting records, fully hydrated, ordered by creation
// time descending. The id breaks ties deterministically: of two records
// appended in the same instant, the later append lists first.
func (s *MeetingStore) List(ctx context.Context) ([]*types.MeetingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, transcript, summary_raw, summary_json, created_at
		FROM meetings
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, &StoreError{Op: "list meetings", Err: err}
	}
	defer rows.Close()

	var records []*types.MeetingRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list meetings", Err: err}
	}
	return records, nil
}

// Count returns the number of stored meetings.
func (s *MeetingStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&n); err != nil {
		return 0, &StoreError{Op: "count meetings", Err: err}
	}
	return n, nil
}

func scanRecord(rows *sql.Rows) (*types.MeetingRecord, error) {
	var (
		r           types.MeetingRecord
		summaryJSON sql.NullString
		createdAt   string
	)
	if err := rows.Scan(&r.ID, &r.Filename, &r.Transcript, &r.SummaryRaw, &summaryJSON, &createdAt); err != nil {
		return nil, &StoreError{Op: "scan meeting", Err: err}
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt) // accepts timeLayout
	if err != nil {
		return nil, &StoreError{Op: "parse created_at", Err: err}
	}
	r.CreatedAt = ts

	if summaryJSON.Valid {
		var summ summary.Summary
		if err := json.Unmarshal([]byte(summaryJSON.String), &summ); err != nil {
			return nil, &StoreError{Op: "parse stored summary", Err: err}
		}
		r.Summary = &summ
	}
	return &r, nil
}

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/calld/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteStore persists the reminder collection in a single reminders table.
// Save replaces the whole table inside one transaction so the database never
// holds a state the in-memory collection didn't.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load() ([]model.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, contact_name, phone_number, call_date, call_time, notes, created_at, notified, seq
		FROM reminders ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query reminders: %v", ErrStorage, err)
	}
	defer rows.Close()

	out := make([]model.Reminder, 0)
	for rows.Next() {
		item, scanErr := scanReminder(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, scanErr)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return out, nil
}

func (s *SQLiteStore) Save(reminders []model.Reminder) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reminders`); err != nil {
		return fmt.Errorf("%w: clear reminders: %v", ErrStorage, err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO reminders (id, contact_name, phone_number, call_date, call_time, notes, created_at, notified, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %v", ErrStorage, err)
	}
	defer stmt.Close()

	for _, r := range reminders {
		if _, err := stmt.Exec(
			r.ID, r.ContactName, r.PhoneNumber, r.CallDate, r.CallTime, r.Notes,
			r.CreatedAt.UTC().Format(sqliteTimeLayout), boolInt(r.Notified), r.Seq,
		); err != nil {
			return fmt.Errorf("%w: insert reminder %s: %v", ErrStorage, r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStorage, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReminder(s scanner) (model.Reminder, error) {
	var out model.Reminder
	var created string
	var notified int
	if err := s.Scan(&out.ID, &out.ContactName, &out.PhoneNumber, &out.CallDate, &out.CallTime, &out.Notes, &created, &notified, &out.Seq); err != nil {
		return model.Reminder{}, err
	}
	createdAt, err := time.Parse(sqliteTimeLayout, created)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	out.CreatedAt = createdAt
	out.Notified = notified == 1
	return out, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

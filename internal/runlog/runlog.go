package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// ErrNotFound is returned when a run id has no record.
var ErrNotFound = errors.New("runlog: run not found")

// Record summarizes one finished completion run.
type Record struct {
	ID           string // run token
	Presentation string // presentation name or file path
	Alphabet     string
	Policy       string
	Confluent    bool
	ActiveRules  int
	RulesCreated int
	StackPops    int
	Overlaps     int
	StartedAt    time.Time
	Duration     time.Duration
}

// Log is a durable run log backed by SQLite.
// Uses WAL mode so a reader can inspect history while a run is being
// written.
type Log struct {
	db *sql.DB
}

// Open creates or opens the run log database at the given path.
// Idempotent: pragmas and schema are applied on every open.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("runlog: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: connect: %w", err)
	}

	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY between concurrent CLI invocations sharing a log.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("runlog: apply schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion))
	return err
}

// Write inserts a run record. Duplicate run ids are silently ignored,
// so retried writes of the same run stay idempotent.
func (l *Log) Write(ctx context.Context, rec Record) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, presentation, alphabet, policy, confluent, active_rules,
		 rules_created, stack_pops, overlaps, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Presentation,
		rec.Alphabet,
		rec.Policy,
		rec.Confluent,
		rec.ActiveRules,
		rec.RulesCreated,
		rec.StackPops,
		rec.Overlaps,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("runlog: write run %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the record for a run id, or ErrNotFound.
func (l *Log) Get(ctx context.Context, id string) (Record, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, presentation, alphabet, policy, confluent, active_rules,
		       rules_created, stack_pops, overlaps, started_at, duration_ms
		FROM runs WHERE id = ?
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// List returns the most recent runs, newest first, at most limit rows.
func (l *Log) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, presentation, alphabet, policy, confluent, active_rules,
		       rules_created, stack_pops, overlaps, started_at, duration_ms
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("runlog: list runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var rec Record
	var startedAt string
	var durationMS int64
	err := s.Scan(
		&rec.ID, &rec.Presentation, &rec.Alphabet, &rec.Policy,
		&rec.Confluent, &rec.ActiveRules, &rec.RulesCreated,
		&rec.StackPops, &rec.Overlaps, &startedAt, &durationMS,
	)
	if err != nil {
		return Record{}, err
	}
	rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Record{}, fmt.Errorf("runlog: parse started_at %q: %w", startedAt, err)
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	return rec, nil
}

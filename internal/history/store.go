// Package history keeps a log of the boards that were dealt.
//
// Only titles are stored; provider category ids never leave a deal cycle.
// Nothing here is used to restore a board.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout is fixed-width so dealt_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Deal struct {
	CycleID string    `json:"cycleId"`
	DealtAt time.Time `json:"dealtAt"`
	Titles  []string  `json:"titles"`
}

type Store struct{ db *sql.DB }

// Open opens the SQLite file at dsn and brings its schema up to date.
func Open(dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record stores one deal. Recording the same cycle twice is a no-op.
func (s *Store) Record(ctx context.Context, d Deal) error {
	titles, err := json.Marshal(d.Titles)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO deals(cycle_id, dealt_at, titles) VALUES(?,?,?)`,
		d.CycleID, d.DealtAt.UTC().Format(timeLayout), string(titles),
	)
	return err
}

// Recent returns up to limit deals, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Deal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cycle_id, dealt_at, titles
		FROM deals
		ORDER BY dealt_at DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Deal{}
	for rows.Next() {
		var (
			d               Deal
			dealtAt, titles string
		)
		if err := rows.Scan(&d.CycleID, &dealtAt, &titles); err != nil {
			return nil, err
		}
		if d.DealtAt, err = time.Parse(timeLayout, dealtAt); err != nil {
			return nil, fmt.Errorf("parse dealt_at %q: %w", dealtAt, err)
		}
		if err := json.Unmarshal([]byte(titles), &d.Titles); err != nil {
			return nil, fmt.Errorf("parse titles for %s: %w", d.CycleID, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

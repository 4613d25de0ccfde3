/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store provides SQLite-backed persistence for tournaments and
// implements the swiss.Store transaction boundary.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mikeb26/scholastic-swiss-td/swiss"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps the tournament database. SQLite only supports one writer
// at a time; the connection pool is limited to a single connection so
// engine operations for one database serialize rather than fail with
// SQLITE_BUSY.
type Store struct {
	db *sql.DB
}

// Open creates or opens the tournament database at the given path and
// applies the schema. Safe to call repeatedly on the same path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open tournament db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to connect to tournament db: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("unable to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// Begin starts one atomic unit of work implementing swiss.Tx.
func (s *Store) Begin(ctx context.Context) (swiss.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to begin transaction: %w", err)
	}

	return &storeTx{ctx: ctx, tx: tx}, nil
}

// CreateTournament registers a new tournament and returns its id.
func (s *Store) CreateTournament(ctx context.Context, name string,
	date time.Time) (int64, error) {

	dateStr := ""
	if !date.IsZero() {
		dateStr = date.Format("2006-01-02")
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tournaments (name, event_date) VALUES (?, ?)`,
		name, dateStr)
	if err != nil {
		return 0, fmt.Errorf("unable to create tournament: %w", err)
	}

	return res.LastInsertId()
}

// Tournaments lists all tournaments, most recently created first.
func (s *Store) Tournaments(ctx context.Context) ([]swiss.Tournament, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, event_date FROM tournaments ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("unable to list tournaments: %w", err)
	}
	defer rows.Close()

	var ret []swiss.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, t)
	}

	return ret, rows.Err()
}

// AddPlayer registers a player in a tournament and returns the new
// player id. Registration happens before pairing; the engine never
// adds players itself.
func (s *Store) AddPlayer(ctx context.Context, tournamentID int64, name,
	grade, school string) (int64, error) {

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO players (tournament_id, name, grade, school)
		 VALUES (?, ?, ?, ?)`,
		tournamentID, name, grade, school)
	if err != nil {
		return 0, fmt.Errorf("unable to register player: %w", err)
	}

	return res.LastInsertId()
}

// ImportSnapshot recreates a tournament from a backup snapshot under a
// fresh set of ids, remapping pairing player references accordingly.
func (s *Store) ImportSnapshot(ctx context.Context,
	snap *swiss.Snapshot) (int64, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("unable to begin restore: %w", err)
	}
	defer tx.Rollback()

	dateStr := ""
	if !snap.Tournament.Date.IsZero() {
		dateStr = snap.Tournament.Date.Format("2006-01-02")
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tournaments (name, event_date) VALUES (?, ?)`,
		snap.Tournament.Name, dateStr)
	if err != nil {
		return 0, fmt.Errorf("unable to restore tournament: %w", err)
	}
	tournamentID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	playerIDs := make(map[int64]int64, len(snap.Players))
	for _, p := range snap.Players {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO players (tournament_id, name, grade, school,
			 points, had_bye) VALUES (?, ?, ?, ?, ?, ?)`,
			tournamentID, p.Name, p.Grade, p.School, p.Points,
			boolToInt(p.HadBye))
		if err != nil {
			return 0, fmt.Errorf("unable to restore player %v: %w", p.Name,
				err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		playerIDs[p.ID] = id
	}

	for _, pr := range snap.Pairings {
		whiteID, ok := playerIDs[pr.WhiteID]
		if !ok {
			return 0, fmt.Errorf("%w: snapshot white id %v",
				swiss.ErrPlayerNotFound, pr.WhiteID)
		}
		blackID := sql.NullInt64{}
		if !pr.IsBye {
			mapped, ok := playerIDs[pr.BlackID]
			if !ok {
				return 0, fmt.Errorf("%w: snapshot black id %v",
					swiss.ErrPlayerNotFound, pr.BlackID)
			}
			blackID = sql.NullInt64{Int64: mapped, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO pairings (tournament_id, round_number, white_id,
			 black_id, is_bye, result) VALUES (?, ?, ?, ?, ?, ?)`,
			tournamentID, pr.RoundNumber, whiteID, blackID,
			boolToInt(pr.IsBye), int(pr.Result))
		if err != nil {
			return 0, fmt.Errorf("unable to restore round %v pairing: %w",
				pr.RoundNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("unable to commit restore: %w", err)
	}

	return tournamentID, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTournament(row rowScanner) (swiss.Tournament, error) {
	var t swiss.Tournament
	var dateStr string
	if err := row.Scan(&t.ID, &t.Name, &dateStr); err != nil {
		return swiss.Tournament{}, fmt.Errorf("unable to scan tournament: %w",
			err)
	}
	if dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err == nil {
			t.Date = date
		}
	}

	return t, nil
}

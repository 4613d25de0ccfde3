/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mikeb26/scholastic-swiss-td/swiss"
)

// storeTx implements swiss.Tx over a sql.Tx. Rollback after Commit is
// a no-op, so engine operations can unconditionally defer it.
type storeTx struct {
	ctx context.Context
	tx  *sql.Tx
}

func (t *storeTx) Tournament(id int64) (swiss.Tournament, error) {
	row := t.tx.QueryRowContext(t.ctx,
		`SELECT id, name, event_date FROM tournaments WHERE id = ?`, id)
	tourney, err := scanTournament(row)
	if errors.Is(err, sql.ErrNoRows) {
		return swiss.Tournament{}, fmt.Errorf("%w: id %v",
			swiss.ErrTournamentNotFound, id)
	}

	return tourney, err
}

func (t *storeTx) Players(tournamentID int64) ([]swiss.Player, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT id, tournament_id, name, grade, school, points, had_bye
		 FROM players WHERE tournament_id = ? ORDER BY id`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("unable to query roster: %w", err)
	}
	defer rows.Close()

	var ret []swiss.Player
	for rows.Next() {
		var p swiss.Player
		var hadBye int
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.Name, &p.Grade,
			&p.School, &p.Points, &hadBye); err != nil {
			return nil, fmt.Errorf("unable to scan player: %w", err)
		}
		p.HadBye = hadBye != 0
		ret = append(ret, p)
	}

	return ret, rows.Err()
}

func (t *storeTx) UpdatePlayer(p swiss.Player) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE players SET points = ?, had_bye = ? WHERE id = ?`,
		p.Points, boolToInt(p.HadBye), p.ID)
	if err != nil {
		return fmt.Errorf("unable to update player %v: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %v", swiss.ErrPlayerNotFound, p.ID)
	}

	return nil
}

func (t *storeTx) Pairings(tournamentID int64) ([]swiss.Pairing, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT id, tournament_id, round_number, white_id, black_id,
		 is_bye, result FROM pairings WHERE tournament_id = ?
		 ORDER BY round_number, id`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("unable to query pairings: %w", err)
	}
	defer rows.Close()

	var ret []swiss.Pairing
	for rows.Next() {
		p, err := scanPairing(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, p)
	}

	return ret, rows.Err()
}

func (t *storeTx) Pairing(id int64) (swiss.Pairing, error) {
	row := t.tx.QueryRowContext(t.ctx,
		`SELECT id, tournament_id, round_number, white_id, black_id,
		 is_bye, result FROM pairings WHERE id = ?`, id)
	p, err := scanPairing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return swiss.Pairing{}, fmt.Errorf("%w: id %v",
			swiss.ErrPairingNotFound, id)
	}

	return p, err
}

func (t *storeTx) InsertPairing(p swiss.Pairing) (int64, error) {
	blackID := sql.NullInt64{}
	if !p.IsBye {
		blackID = sql.NullInt64{Int64: p.BlackID, Valid: true}
	}
	res, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO pairings (tournament_id, round_number, white_id,
		 black_id, is_bye, result) VALUES (?, ?, ?, ?, ?, ?)`,
		p.TournamentID, p.RoundNumber, p.WhiteID, blackID,
		boolToInt(p.IsBye), int(p.Result))
	if err != nil {
		return 0, fmt.Errorf("unable to insert pairing: %w", err)
	}

	return res.LastInsertId()
}

func (t *storeTx) UpdatePairingResult(id int64, r swiss.Result) error {
	res, err := t.tx.ExecContext(t.ctx,
		`UPDATE pairings SET result = ? WHERE id = ?`, int(r), id)
	if err != nil {
		return fmt.Errorf("unable to update pairing %v: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %v", swiss.ErrPairingNotFound, id)
	}

	return nil
}

func (t *storeTx) Commit() error {
	return t.tx.Commit()
}

func (t *storeTx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func scanPairing(row rowScanner) (swiss.Pairing, error) {
	var p swiss.Pairing
	var blackID sql.NullInt64
	var isBye, result int
	err := row.Scan(&p.ID, &p.TournamentID, &p.RoundNumber, &p.WhiteID,
		&blackID, &isBye, &result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return swiss.Pairing{}, err
		}
		return swiss.Pairing{}, fmt.Errorf("unable to scan pairing: %w", err)
	}
	p.BlackID = blackID.Int64
	p.IsBye = isBye != 0
	p.Result = swiss.Result(result)

	return p, nil
}

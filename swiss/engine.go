/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package swiss implements the pairing-and-scoring engine for Swiss
// system tournaments: score-group pairing with no-rematch and
// single-bye rules, a reversible result ledger, and opponent-points
// tiebreaks. The engine is storage agnostic; persistence is supplied
// through the Store and Tx interfaces.
package swiss

import (
	"context"
	"fmt"
)

// Tx is a single atomic unit of work over one tournament's state. All
// reads and writes performed by an engine operation happen within one
// Tx; Rollback after Commit must be a no-op so callers can defer it.
type Tx interface {
	Tournament(id int64) (Tournament, error)
	Players(tournamentID int64) ([]Player, error)
	UpdatePlayer(p Player) error
	Pairings(tournamentID int64) ([]Pairing, error)
	Pairing(id int64) (Pairing, error)
	InsertPairing(p Pairing) (int64, error)
	UpdatePairingResult(id int64, r Result) error
	Commit() error
	Rollback() error
}

// Store supplies transaction-scoped access to tournament state.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Engine exposes the three tournament operations to front-ends. All
// mutations are all-or-nothing: any error mid-operation rolls back the
// whole unit of work.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// GenerateNextRound pairs every player for the tournament's next round
// and persists the new pairings, awarding at most one bye when the
// roster size is odd. Callers must not invoke this twice for the same
// round; generation calls for one tournament are serialized by the
// store's transaction boundary.
func (e *Engine) GenerateNextRound(ctx context.Context,
	tournamentID int64) ([]Pairing, error) {

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to begin round generation: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Tournament(tournamentID); err != nil {
		return nil, err
	}
	players, err := tx.Players(tournamentID)
	if err != nil {
		return nil, fmt.Errorf("unable to load roster: %w", err)
	}
	history, err := tx.Pairings(tournamentID)
	if err != nil {
		return nil, fmt.Errorf("unable to load pairing history: %w", err)
	}

	hist := BuildHistoryIndex(history)
	roundNum := nextRoundNumber(history)
	pairings, byeRecipient, err := GeneratePairings(players, hist, roundNum)
	if err != nil {
		return nil, err
	}

	// the bye point award is created atomically with the bye pairing
	if byeRecipient != nil {
		ledger := NewScoreLedger(players)
		if err := ledger.AwardBye(byeRecipient.ID); err != nil {
			return nil, err
		}
		updated, err := ledger.Player(byeRecipient.ID)
		if err != nil {
			return nil, err
		}
		if err := tx.UpdatePlayer(updated); err != nil {
			return nil, fmt.Errorf("unable to record bye award: %w", err)
		}
	}

	for i := range pairings {
		id, err := tx.InsertPairing(pairings[i])
		if err != nil {
			return nil, fmt.Errorf("unable to persist round %v pairing: %w",
				roundNum, err)
		}
		pairings[i].ID = id
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("unable to commit round %v: %w", roundNum, err)
	}

	return pairings, nil
}

// SetPairingResult records or corrects the result of a pairing. A
// previously recorded result is reversed before the new one is
// applied, so repeated corrections never double count; the ledger
// always reflects the latest call only.
func (e *Engine) SetPairingResult(ctx context.Context, pairingID int64,
	newResult Result) error {

	if !newResult.isSettable() {
		return fmt.Errorf("%w: %v", ErrInvalidResult, newResult)
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("unable to begin result update: %w", err)
	}
	defer tx.Rollback()

	pairing, err := tx.Pairing(pairingID)
	if err != nil {
		return err
	}
	if pairing.IsBye {
		return fmt.Errorf("%w: pairing %v", ErrImmutableByeResult, pairingID)
	}

	players, err := tx.Players(pairing.TournamentID)
	if err != nil {
		return fmt.Errorf("unable to load roster: %w", err)
	}
	ledger := NewScoreLedger(players)

	if pairing.Result != ResultPending {
		if err := ledger.ReverseResult(pairing, pairing.Result); err != nil {
			return err
		}
	}
	if err := ledger.ApplyResult(pairing, newResult); err != nil {
		return err
	}

	for _, id := range []int64{pairing.WhiteID, pairing.BlackID} {
		updated, err := ledger.Player(id)
		if err != nil {
			return err
		}
		if err := tx.UpdatePlayer(updated); err != nil {
			return fmt.Errorf("unable to record score change: %w", err)
		}
	}
	if err := tx.UpdatePairingResult(pairingID, newResult); err != nil {
		return fmt.Errorf("unable to record result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit result update: %w", err)
	}

	return nil
}

// ComputeStandings returns the current ranked standings for a
// tournament.
func (e *Engine) ComputeStandings(ctx context.Context,
	tournamentID int64) ([]Standing, error) {

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to begin standings read: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Tournament(tournamentID); err != nil {
		return nil, err
	}
	players, err := tx.Players(tournamentID)
	if err != nil {
		return nil, fmt.Errorf("unable to load roster: %w", err)
	}
	pairings, err := tx.Pairings(tournamentID)
	if err != nil {
		return nil, fmt.Errorf("unable to load pairing history: %w", err)
	}

	return ComputeStandings(players, pairings), nil
}

// ExportSnapshot reads a consistent point-in-time copy of the whole
// tournament, suitable for offsite backup.
func (e *Engine) ExportSnapshot(ctx context.Context,
	tournamentID int64) (*Snapshot, error) {

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to begin snapshot read: %w", err)
	}
	defer tx.Rollback()

	tourney, err := tx.Tournament(tournamentID)
	if err != nil {
		return nil, err
	}
	players, err := tx.Players(tournamentID)
	if err != nil {
		return nil, fmt.Errorf("unable to load roster: %w", err)
	}
	pairings, err := tx.Pairings(tournamentID)
	if err != nil {
		return nil, fmt.Errorf("unable to load pairing history: %w", err)
	}

	return &Snapshot{
		Tournament: tourney,
		Players:    players,
		Pairings:   pairings,
	}, nil
}

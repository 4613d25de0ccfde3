/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Result represents the recorded outcome of a pairing.
type Result int

const (
	ResultPending Result = iota
	ResultWhiteWin
	ResultBlackWin
	ResultDraw
)

func (r Result) String() string {
	switch r {
	case ResultPending:
		return "pending"
	case ResultWhiteWin:
		return "1-0"
	case ResultBlackWin:
		return "0-1"
	case ResultDraw:
		return "½-½"
	default:
		return "?"
	}
}

// ParseResult converts a user supplied result string into a Result.
// All result validation is concentrated here; anything not recognized
// is ErrInvalidResult.
func ParseResult(s string) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1-0", "white":
		return ResultWhiteWin, nil
	case "0-1", "black":
		return ResultBlackWin, nil
	case "0.5-0.5", "1/2-1/2", "½-½", "draw":
		return ResultDraw, nil
	}

	return ResultPending, fmt.Errorf("%w: %q", ErrInvalidResult, s)
}

// isSettable reports whether r is a result a caller may record on a
// pairing. ResultPending is not settable; pairings start pending.
func (r Result) isSettable() bool {
	return r == ResultWhiteWin || r == ResultBlackWin || r == ResultDraw
}

// Tournament holds the event level metadata. Rounds exist implicitly
// via Pairing.RoundNumber.
type Tournament struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// Player represents a participant in a tournament. Grade and School
// are display metadata only; the engine never reads them. Points and
// HadBye are owned by the score ledger.
type Player struct {
	ID           int64   `json:"id"`
	TournamentID int64   `json:"tournamentId"`
	Name         string  `json:"name"`
	Grade        string  `json:"grade"`
	School       string  `json:"school"`
	Points       float64 `json:"points"`
	HadBye       bool    `json:"hadBye"`
}

// Pairing represents a single board pairing within a round. A bye
// pairing has IsBye set, no black player, and a fixed ResultWhiteWin
// recorded at creation.
type Pairing struct {
	ID           int64  `json:"id"`
	TournamentID int64  `json:"tournamentId"`
	RoundNumber  int    `json:"roundNumber"`
	WhiteID      int64  `json:"whiteId"`
	BlackID      int64  `json:"blackId"`
	IsBye        bool   `json:"isBye"`
	Result       Result `json:"result"`
}

// Standing is the derived per-player ranking row; computed on demand,
// never persisted.
type Standing struct {
	Player      Player
	Points      float64
	Tiebreak    float64
	GamesPlayed int
}

// Snapshot is a full point-in-time export of one tournament, used by
// the backup/restore path.
type Snapshot struct {
	Tournament Tournament `json:"tournament"`
	Players    []Player   `json:"players"`
	Pairings   []Pairing  `json:"pairings"`
}

var (
	ErrInvalidRoster      = errors.New("roster has fewer than 2 players")
	ErrInvalidResult      = errors.New("invalid result")
	ErrImmutableByeResult = errors.New("bye results are fixed at creation")
	ErrPairingNotFound    = errors.New("pairing not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
)

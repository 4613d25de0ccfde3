/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
)

// ScoreLedger tracks cumulative points and bye usage for a roster
// while one engine operation is in flight. Applying and reversing a
// result are exact inverses, which is what lets a recorded result be
// corrected without double counting.
type ScoreLedger struct {
	players map[int64]*Player
}

// NewScoreLedger builds a ledger over a copy of the given roster.
// Callers read the mutated roster back via Players().
func NewScoreLedger(players []Player) *ScoreLedger {
	l := &ScoreLedger{
		players: make(map[int64]*Player, len(players)),
	}
	for _, p := range players {
		cp := p
		l.players[p.ID] = &cp
	}

	return l
}

// Player returns the ledger's view of the given player.
func (l *ScoreLedger) Player(id int64) (Player, error) {
	p, ok := l.players[id]
	if !ok {
		return Player{}, fmt.Errorf("%w: id %v", ErrPlayerNotFound, id)
	}

	return *p, nil
}

// Players returns the ledger's current view of the full roster.
func (l *ScoreLedger) Players() []Player {
	ret := make([]Player, 0, len(l.players))
	for _, p := range l.players {
		ret = append(ret, *p)
	}

	return ret
}

// ApplyResult adds the point value implied by result to the pairing's
// player(s). A bye pairing awards its point to white only.
func (l *ScoreLedger) ApplyResult(pairing Pairing, result Result) error {
	return l.adjust(pairing, result, 1.0)
}

// ReverseResult subtracts the point value previously applied for
// result from the pairing's player(s).
func (l *ScoreLedger) ReverseResult(pairing Pairing, result Result) error {
	return l.adjust(pairing, result, -1.0)
}

// AwardBye marks the player as having used their bye and credits the
// bye win. Invoked once per player per tournament by the pairing
// generator.
func (l *ScoreLedger) AwardBye(playerID int64) error {
	p, ok := l.players[playerID]
	if !ok {
		return fmt.Errorf("%w: id %v", ErrPlayerNotFound, playerID)
	}
	p.HadBye = true
	p.Points += 1.0

	return nil
}

func (l *ScoreLedger) adjust(pairing Pairing, result Result,
	sign float64) error {

	if !result.isSettable() {
		return fmt.Errorf("%w: %v", ErrInvalidResult, result)
	}

	white, ok := l.players[pairing.WhiteID]
	if !ok {
		return fmt.Errorf("%w: white id %v", ErrPlayerNotFound,
			pairing.WhiteID)
	}
	var black *Player
	if !pairing.IsBye {
		black, ok = l.players[pairing.BlackID]
		if !ok {
			return fmt.Errorf("%w: black id %v", ErrPlayerNotFound,
				pairing.BlackID)
		}
	}

	switch result {
	case ResultWhiteWin:
		white.Points += sign * 1.0
	case ResultBlackWin:
		if black == nil {
			return fmt.Errorf("%w: bye pairing cannot score for black",
				ErrInvalidResult)
		}
		black.Points += sign * 1.0
	case ResultDraw:
		if black == nil {
			return fmt.Errorf("%w: bye pairing cannot be drawn",
				ErrInvalidResult)
		}
		white.Points += sign * 0.5
		black.Points += sign * 0.5
	}

	return nil
}

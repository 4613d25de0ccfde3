/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
)

// sortRoster orders players by the canonical Swiss sort: points
// descending, ties broken by name ascending. This ordering determines
// both bye eligibility and pairing order.
func sortRoster(players []Player) {
	sort.Slice(players, func(i, j int) bool {
		if players[i].Points != players[j].Points {
			return players[i].Points > players[j].Points
		}
		return players[i].Name < players[j].Name
	})
}

// GeneratePairings produces one round's pairings for the given roster
// and history. The returned slice includes the bye pairing, if any; the
// second return value is the bye recipient so the caller can credit the
// bye through the score ledger. The algorithm is fully deterministic:
// identical roster state and history always yield identical pairings.
//
// Pairing is greedy: walk the sorted roster and give each unpaired
// player the first later unpaired player they have not yet met. When
// every remaining candidate is a rematch, pair with the first remaining
// player regardless; rematches are permitted only once no rematch-free
// option exists, so the walk always terminates with everyone paired.
func GeneratePairings(players []Player, hist *HistoryIndex,
	roundNum int) ([]Pairing, *Player, error) {

	if len(players) < 2 {
		return nil, nil, fmt.Errorf("%w: have %v", ErrInvalidRoster,
			len(players))
	}

	roster := append([]Player(nil), players...)
	sortRoster(roster)

	var byeRecipient *Player
	if len(roster)%2 == 1 {
		// lowest-ranked player who hasn't had a bye yet; if everyone
		// already has, fall back to the lowest-ranked player
		byeIdx := len(roster) - 1
		for i := len(roster) - 1; i >= 0; i-- {
			if !roster[i].HadBye && !hist.HasHadBye(roster[i].ID) {
				byeIdx = i
				break
			}
		}
		bp := roster[byeIdx]
		byeRecipient = &bp
		roster = append(roster[:byeIdx], roster[byeIdx+1:]...)
	}

	paired := make([]bool, len(roster))
	pairings := make([]Pairing, 0, len(roster)/2+1)
	for i := range roster {
		if paired[i] {
			continue
		}
		opp := -1
		for j := i + 1; j < len(roster); j++ {
			if !paired[j] && !hist.HaveMet(roster[i].ID, roster[j].ID) {
				opp = j
				break
			}
		}
		if opp == -1 {
			// rematch fallback
			for j := i + 1; j < len(roster); j++ {
				if !paired[j] {
					opp = j
					break
				}
			}
		}
		paired[i] = true
		paired[opp] = true
		pairings = append(pairings, Pairing{
			TournamentID: roster[i].TournamentID,
			RoundNumber:  roundNum,
			WhiteID:      roster[i].ID,
			BlackID:      roster[opp].ID,
		})
	}

	if byeRecipient != nil {
		pairings = append(pairings, Pairing{
			TournamentID: byeRecipient.TournamentID,
			RoundNumber:  roundNum,
			WhiteID:      byeRecipient.ID,
			IsBye:        true,
			Result:       ResultWhiteWin,
		})
	}

	return pairings, byeRecipient, nil
}

// nextRoundNumber returns 1 + the highest round number present in the
// pairing history, or 1 when no rounds exist yet.
func nextRoundNumber(pairings []Pairing) int {
	maxRound := 0
	for _, p := range pairings {
		if p.RoundNumber > maxRound {
			maxRound = p.RoundNumber
		}
	}

	return maxRound + 1
}

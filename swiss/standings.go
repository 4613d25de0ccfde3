/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"sort"
)

// ComputeStandings derives the ranked standings for a roster from the
// full pairing list. Each player's tiebreak is the sum of the current
// points of every opponent they have faced across all rounds; byes
// contribute no opponent. Ranking order is points descending, tiebreak
// descending, then name ascending.
func ComputeStandings(players []Player, pairings []Pairing) []Standing {
	byID := make(map[int64]Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	tiebreak := make(map[int64]float64, len(players))
	games := make(map[int64]int, len(players))
	for _, pr := range pairings {
		if pr.Result != ResultPending {
			games[pr.WhiteID]++
			if !pr.IsBye {
				games[pr.BlackID]++
			}
		}
		if pr.IsBye {
			continue
		}
		if w, ok := byID[pr.WhiteID]; ok {
			tiebreak[pr.BlackID] += w.Points
		}
		if b, ok := byID[pr.BlackID]; ok {
			tiebreak[pr.WhiteID] += b.Points
		}
	}

	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		standings = append(standings, Standing{
			Player:      p,
			Points:      p.Points,
			Tiebreak:    tiebreak[p.ID],
			GamesPlayed: games[p.ID],
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		if standings[i].Tiebreak != standings[j].Tiebreak {
			return standings[i].Tiebreak > standings[j].Tiebreak
		}
		return standings[i].Player.Name < standings[j].Player.Name
	})

	return standings
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"errors"
	"fmt"
	"testing"
)

func mkPlayers(n int) []Player {
	players := make([]Player, 0, n)
	for i := 1; i <= n; i++ {
		players = append(players, Player{
			ID:           int64(i),
			TournamentID: 1,
			Name:         fmt.Sprintf("P%d", i),
		})
	}
	return players
}

func TestGenerateRejectsSmallRoster(t *testing.T) {
	for _, n := range []int{0, 1} {
		_, _, err := GeneratePairings(mkPlayers(n), BuildHistoryIndex(nil), 1)
		if !errors.Is(err, ErrInvalidRoster) {
			t.Errorf("roster size %d: expected ErrInvalidRoster, got %v", n, err)
		}
	}
}

// First round, five players with zero points: the last player in name
// order gets the bye and the rest pair in sorted order with results
// left pending.
func TestGenerateFirstRoundOddRoster(t *testing.T) {
	players := mkPlayers(5)
	pairings, bye, err := GeneratePairings(players, BuildHistoryIndex(nil), 1)
	if err != nil {
		t.Fatalf("GeneratePairings returned error: %v", err)
	}

	if bye == nil || bye.ID != 5 {
		t.Fatalf("expected P5 to receive the bye, got %+v", bye)
	}
	if len(pairings) != 3 {
		t.Fatalf("expected 3 pairings (2 games + bye), got %d", len(pairings))
	}

	games := pairings[:2]
	wantGames := []struct{ white, black int64 }{{1, 2}, {3, 4}}
	for i, g := range games {
		if g.IsBye {
			t.Fatalf("pairing %d unexpectedly a bye", i)
		}
		if g.WhiteID != wantGames[i].white || g.BlackID != wantGames[i].black {
			t.Errorf("game %d = (%d, %d); want (%d, %d)", i, g.WhiteID,
				g.BlackID, wantGames[i].white, wantGames[i].black)
		}
		if g.Result != ResultPending {
			t.Errorf("game %d result = %v; want pending", i, g.Result)
		}
		if g.RoundNumber != 1 {
			t.Errorf("game %d round = %v; want 1", i, g.RoundNumber)
		}
	}

	byePairing := pairings[2]
	if !byePairing.IsBye || byePairing.WhiteID != 5 {
		t.Errorf("bye pairing = %+v; want bye for P5", byePairing)
	}
	if byePairing.Result != ResultWhiteWin {
		t.Errorf("bye result = %v; want %v", byePairing.Result, ResultWhiteWin)
	}
}

func TestGenerateEveryPlayerPairedOnce(t *testing.T) {
	for _, n := range []int{2, 3, 4, 7, 8, 16, 17} {
		t.Run(fmt.Sprintf("%dplayers", n), func(t *testing.T) {
			pairings, bye, err := GeneratePairings(mkPlayers(n),
				BuildHistoryIndex(nil), 1)
			if err != nil {
				t.Fatalf("GeneratePairings returned error: %v", err)
			}

			wantGames := n / 2
			gotGames := 0
			seen := make(map[int64]int)
			for _, p := range pairings {
				seen[p.WhiteID]++
				if p.IsBye {
					continue
				}
				gotGames++
				seen[p.BlackID]++
			}
			if gotGames != wantGames {
				t.Errorf("got %d games; want %d", gotGames, wantGames)
			}
			if (n%2 == 1) != (bye != nil) {
				t.Errorf("bye presence = %v for n=%d", bye != nil, n)
			}
			for id, count := range seen {
				if count != 1 {
					t.Errorf("player %d appears %d times; want 1", id, count)
				}
			}
			if len(seen) != n {
				t.Errorf("%d players appear in output; want %d", len(seen), n)
			}
		})
	}
}

// Score groups: players sort by points before names, so leaders pair
// with leaders.
func TestGenerateScoreGroupOrdering(t *testing.T) {
	players := mkPlayers(4)
	players[0].Points = 0.0 // P1
	players[1].Points = 1.0 // P2
	players[2].Points = 0.0 // P3
	players[3].Points = 1.0 // P4

	pairings, _, err := GeneratePairings(players, BuildHistoryIndex(nil), 2)
	if err != nil {
		t.Fatalf("GeneratePairings returned error: %v", err)
	}
	if len(pairings) != 2 {
		t.Fatalf("expected 2 pairings, got %d", len(pairings))
	}
	// sorted order: P2(1.0), P4(1.0), P1(0.0), P3(0.0)
	if pairings[0].WhiteID != 2 || pairings[0].BlackID != 4 {
		t.Errorf("top board = (%d, %d); want (2, 4)", pairings[0].WhiteID,
			pairings[0].BlackID)
	}
	if pairings[1].WhiteID != 1 || pairings[1].BlackID != 3 {
		t.Errorf("bottom board = (%d, %d); want (1, 3)", pairings[1].WhiteID,
			pairings[1].BlackID)
	}
}

func TestGenerateAvoidsRematch(t *testing.T) {
	players := mkPlayers(4)
	hist := BuildHistoryIndex([]Pairing{
		{RoundNumber: 1, WhiteID: 1, BlackID: 2},
		{RoundNumber: 1, WhiteID: 3, BlackID: 4},
	})

	pairings, _, err := GeneratePairings(players, hist, 2)
	if err != nil {
		t.Fatalf("GeneratePairings returned error: %v", err)
	}
	for _, p := range pairings {
		if hist.HaveMet(p.WhiteID, p.BlackID) {
			t.Errorf("rematch generated while alternatives existed: %+v", p)
		}
	}
}

// When every candidate has already been faced, the fallback pairs
// anyway rather than leaving players unpaired.
func TestGenerateRematchFallback(t *testing.T) {
	players := mkPlayers(4)
	var history []Pairing
	for i := int64(1); i <= 4; i++ {
		for j := i + 1; j <= 4; j++ {
			history = append(history, Pairing{WhiteID: i, BlackID: j})
		}
	}

	pairings, _, err := GeneratePairings(players, BuildHistoryIndex(history), 4)
	if err != nil {
		t.Fatalf("GeneratePairings returned error: %v", err)
	}
	if len(pairings) != 2 {
		t.Fatalf("expected 2 pairings via fallback, got %d", len(pairings))
	}
}

func TestGenerateByeEligibility(t *testing.T) {
	cases := []struct {
		name    string
		hadBye  []int64 // player ids flagged as having had a bye
		wantBye int64
	}{
		{
			name:    "no prior byes goes to bottom",
			hadBye:  nil,
			wantBye: 5,
		},
		{
			name:    "bottom already had bye",
			hadBye:  []int64{5},
			wantBye: 4,
		},
		{
			name:    "two lowest already had byes",
			hadBye:  []int64{4, 5},
			wantBye: 3,
		},
		{
			name:    "everyone already had a bye falls back to bottom",
			hadBye:  []int64{1, 2, 3, 4, 5},
			wantBye: 5,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			players := mkPlayers(5)
			for _, id := range c.hadBye {
				players[id-1].HadBye = true
			}
			_, bye, err := GeneratePairings(players, BuildHistoryIndex(nil), 2)
			if err != nil {
				t.Fatalf("GeneratePairings returned error: %v", err)
			}
			if bye == nil || bye.ID != c.wantBye {
				t.Errorf("bye recipient = %+v; want player %d", bye, c.wantBye)
			}
		})
	}
}

// Identical inputs must always yield identical pairings.
func TestGenerateDeterminism(t *testing.T) {
	players := mkPlayers(9)
	for i := range players {
		players[i].Points = float64(i%3) * 0.5
	}
	hist := BuildHistoryIndex([]Pairing{
		{RoundNumber: 1, WhiteID: 1, BlackID: 4},
		{RoundNumber: 1, WhiteID: 2, BlackID: 5},
	})

	first, firstBye, err := GeneratePairings(players, hist, 2)
	if err != nil {
		t.Fatalf("GeneratePairings returned error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, againBye, err := GeneratePairings(players, hist, 2)
		if err != nil {
			t.Fatalf("GeneratePairings returned error: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("pairing count changed between runs")
		}
		for j := range first {
			if first[j] != again[j] {
				t.Errorf("run %d pairing %d = %+v; want %+v", i, j, again[j],
					first[j])
			}
		}
		if (firstBye == nil) != (againBye == nil) {
			t.Fatalf("bye presence changed between runs")
		}
		if firstBye != nil && firstBye.ID != againBye.ID {
			t.Errorf("bye recipient changed between runs")
		}
	}
}

func TestNextRoundNumber(t *testing.T) {
	cases := []struct {
		name     string
		pairings []Pairing
		want     int
	}{
		{name: "no history", pairings: nil, want: 1},
		{
			name: "two rounds played",
			pairings: []Pairing{
				{RoundNumber: 1}, {RoundNumber: 1}, {RoundNumber: 2},
			},
			want: 3,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := nextRoundNumber(c.pairings); got != c.want {
				t.Errorf("nextRoundNumber = %d; want %d", got, c.want)
			}
		})
	}
}

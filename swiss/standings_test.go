/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"testing"
)

func TestComputeStandingsTiebreak(t *testing.T) {
	// Alice beat Bob, drew Carol; Dana had a bye.
	players := []Player{
		{ID: 1, Name: "Alice", Points: 1.5},
		{ID: 2, Name: "Bob", Points: 0.0},
		{ID: 3, Name: "Carol", Points: 0.5},
		{ID: 4, Name: "Dana", Points: 1.0, HadBye: true},
	}
	pairings := []Pairing{
		{RoundNumber: 1, WhiteID: 1, BlackID: 2, Result: ResultWhiteWin},
		{RoundNumber: 1, WhiteID: 4, IsBye: true, Result: ResultWhiteWin},
		{RoundNumber: 2, WhiteID: 3, BlackID: 1, Result: ResultDraw},
	}

	standings := ComputeStandings(players, pairings)
	if len(standings) != 4 {
		t.Fatalf("expected 4 standings, got %d", len(standings))
	}

	byName := make(map[string]Standing)
	for _, s := range standings {
		byName[s.Player.Name] = s
	}

	cases := []struct {
		player       string
		wantTiebreak float64
		wantGames    int
	}{
		// Alice faced Bob(0.0) and Carol(0.5)
		{player: "Alice", wantTiebreak: 0.5, wantGames: 2},
		// Bob faced Alice(1.5)
		{player: "Bob", wantTiebreak: 1.5, wantGames: 1},
		// Carol faced Alice(1.5)
		{player: "Carol", wantTiebreak: 1.5, wantGames: 1},
		// Dana's bye contributes no opponent
		{player: "Dana", wantTiebreak: 0.0, wantGames: 1},
	}
	for _, c := range cases {
		s, ok := byName[c.player]
		if !ok {
			t.Fatalf("missing standing for %v", c.player)
		}
		if s.Tiebreak != c.wantTiebreak {
			t.Errorf("%v tiebreak = %v; want %v", c.player, s.Tiebreak,
				c.wantTiebreak)
		}
		if s.GamesPlayed != c.wantGames {
			t.Errorf("%v games = %v; want %v", c.player, s.GamesPlayed,
				c.wantGames)
		}
	}
}

func TestComputeStandingsRankingOrder(t *testing.T) {
	players := []Player{
		{ID: 1, Name: "Zoe", Points: 1.0},
		{ID: 2, Name: "Amy", Points: 1.0},
		{ID: 3, Name: "Mia", Points: 2.0},
		{ID: 4, Name: "Kim", Points: 0.0},
	}
	// Zoe faced Mia(2.0); Amy faced Kim(0.0): equal points, Zoe wins
	// the tiebreak.
	pairings := []Pairing{
		{RoundNumber: 1, WhiteID: 3, BlackID: 1, Result: ResultWhiteWin},
		{RoundNumber: 1, WhiteID: 2, BlackID: 4, Result: ResultWhiteWin},
	}

	standings := ComputeStandings(players, pairings)
	wantOrder := []string{"Mia", "Zoe", "Amy", "Kim"}
	for i, want := range wantOrder {
		if standings[i].Player.Name != want {
			t.Errorf("standings[%d] = %v; want %v", i,
				standings[i].Player.Name, want)
		}
	}
}

func TestComputeStandingsNameBreaksFullTies(t *testing.T) {
	players := []Player{
		{ID: 1, Name: "Ben", Points: 0.5},
		{ID: 2, Name: "Ann", Points: 0.5},
	}
	pairings := []Pairing{
		{RoundNumber: 1, WhiteID: 1, BlackID: 2, Result: ResultDraw},
	}

	standings := ComputeStandings(players, pairings)
	if standings[0].Player.Name != "Ann" || standings[1].Player.Name != "Ben" {
		t.Errorf("expected name-ascending order on full tie, got %v then %v",
			standings[0].Player.Name, standings[1].Player.Name)
	}
}

/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// memStore is an in-memory Store for engine tests. Transactions copy
// the full state and write it back on Commit, so a rolled back unit of
// work leaves no partial mutation behind.
type memStore struct {
	tournaments map[int64]Tournament
	players     map[int64]Player
	pairings    map[int64]Pairing
	nextID      int64
}

func newMemStore() *memStore {
	return &memStore{
		tournaments: make(map[int64]Tournament),
		players:     make(map[int64]Player),
		pairings:    make(map[int64]Pairing),
		nextID:      1,
	}
}

func (s *memStore) addTournament(name string) int64 {
	id := s.nextID
	s.nextID++
	s.tournaments[id] = Tournament{ID: id, Name: name}
	return id
}

func (s *memStore) addPlayer(tournamentID int64, name string) int64 {
	id := s.nextID
	s.nextID++
	s.players[id] = Player{ID: id, TournamentID: tournamentID, Name: name}
	return id
}

func (s *memStore) Begin(ctx context.Context) (Tx, error) {
	tx := &memTx{store: s,
		players:  make(map[int64]Player, len(s.players)),
		pairings: make(map[int64]Pairing, len(s.pairings)),
		nextID:   s.nextID,
	}
	for id, p := range s.players {
		tx.players[id] = p
	}
	for id, p := range s.pairings {
		tx.pairings[id] = p
	}
	return tx, nil
}

type memTx struct {
	store    *memStore
	players  map[int64]Player
	pairings map[int64]Pairing
	nextID   int64
	done     bool
}

func (t *memTx) Tournament(id int64) (Tournament, error) {
	tourney, ok := t.store.tournaments[id]
	if !ok {
		return Tournament{}, fmt.Errorf("%w: id %v", ErrTournamentNotFound, id)
	}
	return tourney, nil
}

func (t *memTx) Players(tournamentID int64) ([]Player, error) {
	var ret []Player
	for _, p := range t.players {
		if p.TournamentID == tournamentID {
			ret = append(ret, p)
		}
	}
	sortRoster(ret)
	return ret, nil
}

func (t *memTx) UpdatePlayer(p Player) error {
	if _, ok := t.players[p.ID]; !ok {
		return fmt.Errorf("%w: id %v", ErrPlayerNotFound, p.ID)
	}
	t.players[p.ID] = p
	return nil
}

func (t *memTx) Pairings(tournamentID int64) ([]Pairing, error) {
	var ret []Pairing
	for id := int64(1); id < t.nextID; id++ {
		if p, ok := t.pairings[id]; ok && p.TournamentID == tournamentID {
			ret = append(ret, p)
		}
	}
	return ret, nil
}

func (t *memTx) Pairing(id int64) (Pairing, error) {
	p, ok := t.pairings[id]
	if !ok {
		return Pairing{}, fmt.Errorf("%w: id %v", ErrPairingNotFound, id)
	}
	return p, nil
}

func (t *memTx) InsertPairing(p Pairing) (int64, error) {
	p.ID = t.nextID
	t.nextID++
	t.pairings[p.ID] = p
	return p.ID, nil
}

func (t *memTx) UpdatePairingResult(id int64, r Result) error {
	p, ok := t.pairings[id]
	if !ok {
		return fmt.Errorf("%w: id %v", ErrPairingNotFound, id)
	}
	p.Result = r
	t.pairings[id] = p
	return nil
}

func (t *memTx) Commit() error {
	t.store.players = t.players
	t.store.pairings = t.pairings
	t.store.nextID = t.nextID
	t.done = true
	return nil
}

func (t *memTx) Rollback() error {
	t.done = true
	return nil
}

func setupTournament(names ...string) (*memStore, *Engine, int64) {
	store := newMemStore()
	tid := store.addTournament("City Scholastic Open")
	for _, name := range names {
		store.addPlayer(tid, name)
	}
	return store, NewEngine(store), tid
}

// The worked five player example: P5 gets the bye and moves to 1
// point; entering a draw then correcting to a white win leaves exactly
// the corrected scores.
func TestEngineFivePlayerExample(t *testing.T) {
	ctx := context.Background()
	store, engine, tid := setupTournament("P1", "P2", "P3", "P4", "P5")

	pairings, err := engine.GenerateNextRound(ctx, tid)
	if err != nil {
		t.Fatalf("GenerateNextRound returned error: %v", err)
	}
	if len(pairings) != 3 {
		t.Fatalf("expected 3 pairings, got %d", len(pairings))
	}

	var byeID int64
	for _, p := range pairings {
		if p.IsBye {
			byeID = p.WhiteID
		}
	}
	byePlayer := store.players[byeID]
	if byePlayer.Name != "P5" {
		t.Errorf("bye went to %v; want P5", byePlayer.Name)
	}
	if byePlayer.Points != 1.0 || !byePlayer.HadBye {
		t.Errorf("bye recipient state = %v points, hadBye=%v; want 1.0, true",
			byePlayer.Points, byePlayer.HadBye)
	}

	// pairing (P1, P2): draw, then corrected to white win
	game := pairings[0]
	if err := engine.SetPairingResult(ctx, game.ID, ResultDraw); err != nil {
		t.Fatalf("SetPairingResult(draw) returned error: %v", err)
	}
	if got := store.players[game.WhiteID].Points; got != 0.5 {
		t.Errorf("white points after draw = %v; want 0.5", got)
	}
	if got := store.players[game.BlackID].Points; got != 0.5 {
		t.Errorf("black points after draw = %v; want 0.5", got)
	}

	if err := engine.SetPairingResult(ctx, game.ID, ResultWhiteWin); err != nil {
		t.Fatalf("SetPairingResult(1-0) returned error: %v", err)
	}
	if got := store.players[game.WhiteID].Points; got != 1.0 {
		t.Errorf("white points after correction = %v; want 1.0", got)
	}
	if got := store.players[game.BlackID].Points; got != 0.0 {
		t.Errorf("black points after correction = %v; want 0.0", got)
	}
}

// Correcting A then B must equal setting B directly.
func TestEngineResultCorrectionNoDoubleCount(t *testing.T) {
	ctx := context.Background()
	storeA, engineA, tidA := setupTournament("P1", "P2")
	storeB, engineB, tidB := setupTournament("P1", "P2")

	pairingsA, err := engineA.GenerateNextRound(ctx, tidA)
	if err != nil {
		t.Fatalf("GenerateNextRound returned error: %v", err)
	}
	pairingsB, err := engineB.GenerateNextRound(ctx, tidB)
	if err != nil {
		t.Fatalf("GenerateNextRound returned error: %v", err)
	}

	if err := engineA.SetPairingResult(ctx, pairingsA[0].ID,
		ResultBlackWin); err != nil {
		t.Fatal(err)
	}
	if err := engineA.SetPairingResult(ctx, pairingsA[0].ID,
		ResultDraw); err != nil {
		t.Fatal(err)
	}
	if err := engineB.SetPairingResult(ctx, pairingsB[0].ID,
		ResultDraw); err != nil {
		t.Fatal(err)
	}

	for _, id := range []int64{pairingsA[0].WhiteID, pairingsA[0].BlackID} {
		if storeA.players[id].Points != storeB.players[id].Points {
			t.Errorf("player %d: corrected path %v points, direct path %v",
				id, storeA.players[id].Points, storeB.players[id].Points)
		}
	}
}

func TestEngineSetResultErrors(t *testing.T) {
	ctx := context.Background()
	_, engine, tid := setupTournament("P1", "P2", "P3")

	pairings, err := engine.GenerateNextRound(ctx, tid)
	if err != nil {
		t.Fatalf("GenerateNextRound returned error: %v", err)
	}
	var game, bye Pairing
	for _, p := range pairings {
		if p.IsBye {
			bye = p
		} else {
			game = p
		}
	}

	cases := []struct {
		name      string
		pairingID int64
		result    Result
		wantErr   error
	}{
		{
			name:      "unknown pairing",
			pairingID: 9999,
			result:    ResultDraw,
			wantErr:   ErrPairingNotFound,
		},
		{
			name:      "bye result immutable",
			pairingID: bye.ID,
			result:    ResultDraw,
			wantErr:   ErrImmutableByeResult,
		},
		{
			name:      "pending not settable",
			pairingID: game.ID,
			result:    ResultPending,
			wantErr:   ErrInvalidResult,
		},
		{
			name:      "out of range result",
			pairingID: game.ID,
			result:    Result(42),
			wantErr:   ErrInvalidResult,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := engine.SetPairingResult(ctx, c.pairingID, c.result)
			if !errors.Is(err, c.wantErr) {
				t.Errorf("SetPairingResult = %v; want %v", err, c.wantErr)
			}
		})
	}
}

func TestEngineGenerateErrors(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := NewEngine(store)

	if _, err := engine.GenerateNextRound(ctx, 77); !errors.Is(err,
		ErrTournamentNotFound) {
		t.Errorf("expected ErrTournamentNotFound, got %v", err)
	}

	tid := store.addTournament("Lonely Open")
	store.addPlayer(tid, "Solo")
	if _, err := engine.GenerateNextRound(ctx, tid); !errors.Is(err,
		ErrInvalidRoster) {
		t.Errorf("expected ErrInvalidRoster, got %v", err)
	}
}

// A failed generation must leave no pairings and no bye award behind.
func TestEngineGenerateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	engine := NewEngine(store)
	tid := store.addTournament("Lonely Open")
	store.addPlayer(tid, "Solo")

	_, err := engine.GenerateNextRound(ctx, tid)
	if err == nil {
		t.Fatal("expected error for single-player roster")
	}
	if len(store.pairings) != 0 {
		t.Errorf("expected no pairings after rollback, got %d",
			len(store.pairings))
	}
	for _, p := range store.players {
		if p.Points != 0 || p.HadBye {
			t.Errorf("player state mutated after rollback: %+v", p)
		}
	}
}

func TestEngineRoundNumbersIncrease(t *testing.T) {
	ctx := context.Background()
	_, engine, tid := setupTournament("P1", "P2", "P3", "P4")

	for round := 1; round <= 3; round++ {
		pairings, err := engine.GenerateNextRound(ctx, tid)
		if err != nil {
			t.Fatalf("round %d: GenerateNextRound returned error: %v", round,
				err)
		}
		for _, p := range pairings {
			if p.RoundNumber != round {
				t.Errorf("pairing round = %d; want %d", p.RoundNumber, round)
			}
		}
	}
}

func TestEngineComputeStandings(t *testing.T) {
	ctx := context.Background()
	_, engine, tid := setupTournament("P1", "P2", "P3", "P4")

	pairings, err := engine.GenerateNextRound(ctx, tid)
	if err != nil {
		t.Fatalf("GenerateNextRound returned error: %v", err)
	}
	if err := engine.SetPairingResult(ctx, pairings[0].ID,
		ResultWhiteWin); err != nil {
		t.Fatal(err)
	}
	if err := engine.SetPairingResult(ctx, pairings[1].ID,
		ResultDraw); err != nil {
		t.Fatal(err)
	}

	standings, err := engine.ComputeStandings(ctx, tid)
	if err != nil {
		t.Fatalf("ComputeStandings returned error: %v", err)
	}
	if len(standings) != 4 {
		t.Fatalf("expected 4 standings, got %d", len(standings))
	}
	if standings[0].Player.Name != "P1" || standings[0].Points != 1.0 {
		t.Errorf("leader = %v with %v points; want P1 with 1.0",
			standings[0].Player.Name, standings[0].Points)
	}

	if _, err := engine.ComputeStandings(ctx, 9999); !errors.Is(err,
		ErrTournamentNotFound) {
		t.Errorf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestEngineExportSnapshot(t *testing.T) {
	ctx := context.Background()
	_, engine, tid := setupTournament("P1", "P2", "P3")

	if _, err := engine.GenerateNextRound(ctx, tid); err != nil {
		t.Fatalf("GenerateNextRound returned error: %v", err)
	}

	snap, err := engine.ExportSnapshot(ctx, tid)
	if err != nil {
		t.Fatalf("ExportSnapshot returned error: %v", err)
	}
	if snap.Tournament.ID != tid {
		t.Errorf("snapshot tournament id = %v; want %v", snap.Tournament.ID,
			tid)
	}
	if len(snap.Players) != 3 {
		t.Errorf("snapshot players = %d; want 3", len(snap.Players))
	}
	if len(snap.Pairings) != 2 {
		t.Errorf("snapshot pairings = %d; want 2 (1 game + bye)",
			len(snap.Pairings))
	}
}

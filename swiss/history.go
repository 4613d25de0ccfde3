/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// HistoryIndex is a read-only view over a tournament's past pairings:
// which unordered player pairs have already met and who has already
// been awarded a bye. It is rebuilt from scratch on every pairing
// generation call; history only grows between calls.
type HistoryIndex struct {
	met  map[pairKey]bool
	byes map[int64]bool
}

// pairKey identifies an unordered player pair; lo < hi.
type pairKey struct {
	lo, hi int64
}

func keyFor(a, b int64) pairKey {
	if a < b {
		return pairKey{lo: a, hi: b}
	}
	return pairKey{lo: b, hi: a}
}

// BuildHistoryIndex constructs the index from the full list of prior
// pairings for a tournament.
func BuildHistoryIndex(pairings []Pairing) *HistoryIndex {
	idx := &HistoryIndex{
		met:  make(map[pairKey]bool),
		byes: make(map[int64]bool),
	}
	for _, p := range pairings {
		if p.IsBye {
			idx.byes[p.WhiteID] = true
			continue
		}
		idx.met[keyFor(p.WhiteID, p.BlackID)] = true
	}

	return idx
}

// HaveMet reports whether the two players have faced each other in any
// prior round, regardless of which color each held.
func (idx *HistoryIndex) HaveMet(a, b int64) bool {
	return idx.met[keyFor(a, b)]
}

// HasHadBye reports whether the player has already been awarded a bye
// this tournament.
func (idx *HistoryIndex) HasHadBye(playerID int64) bool {
	return idx.byes[playerID]
}

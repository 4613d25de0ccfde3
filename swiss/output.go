/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"strings"

	"github.com/mikeb26/scholastic-swiss-td/internal"
)

// BuildPairingsOutput formats one round's pairings into an aligned
// string output.
func BuildPairingsOutput(players []Player, pairings []Pairing) string {
	if len(pairings) == 0 {
		return "No pairings have been generated yet\n"
	}

	byID := make(map[int64]Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	nameOf := func(id int64) string {
		if p, ok := byID[id]; ok {
			return fmt.Sprintf("%s(%v)", p.Name,
				internal.ScoreToString(p.Points))
		}
		return fmt.Sprintf("player:%d", id)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %v Pairings:\n\n",
		pairings[0].RoundNumber))

	type row struct{ board, white, black, result string }
	var rows []row
	boardNum := 1
	for _, p := range pairings {
		var r row
		r.white = nameOf(p.WhiteID)
		if p.IsBye {
			r.board = "n/a"
			r.black = "BYE(1)"
		} else {
			r.board = fmt.Sprintf("%d.", boardNum)
			boardNum++
			r.black = nameOf(p.BlackID)
		}
		if p.Result != ResultPending {
			r.result = p.Result.String()
		}
		rows = append(rows, r)
	}

	// Compute column widths
	maxB, maxW, maxBl, maxR := len("Board"), len("White"), len("Black"),
		len("Result")
	for _, r := range rows {
		if l := len(r.board); l > maxB {
			maxB = l
		}
		if l := len(r.white); l > maxW {
			maxW = l
		}
		if l := len(r.black); l > maxBl {
			maxBl = l
		}
		if l := len(r.result); l > maxR {
			maxR = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxB, "Board",
		maxW, "White", maxBl, "Black", maxR, "Result"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxB, r.board,
			maxW, r.white, maxBl, r.black, maxR, r.result))
	}
	sb.WriteString("\n")

	return sb.String()
}

// BuildStandingsOutput formats standings into an aligned string
// output. Players sharing identical points and tiebreak share a place;
// the repeated rank cell is left blank as on a wallchart.
func BuildStandingsOutput(standings []Standing) string {
	if len(standings) == 0 {
		return "Cannot determine standings without a roster\n"
	}

	var sb strings.Builder
	sb.WriteString("Standings:\n\n")

	type row struct{ rank, player, score, tiebreak, games string }
	var rows []row
	priorPoints, priorTb := -1.0, -1.0
	for idx, s := range standings {
		var rank string
		if idx != 0 && s.Points == priorPoints && s.Tiebreak == priorTb {
			rank = ""
		} else {
			rank = fmt.Sprintf("%v.", idx+1)
			priorPoints = s.Points
			priorTb = s.Tiebreak
		}
		rows = append(rows, row{
			rank:     rank,
			player:   s.Player.Name,
			score:    internal.ScoreToString(s.Points),
			tiebreak: internal.ScoreToString(s.Tiebreak),
			games:    fmt.Sprintf("%d", s.GamesPlayed),
		})
	}

	// Compute column widths
	maxP, maxN, maxS := len("Place"), len("Name"), len("Score")
	maxT, maxG := len("Tiebreak"), len("Games")
	for _, r := range rows {
		if l := len(r.rank); l > maxP {
			maxP = l
		}
		if l := len(r.player); l > maxN {
			maxN = l
		}
		if l := len(r.score); l > maxS {
			maxS = l
		}
		if l := len(r.tiebreak); l > maxT {
			maxT = l
		}
		if l := len(r.games); l > maxG {
			maxG = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP,
		"Place", maxN, "Name", maxS, "Score", maxT, "Tiebreak", maxG,
		"Games"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP,
			r.rank, maxN, r.player, maxS, r.score, maxT, r.tiebreak, maxG,
			r.games))
	}
	sb.WriteString("\n")

	return sb.String()
}

// BuildRosterOutput formats the tournament roster into an aligned
// string output, sorted by the canonical Swiss ordering.
func BuildRosterOutput(players []Player) string {
	if len(players) == 0 {
		return "No players registered\n"
	}

	roster := append([]Player(nil), players...)
	sortRoster(roster)

	type row struct{ player, grade, school, score string }
	var rows []row
	for _, p := range roster {
		rows = append(rows, row{
			player: p.Name,
			grade:  p.Grade,
			school: p.School,
			score:  internal.ScoreToString(p.Points),
		})
	}

	// Compute column widths
	maxP, maxG, maxSc, maxS := len("Player"), len("Grade"), len("School"),
		len("Score")
	for _, r := range rows {
		if l := len(r.player); l > maxP {
			maxP = l
		}
		if l := len(r.grade); l > maxG {
			maxG = l
		}
		if l := len(r.school); l > maxSc {
			maxSc = l
		}
		if l := len(r.score); l > maxS {
			maxS = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxP, "Player",
		maxG, "Grade", maxSc, "School", maxS, "Score"))
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxP,
			r.player, maxG, r.grade, maxSc, r.school, maxS, r.score))
	}
	sb.WriteString("\n")

	return sb.String()
}

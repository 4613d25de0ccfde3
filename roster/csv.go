/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roster imports tournament rosters from CSV files and school
// registration web pages, and exports standings for publication.
package roster

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/mikeb26/scholastic-swiss-td/internal"
	"github.com/mikeb26/scholastic-swiss-td/swiss"
)

// Registrar is the subset of the store the importers need.
type Registrar interface {
	AddPlayer(ctx context.Context, tournamentID int64, name, grade,
		school string) (int64, error)
}

// Entry is one imported roster row prior to registration.
type Entry struct {
	Name   string
	Grade  string
	School string
}

// ImportCSV reads roster entries from r and registers each player.
// Expected columns are name, grade, school; a header row is detected
// and skipped. Returns the number of players registered.
func ImportCSV(ctx context.Context, reg Registrar, tournamentID int64,
	r io.Reader) (int, error) {

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	count := 0
	for lineNum := 1; ; lineNum++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("unable to read roster csv: %w", err)
		}
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		if lineNum == 1 && strings.EqualFold(strings.TrimSpace(record[0]),
			"name") {
			continue
		}

		entry := recordToEntry(record)
		if _, err := reg.AddPlayer(ctx, tournamentID, entry.Name,
			entry.Grade, entry.School); err != nil {
			return count, fmt.Errorf("unable to register %v (line %v): %w",
				entry.Name, lineNum, err)
		}
		count++
	}

	return count, nil
}

func recordToEntry(record []string) Entry {
	entry := Entry{
		Name: internal.NormalizeName(record[0]),
	}
	if len(record) > 1 {
		entry.Grade = strings.TrimSpace(record[1])
	}
	if len(record) > 2 {
		entry.School = strings.TrimSpace(record[2])
	}

	return entry
}

// ExportStandingsCSV writes standings to w as CSV, one ranked row per
// player.
func ExportStandingsCSV(w io.Writer, standings []swiss.Standing) error {
	cw := csv.NewWriter(w)

	header := []string{"place", "name", "grade", "school", "points",
		"tiebreak", "games"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("unable to write standings csv: %w", err)
	}
	for idx, s := range standings {
		row := []string{
			fmt.Sprintf("%d", idx+1),
			s.Player.Name,
			s.Player.Grade,
			s.Player.School,
			fmt.Sprintf("%g", s.Points),
			fmt.Sprintf("%g", s.Tiebreak),
			fmt.Sprintf("%d", s.GamesPlayed),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("unable to write standings csv: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

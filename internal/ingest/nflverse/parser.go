package nflverse

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/squidworks/gridiron/internal/dataset"
)

// Column aliases: header-based lookup is more robust than fixed indices, and
// nflverse has renamed several columns across release generations.
var columnAliases = map[string][]string{
	"player_id":   {"player_id", "gsis_id"},
	"player_name": {"player_name", "player_display_name"},
	"season":      {"season"},
	"week":        {"week"},
	"position":    {"position", "position_group"},

	dataset.StatPassingYards:        {"passing_yards"},
	dataset.StatPassingTDs:          {"passing_tds"},
	dataset.StatInterceptions:       {"interceptions", "passing_interceptions"},
	dataset.StatRushingYards:        {"rushing_yards"},
	dataset.StatRushingTDs:          {"rushing_tds"},
	dataset.StatReceptions:          {"receptions"},
	dataset.StatReceivingYards:      {"receiving_yards"},
	dataset.StatReceivingTDs:        {"receiving_tds"},
	dataset.StatFumblesLost:         {"fumbles_lost", "sack_fumbles_lost"},
	dataset.StatTwoPointConversions: {"two_point_conversions", "passing_2pt_conversions"},
}

// ParseSeasonCSV parses an nflverse player-stats CSV into game records.
// Positions are normalized at this boundary, including stringified list
// artifacts; missing stat columns are tolerated and stay absent on the
// record. Rows without a player id are skipped.
func ParseSeasonCSV(r io.Reader, season int) ([]dataset.GameRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	col := func(canonical string) int {
		for _, alias := range columnAliases[canonical] {
			if i, ok := index[alias]; ok {
				return i
			}
		}
		return -1
	}

	idCol := col("player_id")
	if idCol < 0 {
		return nil, fmt.Errorf("player stats csv is missing a player_id column")
	}
	nameCol := col("player_name")
	seasonCol := col("season")
	weekCol := col("week")
	posCol := col("position")

	statCols := make(map[string]int, len(dataset.StatCategories))
	for _, cat := range dataset.StatCategories {
		statCols[cat] = col(cat)
	}

	var records []dataset.GameRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		rec := dataset.GameRecord{
			PlayerID: cell(row, idCol),
			Season:   season,
			Position: dataset.PositionUnknown,
		}
		if rec.PlayerID == "" {
			continue
		}
		rec.PlayerName = cell(row, nameCol)
		if s := cell(row, seasonCol); s != "" {
			if v, err := strconv.Atoi(s); err == nil {
				rec.Season = v
			}
		}
		if w := cell(row, weekCol); w != "" {
			if v, err := strconv.Atoi(w); err == nil {
				rec.Week = v
			}
		}
		if p := cell(row, posCol); p != "" {
			rec.Position = dataset.NormalizePosition(p)
		}

		for cat, i := range statCols {
			raw := cell(row, i)
			if raw == "" || raw == "NA" {
				continue
			}
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				rec.SetStat(cat, v)
			}
		}

		records = append(records, rec)
	}
	return records, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

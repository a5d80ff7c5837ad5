package dataset

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is a player's normalized position. Upstream data is messy: the
// column may hold a plain string, a single-element list, or nothing at all.
// Everything is collapsed to one of the known positions at the ingestion
// boundary; list-typed values never survive past parsing.
type Position string

const (
	PositionQB      Position = "QB"
	PositionRB      Position = "RB"
	PositionWR      Position = "WR"
	PositionTE      Position = "TE"
	PositionUnknown Position = "UNK"
)

// NormalizePosition collapses raw position values to a single Position.
// Handles stringified list artifacts such as "['RB']" that show up in
// exported tabular data.
func NormalizePosition(raw string) Position {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "[]")
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, `'" `)
	switch strings.ToUpper(s) {
	case "QB":
		return PositionQB
	case "RB":
		return PositionRB
	case "WR":
		return PositionWR
	case "TE":
		return PositionTE
	default:
		return PositionUnknown
	}
}

// UnmarshalJSON accepts a string, a list of strings (first element wins),
// or null.
func (p *Position) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = NormalizePosition(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		if len(list) == 0 {
			*p = PositionUnknown
		} else {
			*p = NormalizePosition(list[0])
		}
		return nil
	}
	if string(b) == "null" {
		*p = PositionUnknown
		return nil
	}
	return fmt.Errorf("position: cannot unmarshal %s", string(b))
}

// Stat category names shared by the scoring rules, the CSV codec, and the
// ingest parser.
const (
	StatPassingYards        = "passing_yards"
	StatPassingTDs          = "passing_tds"
	StatInterceptions       = "interceptions"
	StatRushingYards        = "rushing_yards"
	StatRushingTDs          = "rushing_tds"
	StatReceptions          = "receptions"
	StatReceivingYards      = "receiving_yards"
	StatReceivingTDs        = "receiving_tds"
	StatFumblesLost         = "fumbles_lost"
	StatTwoPointConversions = "two_point_conversions"
)

// StatCategories lists every known category in canonical column order.
var StatCategories = []string{
	StatPassingYards,
	StatPassingTDs,
	StatInterceptions,
	StatRushingYards,
	StatRushingTDs,
	StatReceptions,
	StatReceivingYards,
	StatReceivingTDs,
	StatFumblesLost,
	StatTwoPointConversions,
}

// GameRecord is one row per player per game. Stat categories are optional:
// a nil pointer means the category was absent from the source data and
// contributes zero fantasy points, never an error.
type GameRecord struct {
	PlayerID   string   `json:"player_id" parquet:"player_id"`
	PlayerName string   `json:"player_name" parquet:"player_name"`
	Season     int      `json:"season" parquet:"season"`
	Week       int      `json:"week" parquet:"week"`
	Position   Position `json:"position" parquet:"position"`

	PassingYards        *float64 `json:"passing_yards,omitempty" parquet:"passing_yards,optional"`
	PassingTDs          *float64 `json:"passing_tds,omitempty" parquet:"passing_tds,optional"`
	Interceptions       *float64 `json:"interceptions,omitempty" parquet:"interceptions,optional"`
	RushingYards        *float64 `json:"rushing_yards,omitempty" parquet:"rushing_yards,optional"`
	RushingTDs          *float64 `json:"rushing_tds,omitempty" parquet:"rushing_tds,optional"`
	Receptions          *float64 `json:"receptions,omitempty" parquet:"receptions,optional"`
	ReceivingYards      *float64 `json:"receiving_yards,omitempty" parquet:"receiving_yards,optional"`
	ReceivingTDs        *float64 `json:"receiving_tds,omitempty" parquet:"receiving_tds,optional"`
	FumblesLost         *float64 `json:"fumbles_lost,omitempty" parquet:"fumbles_lost,optional"`
	TwoPointConversions *float64 `json:"two_point_conversions,omitempty" parquet:"two_point_conversions,optional"`

	// FantasyPoints is computed by the scoring engine; zero until scored.
	FantasyPoints float64 `json:"fantasy_points" parquet:"fantasy_points"`
}

// Stat returns the value of a category and whether it is present.
func (r *GameRecord) Stat(name string) (float64, bool) {
	var p *float64
	switch name {
	case StatPassingYards:
		p = r.PassingYards
	case StatPassingTDs:
		p = r.PassingTDs
	case StatInterceptions:
		p = r.Interceptions
	case StatRushingYards:
		p = r.RushingYards
	case StatRushingTDs:
		p = r.RushingTDs
	case StatReceptions:
		p = r.Receptions
	case StatReceivingYards:
		p = r.ReceivingYards
	case StatReceivingTDs:
		p = r.ReceivingTDs
	case StatFumblesLost:
		p = r.FumblesLost
	case StatTwoPointConversions:
		p = r.TwoPointConversions
	default:
		return 0, false
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// SetStat stores a category value; unknown names are ignored and reported
// via the return value.
func (r *GameRecord) SetStat(name string, v float64) bool {
	val := v
	switch name {
	case StatPassingYards:
		r.PassingYards = &val
	case StatPassingTDs:
		r.PassingTDs = &val
	case StatInterceptions:
		r.Interceptions = &val
	case StatRushingYards:
		r.RushingYards = &val
	case StatRushingTDs:
		r.RushingTDs = &val
	case StatReceptions:
		r.Receptions = &val
	case StatReceivingYards:
		r.ReceivingYards = &val
	case StatReceivingTDs:
		r.ReceivingTDs = &val
	case StatFumblesLost:
		r.FumblesLost = &val
	case StatTwoPointConversions:
		r.TwoPointConversions = &val
	default:
		return false
	}
	return true
}

// Prediction is one ranked projection row for an upcoming season. Records
// are created once per run and never mutated afterwards.
type Prediction struct {
	PlayerID              string  `json:"player_id" parquet:"player_id"`
	PlayerName            string  `json:"player_name" parquet:"player_name"`
	Position              string  `json:"position" parquet:"position"`
	PredictedAvgFPPerGame float64 `json:"predicted_avg_fp_per_game" parquet:"predicted_avg_fp_per_game"`
	PredictedSeasonFP     float64 `json:"predicted_season_fp" parquet:"predicted_season_fp"`
	RecentAvgFP           float64 `json:"recent_avg_fp" parquet:"recent_avg_fp"`
	Trend                 float64 `json:"trend" parquet:"trend"`
	ConsistencyScore      float64 `json:"consistency_score" parquet:"consistency_score"`
	SeasonsAnalyzed       int     `json:"seasons_analyzed" parquet:"seasons_analyzed"`
	LastSeason            int     `json:"last_season" parquet:"last_season"`
}

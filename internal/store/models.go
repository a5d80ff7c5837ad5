package store

import (
	"database/sql"
	"time"

	"github.com/squidworks/gridiron/internal/dataset"
)

// PlayerGameStatRow is one ingested per-game stat line. Stat columns are
// nullable: NULL means the category was absent from the source data.
type PlayerGameStatRow struct {
	ID         int64  `db:"id"`
	PlayerID   string `db:"player_id"`
	PlayerName string `db:"player_name"`
	Season     int    `db:"season"`
	Week       int    `db:"week"`
	Position   string `db:"position"`

	PassingYards        sql.NullFloat64 `db:"passing_yards"`
	PassingTDs          sql.NullFloat64 `db:"passing_tds"`
	Interceptions       sql.NullFloat64 `db:"interceptions"`
	RushingYards        sql.NullFloat64 `db:"rushing_yards"`
	RushingTDs          sql.NullFloat64 `db:"rushing_tds"`
	Receptions          sql.NullFloat64 `db:"receptions"`
	ReceivingYards      sql.NullFloat64 `db:"receiving_yards"`
	ReceivingTDs        sql.NullFloat64 `db:"receiving_tds"`
	FumblesLost         sql.NullFloat64 `db:"fumbles_lost"`
	TwoPointConversions sql.NullFloat64 `db:"two_point_conversions"`

	FantasyPoints float64   `db:"fantasy_points"`
	CreatedAt     time.Time `db:"created_at"`
}

// ToRecord converts a database row to the pipeline's record type.
func (r *PlayerGameStatRow) ToRecord() dataset.GameRecord {
	rec := dataset.GameRecord{
		PlayerID:      r.PlayerID,
		PlayerName:    r.PlayerName,
		Season:        r.Season,
		Week:          r.Week,
		Position:      dataset.NormalizePosition(r.Position),
		FantasyPoints: r.FantasyPoints,
	}
	setIfValid(&rec, dataset.StatPassingYards, r.PassingYards)
	setIfValid(&rec, dataset.StatPassingTDs, r.PassingTDs)
	setIfValid(&rec, dataset.StatInterceptions, r.Interceptions)
	setIfValid(&rec, dataset.StatRushingYards, r.RushingYards)
	setIfValid(&rec, dataset.StatRushingTDs, r.RushingTDs)
	setIfValid(&rec, dataset.StatReceptions, r.Receptions)
	setIfValid(&rec, dataset.StatReceivingYards, r.ReceivingYards)
	setIfValid(&rec, dataset.StatReceivingTDs, r.ReceivingTDs)
	setIfValid(&rec, dataset.StatFumblesLost, r.FumblesLost)
	setIfValid(&rec, dataset.StatTwoPointConversions, r.TwoPointConversions)
	return rec
}

func setIfValid(rec *dataset.GameRecord, cat string, v sql.NullFloat64) {
	if v.Valid {
		rec.SetStat(cat, v.Float64)
	}
}

// NullStat converts an optional record category back to its SQL form.
func NullStat(rec *dataset.GameRecord, cat string) sql.NullFloat64 {
	if v, ok := rec.Stat(cat); ok {
		return sql.NullFloat64{Float64: v, Valid: true}
	}
	return sql.NullFloat64{}
}

// PredictionRun is one persisted batch of predictions.
type PredictionRun struct {
	RunID        int64     `db:"run_id"`
	TargetSeason int       `db:"target_season"`
	PlayerCount  int       `db:"player_count"`
	CreatedAt    time.Time `db:"created_at"`
}

package repository

import (
	"context"
	"fmt"

	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/store"
)

// StatsRepository handles ingested player game stat rows.
type StatsRepository struct {
	db *store.Database
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *store.Database) *StatsRepository {
	return &StatsRepository{db: db}
}

const statColumns = `player_id, player_name, season, week, position,
	passing_yards, passing_tds, interceptions, rushing_yards, rushing_tds,
	receptions, receiving_yards, receiving_tds, fumbles_lost, two_point_conversions,
	fantasy_points`

// UpsertGameRecords writes game records, replacing existing rows for the
// same (player, season, week).
func (r *StatsRepository) UpsertGameRecords(ctx context.Context, records []dataset.GameRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO player_game_stats (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (player_id, season, week) DO UPDATE SET
			player_name = EXCLUDED.player_name,
			position = EXCLUDED.position,
			passing_yards = EXCLUDED.passing_yards,
			passing_tds = EXCLUDED.passing_tds,
			interceptions = EXCLUDED.interceptions,
			rushing_yards = EXCLUDED.rushing_yards,
			rushing_tds = EXCLUDED.rushing_tds,
			receptions = EXCLUDED.receptions,
			receiving_yards = EXCLUDED.receiving_yards,
			receiving_tds = EXCLUDED.receiving_tds,
			fumbles_lost = EXCLUDED.fumbles_lost,
			two_point_conversions = EXCLUDED.two_point_conversions,
			fantasy_points = EXCLUDED.fantasy_points
	`, statColumns)

	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		_, err := stmt.ExecContext(ctx,
			rec.PlayerID, rec.PlayerName, rec.Season, rec.Week, string(rec.Position),
			store.NullStat(rec, dataset.StatPassingYards),
			store.NullStat(rec, dataset.StatPassingTDs),
			store.NullStat(rec, dataset.StatInterceptions),
			store.NullStat(rec, dataset.StatRushingYards),
			store.NullStat(rec, dataset.StatRushingTDs),
			store.NullStat(rec, dataset.StatReceptions),
			store.NullStat(rec, dataset.StatReceivingYards),
			store.NullStat(rec, dataset.StatReceivingTDs),
			store.NullStat(rec, dataset.StatFumblesLost),
			store.NullStat(rec, dataset.StatTwoPointConversions),
			rec.FantasyPoints,
		)
		if err != nil {
			return fmt.Errorf("upserting stats for player %s season %d week %d: %w",
				rec.PlayerID, rec.Season, rec.Week, err)
		}
	}

	return tx.Commit()
}

// GetAllGameRecords loads every ingested game row as pipeline records.
func (r *StatsRepository) GetAllGameRecords(ctx context.Context) ([]dataset.GameRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, created_at
		FROM player_game_stats
		ORDER BY player_id, season, week
	`, statColumns)

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying game stats: %w", err)
	}
	defer rows.Close()

	var records []dataset.GameRecord
	for rows.Next() {
		var row store.PlayerGameStatRow
		err := rows.Scan(
			&row.ID, &row.PlayerID, &row.PlayerName, &row.Season, &row.Week, &row.Position,
			&row.PassingYards, &row.PassingTDs, &row.Interceptions,
			&row.RushingYards, &row.RushingTDs,
			&row.Receptions, &row.ReceivingYards, &row.ReceivingTDs,
			&row.FumblesLost, &row.TwoPointConversions,
			&row.FantasyPoints, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning game stats row: %w", err)
		}
		records = append(records, row.ToRecord())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game stats rows: %w", err)
	}
	return records, nil
}

// GetPlayerGameRecords loads one player's ingested game rows.
func (r *StatsRepository) GetPlayerGameRecords(ctx context.Context, playerID string) ([]dataset.GameRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, created_at
		FROM player_game_stats
		WHERE player_id = $1
		ORDER BY season, week
	`, statColumns)

	rows, err := r.db.DB().QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying game stats for player %s: %w", playerID, err)
	}
	defer rows.Close()

	var records []dataset.GameRecord
	for rows.Next() {
		var row store.PlayerGameStatRow
		err := rows.Scan(
			&row.ID, &row.PlayerID, &row.PlayerName, &row.Season, &row.Week, &row.Position,
			&row.PassingYards, &row.PassingTDs, &row.Interceptions,
			&row.RushingYards, &row.RushingTDs,
			&row.Receptions, &row.ReceivingYards, &row.ReceivingTDs,
			&row.FumblesLost, &row.TwoPointConversions,
			&row.FantasyPoints, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning game stats row: %w", err)
		}
		records = append(records, row.ToRecord())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game stats rows: %w", err)
	}
	return records, nil
}

// CountRows returns the number of ingested game rows.
func (r *StatsRepository) CountRows(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM player_game_stats").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting game stats rows: %w", err)
	}
	return count, nil
}

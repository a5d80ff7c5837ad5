package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/store"
)

// PredictionRepository persists prediction runs and their ranked rows.
type PredictionRepository struct {
	db *store.Database
}

// NewPredictionRepository creates a new prediction repository.
func NewPredictionRepository(db *store.Database) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// SaveRun stores a completed prediction run. Rank is the row's position in
// the sorted result set, starting at 1.
func (r *PredictionRepository) SaveRun(ctx context.Context, targetSeason int, preds []dataset.Prediction) (int64, error) {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRowContext(ctx,
		"INSERT INTO prediction_runs (target_season, player_count) VALUES ($1, $2) RETURNING run_id",
		targetSeason, len(preds),
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("inserting prediction run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO predictions (
			run_id, rank, player_id, player_name, position,
			predicted_avg_fp_per_game, predicted_season_fp, recent_avg_fp,
			trend, consistency_score, seasons_analyzed, last_season
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing prediction insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range preds {
		_, err := stmt.ExecContext(ctx,
			runID, i+1, p.PlayerID, p.PlayerName, p.Position,
			p.PredictedAvgFPPerGame, p.PredictedSeasonFP, p.RecentAvgFP,
			p.Trend, p.ConsistencyScore, p.SeasonsAnalyzed, p.LastSeason,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting prediction for player %s: %w", p.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// GetLatestRun returns the most recent run for a target season and its
// predictions in rank order. Returns sql.ErrNoRows when no run exists.
func (r *PredictionRepository) GetLatestRun(ctx context.Context, targetSeason int) (*store.PredictionRun, []dataset.Prediction, error) {
	run := &store.PredictionRun{}
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT run_id, target_season, player_count, created_at
		FROM prediction_runs
		WHERE target_season = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, targetSeason).Scan(&run.RunID, &run.TargetSeason, &run.PlayerCount, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying latest prediction run: %w", err)
	}

	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT player_id, player_name, position,
			predicted_avg_fp_per_game, predicted_season_fp, recent_avg_fp,
			trend, consistency_score, seasons_analyzed, last_season
		FROM predictions
		WHERE run_id = $1
		ORDER BY rank
	`, run.RunID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying predictions for run %d: %w", run.RunID, err)
	}
	defer rows.Close()

	var preds []dataset.Prediction
	for rows.Next() {
		var p dataset.Prediction
		err := rows.Scan(
			&p.PlayerID, &p.PlayerName, &p.Position,
			&p.PredictedAvgFPPerGame, &p.PredictedSeasonFP, &p.RecentAvgFP,
			&p.Trend, &p.ConsistencyScore, &p.SeasonsAnalyzed, &p.LastSeason,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning prediction row: %w", err)
		}
		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating prediction rows: %w", err)
	}
	return run, preds, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/squidworks/gridiron/internal/cache"
	"github.com/squidworks/gridiron/internal/config"
	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/predict"
	"github.com/squidworks/gridiron/internal/publisher"
	"github.com/squidworks/gridiron/internal/scoring"
	"github.com/squidworks/gridiron/internal/season"
	"github.com/squidworks/gridiron/internal/store"
	"github.com/squidworks/gridiron/internal/store/repository"
)

// RunNotifier receives completed-run events, typically a WebSocket hub.
type RunNotifier interface {
	NotifyRunCompleted(event publisher.RunEvent)
}

// PredictionService runs the prediction pipeline over stored game records
// and serves the results.
type PredictionService struct {
	statsRepo *repository.StatsRepository
	predRepo  *repository.PredictionRepository
	cache     *cache.RedisCache
	publisher *publisher.RedisStreamPublisher
	pipeline  *predict.Pipeline
	notifier  RunNotifier
	cfg       *config.Config
	log       *logrus.Logger
}

// NewPredictionService wires the service. cache, pub, and notifier are
// optional.
func NewPredictionService(db *store.Database, rc *cache.RedisCache, pub *publisher.RedisStreamPublisher, notifier RunNotifier, cfg *config.Config, log *logrus.Logger) *PredictionService {
	engine := scoring.NewEngine(scoring.Merged(cfg.Scoring))
	predictor := predict.NewPredictor(cfg.Predict.TargetSeason, cfg.Predict.TrendWeight, cfg.Predict.ConsistencyWeight)
	pipeline := predict.NewPipeline(engine, predictor, predict.Options{
		MinSeasonsPlayed: cfg.Predict.MinSeasonsPlayed,
		PositionFilters:  cfg.Predict.PositionFilters,
		TopN:             cfg.Output.TopNPlayers,
		Workers:          cfg.Predict.Workers,
	}, log)

	return &PredictionService{
		statsRepo: repository.NewStatsRepository(db),
		predRepo:  repository.NewPredictionRepository(db),
		cache:     rc,
		publisher: pub,
		pipeline:  pipeline,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
	}
}

// RunPredictions executes the full pipeline over every stored game record,
// persists the run, refreshes the cache, and emits a run event.
func (s *PredictionService) RunPredictions(ctx context.Context) ([]dataset.Prediction, error) {
	records, err := s.statsRepo.GetAllGameRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading game records: %w", err)
	}
	if len(records) == 0 {
		return nil, predict.ErrMissingInputData
	}

	preds, err := s.pipeline.Run(records)
	if err != nil {
		return nil, err
	}

	runID, err := s.predRepo.SaveRun(ctx, s.cfg.Predict.TargetSeason, preds)
	if err != nil {
		return nil, fmt.Errorf("saving prediction run: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetPredictions(ctx, s.cfg.Predict.TargetSeason, preds, s.cfg.Redis.ResultTTL); err != nil {
			s.log.WithError(err).Warn("failed to cache predictions")
		}
	}

	event := publisher.RunEvent{
		RunID:        runID,
		TargetSeason: s.cfg.Predict.TargetSeason,
		PlayerCount:  len(preds),
		TopPlayerID:  preds[0].PlayerID,
		TopSeasonFP:  preds[0].PredictedSeasonFP,
	}
	if s.publisher != nil {
		if err := s.publisher.PublishRunCompleted(ctx, event); err != nil {
			s.log.WithError(err).Warn("failed to publish run event")
		}
	}
	if s.notifier != nil {
		s.notifier.NotifyRunCompleted(event)
	}

	s.log.WithFields(logrus.Fields{
		"run_id":        runID,
		"target_season": s.cfg.Predict.TargetSeason,
		"players":       len(preds),
	}).Info("prediction run completed")
	return preds, nil
}

// LatestPredictions serves the most recent run, preferring the cache.
func (s *PredictionService) LatestPredictions(ctx context.Context) ([]dataset.Prediction, error) {
	if s.cache != nil {
		preds, hit, err := s.cache.GetPredictions(ctx, s.cfg.Predict.TargetSeason)
		if err != nil {
			s.log.WithError(err).Warn("prediction cache read failed")
		} else if hit {
			return preds, nil
		}
	}

	_, preds, err := s.predRepo.GetLatestRun(ctx, s.cfg.Predict.TargetSeason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, predict.ErrNoPredictions
	}
	if err != nil {
		return nil, err
	}
	return preds, nil
}

// TopPredictions returns the first n rows of the latest run; n <= 0 uses the
// configured default.
func (s *PredictionService) TopPredictions(ctx context.Context, n int) ([]dataset.Prediction, error) {
	preds, err := s.LatestPredictions(ctx)
	if err != nil {
		return nil, err
	}
	return s.pipeline.TopN(preds, n), nil
}

// SeasonLine is a JSON-safe seasonal summary; FPStd is null when undefined
// (fewer than 2 games).
type SeasonLine struct {
	Season           int      `json:"season"`
	Position         string   `json:"position"`
	TotalFP          float64  `json:"total_fp"`
	AvgFPPerGame     float64  `json:"avg_fp_per_game"`
	GamesPlayed      int      `json:"games_played"`
	FPStd            *float64 `json:"fp_std"`
	MinFP            float64  `json:"min_fp"`
	MaxFP            float64  `json:"max_fp"`
	ConsistencyScore float64  `json:"consistency_score"`
}

// PlayerTrend is a player's seasonal history plus their trend slope.
type PlayerTrend struct {
	PlayerID   string       `json:"player_id"`
	PlayerName string       `json:"player_name"`
	Trend      float64      `json:"trend"`
	Seasons    []SeasonLine `json:"seasons"`
}

// GetPlayerTrend aggregates one player's stored games and computes their
// cross-season trend slope.
func (s *PredictionService) GetPlayerTrend(ctx context.Context, playerID string) (*PlayerTrend, error) {
	summaries, err := s.playerSummaries(ctx, playerID)
	if err != nil {
		return nil, err
	}

	result := &PlayerTrend{
		PlayerID: playerID,
		Trend:    predict.TrendSlope(summaries),
		Seasons:  make([]SeasonLine, 0, len(summaries)),
	}
	for _, sum := range summaries {
		result.PlayerName = sum.PlayerName
		result.Seasons = append(result.Seasons, toSeasonLine(sum))
	}
	return result, nil
}

// GetPlayerSeasons returns a player's seasonal summaries.
func (s *PredictionService) GetPlayerSeasons(ctx context.Context, playerID string) ([]SeasonLine, error) {
	summaries, err := s.playerSummaries(ctx, playerID)
	if err != nil {
		return nil, err
	}
	lines := make([]SeasonLine, 0, len(summaries))
	for _, sum := range summaries {
		lines = append(lines, toSeasonLine(sum))
	}
	return lines, nil
}

func (s *PredictionService) playerSummaries(ctx context.Context, playerID string) ([]season.Summary, error) {
	records, err := s.statsRepo.GetPlayerGameRecords(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("loading game records for player %s: %w", playerID, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no stats found for player %s", playerID)
	}
	return s.pipeline.Summaries(records), nil
}

func toSeasonLine(sum season.Summary) SeasonLine {
	line := SeasonLine{
		Season:           sum.Season,
		Position:         string(sum.Position),
		TotalFP:          sum.TotalFP,
		AvgFPPerGame:     sum.AvgFPPerGame,
		GamesPlayed:      sum.GamesPlayed,
		MinFP:            sum.MinFP,
		MaxFP:            sum.MaxFP,
		ConsistencyScore: sum.ConsistencyScore,
	}
	if !math.IsNaN(sum.FPStd) {
		std := sum.FPStd
		line.FPStd = &std
	}
	return line
}

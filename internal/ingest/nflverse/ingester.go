package nflverse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/scoring"
	"github.com/squidworks/gridiron/internal/store/repository"
)

// Freshness describes the local dataset file relative to a max age.
type Freshness struct {
	Exists       bool
	Fresh        bool
	AgeHours     float64
	LastModified time.Time
	NeedsUpdate  bool
}

// Ingester downloads seasons of player stats, scores them, and writes both
// the flat dataset file and (when a repository is attached) the database
// rows. The stats repository is optional so the batch CLI can run file-only.
type Ingester struct {
	client    *Client
	engine    *scoring.Engine
	statsRepo *repository.StatsRepository
	dataDir   string
	log       *logrus.Logger
}

// NewIngester creates an ingester. statsRepo may be nil for file-only mode.
func NewIngester(client *Client, engine *scoring.Engine, statsRepo *repository.StatsRepository, dataDir string, log *logrus.Logger) *Ingester {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Ingester{
		client:    client,
		engine:    engine,
		statsRepo: statsRepo,
		dataDir:   dataDir,
		log:       log,
	}
}

// DatasetPath is where the flat player-stats dataset lives.
func (ing *Ingester) DatasetPath() string {
	return filepath.Join(ing.dataDir, "player_stats", "player_stats.parquet")
}

// CheckFreshness inspects the local dataset file against maxAge.
func (ing *Ingester) CheckFreshness(maxAge time.Duration) Freshness {
	status := Freshness{NeedsUpdate: true}

	info, err := os.Stat(ing.DatasetPath())
	if err != nil {
		return status
	}
	status.Exists = true
	status.LastModified = info.ModTime()

	age := time.Since(info.ModTime())
	status.AgeHours = age.Hours()
	status.Fresh = age < maxAge
	status.NeedsUpdate = !status.Fresh
	return status
}

// EnsureFresh makes sure the dataset file exists and is no older than
// maxAge, refetching when needed or when force is set. Returns the dataset
// path.
func (ing *Ingester) EnsureFresh(ctx context.Context, seasons []int, maxAge time.Duration, force bool) (string, error) {
	status := ing.CheckFreshness(maxAge)
	if status.Exists && status.Fresh && !force {
		ing.log.WithField("age_hours", fmt.Sprintf("%.1f", status.AgeHours)).
			Info("player stats dataset is fresh, skipping fetch")
		return ing.DatasetPath(), nil
	}

	if err := ing.Refresh(ctx, seasons); err != nil {
		return "", err
	}
	return ing.DatasetPath(), nil
}

// Refresh downloads the given seasons, scores the rows, and persists them.
// Seasons that are not published yet (404) are skipped with a warning; the
// refresh fails only when nothing at all could be fetched.
func (ing *Ingester) Refresh(ctx context.Context, seasons []int) error {
	var all []dataset.GameRecord
	fetched := 0

	for _, season := range seasons {
		records, err := ing.fetchSeason(ctx, season)
		if err != nil {
			ing.log.WithFields(logrus.Fields{
				"season": season,
				"error":  err,
			}).Warn("skipping season, fetch failed")
			continue
		}
		ing.log.WithFields(logrus.Fields{
			"season": season,
			"rows":   len(records),
		}).Info("fetched season stats")
		all = append(all, records...)
		fetched++
	}

	if fetched == 0 {
		return fmt.Errorf("no seasons could be fetched (requested %d)", len(seasons))
	}

	scored := ing.engine.Apply(all)

	if err := dataset.WriteRecords(ing.DatasetPath(), dataset.FormatParquet, scored); err != nil {
		return fmt.Errorf("writing dataset file: %w", err)
	}
	ing.log.WithFields(logrus.Fields{
		"path": ing.DatasetPath(),
		"rows": len(scored),
	}).Info("wrote player stats dataset")

	if ing.statsRepo != nil {
		if err := ing.statsRepo.UpsertGameRecords(ctx, scored); err != nil {
			return fmt.Errorf("persisting game records: %w", err)
		}
		ing.log.WithField("rows", len(scored)).Info("persisted game records")
	}
	return nil
}

func (ing *Ingester) fetchSeason(ctx context.Context, season int) ([]dataset.GameRecord, error) {
	body, err := ing.client.FetchSeasonStats(ctx, season)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return ParseSeasonCSV(body, season)
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/squidworks/gridiron/internal/config"
	"github.com/squidworks/gridiron/internal/ingest/nflverse"
	"github.com/squidworks/gridiron/internal/service"
)

// Scheduler refreshes the stats dataset and re-runs predictions on a cron
// schedule.
type Scheduler struct {
	cron     *cron.Cron
	ingester *nflverse.Ingester
	svc      *service.PredictionService
	cfg      *config.Config
	log      *logrus.Logger
}

func New(ingester *nflverse.Ingester, svc *service.PredictionService, cfg *config.Config, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		ingester: ingester,
		svc:      svc,
		cfg:      cfg,
		log:      log,
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Ingest.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := s.RunCycle(ctx, false); err != nil {
			s.log.WithError(err).Error("scheduled refresh cycle failed")
		}
	})
	if err != nil {
		return fmt.Errorf("registering refresh schedule %q: %w", s.cfg.Ingest.RefreshSchedule, err)
	}
	s.cron.Start()
	s.log.WithField("schedule", s.cfg.Ingest.RefreshSchedule).Info("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// RunCycle refreshes stale seasons and re-runs the prediction pipeline. The
// REST refresh endpoint calls this directly with force=true.
func (s *Scheduler) RunCycle(ctx context.Context, force bool) error {
	start := time.Now()
	maxAge := time.Duration(s.cfg.Ingest.CacheDurationHours) * time.Hour

	if _, err := s.ingester.EnsureFresh(ctx, s.seasons(), maxAge, force); err != nil {
		return fmt.Errorf("refreshing stats dataset: %w", err)
	}
	preds, err := s.svc.RunPredictions(ctx)
	if err != nil {
		return fmt.Errorf("running predictions: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"players":  len(preds),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("refresh cycle completed")
	return nil
}

func (s *Scheduler) seasons() []int {
	var seasons []int
	for yr := s.cfg.Ingest.StartSeason; yr <= s.cfg.Ingest.EndSeason; yr++ {
		seasons = append(seasons, yr)
	}
	return seasons
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/squidworks/gridiron/internal/config"
	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/ingest/nflverse"
	"github.com/squidworks/gridiron/internal/logger"
	"github.com/squidworks/gridiron/internal/predict"
	"github.com/squidworks/gridiron/internal/scoring"
)

const (
	appName    = "gridiron-predict"
	appVersion = "1.0.0"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to config file (optional)")
		inputPath    = flag.String("input", "", "read game stats from this file instead of the managed dataset")
		outputPath   = flag.String("output", "", "write predictions here (default: <output dir>/predictions_<season>.<format>)")
		formatName   = flag.String("format", "", "output format: parquet, csv, or json")
		topN         = flag.Int("top-n", 0, "number of players to display and save")
		positions    = flag.String("position", "", "comma-separated positions to keep (e.g. QB,RB), or ALL")
		targetSeason = flag.Int("target-season", 0, "season to predict")
		forceRefresh = flag.Bool("force-refresh", false, "re-download season stats even if the local dataset is fresh")
		noSave       = flag.Bool("no-save", false, "display results without writing an output file")
		verbose      = flag.Bool("verbose", false, "debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
	applyOverrides(cfg, *topN, *positions, *targetSeason, *formatName)

	logLevel := cfg.LogLevel
	if *verbose {
		logLevel = "debug"
	}
	log := logger.Init(logLevel)
	log.Infof("=== %s v%s ===", appName, appVersion)

	engine := scoring.NewEngine(scoring.Merged(cfg.Scoring))

	records, err := loadRecords(cfg, engine, *inputPath, *forceRefresh, log)
	if err != nil {
		log.Fatalf("loading game stats: %v", err)
	}

	pipeline := predict.NewPipeline(
		engine,
		predict.NewPredictor(cfg.Predict.TargetSeason, cfg.Predict.TrendWeight, cfg.Predict.ConsistencyWeight),
		predict.Options{
			MinSeasonsPlayed: cfg.Predict.MinSeasonsPlayed,
			PositionFilters:  cfg.Predict.PositionFilters,
			TopN:             cfg.Output.TopNPlayers,
			Workers:          cfg.Predict.Workers,
		},
		log,
	)

	preds, err := pipeline.Run(records)
	if errors.Is(err, predict.ErrMissingInputData) {
		log.Fatalf("%v", err)
	}
	if errors.Is(err, predict.ErrNoPredictions) && len(cfg.Predict.PositionFilters) > 0 {
		fmt.Printf("No players matched the requested position filters for season %d.\n", cfg.Predict.TargetSeason)
		return
	}
	if err != nil {
		log.Fatalf("prediction run failed: %v", err)
	}

	top := pipeline.TopN(preds, cfg.Output.TopNPlayers)
	printTable(top, cfg.Predict.TargetSeason, len(preds))

	if *noSave {
		return
	}

	format, err := dataset.ParseFormat(cfg.Output.Format)
	if err != nil {
		log.Fatalf("%v", err)
	}
	path := *outputPath
	if path == "" {
		path = filepath.Join(cfg.Output.Directory,
			fmt.Sprintf("predictions_%d.%s", cfg.Predict.TargetSeason, format))
	} else if f, ferr := dataset.FormatFromPath(path); ferr == nil {
		format = f
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}
	if err := dataset.WritePredictions(path, format, top); err != nil {
		log.Fatalf("writing predictions: %v", err)
	}
	fmt.Printf("\nSaved %d predictions to %s\n", len(top), path)
}

// applyOverrides layers CLI flags over the loaded config.
func applyOverrides(cfg *config.Config, topN int, positions string, targetSeason int, format string) {
	if topN > 0 {
		cfg.Output.TopNPlayers = topN
	}
	if targetSeason > 0 {
		cfg.Predict.TargetSeason = targetSeason
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if positions != "" {
		if strings.EqualFold(positions, "ALL") {
			cfg.Predict.PositionFilters = nil
			return
		}
		filters := make(map[string]bool)
		for _, pos := range strings.Split(positions, ",") {
			if pos = strings.TrimSpace(pos); pos != "" {
				filters[strings.ToUpper(pos)] = true
			}
		}
		cfg.Predict.PositionFilters = filters
	}
}

// loadRecords reads game stats from an explicit input file, or from the
// managed nflverse dataset, refreshing it first when stale.
func loadRecords(cfg *config.Config, engine *scoring.Engine, inputPath string, force bool, log *logrus.Logger) ([]dataset.GameRecord, error) {
	if inputPath != "" {
		format, err := dataset.FormatFromPath(inputPath)
		if err != nil {
			return nil, err
		}
		records, err := dataset.ReadRecords(inputPath, format)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", predict.ErrMissingInputData, inputPath)
		}
		return records, err
	}

	ingester := nflverse.NewIngester(nflverse.NewClient(cfg.Ingest.BaseURL), engine, nil, cfg.Ingest.DataDir, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var seasons []int
	for yr := cfg.Ingest.StartSeason; yr <= cfg.Ingest.EndSeason; yr++ {
		seasons = append(seasons, yr)
	}
	maxAge := time.Duration(cfg.Ingest.CacheDurationHours) * time.Hour

	path, err := ingester.EnsureFresh(ctx, seasons, maxAge, force)
	if err != nil {
		return nil, err
	}
	return dataset.ReadRecords(path, dataset.FormatParquet)
}

// printTable renders the ranked predictions.
func printTable(preds []dataset.Prediction, targetSeason, total int) {
	fmt.Printf("\nTop %d projected fantasy players for %d (of %d predicted)\n\n", len(preds), targetSeason, total)
	for i, p := range preds {
		fmt.Printf("%3d. %-24s (%s) | %7.2f season | %5.2f/game | trend %+.3f\n",
			i+1, p.PlayerName, p.Position, p.PredictedSeasonFP, p.PredictedAvgFPPerGame, p.Trend)
	}
}

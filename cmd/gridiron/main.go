package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/squidworks/gridiron/internal/api/rest"
	"github.com/squidworks/gridiron/internal/api/websocket"
	"github.com/squidworks/gridiron/internal/cache"
	"github.com/squidworks/gridiron/internal/config"
	"github.com/squidworks/gridiron/internal/ingest/nflverse"
	"github.com/squidworks/gridiron/internal/logger"
	"github.com/squidworks/gridiron/internal/publisher"
	"github.com/squidworks/gridiron/internal/scheduler"
	"github.com/squidworks/gridiron/internal/scoring"
	"github.com/squidworks/gridiron/internal/service"
	"github.com/squidworks/gridiron/internal/store"
	"github.com/squidworks/gridiron/internal/store/repository"
)

const (
	serviceName    = "gridiron"
	serviceVersion = "1.0.0"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("info").Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.Init(cfg.LogLevel)
	log.Infof("Starting %s v%s - Fantasy Football Prediction Service", serviceName, serviceVersion)

	// Initialize database connection
	db, err := store.NewDatabase(cfg.Database.DSN, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// Run migrations
	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Initialize Redis cache with retry logic
	var redisCache *cache.RedisCache
	maxRetries := 30
	retryDelay := 2 * time.Second

	log.Info("Connecting to Redis...")
	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			log.Warnf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
		} else {
			log.Fatalf("Failed to connect to Redis after %d attempts: %v", maxRetries, err)
		}
	}
	defer redisCache.Close()

	log.Info("Connected to Redis")

	// Publisher shares the cache's client
	runPublisher := publisher.NewRedisStreamPublisher(redisCache.Client())

	// WebSocket server doubles as the run notifier
	wsServer := websocket.NewServer(log)

	// Prediction service over the stored stats
	predictionService := service.NewPredictionService(db, redisCache, runPublisher, wsServer, cfg, log)

	// Ingester pulls nflverse season stats and scores them on the way in
	engine := scoring.NewEngine(scoring.Merged(cfg.Scoring))
	ingester := nflverse.NewIngester(
		nflverse.NewClient(cfg.Ingest.BaseURL),
		engine,
		repository.NewStatsRepository(db),
		cfg.Ingest.DataDir,
		log,
	)

	// Scheduler refreshes data and re-runs predictions on a cron schedule
	sched := scheduler.New(ingester, predictionService, cfg, log)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Initialize REST API server
	restServer := rest.NewServer(cfg.Server.RESTPort, db, predictionService, sched, log)
	go func() {
		log.Infof("Starting REST API server on port %s", cfg.Server.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		log.Infof("Starting WebSocket server on port %s", cfg.Server.WSPort)
		if err := wsServer.Start(cfg.Server.WSPort); err != nil {
			log.Errorf("WebSocket server error: %v", err)
		}
	}()

	log.Infof("%s v%s started (REST :%s, WebSocket :%s)", serviceName, serviceVersion, cfg.Server.RESTPort, cfg.Server.WSPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down gracefully...")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("REST server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("WebSocket server shutdown error: %v", err)
	}

	log.Info("Shutdown complete")
}

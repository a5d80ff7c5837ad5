package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/sirupsen/logrus"
)

// Database wraps the PostgreSQL connection used for ingested game rows and
// prediction runs.
type Database struct {
	conn *sql.DB
	dsn  string
	log  *logrus.Logger
}

// NewDatabase opens and verifies a database connection.
func NewDatabase(dsn string, log *logrus.Logger) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Database{conn: db, dsn: dsn, log: log}, nil
}

// Close closes the database connection.
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries.
func (db *Database) DB() *sql.DB {
	return db.conn
}

type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "001_create_player_game_stats",
		sql: `
			CREATE TABLE IF NOT EXISTS player_game_stats (
				id BIGSERIAL PRIMARY KEY,
				player_id TEXT NOT NULL,
				player_name TEXT NOT NULL,
				season INT NOT NULL,
				week INT NOT NULL DEFAULT 0,
				position TEXT NOT NULL DEFAULT 'UNK',
				passing_yards DOUBLE PRECISION,
				passing_tds DOUBLE PRECISION,
				interceptions DOUBLE PRECISION,
				rushing_yards DOUBLE PRECISION,
				rushing_tds DOUBLE PRECISION,
				receptions DOUBLE PRECISION,
				receiving_yards DOUBLE PRECISION,
				receiving_tds DOUBLE PRECISION,
				fumbles_lost DOUBLE PRECISION,
				two_point_conversions DOUBLE PRECISION,
				fantasy_points DOUBLE PRECISION NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (player_id, season, week)
			);
			CREATE INDEX IF NOT EXISTS idx_pgs_player_season ON player_game_stats (player_id, season);
			CREATE INDEX IF NOT EXISTS idx_pgs_season ON player_game_stats (season);
		`,
	},
	{
		version: "002_create_prediction_runs",
		sql: `
			CREATE TABLE IF NOT EXISTS prediction_runs (
				run_id BIGSERIAL PRIMARY KEY,
				target_season INT NOT NULL,
				player_count INT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		version: "003_create_predictions",
		sql: `
			CREATE TABLE IF NOT EXISTS predictions (
				id BIGSERIAL PRIMARY KEY,
				run_id BIGINT NOT NULL REFERENCES prediction_runs(run_id) ON DELETE CASCADE,
				rank INT NOT NULL,
				player_id TEXT NOT NULL,
				player_name TEXT NOT NULL,
				position TEXT NOT NULL,
				predicted_avg_fp_per_game DOUBLE PRECISION NOT NULL,
				predicted_season_fp DOUBLE PRECISION NOT NULL,
				recent_avg_fp DOUBLE PRECISION NOT NULL,
				trend DOUBLE PRECISION NOT NULL,
				consistency_score DOUBLE PRECISION NOT NULL,
				seasons_analyzed INT NOT NULL,
				last_season INT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_predictions_run ON predictions (run_id, rank);
		`,
	},
}

// RunMigrations applies the embedded schema migrations in order, tracking
// applied versions in schema_migrations.
func (db *Database) RunMigrations() error {
	db.log.Info("running database migrations")

	if err := db.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		if err := db.runMigration(m); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", m.version, err)
		}
	}

	db.log.Info("all migrations completed")
	return nil
}

func (db *Database) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.conn.Exec(query)
	return err
}

func (db *Database) runMigration(m migration) error {
	var exists bool
	err := db.conn.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.version).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		db.log.WithField("version", m.version).Debug("migration already applied")
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	db.log.WithField("version", m.version).Info("applied migration")
	return nil
}

// HealthCheck performs a health check on the database.
func (db *Database) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return db.conn.PingContext(ctx)
}

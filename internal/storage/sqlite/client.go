package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/babyname-machine/backend/internal/storage/models"
	"github.com/babyname-machine/backend/pkg/logger"
)

const DefaultHistoryLimit = 50

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	_, err = db.Exec("PRAGMA busy_timeout = 5000")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trend_queries (
		id TEXT PRIMARY KEY,
		names TEXT NOT NULL,
		metric TEXT NOT NULL,
		start_year INTEGER NOT NULL,
		end_year INTEGER NOT NULL,
		series_count INTEGER NOT NULL,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trend_queries_created ON trend_queries(created_at);

	CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		year INTEGER NOT NULL,
		is_famous INTEGER NOT NULL,
		gender_binary INTEGER NOT NULL,
		rolling_average_gender_ratio REAL NOT NULL,
		vowel_count INTEGER NOT NULL,
		ends_with_specified_letters INTEGER NOT NULL,
		label INTEGER NOT NULL,
		probability REAL NOT NULL,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_at);
	CREATE INDEX IF NOT EXISTS idx_predictions_name ON predictions(name);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertTrendQuery(ctx context.Context, rec *models.TrendQueryRecord) error {
	names, err := json.Marshal(rec.Names)
	if err != nil {
		return fmt.Errorf("failed to marshal names: %w", err)
	}

	query := `
		INSERT INTO trend_queries (id, names, metric, start_year, end_year, series_count, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = c.db.ExecContext(ctx, query,
		rec.ID,
		string(names),
		rec.Metric,
		rec.StartYear,
		rec.EndYear,
		rec.SeriesCount,
		rec.LatencyMS,
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trend query: %w", err)
	}

	return nil
}

// ListTrendQueries returns the most recent trend queries, newest first.
func (c *Client) ListTrendQueries(ctx context.Context, limit int) ([]*models.TrendQueryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, names, metric, start_year, end_year, series_count, latency_ms, created_at
		FROM trend_queries
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend history: %w", err)
	}
	defer rows.Close()

	records := make([]*models.TrendQueryRecord, 0)
	for rows.Next() {
		var (
			rec       models.TrendQueryRecord
			names     string
			latency   sql.NullInt64
			createdAt int64
		)

		err := rows.Scan(&rec.ID, &names, &rec.Metric, &rec.StartYear, &rec.EndYear, &rec.SeriesCount, &latency, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trend query: %w", err)
		}

		if err := json.Unmarshal([]byte(names), &rec.Names); err != nil {
			return nil, fmt.Errorf("failed to unmarshal names: %w", err)
		}
		rec.LatencyMS = int(latency.Int64)
		rec.CreatedAt = time.Unix(0, createdAt)

		records = append(records, &rec)
	}

	return records, rows.Err()
}

func (c *Client) InsertPrediction(ctx context.Context, rec *models.PredictionRecord) error {
	query := `
		INSERT INTO predictions (
			id, name, year, is_famous, gender_binary, rolling_average_gender_ratio,
			vowel_count, ends_with_specified_letters, label, probability, latency_ms, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.ExecContext(ctx, query,
		rec.ID,
		rec.Name,
		rec.Year,
		rec.IsFamous,
		rec.GenderBinary,
		rec.RollingAverageGenderRatio5Years,
		rec.VowelCount,
		rec.EndsWithSpecifiedLetters,
		rec.Label,
		rec.Probability,
		rec.LatencyMS,
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// ListPredictions returns the most recent predictions, newest first.
func (c *Client) ListPredictions(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, name, year, is_famous, gender_binary, rolling_average_gender_ratio,
			vowel_count, ends_with_specified_letters, label, probability, latency_ms, created_at
		FROM predictions
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction history: %w", err)
	}
	defer rows.Close()

	records := make([]*models.PredictionRecord, 0)
	for rows.Next() {
		var (
			rec       models.PredictionRecord
			latency   sql.NullInt64
			createdAt int64
		)

		err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Year,
			&rec.IsFamous,
			&rec.GenderBinary,
			&rec.RollingAverageGenderRatio5Years,
			&rec.VowelCount,
			&rec.EndsWithSpecifiedLetters,
			&rec.Label,
			&rec.Probability,
			&latency,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}

		rec.LatencyMS = int(latency.Int64)
		rec.CreatedAt = time.Unix(0, createdAt)

		records = append(records, &rec)
	}

	return records, rows.Err()
}

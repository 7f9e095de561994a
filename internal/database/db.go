package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Alias1177/SolarPredictor/models"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the lib/pq connection string
func (p ConnectionParams) DSN() string {
	parts := []string{
		"host=" + quote(p.Host),
		"port=" + quote(p.Port),
		"user=" + quote(p.User),
		"password=" + quote(p.Password),
		"dbname=" + quote(p.DBName),
		"sslmode=" + quote(p.SSLMode),
	}
	return strings.Join(parts, " ")
}

// quote escapes a keyword/value connection string value
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// New creates a new database connection
func New(ctx context.Context, params ConnectionParams) (*DB, error) {
	db, err := sql.Open("postgres", params.DSN())
	if err != nil {
		return nil, err
	}

	// Check connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Create tables if they don't exist
	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &DB{db}, nil
}

// createTables creates the prediction history table if it doesn't exist
func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS prediction_history (
			id TEXT PRIMARY KEY,
			location TEXT NOT NULL DEFAULT '',
			input_latitude DOUBLE PRECISION,
			input_longitude DOUBLE PRECISION,
			irradiance DOUBLE PRECISION NOT NULL,
			azimuth DOUBLE PRECISION NOT NULL,
			zenith DOUBLE PRECISION NOT NULL,
			angle_of_incidence DOUBLE PRECISION NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			predicted_generated_kw DOUBLE PRECISION NOT NULL,
			optimal_tilt DOUBLE PRECISION,
			optimal_azimuth DOUBLE PRECISION,
			predicted_increase DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS prediction_history_created_at_idx
		ON prediction_history (created_at DESC)
	`)
	return err
}

// SavePrediction stores a completed prediction
func (db *DB) SavePrediction(ctx context.Context, rec models.PredictionRecord) error {
	var tilt, azimuth, increase sql.NullFloat64
	if rec.Optimal != nil {
		tilt = sql.NullFloat64{Float64: rec.Optimal.OptimalTilt, Valid: true}
		azimuth = sql.NullFloat64{Float64: rec.Optimal.OptimalAzimuth, Valid: true}
		increase = sql.NullFloat64{Float64: rec.Optimal.PredictedIncrease, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO prediction_history (
			id, location, input_latitude, input_longitude, irradiance, azimuth, zenith,
			angle_of_incidence, latitude, longitude, predicted_generated_kw,
			optimal_tilt, optimal_azimuth, predicted_increase, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING
	`,
		rec.ID, rec.Input.Location, nullFloat(rec.Input.Latitude), nullFloat(rec.Input.Longitude),
		rec.Input.Irradiance, rec.Input.Azimuth, rec.Input.Zenith, rec.Input.AngleOfIncidence,
		rec.Response.Latitude, rec.Response.Longitude, rec.Response.PredictedGeneratedKW,
		tilt, azimuth, increase, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert prediction %s: %w", rec.ID, err)
	}
	return nil
}

// RecentPredictions returns up to limit most recent predictions, oldest first
func (db *DB) RecentPredictions(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx, `
		SELECT
			id, location, input_latitude, input_longitude, irradiance, azimuth, zenith,
			angle_of_incidence, latitude, longitude, predicted_generated_kw,
			optimal_tilt, optimal_azimuth, predicted_increase, created_at
		FROM prediction_history
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var records []models.PredictionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reverse(records)
	return records, nil
}

// CountPredictions returns the number of stored predictions
func (db *DB) CountPredictions(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prediction_history`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (models.PredictionRecord, error) {
	var (
		rec                     models.PredictionRecord
		inputLat, inputLon      sql.NullFloat64
		tilt, azimuth, increase sql.NullFloat64
	)

	err := row.Scan(
		&rec.ID, &rec.Input.Location, &inputLat, &inputLon,
		&rec.Input.Irradiance, &rec.Input.Azimuth, &rec.Input.Zenith, &rec.Input.AngleOfIncidence,
		&rec.Response.Latitude, &rec.Response.Longitude, &rec.Response.PredictedGeneratedKW,
		&tilt, &azimuth, &increase, &rec.CreatedAt,
	)
	if err != nil {
		return models.PredictionRecord{}, fmt.Errorf("scan prediction: %w", err)
	}

	if inputLat.Valid {
		rec.Input.Latitude = &inputLat.Float64
	}
	if inputLon.Valid {
		rec.Input.Longitude = &inputLon.Float64
	}
	if tilt.Valid {
		rec.Optimal = &models.OptimalConfiguration{
			OptimalTilt:       tilt.Float64,
			OptimalAzimuth:    azimuth.Float64,
			PredictedIncrease: increase.Float64,
		}
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func reverse(records []models.PredictionRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}

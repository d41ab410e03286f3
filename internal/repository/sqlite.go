package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/neervazh/ward-monitor/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS wards (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			risk_score REAL NOT NULL,
			population INTEGER NOT NULL,
			active_cases INTEGER NOT NULL,
			ph_level REAL,
			turbidity REAL,
			chlorine REAL,
			temperature REAL,
			device_status TEXT NOT NULL DEFAULT 'online',
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_wards_risk_score ON wards(risk_score);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Add(ctx context.Context, w *models.Ward) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO wards
			(id, name, risk_score, population, active_cases, ph_level, turbidity, chlorine, temperature, device_status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.RiskScore, w.Population, w.ActiveCases,
		w.Telemetry.PHLevel, w.Telemetry.Turbidity, w.Telemetry.Chlorine, w.Telemetry.Temperature,
		w.Telemetry.DeviceStatus, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting ward: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id string) (*models.Ward, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, risk_score, population, active_cases, ph_level, turbidity, chlorine, temperature, device_status, updated_at
		FROM wards WHERE id = ?`, id)

	w, err := scanWard(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning ward: %w", err)
	}
	return w, nil
}

func (s *SQLiteDB) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM wards WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("error checking ward existence: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteDB) ListWards(ctx context.Context, opts Filter) ([]models.Ward, error) {
	query := `
		SELECT id, name, risk_score, population, active_cases, ph_level, turbidity, chlorine, temperature, device_status, updated_at
		FROM wards WHERE 1=1`
	args := []any{}

	if opts.MinRiskScore != nil {
		query += ` AND risk_score >= ?`
		args = append(args, *opts.MinRiskScore)
	}
	if opts.DeviceStatus != nil {
		query += ` AND device_status = ?`
		args = append(args, *opts.DeviceStatus)
	}

	query += ` ORDER BY risk_score DESC`

	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing wards: %w", err)
	}
	defer rows.Close()

	var wards []models.Ward
	for rows.Next() {
		w, err := scanWard(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning ward row: %w", err)
		}
		wards = append(wards, *w)
	}
	return wards, rows.Err()
}

func (s *SQLiteDB) UpdateRiskScore(ctx context.Context, id string, score float64, activeCases int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE wards SET risk_score = ?, active_cases = ?, updated_at = ? WHERE id = ?`,
		score, activeCases, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating ward score: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("ward not found: %s", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWard(row scanner) (*models.Ward, error) {
	var w models.Ward
	err := row.Scan(
		&w.ID, &w.Name, &w.RiskScore, &w.Population, &w.ActiveCases,
		&w.Telemetry.PHLevel, &w.Telemetry.Turbidity, &w.Telemetry.Chlorine, &w.Telemetry.Temperature,
		&w.Telemetry.DeviceStatus, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

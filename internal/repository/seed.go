package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/neervazh/ward-monitor/internal/models"
)

// seedWards is the pilot six-ward dataset used until a real ingestion feed
// replaces it.
var seedWards = []models.Ward{
	{
		ID: "ward-a", Name: "Ward A – Kovilambakkam",
		RiskScore: 78, Population: 18400, ActiveCases: 42,
		Telemetry: models.Telemetry{PHLevel: 6.1, Turbidity: 8.4, Chlorine: 0.12, Temperature: 31.2, DeviceStatus: "online"},
	},
	{
		ID: "ward-b", Name: "Ward B – Pallikaranai",
		RiskScore: 62, Population: 22100, ActiveCases: 27,
		Telemetry: models.Telemetry{PHLevel: 6.8, Turbidity: 5.2, Chlorine: 0.22, Temperature: 30.5, DeviceStatus: "online"},
	},
	{
		ID: "ward-c", Name: "Ward C – Medavakkam",
		RiskScore: 45, Population: 31200, ActiveCases: 15,
		Telemetry: models.Telemetry{PHLevel: 7.0, Turbidity: 3.1, Chlorine: 0.31, Temperature: 30.0, DeviceStatus: "online"},
	},
	{
		ID: "ward-d", Name: "Ward D – Sholinganallur",
		RiskScore: 29, Population: 19800, ActiveCases: 6,
		Telemetry: models.Telemetry{PHLevel: 7.2, Turbidity: 2.0, Chlorine: 0.38, Temperature: 29.1, DeviceStatus: "online"},
	},
	{
		ID: "ward-e", Name: "Ward E – Perungudi",
		RiskScore: 54, Population: 16500, ActiveCases: 19,
		Telemetry: models.Telemetry{PHLevel: 6.9, Turbidity: 4.4, Chlorine: 0.26, Temperature: 30.2, DeviceStatus: "warning"},
	},
	{
		ID: "ward-f", Name: "Ward F – Thoraipakkam",
		RiskScore: 18, Population: 14200, ActiveCases: 3,
		Telemetry: models.Telemetry{PHLevel: 7.3, Turbidity: 1.6, Chlorine: 0.42, Temperature: 28.8, DeviceStatus: "online"},
	},
}

// Seed loads the pilot dataset once; an already-populated database is left
// untouched.
func (s *SQLiteDB) Seed(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM wards`).Scan(&n); err != nil {
		return fmt.Errorf("error counting wards: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now()
	for _, w := range seedWards {
		w.UpdatedAt = now
		if err := s.Add(ctx, &w); err != nil {
			return fmt.Errorf("error seeding ward %s: %w", w.ID, err)
		}
	}
	return nil
}

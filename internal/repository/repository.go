package repository

import (
	"context"

	"github.com/neervazh/ward-monitor/internal/models"
)

type Filter struct {
	Limit        int
	MinRiskScore *float64
	DeviceStatus *string // "online", "offline" or "warning"
}

// WardRepository supplies ward snapshots. The alert core only reads identity
// and name at draft construction; everything else feeds the dashboard.
type WardRepository interface {
	Add(ctx context.Context, w *models.Ward) error
	GetByID(ctx context.Context, id string) (*models.Ward, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListWards(ctx context.Context, opts Filter) ([]models.Ward, error)
	UpdateRiskScore(ctx context.Context, id string, score float64, activeCases int) error
}

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neervazh/ward-monitor/internal/alerts"
	"github.com/neervazh/ward-monitor/internal/config"
	"github.com/neervazh/ward-monitor/internal/models"
	"github.com/neervazh/ward-monitor/internal/repository"
	"github.com/neervazh/ward-monitor/internal/risk"
)

const riskThresholdType = "Risk Threshold"

// Simulator stands in for the live sensor feed: it sweeps ward snapshots on
// an interval and raises a high-severity alert for every ward whose score
// sits in the high band, deduplicating against open alerts.
type Simulator struct {
	cfg   *config.Config
	repo  repository.WardRepository
	store *alerts.Store
	wg    sync.WaitGroup
}

func NewSimulator(cfg *config.Config, repo repository.WardRepository, store *alerts.Store) *Simulator {
	return &Simulator{
		cfg:   cfg,
		repo:  repo,
		store: store,
	}
}

func (s *Simulator) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Simulator) run(ctx context.Context) {
	defer s.wg.Done()
	slog.Info("starting sensor sweep", "interval", s.cfg.Sim.Interval)

	ticker := time.NewTicker(s.cfg.Sim.Interval)
	defer ticker.Stop()

	// Initial sweep
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("sensor sweep shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Simulator) sweep(ctx context.Context) {
	slog.Debug("sweeping ward snapshots")

	wards, err := s.repo.ListWards(ctx, repository.Filter{})
	if err != nil {
		slog.Error("sweep failed", "error", err)
		return
	}

	raised := 0
	for _, w := range wards {
		if risk.Classify(w.RiskScore) != models.RiskHigh {
			continue
		}
		if s.hasOpenThresholdAlert(w.ID) {
			continue
		}

		draft := models.AlertDraft{
			WardID:   w.ID,
			WardName: w.Name,
			Type:     riskThresholdType,
			Severity: models.RiskHigh,
			Message:  fmt.Sprintf("Risk score %.0f crossed the high-risk threshold. Increased surveillance recommended.", w.RiskScore),
		}
		a, err := s.store.Create(draft, time.Now())
		if err != nil {
			slog.Error("error raising threshold alert", "ward", w.ID, "error", err)
			continue
		}

		raised++
		slog.Info("raised threshold alert", "id", a.ID, "ward", w.ID, "score", w.RiskScore)
	}

	slog.Debug("sweep complete", "wards", len(wards), "raised", raised)
}

func (s *Simulator) hasOpenThresholdAlert(wardID string) bool {
	for _, a := range s.store.Query(alerts.FilterOpen) {
		if a.WardID == wardID && a.Type == riskThresholdType {
			return true
		}
	}
	return false
}

func (s *Simulator) Stop() {
	s.wg.Wait()
	slog.Info("sensor sweep stopped")
}

package sla

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/neervazh/ward-monitor/internal/events"
	"github.com/neervazh/ward-monitor/internal/models"
)

// AlertSource yields the alerts whose countdowns are being watched.
type AlertSource interface {
	Open() []models.Alert
}

type phase int

const (
	phaseOK phase = iota
	phaseWarning
	phaseOverdue
)

// Monitor re-evaluates open alerts on a fixed cadence and publishes an
// event when an alert enters its final hour or goes overdue. It owns no
// alert state; cancelling the context stops further evaluation.
type Monitor struct {
	interval time.Duration
	source   AlertSource
	bus      *events.Broadcaster
	seen     map[string]phase
	wg       sync.WaitGroup
}

func NewMonitor(interval time.Duration, source AlertSource, bus *events.Broadcaster) *Monitor {
	return &Monitor{
		interval: interval,
		source:   source,
		bus:      bus,
		seen:     make(map[string]phase),
	}
}

func (m *Monitor) Start(ctx context.Context) {
	m.wg.Add(1)
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()
	slog.Info("starting sla monitor", "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Initial sweep
	m.sweep(time.Now())

	for {
		select {
		case <-ctx.Done():
			slog.Info("sla monitor shutting down")
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *Monitor) sweep(now time.Time) {
	open := m.source.Open()

	active := make(map[string]bool, len(open))
	for _, a := range open {
		active[a.ID] = true

		st := Evaluate(a.SLADeadline, a.SLAHours, now)
		next := phaseOK
		switch {
		case st.IsOverdue:
			next = phaseOverdue
		case st.IsWarning:
			next = phaseWarning
		}

		prev := m.seen[a.ID]
		if next == prev {
			continue
		}
		m.seen[a.ID] = next

		switch next {
		case phaseWarning:
			m.bus.Publish(events.KindSLAWarning, a)
			slog.Info("alert entered sla warning window", "id", a.ID, "remaining", st.RemainingLabel)
		case phaseOverdue:
			m.bus.Publish(events.KindSLAOverdue, a)
			slog.Warn("alert sla overdue", "id", a.ID, "ward", a.WardID)
		}
	}

	// Forget acknowledged alerts so the map does not grow unbounded.
	for id := range m.seen {
		if !active[id] {
			delete(m.seen, id)
		}
	}
}

func (m *Monitor) Stop() {
	m.wg.Wait()
}

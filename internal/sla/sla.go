package sla

import (
	"fmt"
	"math"
	"time"

	"github.com/neervazh/ward-monitor/internal/risk"
)

const warningWindow = time.Hour

// Status is a point-in-time view of an alert's SLA countdown. Callers
// re-evaluate on a fixed cadence to keep a displayed countdown live.
type Status struct {
	RemainingLabel   string `json:"remaining"`
	PercentRemaining int    `json:"percentRemaining"`
	IsOverdue        bool   `json:"overdue"`
	IsWarning        bool   `json:"warning"`
}

// BarColor returns the urgency color for the countdown bar.
func (s Status) BarColor() string {
	return risk.UrgencyColor(s.PercentRemaining)
}

// Evaluate computes the countdown against the original SLA budget. Pure
// given now; clamped at 0% when overdue but deliberately not clamped at
// 100%, a deadline beyond the budget reads as over 100.
func Evaluate(deadline time.Time, slaHours int, now time.Time) Status {
	total := time.Duration(slaHours) * time.Hour
	diff := deadline.Sub(now)

	ratio := math.Max(0, float64(diff)/float64(total))
	st := Status{
		PercentRemaining: int(math.Round(ratio * 100)),
	}

	if diff <= 0 {
		st.IsOverdue = true
		st.RemainingLabel = "OVERDUE"
		return st
	}

	st.IsWarning = diff < warningWindow

	h := int(diff / time.Hour)
	m := int(diff % time.Hour / time.Minute)
	if h > 0 {
		st.RemainingLabel = fmt.Sprintf("%dh %dm", h, m)
	} else {
		st.RemainingLabel = fmt.Sprintf("%dm", m)
	}
	return st
}

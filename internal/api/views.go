package api

import (
	"time"

	"github.com/neervazh/ward-monitor/internal/models"
	"github.com/neervazh/ward-monitor/internal/risk"
	"github.com/neervazh/ward-monitor/internal/sla"
)

type slaView struct {
	Remaining        string `json:"remaining"`
	PercentRemaining int    `json:"percentRemaining"`
	Overdue          bool   `json:"overdue"`
	Warning          bool   `json:"warning"`
	BarColor         string `json:"barColor"`
}

type alertView struct {
	ID             string    `json:"id"`
	WardID         string    `json:"wardId"`
	WardName       string    `json:"wardName"`
	Type           string    `json:"type"`
	Severity       string    `json:"severity"`
	SeverityColor  string    `json:"severityColor"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
	SLAHours       int       `json:"slaHours"`
	SLADeadline    time.Time `json:"slaDeadline"`
	SLA            slaView   `json:"sla"`
	Acknowledged   bool      `json:"acknowledged"`
	AcknowledgedBy string    `json:"acknowledgedBy,omitempty"`
	DeliveryStatus string    `json:"deliveryStatus"`
	Escalated      bool      `json:"escalated"`
}

func toAlertView(a models.Alert, accessible bool, now time.Time) alertView {
	st := sla.Evaluate(a.SLADeadline, a.SLAHours, now)

	return alertView{
		ID:            a.ID,
		WardID:        a.WardID,
		WardName:      a.WardName,
		Type:          a.Type,
		Severity:      string(a.Severity),
		SeverityColor: risk.ColorFor(a.Severity, accessible),
		Message:       a.Message,
		CreatedAt:     a.CreatedAt,
		SLAHours:      a.SLAHours,
		SLADeadline:   a.SLADeadline,
		SLA: slaView{
			Remaining:        st.RemainingLabel,
			PercentRemaining: st.PercentRemaining,
			Overdue:          st.IsOverdue,
			Warning:          st.IsWarning,
			BarColor:         st.BarColor(),
		},
		Acknowledged:   a.Acknowledged,
		AcknowledgedBy: a.AcknowledgedBy,
		DeliveryStatus: string(a.DeliveryStatus),
		Escalated:      a.Escalated,
	}
}

func toAlertViews(alerts []models.Alert, accessible bool, now time.Time) []alertView {
	views := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, toAlertView(a, accessible, now))
	}
	return views
}

type telemetryView struct {
	PHLevel      float64 `json:"phLevel"`
	Turbidity    float64 `json:"turbidity"`
	Chlorine     float64 `json:"chlorine"`
	Temperature  float64 `json:"temperature"`
	DeviceStatus string  `json:"deviceStatus"`
}

type wardView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	RiskScore   float64       `json:"riskScore"`
	RiskLevel   string        `json:"riskLevel"`
	RiskColor   string        `json:"riskColor"`
	Population  int           `json:"population"`
	ActiveCases int           `json:"activeCases"`
	Telemetry   telemetryView `json:"telemetry"`
	UpdatedAt   time.Time     `json:"lastUpdated"`
}

func toWardView(w models.Ward, accessible bool) wardView {
	level := risk.Classify(w.RiskScore)

	return wardView{
		ID:          w.ID,
		Name:        w.Name,
		RiskScore:   w.RiskScore,
		RiskLevel:   string(level),
		RiskColor:   risk.ColorFor(level, accessible),
		Population:  w.Population,
		ActiveCases: w.ActiveCases,
		Telemetry: telemetryView{
			PHLevel:      w.Telemetry.PHLevel,
			Turbidity:    w.Telemetry.Turbidity,
			Chlorine:     w.Telemetry.Chlorine,
			Temperature:  w.Telemetry.Temperature,
			DeviceStatus: w.Telemetry.DeviceStatus,
		},
		UpdatedAt: w.UpdatedAt,
	}
}

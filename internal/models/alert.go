package models

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// DeliveryStatus is reported by the notification gateway, never computed
// locally. Updates may arrive in any order.
type DeliveryStatus string

const (
	DeliverySent      DeliveryStatus = "sent"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
)

type Alert struct {
	ID             string
	WardID         string
	WardName       string // denormalized for display
	Type           string
	Severity       RiskLevel // fixed at creation, independent of the ward's live score
	Message        string
	CreatedAt      time.Time
	SLAHours       int
	SLADeadline    time.Time // CreatedAt + SLAHours, never recomputed
	Acknowledged   bool
	AcknowledgedBy string
	DeliveryStatus DeliveryStatus
	Escalated      bool
}

// AlertDraft carries the caller-supplied fields of a new alert. Identity,
// timestamps and SLA are assigned by the store.
type AlertDraft struct {
	WardID   string
	WardName string
	Type     string
	Severity RiskLevel
	Message  string
}

package models

import "time"

// Ward is an immutable-between-fetches snapshot supplied by the ward
// provider. The alert core reads identity and name when constructing a
// draft and does not track ward lifecycle.
type Ward struct {
	ID          string
	Name        string
	RiskScore   float64 // 0-100
	Population  int
	ActiveCases int
	Telemetry   Telemetry
	UpdatedAt   time.Time
}

type Telemetry struct {
	PHLevel      float64
	Turbidity    float64 // NTU
	Chlorine     float64 // mg/L
	Temperature  float64 // Celsius
	DeviceStatus string  // "online", "offline" or "warning"
}

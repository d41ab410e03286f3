package models

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOfficial Role = "official"
	RoleViewer   Role = "viewer"
)

// Actor identifies the session user behind an acknowledge or escalate call.
type Actor struct {
	ID   string
	Name string
	Role Role
}

// DisplayName is what gets recorded as AcknowledgedBy.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

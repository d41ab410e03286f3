package alerts

import (
	"fmt"

	"github.com/neervazh/ward-monitor/internal/models"
)

// ValidationError reports a malformed alert draft.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid alert draft: %s is required", e.Field)
}

// NotFoundError reports an operation against an unknown alert ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("alert not found: %s", e.ID)
}

// AuthorizationError reports an escalation attempt by a non-privileged role.
type AuthorizationError struct {
	Role models.Role
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %q is not permitted to escalate alerts", e.Role)
}

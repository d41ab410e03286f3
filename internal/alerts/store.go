package alerts

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/neervazh/ward-monitor/internal/events"
	"github.com/neervazh/ward-monitor/internal/models"
)

// SLAHours is the fixed severity-to-budget table.
func SLAHours(severity models.RiskLevel) int {
	switch severity {
	case models.RiskHigh:
		return 2
	case models.RiskMedium:
		return 4
	default:
		return 8
	}
}

type Filter string

const (
	FilterAll          Filter = "all"
	FilterOpen         Filter = "open"
	FilterAcknowledged Filter = "acknowledged"
)

// CompactLimit caps the dashboard's compact alert panel.
const CompactLimit = 4

// Notifier receives the fire-and-forget acknowledgment notification. The
// store never waits on it and never rolls back if delivery fails.
type Notifier interface {
	NotifyAcknowledged(alert models.Alert, actorID string)
}

var privilegedRoles = map[models.Role]bool{
	models.RoleAdmin: true,
}

// Store holds all alerts in memory. Mutations are atomic under the lock;
// no partial transition is ever visible to a reader. Initial state is
// injected, there is no process-wide instance.
type Store struct {
	mu       sync.RWMutex
	alerts   []models.Alert // insertion order
	index    map[string]int
	nextID   uint64
	notifier Notifier
	bus      *events.Broadcaster
}

func NewStore(notifier Notifier, bus *events.Broadcaster, seed ...models.Alert) *Store {
	s := &Store{
		index:    make(map[string]int, len(seed)),
		notifier: notifier,
		bus:      bus,
	}
	for _, a := range seed {
		s.index[a.ID] = len(s.alerts)
		s.alerts = append(s.alerts, a)
	}
	return s
}

func validateDraft(draft models.AlertDraft) error {
	switch {
	case draft.WardID == "":
		return &ValidationError{Field: "ward_id"}
	case draft.Type == "":
		return &ValidationError{Field: "type"}
	case draft.Message == "":
		return &ValidationError{Field: "message"}
	}
	switch draft.Severity {
	case models.RiskLow, models.RiskMedium, models.RiskHigh:
		return nil
	default:
		return &ValidationError{Field: "severity"}
	}
}

// Create validates the draft, fixes SLA budget and deadline from severity,
// and stores the alert. IDs are never reused.
func (s *Store) Create(draft models.AlertDraft, now time.Time) (models.Alert, error) {
	if err := validateDraft(draft); err != nil {
		return models.Alert{}, err
	}

	hours := SLAHours(draft.Severity)

	s.mu.Lock()
	s.nextID++
	a := models.Alert{
		ID:             fmt.Sprintf("alert_%06d", s.nextID),
		WardID:         draft.WardID,
		WardName:       draft.WardName,
		Type:           draft.Type,
		Severity:       draft.Severity,
		Message:        draft.Message,
		CreatedAt:      now,
		SLAHours:       hours,
		SLADeadline:    now.Add(time.Duration(hours) * time.Hour),
		DeliveryStatus: models.DeliverySent,
	}
	s.index[a.ID] = len(s.alerts)
	s.alerts = append(s.alerts, a)
	s.mu.Unlock()

	s.publish(events.KindCreated, a)
	return a, nil
}

// Acknowledge is idempotent: the first call flips the flag and notifies the
// gateway, later calls return the entity unchanged without touching the
// recorded actor.
func (s *Store) Acknowledge(id string, actor models.Actor, now time.Time) (models.Alert, error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return models.Alert{}, &NotFoundError{ID: id}
	}
	if s.alerts[i].Acknowledged {
		a := s.alerts[i]
		s.mu.Unlock()
		return a, nil
	}

	s.alerts[i].Acknowledged = true
	s.alerts[i].AcknowledgedBy = actor.DisplayName()
	a := s.alerts[i]
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyAcknowledged(a, actor.ID)
	}
	s.publish(events.KindAcknowledged, a)
	return a, nil
}

// Escalate flips the escalated flag for privileged actors. Escalating an
// acknowledged or already-escalated alert is a silent no-op.
func (s *Store) Escalate(id string, role models.Role, now time.Time) (models.Alert, error) {
	if !privilegedRoles[role] {
		return models.Alert{}, &AuthorizationError{Role: role}
	}

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return models.Alert{}, &NotFoundError{ID: id}
	}
	if s.alerts[i].Acknowledged || s.alerts[i].Escalated {
		a := s.alerts[i]
		s.mu.Unlock()
		return a, nil
	}

	s.alerts[i].Escalated = true
	a := s.alerts[i]
	s.mu.Unlock()

	s.publish(events.KindEscalated, a)
	return a, nil
}

// SetDeliveryStatus records the gateway-reported delivery fact. Reports are
// asynchronous and unordered, so any value is accepted at any time; unknown
// IDs are ignored.
func (s *Store) SetDeliveryStatus(id string, status models.DeliveryStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.alerts[i].DeliveryStatus = status
	return true
}

func (s *Store) Get(id string) (models.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Alert{}, &NotFoundError{ID: id}
	}
	return s.alerts[i], nil
}

// Query returns a fresh snapshot: unacknowledged alerts first, then by
// CreatedAt descending within each partition. The stable sort over the
// insertion-ordered backing slice keeps ties in insertion order.
func (s *Store) Query(filter Filter) []models.Alert {
	s.mu.RLock()
	out := make([]models.Alert, 0, len(s.alerts))
	for _, a := range s.alerts {
		switch filter {
		case FilterOpen:
			if a.Acknowledged {
				continue
			}
		case FilterAcknowledged:
			if !a.Acknowledged {
				continue
			}
		}
		out = append(out, a)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Alert) int {
		if a.Acknowledged != b.Acknowledged {
			if a.Acknowledged {
				return 1
			}
			return -1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// Compact is the dashboard panel view: the first CompactLimit entries of
// the full ordering.
func (s *Store) Compact() []models.Alert {
	out := s.Query(FilterAll)
	if len(out) > CompactLimit {
		out = out[:CompactLimit]
	}
	return out
}

// Open satisfies sla.AlertSource.
func (s *Store) Open() []models.Alert {
	return s.Query(FilterOpen)
}

func (s *Store) Counts() (open, acknowledged int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.alerts {
		if a.Acknowledged {
			acknowledged++
		} else {
			open++
		}
	}
	return open, acknowledged
}

func (s *Store) publish(kind events.Kind, a models.Alert) {
	if s.bus != nil {
		s.bus.Publish(kind, a)
	}
}

package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/neervazh/ward-monitor/internal/models"
)

type Kind string

const (
	KindCreated      Kind = "created"
	KindAcknowledged Kind = "acknowledged"
	KindEscalated    Kind = "escalated"
	KindSLAWarning   Kind = "sla_warning"
	KindSLAOverdue   Kind = "sla_overdue"
)

type Event struct {
	Kind  Kind
	Alert models.Alert
	At    time.Time
}

// Broadcaster fans alert lifecycle events out to stream subscribers.
type Broadcaster struct {
	subscribers map[uint64]chan Event
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan Event),
	}
}

func (b *Broadcaster) Subscribe() (uint64, chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Publish(kind Kind, alert models.Alert) {
	ev := Event{Kind: kind, Alert: alert, At: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			// Skip slow subscribers
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, causing streams to exit gracefully
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}

package events

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/neervazh/ward-monitor/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBroadcaster_SubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	id, ch := b.Subscribe()
	if b.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", b.SubscriberCount())
	}

	b.Unsubscribe(id)
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}

	// Channel should be closed
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}

func TestBroadcaster_Publish(t *testing.T) {
	b := NewBroadcaster()

	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	alert := models.Alert{
		ID:       "alert_000001",
		WardID:   "ward-a",
		Severity: models.RiskHigh,
	}

	b.Publish(KindCreated, alert)

	select {
	case ev := <-ch:
		if ev.Kind != KindCreated {
			t.Errorf("expected kind created, got %s", ev.Kind)
		}
		if ev.Alert.ID != alert.ID {
			t.Errorf("expected ID %s, got %s", alert.ID, ev.Alert.ID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for event")
	}
}

func TestBroadcaster_SkipsSlowSubscribers(t *testing.T) {
	b := NewBroadcaster()

	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	// Overfill the subscriber buffer; Publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(KindSLAWarning, models.Alert{ID: "alert_000001"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}

	if len(ch) != cap(ch) {
		t.Errorf("expected full buffer of %d, got %d", cap(ch), len(ch))
	}
}

func TestBroadcaster_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()
	var wg sync.WaitGroup

	// Concurrently subscribe, publish and unsubscribe
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := b.Subscribe()
			b.Publish(KindAcknowledged, models.Alert{ID: "alert_000001"})
			time.Sleep(time.Millisecond)
			b.Unsubscribe(id)
		}()
	}

	wg.Wait()
	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after churn, got %d", b.SubscriberCount())
	}
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster()

	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.Close()

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case _, ok := <-ch:
			if ok {
				t.Error("expected channel closed after Close")
			}
		default:
			t.Error("channel should be closed and readable")
		}
	}

	if b.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.SubscriberCount())
	}
}

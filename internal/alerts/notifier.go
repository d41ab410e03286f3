package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/neervazh/ward-monitor/internal/gateway"
	"github.com/neervazh/ward-monitor/internal/models"
	"github.com/neervazh/ward-monitor/internal/worker"
)

type ackJob struct {
	alert   models.Alert
	actorID string
}

// DeliverySink receives gateway-reported delivery outcomes.
type DeliverySink interface {
	SetDeliveryStatus(id string, status models.DeliveryStatus) bool
}

// GatewayNotifier carries acknowledgment notifications to the external
// gateway over a bounded worker pool, so a slow gateway never blocks store
// transitions. Outcomes are written back as delivery status only.
type GatewayNotifier struct {
	gw      gateway.AlertGateway
	timeout time.Duration
	sink    DeliverySink
	pool    *worker.Pool[ackJob]
}

func NewGatewayNotifier(gw gateway.AlertGateway, timeout time.Duration, workers, bufferSize int) *GatewayNotifier {
	n := &GatewayNotifier{
		gw:      gw,
		timeout: timeout,
	}
	n.pool = worker.NewPool(workers, bufferSize, n.process)
	return n
}

// Bind sets the delivery status write-back target. Called once during
// wiring, before Start.
func (n *GatewayNotifier) Bind(sink DeliverySink) {
	n.sink = sink
}

func (n *GatewayNotifier) Start(ctx context.Context) {
	n.pool.Start(ctx)
}

func (n *GatewayNotifier) Stop() {
	n.pool.Stop()
}

// NotifyAcknowledged enqueues without blocking. A full queue counts as a
// failed delivery; the acknowledgment itself already happened.
func (n *GatewayNotifier) NotifyAcknowledged(alert models.Alert, actorID string) {
	if n.pool.TrySubmit(ackJob{alert: alert, actorID: actorID}) {
		return
	}

	slog.Warn("notification queue full, marking delivery failed", "id", alert.ID)
	if n.sink != nil {
		n.sink.SetDeliveryStatus(alert.ID, models.DeliveryFailed)
	}
}

func (n *GatewayNotifier) process(ctx context.Context, job ackJob) error {
	callCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	receipt, err := n.gw.Acknowledge(callCtx, job.alert.ID, job.actorID, "")

	status := models.DeliveryDelivered
	if err != nil || !receipt.Success {
		status = models.DeliveryFailed
	}

	if n.sink != nil {
		n.sink.SetDeliveryStatus(job.alert.ID, status)
	}

	if err != nil {
		slog.Error("gateway notification failed", "id", job.alert.ID, "error", err)
		return err
	}

	slog.Debug("gateway notification delivered", "id", job.alert.ID, "acknowledged_at", receipt.AcknowledgedAt)
	return nil
}

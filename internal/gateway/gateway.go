package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Receipt is the gateway's answer to an acknowledgment notification. The
// core consumes Success only.
type Receipt struct {
	Success        bool      `json:"success"`
	AcknowledgedAt time.Time `json:"acknowledgedAt"`
}

// AlertGateway delivers acknowledgment events to the external notification
// service. Implementations must bound the call; the store's local state is
// authoritative either way.
type AlertGateway interface {
	Acknowledge(ctx context.Context, alertID, actorID, notes string) (Receipt, error)
}

type ackRequest struct {
	AlertID string `json:"alertId"`
	UserID  string `json:"userId"`
	Notes   string `json:"notes,omitempty"`
}

type HTTPGateway struct {
	url    string
	client *http.Client
}

func NewHTTPGateway(url string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *HTTPGateway) Acknowledge(ctx context.Context, alertID, actorID, notes string) (Receipt, error) {
	body, err := json.Marshal(ackRequest{AlertID: alertID, UserID: actorID, Notes: notes})
	if err != nil {
		return Receipt{}, fmt.Errorf("error encoding ack request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Receipt{}, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return Receipt{}, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	return receipt, nil
}

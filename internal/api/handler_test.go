package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neervazh/ward-monitor/internal/alerts"
	"github.com/neervazh/ward-monitor/internal/events"
	"github.com/neervazh/ward-monitor/internal/models"
	"github.com/neervazh/ward-monitor/internal/repository"
)

// mockRepo implements repository.WardRepository for testing
type mockRepo struct {
	wards []models.Ward
}

func (m *mockRepo) Add(ctx context.Context, w *models.Ward) error {
	m.wards = append(m.wards, *w)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*models.Ward, error) {
	for _, w := range m.wards {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) Exists(ctx context.Context, id string) (bool, error) {
	w, _ := m.GetByID(ctx, id)
	return w != nil, nil
}

func (m *mockRepo) ListWards(ctx context.Context, opts repository.Filter) ([]models.Ward, error) {
	results := m.wards

	if opts.MinRiskScore != nil {
		var filtered []models.Ward
		for _, w := range results {
			if w.RiskScore >= *opts.MinRiskScore {
				filtered = append(filtered, w)
			}
		}
		results = filtered
	}

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	return results, nil
}

func (m *mockRepo) UpdateRiskScore(ctx context.Context, id string, score float64, activeCases int) error {
	return nil
}

func setupTestRouter(store *alerts.Store, repo repository.WardRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(store, repo, events.NewBroadcaster())
	handler.RegisterRoutes(router)
	return router
}

func defaultRepo() *mockRepo {
	return &mockRepo{wards: []models.Ward{
		{ID: "ward-a", Name: "Ward A – Kovilambakkam", RiskScore: 78, Population: 18400, ActiveCases: 42},
		{ID: "ward-f", Name: "Ward F – Thoraipakkam", RiskScore: 18, Population: 14200, ActiveCases: 3},
	}}
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAlert(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	w := postJSON(router, "/api/alerts", gin.H{
		"wardId":   "ward-a",
		"type":     "Turbidity Spike",
		"severity": "high",
		"message":  "Turbidity exceeded 8 NTU threshold at sensor NK-WA-03",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var view alertView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if view.WardName != "Ward A – Kovilambakkam" {
		t.Errorf("ward name not resolved, got %q", view.WardName)
	}
	if view.SLAHours != 2 {
		t.Errorf("expected 2h SLA for high severity, got %d", view.SLAHours)
	}
	if view.DeliveryStatus != "sent" {
		t.Errorf("expected delivery status sent, got %s", view.DeliveryStatus)
	}
}

func TestCreateAlert_ValidationError(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	w := postJSON(router, "/api/alerts", gin.H{
		"wardId":   "ward-a",
		"type":     "",
		"severity": "high",
		"message":  "missing type",
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCreateAlert_UnknownWard(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	w := postJSON(router, "/api/alerts", gin.H{
		"wardId":   "ward-z",
		"type":     "Turbidity Spike",
		"severity": "high",
		"message":  "no such ward",
	})

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestAcknowledgeAlert_Idempotent(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	a, _ := store.Create(models.AlertDraft{
		WardID: "ward-a", WardName: "Ward A", Type: "Turbidity Spike",
		Severity: models.RiskHigh, Message: "test",
	}, time.Now())

	w := postJSON(router, "/api/alerts/"+a.ID+"/ack", gin.H{
		"actorId": "u-101", "actorName": "Dr. Anbu Selvam",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	// Second ack by another actor leaves the record untouched.
	w = postJSON(router, "/api/alerts/"+a.ID+"/ack", gin.H{
		"actorId": "u-202", "actorName": "S. Priya",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 on re-ack, got %d", w.Code)
	}

	var view alertView
	json.Unmarshal(w.Body.Bytes(), &view)
	if view.AcknowledgedBy != "Dr. Anbu Selvam" {
		t.Errorf("re-ack overwrote actor: %q", view.AcknowledgedBy)
	}
}

func TestAcknowledgeAlert_NotFound(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	w := postJSON(router, "/api/alerts/alert_999999/ack", gin.H{"actorId": "u-101"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestEscalateAlert_Authorization(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	a, _ := store.Create(models.AlertDraft{
		WardID: "ward-a", WardName: "Ward A", Type: "Turbidity Spike",
		Severity: models.RiskHigh, Message: "test",
	}, time.Now())

	w := postJSON(router, "/api/alerts/"+a.ID+"/escalate", gin.H{
		"actorId": "u-101", "actorRole": "official",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for non-admin, got %d", w.Code)
	}

	w = postJSON(router, "/api/alerts/"+a.ID+"/escalate", gin.H{
		"actorId": "u-1", "actorRole": "admin",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for admin, got %d", w.Code)
	}

	var view alertView
	json.Unmarshal(w.Body.Bytes(), &view)
	if !view.Escalated {
		t.Error("expected escalated=true")
	}
}

func TestGetAlerts_FilterAndOrdering(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	now := time.Now()
	older, _ := store.Create(models.AlertDraft{
		WardID: "ward-a", WardName: "Ward A", Type: "Turbidity Spike",
		Severity: models.RiskHigh, Message: "older",
	}, now.Add(-time.Hour))
	newer, _ := store.Create(models.AlertDraft{
		WardID: "ward-f", WardName: "Ward F", Type: "Sensor Degradation",
		Severity: models.RiskMedium, Message: "newer",
	}, now)
	store.Acknowledge(newer.ID, models.Actor{ID: "u-101"}, now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/alerts?filter=open", nil)
	router.ServeHTTP(w, req)

	var resp struct {
		Alerts       []alertView `json:"alerts"`
		Open         int         `json:"open"`
		Acknowledged int         `json:"acknowledged"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if len(resp.Alerts) != 1 || resp.Alerts[0].ID != older.ID {
		t.Errorf("open filter returned %+v", resp.Alerts)
	}
	if resp.Open != 1 || resp.Acknowledged != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)", resp.Open, resp.Acknowledged)
	}

	// Full ordering: open alert sorts before the newer acknowledged one.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/alerts", nil)
	router.ServeHTTP(w, req)
	json.Unmarshal(w.Body.Bytes(), &resp)

	if len(resp.Alerts) != 2 || resp.Alerts[0].ID != older.ID {
		t.Errorf("unexpected ordering: %+v", resp.Alerts)
	}
}

func TestGetAlerts_Compact(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	for i := 0; i < 6; i++ {
		store.Create(models.AlertDraft{
			WardID: "ward-a", WardName: "Ward A", Type: "Turbidity Spike",
			Severity: models.RiskLow, Message: "bulk",
		}, time.Now())
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/alerts?compact=true", nil)
	router.ServeHTTP(w, req)

	var resp struct {
		Alerts []alertView `json:"alerts"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if len(resp.Alerts) != 4 {
		t.Errorf("expected 4 alerts in compact view, got %d", len(resp.Alerts))
	}
}

func TestGetAlerts_BadFilter(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/alerts?filter=resolved", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetAlertSLA(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	a, _ := store.Create(models.AlertDraft{
		WardID: "ward-a", WardName: "Ward A", Type: "Turbidity Spike",
		Severity: models.RiskHigh, Message: "test",
	}, time.Now())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/alerts/"+a.ID+"/sla", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var view slaView
	json.Unmarshal(w.Body.Bytes(), &view)
	if view.Overdue {
		t.Error("fresh alert must not be overdue")
	}
	if view.PercentRemaining < 99 {
		t.Errorf("fresh alert should have ~100%% remaining, got %d", view.PercentRemaining)
	}
}

func TestGetWards_AccessiblePalette(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/wards?accessible=true", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Wards []wardView `json:"wards"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)

	if len(resp.Wards) != 2 {
		t.Fatalf("expected 2 wards, got %d", len(resp.Wards))
	}
	for _, ward := range resp.Wards {
		if ward.RiskColor == "#22c55e" || ward.RiskColor == "#ef4444" {
			t.Errorf("ward %s uses default palette color %s in accessible mode", ward.ID, ward.RiskColor)
		}
	}
}

func TestGetWard_NotFound(t *testing.T) {
	store := alerts.NewStore(nil, nil)
	router := setupTestRouter(store, defaultRepo())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/wards/ward-z", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(alerts.NewStore(nil, nil), &mockRepo{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)

	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %s", resp["status"])
	}
}

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neervazh/ward-monitor/internal/alerts"
	"github.com/neervazh/ward-monitor/internal/events"
	"github.com/neervazh/ward-monitor/internal/models"
	"github.com/neervazh/ward-monitor/internal/repository"
)

type Handler struct {
	store *alerts.Store
	repo  repository.WardRepository
	bus   *events.Broadcaster
}

func NewHandler(store *alerts.Store, repo repository.WardRepository, bus *events.Broadcaster) *Handler {
	return &Handler{
		store: store,
		repo:  repo,
		bus:   bus,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/api/wards", h.getWards)
	r.GET("/api/wards/:id", h.getWard)
	r.GET("/api/alerts", h.getAlerts)
	r.POST("/api/alerts", h.createAlert)
	r.POST("/api/alerts/:id/ack", h.acknowledgeAlert)
	r.POST("/api/alerts/:id/escalate", h.escalateAlert)
	r.GET("/api/alerts/:id/sla", h.getAlertSLA)
	r.GET("/api/alerts/stream", h.streamAlerts)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getWards(c *gin.Context) {
	filter := repository.Filter{}

	if m := c.Query("min_score"); m != "" {
		if score, err := strconv.ParseFloat(m, 64); err == nil {
			filter.MinRiskScore = &score
		}
	}
	if s := c.Query("device_status"); s != "" {
		filter.DeviceStatus = &s
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}

	wards, err := h.repo.ListWards(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch wards",
		})
		return
	}

	accessible := accessibleMode(c)
	views := make([]wardView, 0, len(wards))
	for _, w := range wards {
		views = append(views, toWardView(w, accessible))
	}
	c.JSON(http.StatusOK, gin.H{"wards": views})
}

func (h *Handler) getWard(c *gin.Context) {
	ward, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch ward",
		})
		return
	}
	if ward == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ward not found"})
		return
	}

	c.JSON(http.StatusOK, toWardView(*ward, accessibleMode(c)))
}

func (h *Handler) getAlerts(c *gin.Context) {
	filter, ok := parseFilter(c.DefaultQuery("filter", "all"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filter must be all, open or acknowledged"})
		return
	}

	var result []models.Alert
	if c.Query("compact") == "true" {
		result = h.store.Compact()
	} else {
		result = h.store.Query(filter)
	}

	open, acknowledged := h.store.Counts()
	c.JSON(http.StatusOK, gin.H{
		"alerts":       toAlertViews(result, accessibleMode(c), time.Now()),
		"open":         open,
		"acknowledged": acknowledged,
	})
}

type createAlertRequest struct {
	WardID   string `json:"wardId"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

func (h *Handler) createAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	wardName := ""
	if req.WardID != "" {
		ward, err := h.repo.GetByID(c.Request.Context(), req.WardID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "failed to fetch ward",
			})
			return
		}
		if ward == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "ward not found"})
			return
		}
		wardName = ward.Name
	}

	draft := models.AlertDraft{
		WardID:   req.WardID,
		WardName: wardName,
		Type:     req.Type,
		Severity: models.RiskLevel(strings.ToLower(req.Severity)),
		Message:  req.Message,
	}

	a, err := h.store.Create(draft, time.Now())
	if err != nil {
		writeAlertError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAlertView(a, accessibleMode(c), time.Now()))
}

type ackRequest struct {
	ActorID   string `json:"actorId"`
	ActorName string `json:"actorName"`
}

func (h *Handler) acknowledgeAlert(c *gin.Context) {
	var req ackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ActorID == "" {
		req.ActorID = "unknown"
	}

	actor := models.Actor{ID: req.ActorID, Name: req.ActorName}
	a, err := h.store.Acknowledge(c.Param("id"), actor, time.Now())
	if err != nil {
		writeAlertError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertView(a, accessibleMode(c), time.Now()))
}

type escalateRequest struct {
	ActorID   string `json:"actorId"`
	ActorRole string `json:"actorRole"`
}

func (h *Handler) escalateAlert(c *gin.Context) {
	var req escalateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	role := models.Role(strings.ToLower(req.ActorRole))
	a, err := h.store.Escalate(c.Param("id"), role, time.Now())
	if err != nil {
		writeAlertError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAlertView(a, accessibleMode(c), time.Now()))
}

func (h *Handler) getAlertSLA(c *gin.Context) {
	a, err := h.store.Get(c.Param("id"))
	if err != nil {
		writeAlertError(c, err)
		return
	}

	view := toAlertView(a, accessibleMode(c), time.Now())
	c.JSON(http.StatusOK, view.SLA)
}

func (h *Handler) streamAlerts(c *gin.Context) {
	id, ch := h.bus.Subscribe()
	defer h.bus.Unsubscribe(id)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	accessible := accessibleMode(c)

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), gin.H{
				"alert": toAlertView(ev.Alert, accessible, ev.At),
				"at":    ev.At,
			})
			return true
		}
	})
}

func parseFilter(s string) (alerts.Filter, bool) {
	switch strings.ToLower(s) {
	case "all":
		return alerts.FilterAll, true
	case "open":
		return alerts.FilterOpen, true
	case "acknowledged":
		return alerts.FilterAcknowledged, true
	default:
		return "", false
	}
}

func accessibleMode(c *gin.Context) bool {
	return c.Query("accessible") == "true"
}

func writeAlertError(c *gin.Context, err error) {
	var (
		ve *alerts.ValidationError
		nf *alerts.NotFoundError
		ae *alerts.AuthorizationError
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ae):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

type AnalyticsController struct {
	analytics services.AnalyticsService
}

func NewAnalyticsController(analytics services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

type analyticsRequest struct {
	EventName string                 `json:"event_name" binding:"required,analytics_event"`
	Path      string                 `json:"path" binding:"required,max=2048"`
	Referrer  *string                `json:"referrer" binding:"omitempty,max=2048"`
	Meta      map[string]interface{} `json:"meta"`
}

// Track ingests a client-side event. Recording is best-effort; a valid payload is
// always answered with ok.
func (ac *AnalyticsController) Track(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	var req analyticsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	actor := actorFrom(c)
	referrer := actor.Referrer
	if req.Referrer != nil {
		referrer = *req.Referrer
	}
	ev := services.Event{
		Name:      models.EventName(req.EventName),
		Path:      req.Path,
		Referrer:  referrer,
		Meta:      req.Meta,
		SessionID: actor.SessionID,
	}
	if actor.UserID != uuid.Nil {
		userID := actor.UserID
		ev.UserID = &userID
	}
	ac.analytics.Track(c.Request.Context(), ev)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

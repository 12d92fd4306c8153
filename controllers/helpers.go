package controllers

import (
	"strconv"

	"github.com/Ryan-gomezzz/Hush-gentle/middleware"
	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actorFrom collects what the auth and session middleware resolved for this request.
func actorFrom(c *gin.Context) services.Actor {
	userID, _ := middleware.GetUserID(c)
	return services.Actor{
		UserID:    userID,
		Email:     middleware.GetEmail(c),
		SessionID: middleware.GetSessionID(c),
		Referrer:  c.Request.Referer(),
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

func parsePaginationParams(c *gin.Context) (int, int) {
	const (
		maxLimit     = 100
		defaultPage  = 1
		defaultLimit = 10
	)

	page, limit := defaultPage, defaultLimit
	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limit = l
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return page, limit
}

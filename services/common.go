package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor is the caller of a storefront operation as resolved by the auth and session
// middleware.
type Actor struct {
	UserID    uuid.UUID
	Email     string
	SessionID string
	Referrer  string
}

func (a Actor) userRef() *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}

// BusinessMetrics is satisfied by awspkg.MetricsClient.
type BusinessMetrics interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

func recordCount(m BusinessMetrics, name string) {
	if m == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.RecordCount(ctx, name, map[string]string{"Service": "hush-gentle"})
	}()
}

type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

func newMetaData(page, limit int, total int64) MetaData {
	return MetaData{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: calculateTotalPages(total, limit),
		HasMore:    total > int64(page*limit),
	}
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// notFoundOr maps gorm.ErrRecordNotFound to a 404 with message and anything else to a
// storage error.
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(message)
	}
	return apperrors.Storage(err)
}

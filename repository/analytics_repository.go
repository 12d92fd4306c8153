package repository

import (
	"context"
	"time"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"gorm.io/gorm"
)

type AnalyticsRepository interface {
	Create(ctx context.Context, event *models.AnalyticsEvent) error
	DailyCounts(ctx context.Context, since time.Time, names []models.EventName) ([]models.DailyEventCount, error)
	CountByName(ctx context.Context, name models.EventName) (int64, error)
}

type GormAnalyticsRepository struct {
	db *gorm.DB
}

func NewGormAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

func (r *GormAnalyticsRepository) Create(ctx context.Context, event *models.AnalyticsEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// DailyCounts groups events by UTC calendar day and name.
func (r *GormAnalyticsRepository) DailyCounts(ctx context.Context, since time.Time, names []models.EventName) ([]models.DailyEventCount, error) {
	var rows []models.DailyEventCount
	err := r.db.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Select("to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, event_name, COUNT(*) AS count").
		Where("created_at >= ? AND event_name IN ?", since, names).
		Group("day, event_name").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *GormAnalyticsRepository) CountByName(ctx context.Context, name models.EventName) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AnalyticsEvent{}).Where("event_name = ?", name).Count(&count).Error
	return count, err
}

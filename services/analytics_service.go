package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	awspkg "github.com/Ryan-gomezzz/Hush-gentle/pkg/aws"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServerSessionID marks events raised outside a browser session, e.g. by webhooks.
const ServerSessionID = "server"

const (
	analyticsWriteTimeout  = 3 * time.Second
	analyticsFanOutTimeout = 5 * time.Second
)

type Event struct {
	Name      models.EventName
	Path      string
	Referrer  string
	Meta      map[string]interface{}
	UserID    *uuid.UUID
	SessionID string
}

// EventPublisher streams analytics events. *kafka.Producer implements it.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// AnalyticsService records lifecycle events. Track never fails the caller.
type AnalyticsService interface {
	Track(ctx context.Context, ev Event)
}

type analyticsService struct {
	repo      repository.AnalyticsRepository
	publisher EventPublisher
	sns       awspkg.SNSPublisher
	topicArn  string
	metrics   BusinessMetrics
	logger    *zap.Logger
}

func NewAnalyticsService(
	repo repository.AnalyticsRepository,
	publisher EventPublisher,
	sns awspkg.SNSPublisher,
	topicArn string,
	metrics BusinessMetrics,
	logger *zap.Logger,
) AnalyticsService {
	return &analyticsService{
		repo:      repo,
		publisher: publisher,
		sns:       sns,
		topicArn:  topicArn,
		metrics:   metrics,
		logger:    logger,
	}
}

type eventMessage struct {
	EventName models.EventName       `json:"event_name"`
	UserID    *uuid.UUID             `json:"user_id"`
	SessionID string                 `json:"session_id"`
	Path      string                 `json:"path"`
	Referrer  *string                `json:"referrer"`
	Meta      map[string]interface{} `json:"meta"`
	CreatedAt time.Time              `json:"created_at"`
}

func (s *analyticsService) Track(ctx context.Context, ev Event) {
	if !ev.Name.Valid() || len(ev.Path) == 0 || len(ev.Path) > models.MaxEventPathLength ||
		len(ev.Referrer) > models.MaxEventReferrerLength {
		s.logger.Warn("Dropping invalid analytics event",
			zap.String("event_name", string(ev.Name)),
			zap.Int("path_len", len(ev.Path)),
		)
		recordCount(s.metrics, awspkg.MetricAnalyticsDropped)
		return
	}

	if ev.SessionID == "" {
		ev.SessionID = ServerSessionID
	}
	if ev.Meta == nil {
		ev.Meta = map[string]interface{}{}
	}
	var referrer *string
	if ev.Referrer != "" {
		ref := ev.Referrer
		referrer = &ref
	}

	row := &models.AnalyticsEvent{
		EventName: ev.Name,
		UserID:    ev.UserID,
		SessionID: ev.SessionID,
		Path:      ev.Path,
		Referrer:  referrer,
		Meta:      ev.Meta,
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), analyticsWriteTimeout)
	defer cancel()
	if err := s.repo.Create(writeCtx, row); err != nil {
		s.logger.Warn("Failed to record analytics event",
			zap.String("event_name", string(ev.Name)),
			zap.Error(err),
		)
		recordCount(s.metrics, awspkg.MetricAnalyticsDropped)
		return
	}

	if s.publisher == nil && (s.sns == nil || s.topicArn == "") {
		return
	}
	payload, err := json.Marshal(eventMessage{
		EventName: row.EventName,
		UserID:    row.UserID,
		SessionID: row.SessionID,
		Path:      row.Path,
		Referrer:  row.Referrer,
		Meta:      ev.Meta,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("Failed to marshal analytics event", zap.Error(err))
		return
	}
	go s.fanOut(string(ev.Name), ev.SessionID, payload)
}

func (s *analyticsService) fanOut(eventName, key string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), analyticsFanOutTimeout)
	defer cancel()

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, key, payload); err != nil {
			s.logger.Warn("Analytics stream publish failed", zap.String("event_name", eventName), zap.Error(err))
		}
	}
	if s.sns != nil && s.topicArn != "" {
		if err := s.sns.Publish(ctx, s.topicArn, eventName, payload); err != nil {
			s.logger.Warn("Analytics SNS publish failed", zap.String("event_name", eventName), zap.Error(err))
		}
	}
}

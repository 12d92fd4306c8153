package repository

import (
	"context"
	"errors"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository interface {
	FindOrCreateSession(ctx context.Context, sessionKey string, userID *uuid.UUID) (*models.ChatSession, error)
	AppendMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessages(ctx context.Context, page, limit int) ([]models.ChatMessage, int64, error)
}

type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) ChatRepository {
	return &GormChatRepository{db: db}
}

func (r *GormChatRepository) findSession(ctx context.Context, sessionKey string) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionKey).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormChatRepository) FindOrCreateSession(ctx context.Context, sessionKey string, userID *uuid.UUID) (*models.ChatSession, error) {
	session, err := r.findSession(ctx, sessionKey)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session = &models.ChatSession{SessionID: sessionKey, UserID: userID}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.findSession(ctx, sessionKey)
		}
		return nil, err
	}
	return session, nil
}

func (r *GormChatRepository) AppendMessage(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

// ListMessages returns the newest messages first with their session attached.
func (r *GormChatRepository) ListMessages(ctx context.Context, page, limit int) ([]models.ChatMessage, int64, error) {
	var messages []models.ChatMessage
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.ChatMessage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Preload("Session").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

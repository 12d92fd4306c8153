package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatSession is keyed by the opaque client token held in the chat cookie.
type ChatSession struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"session_id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ChatSession) TableName() string { return "chatbot_sessions" }

type ChatMessage struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"session_id"`
	Session   *ChatSession      `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Role      ChatRole          `gorm:"type:varchar(20);not null" json:"role"`
	Content   string            `gorm:"type:text;not null" json:"content"`
	Meta      datatypes.JSONMap `gorm:"type:jsonb" json:"meta"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chatbot_messages" }

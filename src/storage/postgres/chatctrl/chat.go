package chatctrl

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ChatMessage is one turn of a chat session, user or assistant.
type ChatMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string    `gorm:"not null;column:session_id;index" json:"session_id"`
	MessageID string    `gorm:"not null;uniqueIndex" json:"message_id"`
	Role      string    `gorm:"not null" json:"role"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatService struct {
	db *gorm.DB
}

func NewChatService(db *gorm.DB) (*ChatService, error) {
	return &ChatService{db: db}, nil
}

func (s *ChatService) Save(ctx context.Context, msg *ChatMessage) error {
	result := s.db.WithContext(ctx).Create(msg)
	if result.Error != nil {
		return fmt.Errorf("failed to save chat message: %v", result.Error)
	}
	return nil
}

func (s *ChatService) ListBySession(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	var messages []ChatMessage
	result := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list chat messages: %v", result.Error)
	}
	return messages, nil
}

func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) error {
	result := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&ChatMessage{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete chat session: %v", result.Error)
	}
	return nil
}

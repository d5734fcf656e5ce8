// internal/repository/chat_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrifresh/agrifresh-backend/internal/models"
)

type ChatRepository interface {
	Save(ctx context.Context, message *models.ChatMessage) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Save(ctx context.Context, message *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

func (r *chatRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	query := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var messages []models.ChatMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch chat history: %w", err)
	}
	return messages, nil
}

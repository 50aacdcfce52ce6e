package implementation

import (
	"context"
	"time"

	"venturebot-be/internal/entity"
	"venturebot-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{db: db}
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *ChatMessageRepositoryImpl) FindAllBySessionId(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	var messages []*entity.ChatMessage
	query := r.db.WithContext(ctx).
		Where("journey_session_id = ? AND is_deleted = ?", sessionId, false).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	// Reverse to oldest-first for prompt building and history reads.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatMessageRepositoryImpl) DeleteAllBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.ChatMessage{}).
		Where("journey_session_id = ?", sessionId).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": &now}).Error
}

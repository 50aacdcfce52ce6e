package contract

import (
	"context"

	"venturebot-be/internal/entity"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	// FindAllBySessionId returns messages oldest first; limit <= 0 means all.
	FindAllBySessionId(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error)
	DeleteAllBySessionId(ctx context.Context, sessionId uuid.UUID) error
}

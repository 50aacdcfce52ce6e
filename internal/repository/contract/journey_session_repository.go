package contract

import (
	"context"

	"venturebot-be/internal/entity"

	"github.com/google/uuid"
)

type JourneySessionRepository interface {
	Create(ctx context.Context, session *entity.JourneySession) error
	Update(ctx context.Context, session *entity.JourneySession) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.JourneySession, error)
	FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.JourneySession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

package implementation

import (
	"context"
	"errors"
	"time"

	"venturebot-be/internal/entity"
	"venturebot-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JourneySessionRepositoryImpl struct {
	db *gorm.DB
}

func NewJourneySessionRepository(db *gorm.DB) contract.JourneySessionRepository {
	return &JourneySessionRepositoryImpl{db: db}
}

func (r *JourneySessionRepositoryImpl) Create(ctx context.Context, session *entity.JourneySession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *JourneySessionRepositoryImpl) Update(ctx context.Context, session *entity.JourneySession) error {
	now := time.Now()
	session.UpdatedAt = &now
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *JourneySessionRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.JourneySession, error) {
	var session entity.JourneySession
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *JourneySessionRepositoryImpl) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.JourneySession, error) {
	var sessions []*entity.JourneySession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *JourneySessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.JourneySession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": &now}).Error
}

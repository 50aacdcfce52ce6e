package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Chat             string
	Role             string
	JourneySessionId uuid.UUID `gorm:"type:uuid;index"`
	Stage            string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}

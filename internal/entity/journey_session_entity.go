package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// JourneySession is one user's end-to-end coaching journey.
type JourneySession struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	Title     string
	Stage     string
	Memory    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

package dto

import (
	"time"

	"github.com/google/uuid"

	"venturebot-be/internal/entity"
)

type CreateJourneySessionRequest struct {
	Title string `json:"title" validate:"omitempty,max=120"`
}

type JourneySessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Stage     string     `json:"stage"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type CreateJourneySessionResponse struct {
	Session  JourneySessionResponse `json:"session"`
	Greeting string                 `json:"greeting"`
}

type ChatRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Message   string    `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	Stage    string   `json:"stage"`
	Messages []string `json:"messages"`
}

type ChatHistoryItem struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Stage     string    `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionSnapshotResponse struct {
	Session JourneySessionResponse `json:"session"`
	Memory  *entity.Memory         `json:"memory"`
}

// WsChatMessage is the inbound frame shape on the realtime socket.
type WsChatMessage struct {
	Message string `json:"message"`
}

package service

import (
	"context"

	"github.com/google/uuid"

	"venturebot-be/internal/entity"
	"venturebot-be/internal/repository/contract"
	"venturebot-be/internal/repository/memory"
	"venturebot-be/pkg/journey"
)

// journeyStore adapts the repositories to the orchestrator's persistence
// contract. SaveStep writes the database row and refreshes the snapshot
// cache so reads after a committed step never observe the previous state.
type journeyStore struct {
	sessions  contract.JourneySessionRepository
	messages  contract.ChatMessageRepository
	snapshots *memory.SessionSnapshotRepository
}

var _ journey.Store = &journeyStore{}

func NewJourneyStore(
	sessions contract.JourneySessionRepository,
	messages contract.ChatMessageRepository,
	snapshots *memory.SessionSnapshotRepository,
) journey.Store {
	return &journeyStore{sessions: sessions, messages: messages, snapshots: snapshots}
}

func (s *journeyStore) SaveStep(ctx context.Context, session *entity.JourneySession) error {
	if err := s.sessions.Update(ctx, session); err != nil {
		return err
	}
	s.snapshots.Save(session)
	return nil
}

func (s *journeyStore) AppendMessage(ctx context.Context, message *entity.ChatMessage) error {
	return s.messages.Create(ctx, message)
}

func (s *journeyStore) RecentMessages(ctx context.Context, sessionId uuid.UUID, limit int) ([]entity.ChatMessage, error) {
	messages, err := s.messages.FindAllBySessionId(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}
	out := make([]entity.ChatMessage, len(messages))
	for i, m := range messages {
		out[i] = *m
	}
	return out, nil
}

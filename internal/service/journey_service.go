package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"venturebot-be/internal/constant"
	"venturebot-be/internal/dto"
	"venturebot-be/internal/entity"
	"venturebot-be/internal/pkg/logger"
	"venturebot-be/internal/repository/contract"
	"venturebot-be/internal/repository/memory"
	"venturebot-be/pkg/journey"
)

type IJourneyService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateJourneySessionRequest) (*dto.CreateJourneySessionResponse, error)
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]dto.ChatHistoryItem, error)
	GetSnapshot(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionSnapshotResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.JourneySessionResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type journeyService struct {
	sessions     contract.JourneySessionRepository
	messages     contract.ChatMessageRepository
	snapshots    *memory.SessionSnapshotRepository
	orchestrator *journey.Orchestrator
	sink         journey.EventSink
	log          logger.ILogger
}

func NewJourneyService(
	sessions contract.JourneySessionRepository,
	messages contract.ChatMessageRepository,
	snapshots *memory.SessionSnapshotRepository,
	orchestrator *journey.Orchestrator,
	sink journey.EventSink,
	log logger.ILogger,
) IJourneyService {
	return &journeyService{
		sessions:     sessions,
		messages:     messages,
		snapshots:    snapshots,
		orchestrator: orchestrator,
		sink:         sink,
		log:          log,
	}
}

func (s *journeyService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateJourneySessionRequest) (*dto.CreateJourneySessionResponse, error) {
	session := &entity.JourneySession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     req.Title,
		Stage:     string(journey.StageOnboarding),
		CreatedAt: time.Now(),
	}
	if err := session.EncodeMemory(&entity.Memory{}); err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	s.snapshots.Save(session)

	greeting := &entity.ChatMessage{
		Id:               uuid.New(),
		Chat:             constant.GreetingMessage,
		Role:             constant.ChatMessageRoleModel,
		JourneySessionId: session.Id,
		Stage:            session.Stage,
		CreatedAt:        time.Now(),
	}
	if err := s.messages.Create(ctx, greeting); err != nil {
		s.log.Warn("journey-service", "failed to persist greeting", map[string]any{"error": err.Error()})
	}

	s.sink.Emit(session.Id, constant.EventSessionReady, map[string]any{
		"stage":    session.Stage,
		"greeting": constant.GreetingMessage,
	})

	return &dto.CreateJourneySessionResponse{
		Session:  toSessionResponse(session),
		Greeting: constant.GreetingMessage,
	}, nil
}

func (s *journeyService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	session, err := s.findOwned(ctx, userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	result, err := s.orchestrator.Advance(ctx, session, req.Message)
	if err != nil {
		return nil, err
	}
	s.snapshots.Save(session)

	return &dto.ChatResponse{
		Stage:    string(result.Stage),
		Messages: result.Messages,
	}, nil
}

func (s *journeyService) GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]dto.ChatHistoryItem, error) {
	if _, err := s.findOwned(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := s.messages.FindAllBySessionId(ctx, sessionId, 0)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ChatHistoryItem, 0, len(messages))
	for _, m := range messages {
		items = append(items, dto.ChatHistoryItem{
			Role:      m.Role,
			Content:   m.Chat,
			Stage:     m.Stage,
			CreatedAt: m.CreatedAt,
		})
	}
	return items, nil
}

func (s *journeyService) GetSnapshot(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionSnapshotResponse, error) {
	session, err := s.findOwned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return &dto.SessionSnapshotResponse{
		Session: toSessionResponse(session),
		Memory:  session.DecodeMemory(),
	}, nil
}

func (s *journeyService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.JourneySessionResponse, error) {
	sessions, err := s.sessions.FindAllByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JourneySessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionResponse(session))
	}
	return out, nil
}

func (s *journeyService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	if _, err := s.findOwned(ctx, userId, sessionId); err != nil {
		return err
	}
	if err := s.messages.DeleteAllBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionId); err != nil {
		return err
	}
	s.snapshots.Delete(sessionId)
	return nil
}

// findOwned resolves a session and enforces ownership. A foreign session is
// indistinguishable from a missing one.
func (s *journeyService) findOwned(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*entity.JourneySession, error) {
	if cached, ok := s.snapshots.Get(sessionId); ok {
		if cached.UserId != userId {
			return nil, journey.ErrUnknownSession
		}
		return cached, nil
	}

	session, err := s.sessions.FindById(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != userId {
		return nil, journey.ErrUnknownSession
	}
	s.snapshots.Save(session)
	return session, nil
}

func toSessionResponse(session *entity.JourneySession) dto.JourneySessionResponse {
	return dto.JourneySessionResponse{
		Id:        session.Id,
		Title:     session.Title,
		Stage:     session.Stage,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

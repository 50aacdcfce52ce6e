package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venturebot-be/internal/constant"
	"venturebot-be/internal/dto"
	"venturebot-be/internal/entity"
	"venturebot-be/internal/repository/memory"
	"venturebot-be/pkg/journey"
	"venturebot-be/pkg/llm"
	"venturebot-be/pkg/market"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.JourneySession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]entity.JourneySession)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.JourneySession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Id] = *session
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.JourneySession) error {
	return r.Create(ctx, session)
}

func (r *fakeSessionRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.JourneySession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && !s.IsDeleted {
		copied := s
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAllByUserId(ctx context.Context, userId uuid.UUID) ([]*entity.JourneySession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.JourneySession
	for _, s := range r.sessions {
		if s.UserId == userId && !s.IsDeleted {
			copied := s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.IsDeleted = true
		r.sessions[id] = s
	}
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []entity.ChatMessage
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) FindAllBySessionId(ctx context.Context, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ChatMessage
	for i := range r.messages {
		if r.messages[i].JourneySessionId == sessionId && !r.messages[i].IsDeleted {
			copied := r.messages[i]
			out = append(out, &copied)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeMessageRepo) DeleteAllBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].JourneySessionId == sessionId {
			r.messages[i].IsDeleted = true
		}
	}
	return nil
}

type recordSink struct {
	mu     sync.Mutex
	events []string
}

func (r *recordSink) Emit(sessionId uuid.UUID, name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
}

func (r *recordSink) has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, got := range r.events {
		if got == name {
			return true
		}
	}
	return false
}

type stubLLM struct {
	response string
}

func (p *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.response, nil
}

func (p *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.response, nil
}

type stubValidator struct{}

func (stubValidator) Validate(ctx context.Context, ideaIndex int, ideaText string) market.ValidationResult {
	return market.ValidationResult{IdeaIndex: ideaIndex, IdeaText: ideaText, Report: "VALIDATION REPORT"}
}

func newTestService(response string) (IJourneyService, *fakeSessionRepo, *fakeMessageRepo, *recordSink, *memory.SessionSnapshotRepository) {
	sessions := newFakeSessionRepo()
	messages := &fakeMessageRepo{}
	snapshots := memory.NewSessionSnapshotRepository()
	sink := &recordSink{}

	executor := journey.NewExecutor(&stubLLM{response: response}, journey.ExecutorConfig{Retries: 0, Timeout: time.Second}, nopLogger{})
	store := NewJourneyStore(sessions, messages, snapshots)
	orch := journey.NewOrchestrator(store, sink, executor, stubValidator{}, journey.Config{NumIdeas: 5}, nopLogger{})

	svc := NewJourneyService(sessions, messages, snapshots, orch, sink, nopLogger{})
	return svc, sessions, messages, sink, snapshots
}

func TestCreateSessionStartsAtOnboarding(t *testing.T) {
	svc, sessions, messages, sink, _ := newTestService("")
	userId := uuid.New()

	res, err := svc.CreateSession(context.Background(), userId, &dto.CreateJourneySessionRequest{})
	require.NoError(t, err)

	assert.Equal(t, string(journey.StageOnboarding), res.Session.Stage)
	assert.Equal(t, constant.GreetingMessage, res.Greeting)
	assert.True(t, sink.has(constant.EventSessionReady))

	stored, err := sessions.FindById(context.Background(), res.Session.Id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, userId, stored.UserId)

	history, err := messages.FindAllBySessionId(context.Background(), res.Session.Id, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, constant.ChatMessageRoleModel, history[0].Role)
}

func TestChatAdvancesAndCaches(t *testing.T) {
	svc, sessions, _, _, snapshots := newTestService(
		`{"message": "Hi Alex!", "name": "Alex", "interests": "", "goals": "", "ready": false}`,
	)
	userId := uuid.New()

	created, err := svc.CreateSession(context.Background(), userId, &dto.CreateJourneySessionRequest{})
	require.NoError(t, err)

	res, err := svc.Chat(context.Background(), userId, &dto.ChatRequest{SessionId: created.Session.Id, Message: "My name is Alex"})
	require.NoError(t, err)
	assert.Equal(t, string(journey.StageOnboarding), res.Stage)
	require.NotEmpty(t, res.Messages)

	cached, ok := snapshots.Get(created.Session.Id)
	require.True(t, ok)
	assert.Equal(t, "Alex", cached.DecodeMemory().Profile.Name)

	stored, err := sessions.FindById(context.Background(), created.Session.Id)
	require.NoError(t, err)
	assert.Equal(t, "Alex", stored.DecodeMemory().Profile.Name)
}

func TestForeignSessionLooksUnknown(t *testing.T) {
	svc, _, _, _, _ := newTestService("")
	owner := uuid.New()
	intruder := uuid.New()

	created, err := svc.CreateSession(context.Background(), owner, &dto.CreateJourneySessionRequest{})
	require.NoError(t, err)

	_, err = svc.GetSnapshot(context.Background(), intruder, created.Session.Id)
	assert.ErrorIs(t, err, journey.ErrUnknownSession)

	_, err = svc.Chat(context.Background(), intruder, &dto.ChatRequest{SessionId: created.Session.Id, Message: "hi"})
	assert.ErrorIs(t, err, journey.ErrUnknownSession)
}

func TestUnknownSessionId(t *testing.T) {
	svc, _, _, _, _ := newTestService("")

	_, err := svc.GetHistory(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, journey.ErrUnknownSession)
}

func TestDeleteSessionClearsEverything(t *testing.T) {
	svc, sessions, messages, _, snapshots := newTestService("")
	userId := uuid.New()

	created, err := svc.CreateSession(context.Background(), userId, &dto.CreateJourneySessionRequest{Title: "my venture"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(context.Background(), userId, created.Session.Id))

	stored, err := sessions.FindById(context.Background(), created.Session.Id)
	require.NoError(t, err)
	assert.Nil(t, stored)

	_, ok := snapshots.Get(created.Session.Id)
	assert.False(t, ok)

	history, err := messages.FindAllBySessionId(context.Background(), created.Session.Id, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = svc.GetSnapshot(context.Background(), userId, created.Session.Id)
	assert.ErrorIs(t, err, journey.ErrUnknownSession)
}

package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venturebot-be/internal/entity"
)

func TestSnapshotIsolatesCallersFromTheCache(t *testing.T) {
	repo := NewSessionSnapshotRepository()
	session := &entity.JourneySession{Id: uuid.New(), Stage: "onboarding"}
	repo.Save(session)

	// The caller mutating its own object must not reach the cached copy.
	session.Stage = "validation"
	got, ok := repo.Get(session.Id)
	require.True(t, ok)
	assert.Equal(t, "onboarding", got.Stage)

	// And mutating what Get handed out must not either.
	got.Stage = "complete"
	again, ok := repo.Get(session.Id)
	require.True(t, ok)
	assert.Equal(t, "onboarding", again.Stage)
}

func TestSnapshotDelete(t *testing.T) {
	repo := NewSessionSnapshotRepository()
	session := &entity.JourneySession{Id: uuid.New(), Stage: "onboarding"}
	repo.Save(session)
	repo.Delete(session.Id)

	_, ok := repo.Get(session.Id)
	assert.False(t, ok)
}

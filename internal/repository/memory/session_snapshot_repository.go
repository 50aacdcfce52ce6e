package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"venturebot-be/internal/entity"
)

// SessionSnapshotRepository keeps the latest committed session state in
// process memory so snapshot reads skip the database on the hot path. The
// database stays the source of truth; this is a read-through cache.
type SessionSnapshotRepository struct {
	cache *cache.Cache
}

func NewSessionSnapshotRepository() *SessionSnapshotRepository {
	// Sessions idle for an hour fall out; expired items purge every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionSnapshotRepository{cache: c}
}

// Save stores a copy so later mutations of the caller's session never leak
// into the cache before they are committed.
func (r *SessionSnapshotRepository) Save(session *entity.JourneySession) {
	copied := *session
	r.cache.Set(session.Id.String(), &copied, cache.DefaultExpiration)
}

// Get returns a private copy; concurrent readers never share a session object
// with an in-flight advance.
func (r *SessionSnapshotRepository) Get(sessionId uuid.UUID) (*entity.JourneySession, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		copied := *x.(*entity.JourneySession)
		return &copied, true
	}
	return nil, false
}

func (r *SessionSnapshotRepository) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}

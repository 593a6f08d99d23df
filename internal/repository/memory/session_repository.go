package memory

import (
	"time"

	"sheets-editor-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps open edit sessions in process. Every Get slides the
// expiry forward, so only idle sessions time out.
type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, ttl/6),
		ttl:   ttl,
	}
}

// OnEvicted registers fn to run when a session expires or is deleted.
func (r *SessionRepository) OnEvicted(fn func(session *store.EditSession)) {
	r.cache.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*store.EditSession); ok {
			fn(s)
		}
	})
}

func (r *SessionRepository) Save(session *store.EditSession) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.EditSession, bool) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, false
	}
	session := x.(*store.EditSession)
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return session, true
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

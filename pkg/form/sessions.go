package form

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Sessions keeps one Controller per browser session. Entries expire after
// ttl without access, which discards the form state.
type Sessions struct {
	mu      sync.Mutex
	cache   *gocache.Cache
	factory func() *Controller
}

// NewSessions creates a session cache; factory builds a fresh controller.
func NewSessions(ttl time.Duration, factory func() *Controller) *Sessions {
	cleanup := ttl
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &Sessions{
		cache:   gocache.New(ttl, cleanup),
		factory: factory,
	}
}

// Open returns the controller for id, creating a new session when id is
// empty or expired. The returned id is the one to hand back to the client.
func (s *Sessions) Open(id string) (string, *Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if v, ok := s.cache.Get(id); ok {
			if ctrl, ok := v.(*Controller); ok {
				// slide expiry
				s.cache.Set(id, ctrl, gocache.DefaultExpiration)
				return id, ctrl
			}
		}
	}

	id = uuid.NewString()
	ctrl := s.factory()
	s.cache.Set(id, ctrl, gocache.DefaultExpiration)
	return id, ctrl
}

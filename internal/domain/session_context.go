package domain

import (
	"context"
	"sync"
)

const (
	CacheUsers   = "users"
	CacheDevices = "devices"
)

// SessionContext memoises collection reads for one unit of work. Any write
// issued through the same context clears it.
type SessionContext struct {
	mu     sync.Mutex
	caches map[string]any
}

func NewSessionContext() *SessionContext {
	return &SessionContext{caches: make(map[string]any)}
}

func (s *SessionContext) Get(name string) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.caches[name]
	return v, ok
}

func (s *SessionContext) Set(name string, value any) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caches[name] = value
}

func (s *SessionContext) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caches = make(map[string]any)
}

type sessionContextKey struct{}

func WithSessionContext(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sc)
}

// SessionContextFrom returns nil when ctx carries no session; all methods
// of a nil *SessionContext are no-ops.
func SessionContextFrom(ctx context.Context) *SessionContext {
	sc, _ := ctx.Value(sessionContextKey{}).(*SessionContext)
	return sc
}

// InvalidateSession clears the cache of the session carried by ctx.
func InvalidateSession(ctx context.Context) {
	SessionContextFrom(ctx).Clear()
}

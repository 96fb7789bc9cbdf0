package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"evogame/internal/engine"
	"evogame/internal/model"
)

var errSessionNotFound = errors.New("session not found")

// session owns one engine. Calls on the engine are serialised by mu.
type session struct {
	id        string
	createdAt time.Time

	mu     sync.Mutex
	engine *engine.Engine
}

type sessionRegistry struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionRegistry(logger *slog.Logger) *sessionRegistry {
	return &sessionRegistry{
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// create sets up a fresh engine and registers it only when setup succeeds.
func (r *sessionRegistry) create(p model.Params) (*session, model.HistoryRecord, error) {
	eng := engine.New(engine.WithLogger(r.logger))
	if err := eng.Setup(p); err != nil {
		return nil, model.HistoryRecord{}, err
	}
	rec, err := eng.Latest()
	if err != nil {
		return nil, model.HistoryRecord{}, err
	}

	s := &session{
		id:        uuid.NewString(),
		createdAt: time.Now().UTC(),
		engine:    eng,
	}
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	return s, rec, nil
}

func (r *sessionRegistry) get(id string) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	return s, nil
}

func (r *sessionRegistry) remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

func (r *sessionRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ids returns session ids ordered by creation time.
func (r *sessionRegistry) ids() []string {
	r.mu.RLock()
	list := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].createdAt.Equal(list[j].createdAt) {
			return list[i].id < list[j].id
		}
		return list[i].createdAt.Before(list[j].createdAt)
	})
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.id)
	}
	return out
}

// with runs fn while holding the session's lock.
func (s *session) with(fn func(*engine.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

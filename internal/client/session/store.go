// Package session holds the process-wide record of who is signed in.
//
// A Store is created once at start-up, initialized once, read by many
// screens and closed on shutdown. It is written only by the backend's
// session-change subscription and by the one-time initial lookup.
package session

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/logging"
)

// Backend is the part of client.Client the store depends on.
type Backend interface {
	GetSession(ctx context.Context) (*models.Session, error)
	Subscribe(fn client.AuthChangeFunc) (unsubscribe func())
}

// State is a snapshot of the store. Session is nil when signed out.
type State struct {
	Session     *models.Session
	Initialized bool
}

type Store struct {
	backend Backend
	logger  logging.Logger
	once    sync.Once

	// notifyMu orders state changes together with their notifications.
	notifyMu sync.Mutex

	mu          sync.Mutex
	state       State
	version     uint64
	closed      bool
	unsubscribe func()
	watchers    map[int]func(State)
	nextID      int
}

func NewStore(backend Backend, l logging.Logger) *Store {
	return &Store{
		backend:  backend,
		logger:   l.With("module", "session_store"),
		watchers: make(map[int]func(State)),
	}
}

// Initialize subscribes to session changes and then looks up the current
// session once. A change delivered while the lookup is in flight wins over
// the looked-up value. Initialized becomes true even when the lookup fails.
// Calls after the first are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	s.once.Do(func() {
		unsubscribe := s.backend.Subscribe(s.OnSessionChanged)

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			unsubscribe()
			return
		}
		s.unsubscribe = unsubscribe
		seen := s.version
		s.mu.Unlock()

		current, err := s.backend.GetSession(ctx)
		if err != nil {
			s.logger.Warn(ctx, "initial session lookup failed", "error", err)
		}

		s.update(func(st *State, version uint64) {
			if err == nil && version == seen {
				st.Session = current
			}
			st.Initialized = true
		})
	})
}

// OnSessionChanged replaces the stored session. It is the subscription
// callback and is safe to call directly.
func (s *Store) OnSessionChanged(_ models.AuthEvent, session *models.Session) {
	s.update(func(st *State, _ uint64) {
		st.Session = session
		s.version++
	})
}

func (s *Store) update(fn func(st *State, version uint64)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	fn(&s.state, s.version)
	st := s.state
	ids := make([]int, 0, len(s.watchers))
	for id := range s.watchers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.watchers[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Watch calls fn after every change until cancel is called.
func (s *Store) Watch(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// Close releases the backend subscription. Changes arriving afterwards are
// ignored.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.watchers = map[int]func(State){}
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

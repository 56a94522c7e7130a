package router

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/codehunt/internal/client/session"
	"github.com/dmitrijs2005/codehunt/internal/logging"
)

// DecideRoute returns the area the user must be moved to, if any.
// Nothing is decided before the first session lookup has resolved.
func DecideRoute(hasSession, initialized bool, current Area) (Area, bool) {
	if !initialized {
		return current, false
	}
	switch {
	case !hasSession && current == AreaAuthenticated:
		return AreaUnauthenticated, true
	case hasSession && current == AreaUnauthenticated:
		return AreaAuthenticated, true
	}
	return current, false
}

// Navigator is the piece of the UI the guard drives.
type Navigator interface {
	Current() Screen
	Replace(s Screen)
}

// StateSource is satisfied by *session.Store.
type StateSource interface {
	State() session.State
	Watch(fn func(session.State)) (cancel func())
}

type Guard struct {
	nav    Navigator
	logger logging.Logger
	mu     sync.Mutex
}

func NewGuard(nav Navigator, l logging.Logger) *Guard {
	return &Guard{nav: nav, logger: l.With("module", "route_guard")}
}

// Evaluate applies the routing rule to the given state. It reports whether
// a navigation happened.
func (g *Guard) Evaluate(st session.State) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	current := g.nav.Current()
	target, ok := DecideRoute(st.Session != nil, st.Initialized, current.Area())
	if !ok {
		return false
	}
	next := EntryScreen(target)
	if next == current {
		return false
	}
	g.logger.Debug(context.Background(), "redirect", "from", string(current), "to", string(next))
	g.nav.Replace(next)
	return true
}

// Attach evaluates the current state and then every change of src until
// the returned func is called.
func (g *Guard) Attach(src StateSource) (detach func()) {
	cancel := src.Watch(func(st session.State) { g.Evaluate(st) })
	g.Evaluate(src.State())
	return cancel
}

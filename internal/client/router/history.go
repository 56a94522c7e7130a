package router

import "sync"

// History is an in-memory navigation stack.
type History struct {
	mu    sync.Mutex
	stack []Screen
}

func NewHistory(start Screen) *History {
	return &History{stack: []Screen{start}}
}

func (h *History) Current() Screen {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stack[len(h.stack)-1]
}

// Replace drops the whole stack, so Back cannot return into an area the
// user was moved out of.
func (h *History) Replace(s Screen) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = []Screen{s}
}

func (h *History) Push(s Screen) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stack[len(h.stack)-1] == s {
		return
	}
	h.stack = append(h.stack, s)
}

// Back pops the current screen. It reports false at the root.
func (h *History) Back() (Screen, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) == 1 {
		return h.stack[0], false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.stack[len(h.stack)-1], true
}

func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}

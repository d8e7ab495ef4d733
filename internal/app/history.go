package app

import "sync"

// History is the in-process navigator: a browser-style location stack.
// Navigate pushes a new location; Replace swaps the current one, so backing
// up can never land on a location that was replaced away.
type History struct {
	mu    sync.Mutex
	stack []string
}

func NewHistory(initial string) *History {
	return &History{stack: []string{initial}}
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = append(h.stack, path)
}

func (h *History) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) == 0 {
		h.stack = []string{path}
		return
	}
	h.stack[len(h.stack)-1] = path
}

// Back pops the current location and returns the new one. At the bottom of
// the stack it stays put.
func (h *History) Back() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
	return h.stack[len(h.stack)-1]
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stack[len(h.stack)-1]
}

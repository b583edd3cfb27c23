// Package navigation models the navigable location the query controller
// mirrors committed state into: a query-parameter map with history semantics.
package navigation

import (
	"net/url"
	"sync"
)

// Query parameters owned by the query controller.
const (
	ParamSearch   = "q"
	ParamCategory = "category"
)

// AddressBar is the readable/writable query-parameter map for the current
// location. Replace rewrites the current entry; Push creates a new one.
type AddressBar interface {
	Query() url.Values
	Replace(values url.Values)
	Push(values url.Values)
}

// History is an in-memory AddressBar with a back-stack, used by tests and the
// demo wiring.
type History struct {
	mu      sync.Mutex
	entries []url.Values
}

// NewHistory returns a History positioned at an entry with no parameters.
func NewHistory() *History {
	return &History{entries: []url.Values{{}}}
}

func (h *History) Query() url.Values {
	h.mu.Lock()
	defer h.mu.Unlock()
	return cloneValues(h.entries[len(h.entries)-1])
}

func (h *History) Replace(values url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[len(h.entries)-1] = cloneValues(values)
}

func (h *History) Push(values url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, cloneValues(values))
}

// Back pops the current entry and reports whether a previous one existed.
func (h *History) Back() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) <= 1 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Depth reports the number of history entries.
func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func cloneValues(values url.Values) url.Values {
	cloned := url.Values{}
	for key, vals := range values {
		for _, v := range vals {
			cloned.Add(key, v)
		}
	}
	return cloned
}

// Package presence tracks which users currently hold open realtime
// connections. The registry is process-local and rebuilt purely from
// connection open/close events; it is the authoritative source for
// online/offline decisions while the persisted flag is only a mirror.
package presence

import "sync"

// Tracker is a ref-counted registry mapping a user ID to the set of that
// user's active connection IDs. It is injected into the gateway rather
// than held as package state so a shared store can replace it if the
// service ever runs multi-instance.
type Tracker struct {
	mu    sync.Mutex
	users map[string]map[string]struct{}
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{users: make(map[string]map[string]struct{})}
}

// Add records a connection for the user and reports whether this was the
// user's first concurrent connection (the ABSENT -> ONLINE edge). The
// mutation and the size decision happen under one lock so concurrent
// connects from multiple devices cannot double-fire the online event.
func (t *Tracker) Add(userID, connID string) (first bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	conns, ok := t.users[userID]
	if !ok {
		conns = make(map[string]struct{})
		t.users[userID] = conns
	}
	conns[connID] = struct{}{}
	return len(conns) == 1
}

// Remove drops a connection for the user and reports whether the user's
// connection set became empty (the ONLINE -> ABSENT edge). Removing an
// unknown connection is a no-op and never reports an edge.
func (t *Tracker) Remove(userID, connID string) (last bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	conns, ok := t.users[userID]
	if !ok {
		return false
	}
	if _, ok := conns[connID]; !ok {
		return false
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(t.users, userID)
		return true
	}
	return false
}

// Online reports whether the user holds at least one open connection.
func (t *Tracker) Online(userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.users[userID]) > 0
}

// Connections returns the user's current connection count.
func (t *Tracker) Connections(userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.users[userID])
}

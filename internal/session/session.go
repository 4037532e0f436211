// Package session owns the running tournament. All access goes through View
// (shared) or Update (exclusive), so HTTP handlers and background tasks never
// touch the unsynchronized tournament.Manager concurrently.
package session

import (
	"sync"

	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

// Session guards one tournament.Manager.
type Session struct {
	mu       sync.RWMutex
	m        *tournament.Manager
	version  uint64
	onChange []func()
}

// New wraps m. The caller must not use m directly afterwards.
func New(m *tournament.Manager) *Session {
	return &Session{m: m}
}

// View runs fn with shared access. fn must not mutate the manager.
func (s *Session) View(fn func(m *tournament.Manager)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.m)
}

// Update runs fn with exclusive access. fn reports whether it changed state;
// if so the version is bumped and change hooks run after the lock is
// released.
func (s *Session) Update(fn func(m *tournament.Manager) bool) bool {
	changed, hooks := func() (bool, []func()) {
		s.mu.Lock()
		defer s.mu.Unlock()
		c := fn(s.m)
		if c {
			s.version++
		}
		return c, s.onChange
	}()

	if changed {
		for _, h := range hooks {
			h()
		}
	}
	return changed
}

// Apply runs a tournament operation under Update and returns its result.
// State counts as changed when the operation succeeded.
func (s *Session) Apply(op func(m *tournament.Manager) tournament.Result) tournament.Result {
	var res tournament.Result
	s.Update(func(m *tournament.Manager) bool {
		res = op(m)
		return res.Success
	})
	return res
}

// Snapshot exports the current state together with its version.
func (s *Session) Snapshot() (tournament.Snapshot, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.m.Export(), s.version
}

// Version increases by one with every successful change.
func (s *Session) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// OnChange registers fn to run after every successful change.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

package session

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Johane03/Drag-Race-Manager/internal/tournament"
)

func TestSessionApply(t *testing.T) {
	s := New(tournament.NewManager([]string{"OPEN"}))
	var hooks atomic.Int32
	s.OnChange(func() { hooks.Add(1) })

	res := s.Apply(func(m *tournament.Manager) tournament.Result { return m.AddDriver("Alice", "OPEN") })
	require.True(t, res.Success)
	assert.EqualValues(t, 1, s.Version())

	res = s.Apply(func(m *tournament.Manager) tournament.Result { return m.AddDriver("Alice", "OPEN") })
	assert.False(t, res.Success)
	assert.EqualValues(t, 1, s.Version(), "failed operations do not bump the version")
	assert.EqualValues(t, 1, hooks.Load())

	snap, version := s.Snapshot()
	assert.EqualValues(t, 1, version)
	assert.Contains(t, snap.Drivers, "Alice")
}

func TestSessionConcurrentRaces(t *testing.T) {
	s := New(tournament.NewManager([]string{"OPEN"}))
	const drivers = 20
	for i := 0; i < drivers; i++ {
		name := fmt.Sprintf("D%02d", i)
		require.True(t, s.Apply(func(m *tournament.Manager) tournament.Result { return m.AddDriver(name, "OPEN") }).Success)
	}

	var wg sync.WaitGroup
	for i := 0; i < drivers; i += 2 {
		wg.Add(2)
		d1, d2 := fmt.Sprintf("D%02d", i), fmt.Sprintf("D%02d", i+1)
		go func() {
			defer wg.Done()
			s.Apply(func(m *tournament.Manager) tournament.Result {
				return m.RecordRace(tournament.RaceInput{Driver1: d1, Driver2: d2, Winner: d1})
			})
		}()
		go func() {
			defer wg.Done()
			s.View(func(m *tournament.Manager) { _ = m.Rankings("OPEN") })
		}()
	}
	wg.Wait()

	s.View(func(m *tournament.Manager) {
		assert.Equal(t, drivers/2, m.RaceCounter())
		assert.Equal(t, drivers/2, m.Stats().TotalRaces)
	})
}

func TestSessionUpdatePanicReleasesLock(t *testing.T) {
	s := New(tournament.NewManager([]string{"OPEN"}))

	assert.Panics(t, func() {
		s.Update(func(*tournament.Manager) bool { panic("boom") })
	})
	assert.Zero(t, s.Version())

	done := make(chan bool, 1)
	go func() {
		done <- s.Update(func(m *tournament.Manager) bool { return m.AddDriver("Alice", "OPEN").Success })
	}()

	select {
	case changed := <-done:
		assert.True(t, changed)
	case <-time.After(2 * time.Second):
		t.Fatal("lock still held after a panicking update")
	}
	assert.EqualValues(t, 1, s.Version())
}

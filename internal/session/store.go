// Package session keeps one keypad state machine per remote client.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"go-chi-keypad/internal/keypad"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrCapacity = errors.New("session capacity reached")
)

// Options configures a Store. Zero values fall back to defaults.
type Options struct {
	IdleTTL     time.Duration
	MaxSessions int
	Now         func() time.Time
}

const (
	defaultIdleTTL     = 30 * time.Minute
	defaultMaxSessions = 10000
)

// Observer is called after every key applied by Press.
type Observer func(i int, k keypad.Key, before, after keypad.Snapshot, err error)

type entry struct {
	state    *keypad.State
	lastUsed time.Time
}

// Store holds keypad sessions. A single mutex serialises every access,
// so presses on one session are applied strictly one after another.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	idleTTL  time.Duration
	max      int
	now      func() time.Time
}

func NewStore(opts Options) *Store {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		sessions: make(map[string]*entry),
		idleTTL:  opts.IdleTTL,
		max:      opts.MaxSessions,
		now:      opts.Now,
	}
}

// Create starts a fresh keypad and returns its id.
func (s *Store) Create() (string, keypad.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.max {
		s.sweepLocked()
		if len(s.sessions) >= s.max {
			return "", keypad.Snapshot{}, ErrCapacity
		}
	}

	id := uuid.New().String()
	st := keypad.New()
	s.sessions[id] = &entry{state: st, lastUsed: s.now()}

	return id, st.Snapshot(), nil
}

func (s *Store) Get(id string) (keypad.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupLocked(id)
	if err != nil {
		return keypad.Snapshot{}, err
	}
	return e.state.Snapshot(), nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookupLocked(id); err != nil {
		return err
	}
	delete(s.sessions, id)
	return nil
}

// Press applies keys to the session in order. Errors from individual keys
// are only reported to observe; they never abort the sequence.
func (s *Store) Press(id string, keys []keypad.Key, observe Observer) (keypad.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.lookupLocked(id)
	if err != nil {
		return keypad.Snapshot{}, err
	}

	for i, k := range keys {
		before := e.state.Snapshot()
		err := e.state.Press(k)
		if observe != nil {
			observe(i, k, before, e.state.Snapshot(), err)
		}
	}
	e.lastUsed = s.now()

	return e.state.Snapshot(), nil
}

// lookupLocked treats sessions past their idle TTL as already gone.
func (s *Store) lookupLocked(id string) (*entry, error) {
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(e) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *Store) expired(e *entry) bool {
	return s.now().Sub(e.lastUsed) > s.idleTTL
}

// Sweep removes idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *Store) sweepLocked() int {
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done. onSweep, when set, receives
// the number of sessions removed by each pass.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.Sweep()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Collector exposes the live session count to Prometheus.
func (s *Store) Collector() prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "keypad_sessions_active",
		Help: "Number of keypad sessions currently held in memory.",
	}, func() float64 {
		return float64(s.Len())
	})
}

package store

import "sync"

// Action names a state transition, e.g. "documents/refresh/fulfilled".
type Action string

// Change is delivered to subscribers after a transition has been applied.
type Change struct {
	Action  Action
	Version uint64
}

// Resetter is implemented by every slice; ResetAll invokes it on teardown.
type Resetter interface {
	Reset()
}

// Store is the central state container. Every transition runs under a single
// write lock, so concurrent completions never interleave mid-mutation.
type Store struct {
	mu      sync.RWMutex
	version uint64

	subMu  sync.Mutex
	subs   map[int]chan Change
	nextID int

	resetMu   sync.Mutex
	resetters []Resetter

	observe func(Action)
}

// Option configures a Store.
type Option func(*Store)

// WithObserver registers a hook called after every dispatch, outside the lock.
func WithObserver(fn func(Action)) Option {
	return func(s *Store) { s.observe = fn }
}

func New(opts ...Option) *Store {
	s := &Store{subs: make(map[int]chan Change)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies reduce atomically with respect to the whole tree and then
// notifies subscribers.
func (s *Store) Dispatch(action Action, reduce func()) Change {
	s.mu.Lock()
	reduce()
	s.version++
	c := Change{Action: action, Version: s.version}
	s.mu.Unlock()

	if s.observe != nil {
		s.observe(action)
	}
	s.notify(c)
	return c
}

// Read runs fn under the read lock. Use Slice.Peek inside fn to assemble a
// consistent view across several slices.
func (s *Store) Read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// ReadAt is Read that also passes the version of the state fn observes.
func (s *Store) ReadAt(fn func(version uint64)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.version)
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe returns a channel carrying the most recent unread Change.
// Delivery coalesces: a slow subscriber sees the latest change, not every one,
// and is expected to read current state when woken.
func (s *Store) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 1)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- c:
			continue
		default:
		}
		// Replace the unread change with the newer one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- c:
		default:
		}
	}
}

// Register adds a slice to the teardown list.
func (s *Store) Register(r Resetter) {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()
	s.resetters = append(s.resetters, r)
}

// ResetAll returns every registered slice to its initial state.
func (s *Store) ResetAll() {
	s.resetMu.Lock()
	rs := append([]Resetter(nil), s.resetters...)
	s.resetMu.Unlock()
	for _, r := range rs {
		r.Reset()
	}
}

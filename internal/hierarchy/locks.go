package hierarchy

import "sync"

// ScopeLocks serializes read-walk-write sequences per scope key. The
// ancestor walk and the following write are not atomic on their own; two
// interleaved reparents could each look acyclic and together close a loop.
type ScopeLocks struct {
	mu    sync.Mutex
	locks map[string]*scopeLock
}

type scopeLock struct {
	mu   sync.Mutex
	refs int
}

func NewScopeLocks() *ScopeLocks {
	return &ScopeLocks{locks: make(map[string]*scopeLock)}
}

// Lock blocks until key is free and returns the matching unlock func.
// Entries are removed once no goroutine holds or waits on them.
func (s *ScopeLocks) Lock(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &scopeLock{}
		s.locks[key] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

// Len returns the number of keys currently held or awaited.
func (s *ScopeLocks) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

package utils

import "time"

// Throttle enforces a minimum interval between successive calls to Wait.
// It is meant for a single sequential caller.
type Throttle struct {
	interval time.Duration
	last     time.Time
	sleep    func(time.Duration)
}

// NewThrottle creates a Throttle with the given interval in milliseconds.
func NewThrottle(intervalMs int) *Throttle {
	return &Throttle{
		interval: time.Duration(intervalMs) * time.Millisecond,
		sleep:    time.Sleep,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous call. The first call never blocks.
func (t *Throttle) Wait() {
	if !t.last.IsZero() {
		if elapsed := time.Since(t.last); elapsed < t.interval {
			t.sleep(t.interval - elapsed)
		}
	}
	t.last = time.Now()
}

// KeySet tracks string keys that have already been seen.
type KeySet struct {
	seen map[string]struct{}
}

// NewKeySet creates an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[string]struct{})}
}

// Add returns true if the key was newly added, false if already present.
func (s *KeySet) Add(key string) bool {
	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains returns true if the key has already been seen.
func (s *KeySet) Contains(key string) bool {
	_, exists := s.seen[key]
	return exists
}

// Size returns the number of unique keys tracked.
func (s *KeySet) Size() int {
	return len(s.seen)
}

package models

import "sync"

// RunStats aggregates outcomes across one invocation. It is shared
// between the scheduler's worker goroutines and the final reporter, so
// all counters are mutex-guarded.
type RunStats struct {
	mu        sync.Mutex
	Planned   int
	Encoded   int
	Copied    int
	Failed    int
	InBytes   int64
	OutBytes  int64
}

func (s *RunStats) AddPlanned(n int) {
	s.mu.Lock()
	s.Planned += n
	s.mu.Unlock()
}

func (s *RunStats) RecordEncode(ok bool, inBytes, outBytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		s.Encoded++
	} else {
		s.Failed++
	}
	s.InBytes += inBytes
	s.OutBytes += outBytes
}

func (s *RunStats) RecordCopy() {
	s.mu.Lock()
	s.Copied++
	s.mu.Unlock()
}

// Snapshot returns a copy safe to read without holding the lock.
func (s *RunStats) Snapshot() (planned, encoded, copied, failed int, inBytes, outBytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Planned, s.Encoded, s.Copied, s.Failed, s.InBytes, s.OutBytes
}

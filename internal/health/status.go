package health

import (
	"sync/atomic"
	"time"
)

// Status holds the process-wide "remote backend is reachable" flag.
// It starts unavailable and is written by the prober; the resolver reads
// it on every request. Reads and writes are lock-free.
type Status struct {
	available   atomic.Bool
	lastChecked atomic.Int64 // unix nanoseconds, 0 = never
	probes      atomic.Int64
}

// Snapshot is a point-in-time copy of Status for reporting.
type Snapshot struct {
	Available   bool
	LastChecked time.Time
	Probes      int64
}

// NewStatus creates a Status in the unavailable state.
func NewStatus() *Status {
	return &Status{}
}

// Available reports the result of the last probe. A nil Status is unavailable.
func (s *Status) Available() bool {
	if s == nil {
		return false
	}
	return s.available.Load()
}

// Set records a probe result.
func (s *Status) Set(available bool) {
	if s == nil {
		return
	}
	s.available.Store(available)
	s.lastChecked.Store(time.Now().UTC().UnixNano())
	s.probes.Add(1)
}

func (s *Status) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}

	snap := Snapshot{
		Available: s.available.Load(),
		Probes:    s.probes.Load(),
	}
	if ts := s.lastChecked.Load(); ts != 0 {
		snap.LastChecked = time.Unix(0, ts).UTC()
	}
	return snap
}

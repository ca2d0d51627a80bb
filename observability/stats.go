// Package observability aggregates runtime counters for the chat server.
// Counters are best-effort telemetry, not delivery accounting.
package observability

import (
	"sync"
	"sync/atomic"
)

// Stats holds process-wide counters, incremented from session and router
// goroutines. Numeric counters are atomics; the language tally is the only
// map and keeps its own lock.
type Stats struct {
	sessionsOpened   uint64
	sessionsClosed   uint64
	namesRejected    uint64
	broadcasts       uint64
	directed         uint64
	deliveryFailures uint64

	langMu    sync.Mutex
	languages map[string]uint64
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	SessionsOpened   uint64
	SessionsClosed   uint64
	NamesRejected    uint64
	Broadcasts       uint64
	Directed         uint64
	DeliveryFailures uint64
	Languages        map[string]uint64
}

func NewStats() *Stats {
	return &Stats{languages: make(map[string]uint64)}
}

func (s *Stats) IncrSessionsOpened() { atomic.AddUint64(&s.sessionsOpened, 1) }
func (s *Stats) IncrSessionsClosed() { atomic.AddUint64(&s.sessionsClosed, 1) }
func (s *Stats) IncrNamesRejected()  { atomic.AddUint64(&s.namesRejected, 1) }
func (s *Stats) IncrBroadcasts()     { atomic.AddUint64(&s.broadcasts, 1) }
func (s *Stats) IncrDirected()       { atomic.AddUint64(&s.directed, 1) }

func (s *Stats) AddDeliveryFailures(n int) {
	if n > 0 {
		atomic.AddUint64(&s.deliveryFailures, uint64(n))
	}
}

// TallyLanguage counts one message detected in the given ISO 639-1 language.
// Empty codes (detector gave up) are ignored.
func (s *Stats) TallyLanguage(code string) {
	if code == "" {
		return
	}
	s.langMu.Lock()
	defer s.langMu.Unlock()
	s.languages[code]++
}

func (s *Stats) Read() Snapshot {
	snap := Snapshot{
		SessionsOpened:   atomic.LoadUint64(&s.sessionsOpened),
		SessionsClosed:   atomic.LoadUint64(&s.sessionsClosed),
		NamesRejected:    atomic.LoadUint64(&s.namesRejected),
		Broadcasts:       atomic.LoadUint64(&s.broadcasts),
		Directed:         atomic.LoadUint64(&s.directed),
		DeliveryFailures: atomic.LoadUint64(&s.deliveryFailures),
		Languages:        make(map[string]uint64),
	}
	s.langMu.Lock()
	defer s.langMu.Unlock()
	for code, n := range s.languages {
		snap.Languages[code] = n
	}
	return snap
}

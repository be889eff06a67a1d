// Package connectivity reports the companion's online/offline status.
// A Monitor polls a Probe and fans out deduplicated transitions to
// subscribers; the reconciliation engine and scheduler only depend on the
// IsOnline/Subscribe contract, never on how reachability is determined.
package connectivity

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Probe answers whether the network is usable right now. It should return
// quickly; the monitor calls it on every poll interval.
type Probe func(ctx context.Context) bool

// Dial returns a Probe that considers the network online when a TCP
// connection to addr (host:port) succeeds within timeout.
func Dial(addr string, timeout time.Duration) Probe {
	return func(ctx context.Context) bool {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}
}

// Monitor owns the current connectivity state and a set of subscribers.
// The state cell is written only by the monitor's own run loop.
type Monitor struct {
	probe    Probe
	interval time.Duration
	log      *slog.Logger

	online atomic.Bool

	mu   sync.Mutex
	subs map[chan bool]bool // channel → last value placed into it
}

// NewMonitor builds a Monitor around probe, polling at the given interval.
// The initial state is offline until the first probe completes; call Run
// to start polling.
func NewMonitor(probe Probe, interval time.Duration, log *slog.Logger) *Monitor {
	return &Monitor{
		probe:    probe,
		interval: interval,
		log:      log,
		subs:     make(map[chan bool]bool),
	}
}

// IsOnline returns the last known connectivity state. It never blocks.
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// Subscribe registers a listener for connectivity transitions. The channel
// receives the current state immediately, then only changes: two
// consecutive identical values are never delivered. The returned func
// unsubscribes and closes the channel.
//
// Delivery is non-blocking; a subscriber that is not draining its channel
// misses intermediate values rather than stalling the monitor.
func (m *Monitor) Subscribe() (<-chan bool, func()) {
	ch := make(chan bool, 1)
	cur := m.online.Load()
	ch <- cur

	m.mu.Lock()
	m.subs[ch] = cur
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		if _, ok := m.subs[ch]; ok {
			delete(m.subs, ch)
			close(ch)
		}
		m.mu.Unlock()
	}
	return ch, cancel
}

// Run polls the probe until ctx is cancelled, publishing state changes to
// subscribers. The first probe runs immediately so callers observe a real
// state shortly after startup.
func (m *Monitor) Run(ctx context.Context) {
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	online := m.probe(ctx)
	if m.online.Swap(online) == online {
		return // no transition, nothing to publish
	}

	m.log.Info("connectivity changed", "online", online)

	m.mu.Lock()
	for ch, lastSent := range m.subs {
		// Only values that differ from the last one placed go into a
		// channel, so its contents strictly alternate. A full buffer means
		// the previous transition is still undelivered; this one is
		// withheld (lastSent stays put) and the subscriber catches up on a
		// later transition instead of ever seeing a value twice in a row.
		if lastSent == online {
			continue
		}
		select {
		case ch <- online:
			m.subs[ch] = online
		default:
		}
	}
	m.mu.Unlock()
}

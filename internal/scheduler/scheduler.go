// Package scheduler drives periodic and on-demand reconciliation cycles.
// It owns the small sync status machine the presentation layer renders:
// Idle → Syncing → (Success | Error) → Idle.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/sync"
)

// Syncer is the slice of the reconciliation engine the scheduler drives.
type Syncer interface {
	SyncPending(ctx context.Context, family sync.Family, token string) (int, error)
}

// OnlineChecker is the slice of the connectivity observer the scheduler
// consults before starting a cycle.
type OnlineChecker interface {
	IsOnline() bool
}

// Phase names one state of the sync status machine.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseSyncing Phase = "syncing"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// Status is the externally visible sync state. Synced is meaningful in
// PhaseSuccess, Err in PhaseError.
type Status struct {
	Phase  Phase  `json:"phase"`
	Synced int    `json:"synced,omitempty"`
	Err    error  `json:"-"`
	Reason string `json:"reason,omitempty"`
}

// DefaultInterval is the periodic cycle cadence when none is configured.
const DefaultInterval = 15 * time.Minute

// Config carries the scheduler's tunables.
type Config struct {
	// Interval between periodic cycles. Defaults to DefaultInterval.
	Interval time.Duration
	// BatteryOK reports whether the battery constraint passes. Defaults
	// to always true; the daemon wires a host-specific probe.
	BatteryOK func() bool
	// Token supplies the auth token for remote calls at cycle start.
	Token func() string
}

// Scheduler triggers trips sync cycles on a fixed interval and on demand.
// On-demand requests follow a latest-request-wins policy: a request
// arriving while one is queued replaces it, and a request arriving while
// a cycle runs is coalesced into the running cycle rather than starting
// a second one (the engine additionally deduplicates concurrent cycles).
type Scheduler struct {
	engine   Syncer
	net      OnlineChecker
	interval time.Duration
	battery  func() bool
	token    func() string
	log      *slog.Logger

	// trigger has capacity 1: an undelivered on-demand request and a new
	// one collapse into a single queued run.
	trigger chan struct{}

	mu     stdsync.Mutex
	status Status
	subs   map[chan Status]struct{}
}

// New builds a Scheduler around the engine. Call Run to start it.
func New(engine Syncer, net OnlineChecker, cfg Config, log *slog.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.BatteryOK == nil {
		cfg.BatteryOK = func() bool { return true }
	}
	if cfg.Token == nil {
		cfg.Token = func() string { return "" }
	}
	return &Scheduler{
		engine:   engine,
		net:      net,
		interval: cfg.Interval,
		battery:  cfg.BatteryOK,
		token:    cfg.Token,
		log:      log,
		trigger:  make(chan struct{}, 1),
		status:   Status{Phase: PhaseIdle},
		subs:     make(map[chan Status]struct{}),
	}
}

// SyncNow requests an immediate cycle. Non-blocking: if a request is
// already queued the two coalesce, the latest request winning.
func (s *Scheduler) SyncNow() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Status returns the current sync status.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Subscribe registers a listener for status transitions. Delivery is
// non-blocking; a subscriber that stops draining misses intermediate
// states. The returned func unsubscribes and closes the channel.
func (s *Scheduler) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 4)

	s.mu.Lock()
	ch <- s.status
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Run executes cycles until ctx is cancelled: one per interval tick plus
// any on-demand trigger. Cycles never overlap; a cycle runs to
// completion once started.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx, false)
		case <-s.trigger:
			s.runCycle(ctx, true)
		}
		// A request that arrived while the cycle ran is already served by
		// it; discard it instead of starting a back-to-back second cycle.
		select {
		case <-s.trigger:
		default:
		}
	}
}

// runCycle runs one trips reconciliation cycle, subject to the
// {network required, battery not low} constraints. A constraint-blocked
// periodic run is skipped silently; a blocked on-demand run surfaces the
// reason through the status machine so the user sees why nothing synced.
func (s *Scheduler) runCycle(ctx context.Context, onDemand bool) {
	if !s.net.IsOnline() {
		s.constraintBlocked(onDemand, domain.ErrNetworkUnavailable)
		return
	}
	if !s.battery() {
		s.constraintBlocked(onDemand, fmt.Errorf("battery critically low"))
		return
	}

	s.setStatus(Status{Phase: PhaseSyncing})

	count, err := s.engine.SyncPending(ctx, sync.FamilyTrips, s.token())
	if err != nil {
		s.log.Error("sync cycle failed", "error", err)
		s.setStatus(Status{Phase: PhaseError, Err: err, Reason: err.Error()})
	} else {
		s.setStatus(Status{Phase: PhaseSuccess, Synced: count})
	}

	// Terminal states are transient: the machine settles back to idle so
	// the next cycle starts from a clean slate.
	s.setStatus(Status{Phase: PhaseIdle})
}

func (s *Scheduler) constraintBlocked(onDemand bool, reason error) {
	if !onDemand {
		s.log.Debug("periodic sync skipped", "reason", reason)
		return
	}
	s.setStatus(Status{Phase: PhaseError, Err: reason, Reason: reason.Error()})
	s.setStatus(Status{Phase: PhaseIdle})
}

func (s *Scheduler) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	for ch := range s.subs {
		select {
		case ch <- st:
		default:
		}
	}
	s.mu.Unlock()
}

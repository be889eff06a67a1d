// Package sync implements the reconciliation engine: the offline-first
// read-through / write-behind protocol between the local store and the
// remote gateway. Reads always serve the cache first; writes always land
// locally first and are flushed to the server when connectivity allows.
package sync

import (
	"context"
	"log/slog"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

// Family names one independently synchronized entity family. Families
// sync independently; no ordering holds across them.
type Family string

const (
	FamilyTrips     Family = "trips"
	FamilyPlaces    Family = "places"
	FamilyEmergency Family = "emergency"
)

// TripStore is the slice of the local store the trips protocol needs.
// Defining the interfaces here (in the consumer package) lets engine
// tests inject doubles without touching SQLite.
type TripStore interface {
	GetTrip(ctx context.Context, id string) (domain.Trip, error)
	ListTrips(ctx context.Context) ([]domain.Trip, error)
	ListPendingTrips(ctx context.Context) ([]domain.Trip, error)
	PutTrip(ctx context.Context, t domain.Trip) error
	DeleteTrip(ctx context.Context, id string) error
	MergeRemoteTrips(ctx context.Context, remote []domain.Trip, now int64, skip map[string]struct{}) error
}

// PlaceStore is the slice of the local store the places cache needs.
type PlaceStore interface {
	ListPlaces(ctx context.Context, category string, box domain.BoundingBox) ([]domain.Place, error)
	ReplacePlaces(ctx context.Context, category string, box domain.BoundingBox, places []domain.Place) error
	SetPlaceFavorite(ctx context.Context, id int64, favorite bool) error
	PrunePlaces(ctx context.Context, cutoff int64) (int64, error)
}

// EmergencyStore is the slice of the local store the emergency-number
// cache needs.
type EmergencyStore interface {
	GetEmergencyNumbers(ctx context.Context, country string) (domain.EmergencyNumbers, error)
	PutEmergencyNumbers(ctx context.Context, n domain.EmergencyNumbers) error
}

// Store is the full local-store contract. *store.DB satisfies it.
type Store interface {
	TripStore
	PlaceStore
	EmergencyStore
}

// Gateway is the remote side of the protocol. *gateway.Client satisfies
// it; engine tests use a function-field double.
type Gateway interface {
	ListTrips(ctx context.Context, token string) ([]domain.Trip, error)
	CreateTrip(ctx context.Context, token string, t domain.Trip) (domain.Trip, error)
	UpdateTrip(ctx context.Context, token, id string, t domain.Trip) (domain.Trip, error)
	DeleteTrip(ctx context.Context, token, id string) error
	SearchPlaces(ctx context.Context, lat, lon float64, category string) ([]domain.Place, error)
	EmergencyNumbers(ctx context.Context, country string) (domain.EmergencyNumbers, error)
}

// Connectivity is the engine's view of the connectivity observer.
type Connectivity interface {
	IsOnline() bool
	Subscribe() (<-chan bool, func())
}

const (
	// defaultPlaceRadius is the cache bucket half-width in degrees (~5 km).
	defaultPlaceRadius = 0.05
	// defaultPlaceRetention is how long cached places stay before pruning.
	defaultPlaceRetention = 7 * 24 * time.Hour
)

// Engine orchestrates the offline-first protocol. Construct one per
// process and share it; all methods are safe for concurrent use.
type Engine struct {
	store Store
	gw    Gateway
	net   Connectivity
	log   *slog.Logger

	// Now is the engine's clock; tests may replace it before use.
	Now func() time.Time
	// PlaceRadius is the degrees half-width of a place cache bucket.
	PlaceRadius float64
	// PlaceRetention is the maximum age of a cached place.
	PlaceRetention time.Duration

	// famMu serializes mutating operations per entity family.
	famMu map[Family]*stdsync.Mutex
	// cycleRunning deduplicates concurrent sync cycles per family.
	cycleRunning map[Family]*atomic.Bool

	// inflight holds the IDs whose remote write is currently in flight,
	// so concurrent fetch merges leave those records alone.
	inflightMu stdsync.Mutex
	inflight   map[string]struct{}
}

// NewEngine wires the engine to its collaborators. Pass the concrete
// store, gateway, and monitor in production; doubles in tests.
func NewEngine(s Store, g Gateway, c Connectivity, log *slog.Logger) *Engine {
	e := &Engine{
		store:          s,
		gw:             g,
		net:            c,
		log:            log,
		Now:            time.Now,
		PlaceRadius:    defaultPlaceRadius,
		PlaceRetention: defaultPlaceRetention,
		famMu:          make(map[Family]*stdsync.Mutex),
		cycleRunning:   make(map[Family]*atomic.Bool),
		inflight:       make(map[string]struct{}),
	}
	for _, f := range []Family{FamilyTrips, FamilyPlaces, FamilyEmergency} {
		e.famMu[f] = &stdsync.Mutex{}
		e.cycleRunning[f] = &atomic.Bool{}
	}
	return e
}

// IsOnline reports the last known connectivity state.
func (e *Engine) IsOnline() bool {
	return e.net.IsOnline()
}

// ObserveConnectivity subscribes to deduplicated connectivity
// transitions. The returned func unsubscribes.
func (e *Engine) ObserveConnectivity() (<-chan bool, func()) {
	return e.net.Subscribe()
}

// markInflight records that id has a remote write in flight. Returns a
// release func; hold it for the duration of the remote call.
func (e *Engine) markInflight(id string) func() {
	e.inflightMu.Lock()
	e.inflight[id] = struct{}{}
	e.inflightMu.Unlock()
	return func() {
		e.inflightMu.Lock()
		delete(e.inflight, id)
		e.inflightMu.Unlock()
	}
}

// inflightSnapshot copies the in-flight ID set for a cache merge.
func (e *Engine) inflightSnapshot() map[string]struct{} {
	e.inflightMu.Lock()
	defer e.inflightMu.Unlock()
	snap := make(map[string]struct{}, len(e.inflight))
	for id := range e.inflight {
		snap[id] = struct{}{}
	}
	return snap
}

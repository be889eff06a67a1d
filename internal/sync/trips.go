package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/observability"
)

// FetchTrips runs the offline-first read path for trips. The returned
// channel yields at most two results and is closed when the fetch is
// done:
//
//  1. the cached trips (fromCache=true) when any exist;
//  2. the refreshed listing after a successful remote round-trip, or an
//     error carrying the cached data when the remote call fails.
//
// Offline with an empty cache yields exactly one error result.
func (e *Engine) FetchTrips(ctx context.Context, token string) <-chan domain.Result[[]domain.Trip] {
	out := make(chan domain.Result[[]domain.Trip], 2)

	go func() {
		defer close(out)

		cached, err := e.store.ListTrips(ctx)
		if err != nil {
			// Storage failure: nothing below local storage to fall back to.
			out <- domain.Failure[[]domain.Trip](err, nil)
			return
		}

		if len(cached) > 0 {
			observability.FetchResultsTotal.WithLabelValues(string(FamilyTrips), "cache").Inc()
			out <- domain.Success(cached, true)
		}

		if !e.net.IsOnline() {
			if len(cached) == 0 {
				observability.FetchResultsTotal.WithLabelValues(string(FamilyTrips), "error").Inc()
				out <- domain.Failure(fmt.Errorf("%w: no cached trips", domain.ErrNetworkUnavailable), cached)
			}
			return
		}

		if len(cached) == 0 {
			out <- domain.Loading[[]domain.Trip]()
		}

		remote, err := e.gw.ListTrips(ctx, token)
		if err != nil {
			e.log.Warn("trips refresh failed, serving cache", "error", err)
			observability.FetchResultsTotal.WithLabelValues(string(FamilyTrips), "error").Inc()
			out <- domain.Failure(err, cached)
			return
		}

		now := e.Now().UnixMilli()
		if err := e.store.MergeRemoteTrips(ctx, remote, now, e.inflightSnapshot()); err != nil {
			out <- domain.Failure(err, cached)
			return
		}

		// Re-read after the merge so pending local records and the remote
		// listing appear together, each exactly once.
		fresh, err := e.store.ListTrips(ctx)
		if err != nil {
			out <- domain.Failure(err, cached)
			return
		}
		observability.FetchResultsTotal.WithLabelValues(string(FamilyTrips), "remote").Inc()
		out <- domain.Success(fresh, false)
	}()

	return out
}

// CreateTrip accepts a trip draft and never fails for connectivity
// reasons: the record is persisted locally first with a placeholder ID
// and pending_create state, then pushed to the server when online. The
// returned trip is the server record on a successful round-trip,
// otherwise the local placeholder. Only a storage failure is an error.
func (e *Engine) CreateTrip(ctx context.Context, token string, draft domain.Trip) (domain.Trip, error) {
	mu := e.famMu[FamilyTrips]
	mu.Lock()
	defer mu.Unlock()

	now := e.Now()
	local := draft
	local.ID = domain.NewLocalTripID(now)
	local.State = domain.StatePendingCreate
	local.LastModified = now.UnixMilli()

	if err := e.store.PutTrip(ctx, local); err != nil {
		return domain.Trip{}, fmt.Errorf("sync.Engine.CreateTrip: %w", err)
	}

	if !e.net.IsOnline() {
		return local, nil
	}

	synced, flushed, err := e.flushTrip(ctx, token, local)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("sync.Engine.CreateTrip: %w", err)
	}
	if !flushed {
		// Remote rejected or transport failed mid-call; the placeholder
		// stays queued for the next cycle and the caller gets a usable
		// local record.
		return local, nil
	}
	return synced, nil
}

// UpdateTrip applies a local edit and best-effort pushes it. A synced
// record transitions to pending_update; a record still awaiting its
// create keeps pending_create so the eventual create carries the newest
// payload. Updating a locally deleted or unknown trip is ErrNotFound.
func (e *Engine) UpdateTrip(ctx context.Context, token string, trip domain.Trip) (domain.Trip, error) {
	mu := e.famMu[FamilyTrips]
	mu.Lock()
	defer mu.Unlock()

	existing, err := e.store.GetTrip(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("sync.Engine.UpdateTrip: %w", err)
	}
	if existing.State == domain.StatePendingDelete {
		return domain.Trip{}, fmt.Errorf("sync.Engine.UpdateTrip: %w", domain.ErrNotFound)
	}

	local := trip
	local.UserID = existing.UserID
	local.LastModified = e.Now().UnixMilli()
	if existing.State == domain.StatePendingCreate {
		local.State = domain.StatePendingCreate
	} else {
		local.State = domain.StatePendingUpdate
	}

	if err := e.store.PutTrip(ctx, local); err != nil {
		return domain.Trip{}, fmt.Errorf("sync.Engine.UpdateTrip: %w", err)
	}

	if !e.net.IsOnline() {
		return local, nil
	}

	synced, flushed, err := e.flushTrip(ctx, token, local)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("sync.Engine.UpdateTrip: %w", err)
	}
	if !flushed {
		return local, nil
	}
	return synced, nil
}

// DeleteTrip removes a trip from the caller's perspective immediately.
// A record awaiting its create is purged outright (the create and delete
// cancel out); a server-known record becomes a pending_delete tombstone,
// hidden from reads and resolved by a best-effort remote delete now or a
// later sync cycle. Deleting an unknown ID is a no-op.
func (e *Engine) DeleteTrip(ctx context.Context, token, id string) error {
	mu := e.famMu[FamilyTrips]
	mu.Lock()
	defer mu.Unlock()

	existing, err := e.store.GetTrip(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("sync.Engine.DeleteTrip: %w", err)
	}

	if existing.State == domain.StatePendingCreate {
		if err := e.store.DeleteTrip(ctx, id); err != nil {
			return fmt.Errorf("sync.Engine.DeleteTrip: %w", err)
		}
		return nil
	}

	tombstone := existing
	tombstone.State = domain.StatePendingDelete
	tombstone.LastModified = e.Now().UnixMilli()
	if err := e.store.PutTrip(ctx, tombstone); err != nil {
		return fmt.Errorf("sync.Engine.DeleteTrip: %w", err)
	}

	if !e.net.IsOnline() {
		return nil
	}

	if _, _, err := e.flushTrip(ctx, token, tombstone); err != nil {
		return fmt.Errorf("sync.Engine.DeleteTrip: %w", err)
	}
	return nil
}

// SyncPending flushes all pending records of a family, oldest first.
// The online precondition is checked once at entry; a cycle already
// running for the family deduplicates this call to a no-op. Per-record
// remote failures are logged and skipped — the record stays pending for
// the next cycle — so the returned count reflects only records that
// actually transitioned to synced. Only places no pending writes exist
// for (places, emergency) return 0 immediately.
func (e *Engine) SyncPending(ctx context.Context, family Family, token string) (int, error) {
	if family != FamilyTrips {
		return 0, nil
	}

	running := e.cycleRunning[family]
	if !running.CompareAndSwap(false, true) {
		e.log.Debug("sync cycle already running", "family", family)
		return 0, nil
	}
	defer running.Store(false)

	if !e.net.IsOnline() {
		observability.SyncCyclesTotal.WithLabelValues(string(family), "skipped").Inc()
		return 0, nil
	}

	mu := e.famMu[family]
	mu.Lock()
	defer mu.Unlock()

	pending, err := e.store.ListPendingTrips(ctx)
	if err != nil {
		observability.SyncCyclesTotal.WithLabelValues(string(family), "error").Inc()
		return 0, fmt.Errorf("sync.Engine.SyncPending: %w", err)
	}

	count := 0
	for _, t := range pending {
		_, flushed, err := e.flushTrip(ctx, token, t)
		if err != nil {
			observability.SyncCyclesTotal.WithLabelValues(string(family), "error").Inc()
			return count, fmt.Errorf("sync.Engine.SyncPending: %w", err)
		}
		if flushed {
			count++
		}
	}

	observability.SyncCyclesTotal.WithLabelValues(string(family), "success").Inc()
	observability.SyncedRecordsTotal.Add(float64(count))
	e.log.Info("sync cycle finished", "family", family, "pending", len(pending), "synced", count)
	return count, nil
}

// flushTrip performs the remote operation a pending record calls for and
// settles the local state on success. It returns the synced record and
// whether the flush happened; remote failures are absorbed (false, nil)
// so callers continue, while storage failures propagate.
//
// The record's ID is marked in-flight for the duration of the remote
// call so a concurrent fetch merge cannot clobber it.
func (e *Engine) flushTrip(ctx context.Context, token string, t domain.Trip) (domain.Trip, bool, error) {
	release := e.markInflight(t.ID)
	defer release()

	now := e.Now().UnixMilli()

	switch t.State {
	case domain.StatePendingCreate:
		created, err := e.gw.CreateTrip(ctx, token, t)
		if err != nil {
			e.log.Warn("remote create failed, record stays pending", "trip_id", t.ID, "error", err)
			return domain.Trip{}, false, nil
		}
		// Swap the placeholder for the server record atomically from the
		// reader's perspective: insert first, then drop the placeholder.
		created.State = domain.StateSynced
		created.LastModified = now
		if err := e.store.PutTrip(ctx, created); err != nil {
			return domain.Trip{}, false, err
		}
		if err := e.store.DeleteTrip(ctx, t.ID); err != nil {
			return domain.Trip{}, false, err
		}
		return created, true, nil

	case domain.StatePendingUpdate:
		updated, err := e.gw.UpdateTrip(ctx, token, t.ID, t)
		if err != nil {
			e.log.Warn("remote update failed, record stays pending", "trip_id", t.ID, "error", err)
			return domain.Trip{}, false, nil
		}
		updated.State = domain.StateSynced
		updated.LastModified = now
		if err := e.store.PutTrip(ctx, updated); err != nil {
			return domain.Trip{}, false, err
		}
		return updated, true, nil

	case domain.StatePendingDelete:
		err := e.gw.DeleteTrip(ctx, token, t.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			e.log.Warn("remote delete failed, tombstone stays pending", "trip_id", t.ID, "error", err)
			return domain.Trip{}, false, nil
		}
		// Gone remotely (or never existed there): the tombstone has
		// served its purpose.
		if err := e.store.DeleteTrip(ctx, t.ID); err != nil {
			return domain.Trip{}, false, err
		}
		return domain.Trip{}, true, nil

	default:
		return t, false, nil
	}
}

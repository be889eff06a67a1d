package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

const tripColumns = "id, destination, start_date, end_date, notes, user_id, sync_state, last_modified, created_at"

// GetTrip retrieves a single trip by ID, tombstones included.
// Returns domain.ErrNotFound if no record with that ID exists.
func (d *DB) GetTrip(ctx context.Context, id string) (domain.Trip, error) {
	q := fmt.Sprintf("SELECT %s FROM trips WHERE id = ?", tripColumns)
	t, err := scanTrip(d.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Trip{}, fmt.Errorf("store.DB.GetTrip: %w", domain.ErrNotFound)
		}
		return domain.Trip{}, storageErr("store.DB.GetTrip", err)
	}
	return t, nil
}

// ListTrips returns all visible trips, most recently modified first.
// Tombstones (pending_delete) are hidden: a locally deleted trip must
// disappear from reads immediately even though the server has not
// acknowledged the delete yet.
func (d *DB) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM trips
		WHERE sync_state != ?
		ORDER BY last_modified DESC, id ASC`, tripColumns)

	rows, err := d.db.QueryContext(ctx, q, domain.StatePendingDelete)
	if err != nil {
		return nil, storageErr("store.DB.ListTrips", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, storageErr("store.DB.ListTrips", err)
	}
	return trips, nil
}

// ListPendingTrips returns all records whose state requires a remote
// round-trip, in creation order (oldest first). Creation order preserves
// causality for records whose updates depend on prior creates.
func (d *DB) ListPendingTrips(ctx context.Context) ([]domain.Trip, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM trips
		WHERE sync_state != ?
		ORDER BY created_at ASC, rowid ASC`, tripColumns)

	rows, err := d.db.QueryContext(ctx, q, domain.StateSynced)
	if err != nil {
		return nil, storageErr("store.DB.ListPendingTrips", err)
	}
	defer rows.Close()

	trips, err := collectTrips(rows)
	if err != nil {
		return nil, storageErr("store.DB.ListPendingTrips", err)
	}
	return trips, nil
}

// PutTrip upserts a trip by primary key. The first insert records the
// creation instant; later upserts preserve it so pending-flush ordering
// stays stable across edits.
func (d *DB) PutTrip(ctx context.Context, t domain.Trip) error {
	const q = `
		INSERT INTO trips (id, destination, start_date, end_date, notes, user_id, sync_state, last_modified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			destination   = excluded.destination,
			start_date    = excluded.start_date,
			end_date      = excluded.end_date,
			notes         = excluded.notes,
			user_id       = excluded.user_id,
			sync_state    = excluded.sync_state,
			last_modified = excluded.last_modified`

	_, err := d.db.ExecContext(ctx, q,
		t.ID, t.Destination, t.StartDate, t.EndDate, t.Notes, t.UserID,
		t.State, t.LastModified, t.LastModified)
	if err != nil {
		return storageErr("store.DB.PutTrip", err)
	}
	return nil
}

// DeleteTrip removes a trip record outright. Deleting an absent ID is a
// no-op, never an error.
func (d *DB) DeleteTrip(ctx context.Context, id string) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", id); err != nil {
		return storageErr("store.DB.DeleteTrip", err)
	}
	return nil
}

// MergeRemoteTrips reconciles a full server listing into the cache:
// synced rows not present remotely are dropped, remote rows are inserted
// as synced, and rows with a pending state are left untouched so queued
// local writes are never lost. IDs in skip are also left untouched; the
// engine passes the set of records currently in-flight in a sync cycle.
func (d *DB) MergeRemoteTrips(ctx context.Context, remote []domain.Trip, now int64, skip map[string]struct{}) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("store.DB.MergeRemoteTrips", err)
	}
	defer tx.Rollback()

	// Drop synced rows; the remote listing is authoritative for them.
	// Records being flushed right now keep their local row until the
	// cycle's outcome for them is known.
	delQ := "DELETE FROM trips WHERE sync_state = ?"
	args := []any{domain.StateSynced}
	for id := range skip {
		delQ += " AND id != ?"
		args = append(args, id)
	}
	if _, err := tx.ExecContext(ctx, delQ, args...); err != nil {
		return storageErr("store.DB.MergeRemoteTrips", err)
	}

	const insQ = `
		INSERT INTO trips (id, destination, start_date, end_date, notes, user_id, sync_state, last_modified, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`

	for _, t := range remote {
		if _, held := skip[t.ID]; held {
			continue
		}
		// DO NOTHING keeps any surviving pending row: local edits win
		// until they are flushed.
		_, err := tx.ExecContext(ctx, insQ,
			t.ID, t.Destination, t.StartDate, t.EndDate, t.Notes, t.UserID,
			domain.StateSynced, now, now)
		if err != nil {
			return storageErr("store.DB.MergeRemoteTrips", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("store.DB.MergeRemoteTrips", err)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows, allowing scanTrip
// to be reused for QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		createdAt int64
	)
	err := s.Scan(&t.ID, &t.Destination, &t.StartDate, &t.EndDate, &t.Notes,
		&t.UserID, &t.State, &t.LastModified, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}

func collectTrips(rows *sql.Rows) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

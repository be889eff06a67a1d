// Package domain contains the core data types for the TravelMate companion.
// This package has zero external dependencies and is imported by every other
// internal package (store, gateway, sync, scheduler, repo, handler).
package domain

import (
	"fmt"
	"strings"
	"time"
)

// SyncState records where a locally stored trip sits in the offline-first
// write-behind protocol. Exactly one state applies to a record at a time.
type SyncState string

const (
	// StateSynced marks a record that matches the server copy.
	StateSynced SyncState = "synced"
	// StatePendingCreate marks a record authored offline that has not yet
	// been created on the server. Its ID is always a local placeholder.
	StatePendingCreate SyncState = "pending_create"
	// StatePendingUpdate marks a server-known record with local edits that
	// have not yet been pushed.
	StatePendingUpdate SyncState = "pending_update"
	// StatePendingDelete marks a tombstone: the record was deleted locally
	// but the server has not acknowledged the delete yet.
	StatePendingDelete SyncState = "pending_delete"
)

// Pending reports whether the state still requires a remote round-trip.
func (s SyncState) Pending() bool {
	return s != StateSynced && s != ""
}

// Trip represents a single planned trip. Dates are ISO-8601 date strings
// ("2006-01-02") because that is the wire format of the trips API; the
// server stores them as DATE columns.
//
// State and LastModified are client-side bookkeeping and never cross the
// wire.
type Trip struct {
	ID           string    `json:"id"`
	Destination  string    `json:"destination"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	Notes        string    `json:"notes,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	State        SyncState `json:"-"`
	LastModified int64     `json:"-"` // unix millis of the last local mutation
}

// localIDPrefix marks placeholder identifiers minted for trips created
// before the server has assigned a real ID.
const localIDPrefix = "local_"

// NewLocalTripID mints a placeholder identifier for a trip created offline,
// e.g. "local_1700000000000". The placeholder is replaced by the
// server-assigned ID once the record is reconciled.
func NewLocalTripID(now time.Time) string {
	return fmt.Sprintf("%s%d", localIDPrefix, now.UnixMilli())
}

// IsLocalTripID reports whether id is a placeholder that has never been
// acknowledged by the server.
func IsLocalTripID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}

// DateLayout is the wire format for trip dates.
const DateLayout = "2006-01-02"

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

// GetEmergencyNumbers returns the cached numbers for a country code.
// Returns domain.ErrNotFound when the country has never been cached.
func (d *DB) GetEmergencyNumbers(ctx context.Context, country string) (domain.EmergencyNumbers, error) {
	const q = `
		SELECT country, police, ambulance, fire, cached_at
		FROM emergency_numbers WHERE country = ?`

	var n domain.EmergencyNumbers
	err := d.db.QueryRowContext(ctx, q, country).
		Scan(&n.Country, &n.Police, &n.Ambulance, &n.Fire, &n.CachedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.EmergencyNumbers{}, fmt.Errorf("store.DB.GetEmergencyNumbers: %w", domain.ErrNotFound)
		}
		return domain.EmergencyNumbers{}, storageErr("store.DB.GetEmergencyNumbers", err)
	}
	return n, nil
}

// PutEmergencyNumbers upserts the record for a country code, keeping at
// most one row per country.
func (d *DB) PutEmergencyNumbers(ctx context.Context, n domain.EmergencyNumbers) error {
	const q = `
		INSERT INTO emergency_numbers (country, police, ambulance, fire, cached_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(country) DO UPDATE SET
			police    = excluded.police,
			ambulance = excluded.ambulance,
			fire      = excluded.fire,
			cached_at = excluded.cached_at`

	_, err := d.db.ExecContext(ctx, q, n.Country, n.Police, n.Ambulance, n.Fire, n.CachedAt)
	if err != nil {
		return storageErr("store.DB.PutEmergencyNumbers", err)
	}
	return nil
}

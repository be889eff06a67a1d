package store

import (
	"context"
	"database/sql"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

const placeColumns = "id, name, category, address, latitude, longitude, phone, rating, favorite, fetched_at"

// ListPlaces returns the cached places for one category inside the
// bounding box, best rated first, then by name for a stable order.
func (d *DB) ListPlaces(ctx context.Context, category string, box domain.BoundingBox) ([]domain.Place, error) {
	const q = `
		SELECT ` + placeColumns + ` FROM places
		WHERE category = ?
		  AND latitude BETWEEN ? AND ?
		  AND longitude BETWEEN ? AND ?
		ORDER BY rating DESC, name ASC`

	rows, err := d.db.QueryContext(ctx, q, category, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon)
	if err != nil {
		return nil, storageErr("store.DB.ListPlaces", err)
	}
	defer rows.Close()

	places, err := collectPlaces(rows)
	if err != nil {
		return nil, storageErr("store.DB.ListPlaces", err)
	}
	return places, nil
}

// ReplacePlaces swaps the cached records for one category+area scope with
// a fresh remote result. Records outside the scope are untouched.
func (d *DB) ReplacePlaces(ctx context.Context, category string, box domain.BoundingBox, places []domain.Place) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("store.DB.ReplacePlaces", err)
	}
	defer tx.Rollback()

	const delQ = `
		DELETE FROM places
		WHERE category = ?
		  AND latitude BETWEEN ? AND ?
		  AND longitude BETWEEN ? AND ?`
	if _, err := tx.ExecContext(ctx, delQ, category, box.MinLat, box.MaxLat, box.MinLon, box.MaxLon); err != nil {
		return storageErr("store.DB.ReplacePlaces", err)
	}

	const insQ = `
		INSERT INTO places (name, category, address, latitude, longitude, phone, rating, favorite, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, p := range places {
		_, err := tx.ExecContext(ctx, insQ,
			p.Name, category, p.Address, p.Latitude, p.Longitude,
			p.Phone, p.Rating, p.Favorite, p.FetchedAt)
		if err != nil {
			return storageErr("store.DB.ReplacePlaces", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("store.DB.ReplacePlaces", err)
	}
	return nil
}

// SetPlaceFavorite flips the favorite flag on a cached place.
func (d *DB) SetPlaceFavorite(ctx context.Context, id int64, favorite bool) error {
	if _, err := d.db.ExecContext(ctx, "UPDATE places SET favorite = ? WHERE id = ?", favorite, id); err != nil {
		return storageErr("store.DB.SetPlaceFavorite", err)
	}
	return nil
}

// PrunePlaces removes cached places fetched before the cutoff (unix
// millis) and returns the number of records removed.
func (d *DB) PrunePlaces(ctx context.Context, cutoff int64) (int64, error) {
	res, err := d.db.ExecContext(ctx, "DELETE FROM places WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, storageErr("store.DB.PrunePlaces", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("store.DB.PrunePlaces", err)
	}
	return n, nil
}

func collectPlaces(rows *sql.Rows) ([]domain.Place, error) {
	var places []domain.Place
	for rows.Next() {
		var p domain.Place
		err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Address, &p.Latitude,
			&p.Longitude, &p.Phone, &p.Rating, &p.Favorite, &p.FetchedAt)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

package sync

import (
	"context"
	"fmt"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/observability"
)

// FetchPlaces runs the offline-first read path for points of interest
// near (lat, lon) in one category. The cache bucket is the bounding box
// PlaceRadius degrees around the point; stale records are pruned before
// the cache is consulted. At most two results are emitted, cache first.
func (e *Engine) FetchPlaces(ctx context.Context, category string, lat, lon float64) <-chan domain.Result[[]domain.Place] {
	out := make(chan domain.Result[[]domain.Place], 2)

	go func() {
		defer close(out)

		cutoff := e.Now().Add(-e.PlaceRetention).UnixMilli()
		pruned, err := e.store.PrunePlaces(ctx, cutoff)
		if err != nil {
			out <- domain.Failure[[]domain.Place](err, nil)
			return
		}
		if pruned > 0 {
			e.log.Debug("pruned stale cached places", "count", pruned)
		}

		box := domain.AreaAround(lat, lon, e.PlaceRadius)
		cached, err := e.store.ListPlaces(ctx, category, box)
		if err != nil {
			out <- domain.Failure[[]domain.Place](err, nil)
			return
		}

		if len(cached) > 0 {
			observability.FetchResultsTotal.WithLabelValues(string(FamilyPlaces), "cache").Inc()
			out <- domain.Success(cached, true)
		}

		if !e.net.IsOnline() {
			if len(cached) == 0 {
				observability.FetchResultsTotal.WithLabelValues(string(FamilyPlaces), "error").Inc()
				out <- domain.Failure(fmt.Errorf("%w: no cached places", domain.ErrNetworkUnavailable), cached)
			}
			return
		}

		if len(cached) == 0 {
			out <- domain.Loading[[]domain.Place]()
		}

		remote, err := e.gw.SearchPlaces(ctx, lat, lon, category)
		if err != nil {
			e.log.Warn("places refresh failed, serving cache", "category", category, "error", err)
			observability.FetchResultsTotal.WithLabelValues(string(FamilyPlaces), "error").Inc()
			out <- domain.Failure(err, cached)
			return
		}

		// A result outside the bucket would be invisible to this query's
		// scope yet land in another bucket's replacement range, so it is
		// discarded rather than cached.
		now := e.Now().UnixMilli()
		kept := remote[:0]
		for _, p := range remote {
			if !box.Contains(p.Latitude, p.Longitude) {
				continue
			}
			p.Category = category
			p.FetchedAt = now
			kept = append(kept, p)
		}
		if err := e.store.ReplacePlaces(ctx, category, box, kept); err != nil {
			out <- domain.Failure(err, cached)
			return
		}

		// Re-read so results carry their surrogate IDs and cache ordering.
		fresh, err := e.store.ListPlaces(ctx, category, box)
		if err != nil {
			out <- domain.Failure(err, cached)
			return
		}
		observability.FetchResultsTotal.WithLabelValues(string(FamilyPlaces), "remote").Inc()
		out <- domain.Success(fresh, false)
	}()

	return out
}

// FavoritePlace flips the favorite flag on a cached place. Favorites are
// purely local; they carry no sync state.
func (e *Engine) FavoritePlace(ctx context.Context, id int64, favorite bool) error {
	if err := e.store.SetPlaceFavorite(ctx, id, favorite); err != nil {
		return fmt.Errorf("sync.Engine.FavoritePlace: %w", err)
	}
	return nil
}

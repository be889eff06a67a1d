package sync_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

func germanNumbers() domain.EmergencyNumbers {
	return domain.EmergencyNumbers{Country: "DE", Police: "110", Ambulance: "112", Fire: "112"}
}

func TestEmergencyNumbers_OnlineRefreshesAndCaches(t *testing.T) {
	gw := &mockGateway{
		emergencyNumbers: func(_ context.Context, country string) (domain.EmergencyNumbers, error) {
			assert.Equal(t, "DE", country)
			return germanNumbers(), nil
		},
	}
	e, db, _ := newEngine(t, gw, true)

	got := e.EmergencyNumbers(context.Background(), "de")

	require.Equal(t, domain.KindSuccess, got.Kind)
	assert.False(t, got.FromCache)
	assert.Equal(t, "110", got.Data.Police)

	// The refresh must land in the cache for later offline use.
	cached, err := db.GetEmergencyNumbers(context.Background(), "DE")
	require.NoError(t, err)
	assert.Equal(t, "110", cached.Police)
}

func TestEmergencyNumbers_OfflineServesCache(t *testing.T) {
	e, db, _ := newEngine(t, &mockGateway{}, false)

	seed := germanNumbers()
	seed.CachedAt = 1000
	require.NoError(t, db.PutEmergencyNumbers(context.Background(), seed))

	got := e.EmergencyNumbers(context.Background(), "DE")

	require.Equal(t, domain.KindSuccess, got.Kind)
	assert.True(t, got.FromCache, "emergency data must stay reachable with zero connectivity")
	assert.Equal(t, "110", got.Data.Police)
}

func TestEmergencyNumbers_OfflineNoCacheIsError(t *testing.T) {
	e, _, _ := newEngine(t, &mockGateway{}, false)

	got := e.EmergencyNumbers(context.Background(), "DE")

	require.Equal(t, domain.KindError, got.Kind)
	assert.ErrorIs(t, got.Err, domain.ErrNetworkUnavailable)
}

func TestEmergencyNumbers_RemoteFailureFallsBackToCache(t *testing.T) {
	gw := &mockGateway{
		emergencyNumbers: func(_ context.Context, _ string) (domain.EmergencyNumbers, error) {
			return domain.EmergencyNumbers{}, &domain.RemoteError{StatusCode: 500}
		},
	}
	e, db, _ := newEngine(t, gw, true)

	seed := germanNumbers()
	require.NoError(t, db.PutEmergencyNumbers(context.Background(), seed))

	got := e.EmergencyNumbers(context.Background(), "DE")

	require.Equal(t, domain.KindSuccess, got.Kind)
	assert.True(t, got.FromCache)
}

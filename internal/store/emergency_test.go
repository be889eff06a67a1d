package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

func TestEmergency_PutGetRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	want := domain.EmergencyNumbers{
		Country: "DE", Police: "110", Ambulance: "112", Fire: "112", CachedAt: 1000,
	}
	require.NoError(t, db.PutEmergencyNumbers(ctx, want))

	got, err := db.GetEmergencyNumbers(ctx, "DE")

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEmergency_GetUnknownCountry(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetEmergencyNumbers(context.Background(), "ZZ")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmergency_UpsertKeepsOneRowPerCountry(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := domain.EmergencyNumbers{Country: "FR", Police: "17", Ambulance: "15", Fire: "18", CachedAt: 100}
	require.NoError(t, db.PutEmergencyNumbers(ctx, first))

	refreshed := first
	refreshed.CachedAt = 900
	require.NoError(t, db.PutEmergencyNumbers(ctx, refreshed))

	got, err := db.GetEmergencyNumbers(ctx, "FR")

	require.NoError(t, err)
	assert.EqualValues(t, 900, got.CachedAt, "second put must overwrite, not duplicate")
}

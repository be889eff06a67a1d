package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/repo"
	"github.com/bidpaifusion/travelmate/testutil"
)

func newTestEmergencyRepo(t *testing.T) repo.EmergencyRepo {
	t.Helper()
	// Emergency numbers are a read-only reference table seeded by migration,
	// so there is nothing to roll back; reads go straight through the pool.
	return repo.NewEmergencyRepo(testutil.NewPool(t))
}

func TestEmergencyRepo_GetByCountry(t *testing.T) {
	r := newTestEmergencyRepo(t)

	got, err := r.GetByCountry(context.Background(), "DE")

	require.NoError(t, err)
	assert.Equal(t, "DE", got.Country)
	assert.Equal(t, "110", got.Police)
	assert.Equal(t, "112", got.Ambulance)
	assert.Equal(t, "112", got.Fire)
}

func TestEmergencyRepo_GetByCountry_Unknown(t *testing.T) {
	r := newTestEmergencyRepo(t)

	_, err := r.GetByCountry(context.Background(), "ZZ")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

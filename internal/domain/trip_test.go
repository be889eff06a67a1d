package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

func TestNewLocalTripID(t *testing.T) {
	id := domain.NewLocalTripID(time.UnixMilli(1700000000000))

	assert.Equal(t, "local_1700000000000", id)
	assert.True(t, domain.IsLocalTripID(id))
}

func TestIsLocalTripID_ServerIDs(t *testing.T) {
	assert.False(t, domain.IsLocalTripID("8b5c2f1e-0000-4000-8000-000000000001"))
	assert.False(t, domain.IsLocalTripID(""))
}

func TestSyncState_Pending(t *testing.T) {
	assert.False(t, domain.StateSynced.Pending())
	assert.True(t, domain.StatePendingCreate.Pending())
	assert.True(t, domain.StatePendingUpdate.Pending())
	assert.True(t, domain.StatePendingDelete.Pending())
}

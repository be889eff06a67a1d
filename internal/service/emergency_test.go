package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/repo"
	"github.com/bidpaifusion/travelmate/internal/service"
)

type mockEmergencyRepo struct {
	getByCountry func(ctx context.Context, country string) (domain.EmergencyNumbers, error)
}

func (m *mockEmergencyRepo) GetByCountry(ctx context.Context, country string) (domain.EmergencyNumbers, error) {
	return m.getByCountry(ctx, country)
}

var _ repo.EmergencyRepo = (*mockEmergencyRepo)(nil)

func TestEmergencyService_ByCountry_NormalizesCode(t *testing.T) {
	r := &mockEmergencyRepo{
		getByCountry: func(_ context.Context, country string) (domain.EmergencyNumbers, error) {
			assert.Equal(t, "JP", country, "code should be upper-cased before hitting the repo")
			return domain.EmergencyNumbers{Country: "JP", Police: "110", Ambulance: "119", Fire: "119"}, nil
		},
	}
	svc := service.NewEmergencyService(r)

	got, err := svc.ByCountry(context.Background(), " jp ")

	require.NoError(t, err)
	assert.Equal(t, "110", got.Police)
}

func TestEmergencyService_ByCountry_BadCode(t *testing.T) {
	svc := service.NewEmergencyService(&mockEmergencyRepo{})

	_, err := svc.ByCountry(context.Background(), "JPN")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEmergencyService_ByCountry_Unknown(t *testing.T) {
	r := &mockEmergencyRepo{
		getByCountry: func(_ context.Context, _ string) (domain.EmergencyNumbers, error) {
			return domain.EmergencyNumbers{}, domain.ErrNotFound
		},
	}
	svc := service.NewEmergencyService(r)

	_, err := svc.ByCountry(context.Background(), "ZZ")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

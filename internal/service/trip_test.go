package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/repo"
	"github.com/bidpaifusion/travelmate/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.
type mockTripRepo struct {
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID    func(ctx context.Context, userID, id string) (domain.Trip, error)
	listByUser func(ctx context.Context, userID string) ([]domain.Trip, error)
	update     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete     func(ctx context.Context, userID, id string) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, userID, id string) (domain.Trip, error) {
	return m.getByID(ctx, userID, id)
}
func (m *mockTripRepo) ListByUser(ctx context.Context, userID string) ([]domain.Trip, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, userID, id string) error {
	return m.delete(ctx, userID, id)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

const testUser = "user-1"

func validTrip() domain.Trip {
	return domain.Trip{
		Destination: "Kyoto",
		StartDate:   "2026-04-01",
		EndDate:     "2026-04-10",
	}
}

func echoRepo() *mockTripRepo {
	// A repo that echoes whatever it receives back — useful for Create/Update tests
	// that only care about validation logic, not what the DB returns.
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		update: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
	}
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	got, err := svc.Create(context.Background(), testUser, validTrip())

	require.NoError(t, err)
	assert.Equal(t, "Kyoto", got.Destination)
	assert.Equal(t, testUser, got.UserID, "service should stamp the authenticated user")
}

func TestTripService_Create_MissingDestination(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.Destination = "   " // whitespace-only should be treated as empty

	_, err := svc.Create(context.Background(), testUser, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_TrimsDestination(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.Destination = "  Kyoto  "

	got, err := svc.Create(context.Background(), testUser, trip)

	require.NoError(t, err)
	assert.Equal(t, "Kyoto", got.Destination)
}

func TestTripService_Create_EndDateBeforeStartDate(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.EndDate = "2026-03-31" // one day before start

	_, err := svc.Create(context.Background(), testUser, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_EndDateEqualToStartDate(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.EndDate = trip.StartDate

	_, err := svc.Create(context.Background(), testUser, trip)

	// Same-day trips should be allowed (arrived and departed the same day).
	assert.NoError(t, err)
}

func TestTripService_Create_MalformedDate(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.StartDate = "01/04/2026"

	_, err := svc.Create(context.Background(), testUser, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, repoErr
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.Create(context.Background(), testUser, validTrip())

	// The service should propagate repo errors unchanged.
	assert.ErrorIs(t, err, repoErr)
}

// ---- GetByID tests ---------------------------------------------------------

func TestTripService_GetByID_Found(t *testing.T) {
	want := validTrip()
	want.ID = uuid.NewString()
	want.UserID = testUser

	r := &mockTripRepo{
		getByID: func(_ context.Context, userID, id string) (domain.Trip, error) {
			assert.Equal(t, testUser, userID)
			return want, nil
		},
	}
	svc := service.NewTripService(r)

	got, err := svc.GetByID(context.Background(), testUser, want.ID)

	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	r := &mockTripRepo{
		getByID: func(_ context.Context, _, _ string) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	svc := service.NewTripService(r)

	_, err := svc.GetByID(context.Background(), testUser, uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- List tests ------------------------------------------------------------

func TestTripService_List(t *testing.T) {
	trips := []domain.Trip{validTrip(), validTrip()}
	r := &mockTripRepo{
		listByUser: func(_ context.Context, _ string) ([]domain.Trip, error) { return trips, nil },
	}
	svc := service.NewTripService(r)

	got, err := svc.List(context.Background(), testUser)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestTripService_List_Empty(t *testing.T) {
	r := &mockTripRepo{
		listByUser: func(_ context.Context, _ string) ([]domain.Trip, error) { return nil, nil },
	}
	svc := service.NewTripService(r)

	got, err := svc.List(context.Background(), testUser)

	require.NoError(t, err)
	// Should return an empty slice, not nil — it marshals as [] rather than null.
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Update tests ----------------------------------------------------------

func TestTripService_Update_Valid(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.ID = uuid.NewString()
	trip.Destination = "Osaka"

	got, err := svc.Update(context.Background(), testUser, trip)

	require.NoError(t, err)
	assert.Equal(t, "Osaka", got.Destination)
	assert.Equal(t, testUser, got.UserID)
}

func TestTripService_Update_MissingID(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.ID = ""

	_, err := svc.Update(context.Background(), testUser, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_EndDateBeforeStartDate(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	trip := validTrip()
	trip.ID = uuid.NewString()
	trip.EndDate = "2026-03-01"

	_, err := svc.Update(context.Background(), testUser, trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete tests ----------------------------------------------------------

func TestTripService_Delete_OK(t *testing.T) {
	r := &mockTripRepo{
		delete: func(_ context.Context, _, _ string) error { return nil },
	}
	svc := service.NewTripService(r)

	err := svc.Delete(context.Background(), testUser, uuid.NewString())

	assert.NoError(t, err)
}

func TestTripService_Delete_NotFound(t *testing.T) {
	r := &mockTripRepo{
		delete: func(_ context.Context, _, _ string) error { return domain.ErrNotFound },
	}
	svc := service.NewTripService(r)

	err := svc.Delete(context.Background(), testUser, uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Package service contains the business logic for the TravelMate API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip for the given user.
func (s *TripService) Create(ctx context.Context, userID string, trip domain.Trip) (domain.Trip, error) {
	trip.UserID = userID
	validated, err := validateTrip(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return s.repo.Create(ctx, validated)
}

// GetByID returns a single trip owned by the user.
func (s *TripService) GetByID(ctx context.Context, userID, id string) (domain.Trip, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// List returns all of the user's trips. Always returns a non-nil slice so
// handlers can marshal it as a JSON array rather than null.
func (s *TripService) List(ctx context.Context, userID string) ([]domain.Trip, error) {
	trips, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Update validates and updates an existing trip owned by the user.
func (s *TripService) Update(ctx context.Context, userID string, trip domain.Trip) (domain.Trip, error) {
	trip.UserID = userID
	if trip.ID == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w: missing trip id", domain.ErrValidation)
	}
	validated, err := validateTrip(trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return s.repo.Update(ctx, validated)
}

// Delete removes a trip owned by the user.
func (s *TripService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// validateTrip enforces the trip business rules and returns a normalized copy:
// destination present (whitespace trimmed), both dates present and well-formed,
// end date not before start date. Same-day trips are allowed.
func validateTrip(trip domain.Trip) (domain.Trip, error) {
	trip.Destination = strings.TrimSpace(trip.Destination)
	if trip.Destination == "" {
		return domain.Trip{}, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}

	start, err := time.Parse(domain.DateLayout, trip.StartDate)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%w: start_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	end, err := time.Parse(domain.DateLayout, trip.EndDate)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("%w: end_date must be YYYY-MM-DD", domain.ErrValidation)
	}
	if end.Before(start) {
		return domain.Trip{}, fmt.Errorf("%w: end_date before start_date", domain.ErrValidation)
	}

	return trip, nil
}

// Package handler implements the HTTP handlers for the TravelMate API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, emergency.go) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, userID string, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, id string) (domain.Trip, error)
	List(ctx context.Context, userID string) ([]domain.Trip, error)
	Update(ctx context.Context, userID string, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, userID, id string) error
}

// EmergencyServicer defines the lookup operation the emergency handler depends on.
type EmergencyServicer interface {
	ByCountry(ctx context.Context, country string) (domain.EmergencyNumbers, error)
}

// Server holds the handlers for all API endpoints.
type Server struct {
	trips     TripServicer
	emergency EmergencyServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, emergency EmergencyServicer) *Server {
	return &Server{trips: trips, emergency: emergency}
}

// Routes mounts the user-scoped API endpoints on the given router. These
// assume the auth middleware has already run and placed a user ID in the
// request context.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/trips", s.ListTrips)
	r.Post("/api/trips", s.CreateTrip)
	r.Get("/api/trips/{id}", s.GetTrip)
	r.Put("/api/trips/{id}", s.UpdateTrip)
	r.Delete("/api/trips/{id}", s.DeleteTrip)
}

// PublicRoutes mounts the endpoints that require no authentication.
// Emergency numbers must stay reachable without a token: clients call
// them in situations where auth state may be unavailable.
func (s *Server) PublicRoutes(r chi.Router) {
	r.Get("/api/emergency/numbers", s.EmergencyNumbers)
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

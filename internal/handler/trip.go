package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/middleware"
)

// tripRequest is the JSON body accepted by create and update.
type tripRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Notes       string `json:"notes"`
}

// ListTrips handles GET /api/trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// CreateTrip handles POST /api/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	body, err := decodeTrip(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), middleware.UserID(r.Context()), body)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetTrip handles GET /api/trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetByID(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /api/trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	body, err := decodeTrip(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	body.ID = chi.URLParam(r, "id")

	updated, err := s.trips.Update(r.Context(), middleware.UserID(r.Context()), body)
	if err != nil {
		writeError(w, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /api/trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	err := s.trips.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "trip not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeTrip parses and validates the shape of a trip request body.
// Field-level business validation happens in the service layer.
func decodeTrip(r *http.Request) (domain.Trip, error) {
	var req tripRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Trip{}, errors.New("request body is required")
		}
		return domain.Trip{}, errors.New("malformed request body")
	}
	return domain.Trip{
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Notes:       req.Notes,
	}, nil
}

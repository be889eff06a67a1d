package handler

import "net/http"

// EmergencyNumbers handles GET /api/emergency/numbers?country=XX.
func (s *Server) EmergencyNumbers(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		writeBadRequest(w, "country query parameter is required")
		return
	}

	numbers, err := s.emergency.ByCountry(r.Context(), country)
	if err != nil {
		writeError(w, err, "no emergency numbers for that country")
		return
	}
	writeJSON(w, http.StatusOK, numbers)
}

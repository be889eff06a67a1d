package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/repo"
)

// EmergencyService answers emergency-number lookups from the reference table.
type EmergencyService struct {
	repo repo.EmergencyRepo
}

// NewEmergencyService constructs an EmergencyService backed by the provided repo.
func NewEmergencyService(r repo.EmergencyRepo) *EmergencyService {
	return &EmergencyService{repo: r}
}

// ByCountry returns the emergency numbers for an ISO 3166-1 alpha-2 country
// code, case-insensitively.
func (s *EmergencyService) ByCountry(ctx context.Context, country string) (domain.EmergencyNumbers, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	if len(country) != 2 {
		return domain.EmergencyNumbers{}, fmt.Errorf("service.EmergencyService.ByCountry: %w: country must be a 2-letter code", domain.ErrValidation)
	}
	return s.repo.GetByCountry(ctx, country)
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

// EmergencyRepo provides read access to the per-country emergency numbers
// reference table. The table is seeded by migration and has no write path
// through the API.
type EmergencyRepo interface {
	// GetByCountry returns the emergency numbers for an ISO 3166-1 alpha-2
	// country code. Returns domain.ErrNotFound for unknown countries.
	GetByCountry(ctx context.Context, country string) (domain.EmergencyNumbers, error)
}

type pgEmergencyRepo struct {
	db db
}

// NewEmergencyRepo constructs an EmergencyRepo backed by the provided db connection.
func NewEmergencyRepo(db db) EmergencyRepo {
	return &pgEmergencyRepo{db: db}
}

func (r *pgEmergencyRepo) GetByCountry(ctx context.Context, country string) (domain.EmergencyNumbers, error) {
	const q = `
		SELECT country, police, ambulance, fire
		FROM emergency_numbers
		WHERE country = @country`

	var n domain.EmergencyNumbers
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"country": country})
	err := row.Scan(&n.Country, &n.Police, &n.Ambulance, &n.Fire)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EmergencyNumbers{}, fmt.Errorf("repo.EmergencyRepo.GetByCountry: %w", domain.ErrNotFound)
		}
		return domain.EmergencyNumbers{}, fmt.Errorf("repo.EmergencyRepo.GetByCountry: %w", err)
	}
	return n, nil
}

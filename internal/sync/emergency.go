package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/bidpaifusion/travelmate/internal/domain"
	"github.com/bidpaifusion/travelmate/internal/observability"
)

// EmergencyNumbers returns the police/ambulance/fire numbers for a
// country code. Unlike the trip and place reads this yields a single
// result: the cached record when offline or when the refresh fails, the
// refreshed record otherwise. Emergency data must stay reachable with
// zero connectivity, which is why it is cached at all.
func (e *Engine) EmergencyNumbers(ctx context.Context, country string) domain.Result[domain.EmergencyNumbers] {
	country = strings.ToUpper(strings.TrimSpace(country))

	cached, cacheErr := e.store.GetEmergencyNumbers(ctx, country)
	haveCache := cacheErr == nil

	if !e.net.IsOnline() {
		if haveCache {
			observability.FetchResultsTotal.WithLabelValues(string(FamilyEmergency), "cache").Inc()
			return domain.Success(cached, true)
		}
		observability.FetchResultsTotal.WithLabelValues(string(FamilyEmergency), "error").Inc()
		return domain.Failure(
			fmt.Errorf("%w: no cached emergency numbers for %s", domain.ErrNetworkUnavailable, country),
			domain.EmergencyNumbers{})
	}

	remote, err := e.gw.EmergencyNumbers(ctx, country)
	if err != nil {
		if haveCache {
			e.log.Warn("emergency refresh failed, serving cache", "country", country, "error", err)
			observability.FetchResultsTotal.WithLabelValues(string(FamilyEmergency), "cache").Inc()
			return domain.Success(cached, true)
		}
		observability.FetchResultsTotal.WithLabelValues(string(FamilyEmergency), "error").Inc()
		return domain.Failure(err, domain.EmergencyNumbers{})
	}

	remote.CachedAt = e.Now().UnixMilli()
	if err := e.store.PutEmergencyNumbers(ctx, remote); err != nil {
		// The fresh data is still usable even if caching it failed.
		e.log.Error("caching emergency numbers failed", "country", country, "error", err)
	}
	observability.FetchResultsTotal.WithLabelValues(string(FamilyEmergency), "remote").Inc()
	return domain.Success(remote, false)
}

// Package gateway is the typed HTTP client for the TravelMate server.
// Every method returns errors from the domain taxonomy — transport
// failures become domain.ErrNetworkUnavailable, deadlines become
// domain.ErrTimeout, non-success statuses become *domain.RemoteError —
// so the reconciliation engine never sees a raw transport error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bidpaifusion/travelmate/internal/domain"
)

const (
	// dataTimeout bounds trip and place calls.
	dataTimeout = 10 * time.Second
	// quickTimeout bounds best-effort lookups (emergency numbers).
	quickTimeout = 5 * time.Second
	// maxErrBody caps how much of an error response is retained.
	maxErrBody = 512
)

// Client talks to the TravelMate server's REST endpoints.
type Client struct {
	baseURL string
	data    *http.Client
	quick   *http.Client
}

// NewClient builds a Client for the server at baseURL (scheme + host,
// no trailing slash).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		data:    &http.Client{Timeout: dataTimeout},
		quick:   &http.Client{Timeout: quickTimeout},
	}
}

// ListTrips fetches all trips owned by the token's user.
func (c *Client) ListTrips(ctx context.Context, token string) ([]domain.Trip, error) {
	var trips []domain.Trip
	err := c.do(ctx, c.data, http.MethodGet, "/api/trips", token, nil, &trips)
	if err != nil {
		return nil, fmt.Errorf("gateway.Client.ListTrips: %w", err)
	}
	return trips, nil
}

// createTripRequest is the POST /api/trips body. The server assigns the
// ID and owner, so neither is sent.
type createTripRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Notes       string `json:"notes,omitempty"`
}

// CreateTrip creates a trip on the server and returns the server record
// with its assigned ID.
func (c *Client) CreateTrip(ctx context.Context, token string, t domain.Trip) (domain.Trip, error) {
	body := createTripRequest{
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Notes:       t.Notes,
	}
	var created domain.Trip
	err := c.do(ctx, c.data, http.MethodPost, "/api/trips", token, body, &created)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("gateway.Client.CreateTrip: %w", err)
	}
	return created, nil
}

// UpdateTrip overwrites the mutable fields of a server trip.
func (c *Client) UpdateTrip(ctx context.Context, token, id string, t domain.Trip) (domain.Trip, error) {
	body := createTripRequest{
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Notes:       t.Notes,
	}
	var updated domain.Trip
	err := c.do(ctx, c.data, http.MethodPut, "/api/trips/"+url.PathEscape(id), token, body, &updated)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("gateway.Client.UpdateTrip: %w", err)
	}
	return updated, nil
}

// DeleteTrip removes a server trip. A 404 surfaces as domain.ErrNotFound;
// the engine treats it as convergence, not failure.
func (c *Client) DeleteTrip(ctx context.Context, token, id string) error {
	err := c.do(ctx, c.data, http.MethodDelete, "/api/trips/"+url.PathEscape(id), token, nil, nil)
	if err != nil {
		return fmt.Errorf("gateway.Client.DeleteTrip: %w", err)
	}
	return nil
}

// SearchPlaces queries points of interest near (lat, lon) for one
// category. No auth: the places endpoint is public.
func (c *Client) SearchPlaces(ctx context.Context, lat, lon float64, category string) ([]domain.Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))
	q.Set("category", category)

	var places []domain.Place
	err := c.do(ctx, c.data, http.MethodGet, "/api/places?"+q.Encode(), "", nil, &places)
	if err != nil {
		return nil, fmt.Errorf("gateway.Client.SearchPlaces: %w", err)
	}
	return places, nil
}

// EmergencyNumbers looks up the police/ambulance/fire numbers for a
// country code. Best-effort: short timeout, no auth.
func (c *Client) EmergencyNumbers(ctx context.Context, country string) (domain.EmergencyNumbers, error) {
	var n domain.EmergencyNumbers
	err := c.do(ctx, c.quick, http.MethodGet, "/api/emergency/numbers?country="+url.QueryEscape(country), "", nil, &n)
	if err != nil {
		return domain.EmergencyNumbers{}, fmt.Errorf("gateway.Client.EmergencyNumbers: %w", err)
	}
	n.Country = country
	return n, nil
}

// do performs one round-trip: marshal body, set headers, map transport
// and status failures to the domain taxonomy, decode out when non-nil.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return mapTransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return &domain.RemoteError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapTransportErr classifies a failed round-trip: deadline overruns are
// timeouts, everything else means the network is unusable right now.
func mapTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrNetworkUnavailable, err)
}

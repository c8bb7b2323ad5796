// Package airport is the narrow client for the external airport/runway
// lookup service. Only catalogue nodes consume it; the derivation engine
// itself never touches it, so a lookup failure is node-local by
// construction.
package airport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/flightworks/derive/internal/ctxlog"
)

// Airport is the service's description of an airport.
type Airport struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ICAO      string  `json:"icao"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Runway is the service's description of a runway.
type Runway struct {
	ID         string  `json:"id"`
	Identifier string  `json:"identifier"`
	Heading    float64 `json:"heading"`
	LengthFt   float64 `json:"length_ft"`
}

// Lookup is the interface catalogue nodes depend on.
type Lookup interface {
	NearestAirport(ctx context.Context, lat, lon float64) (*Airport, error)
	NearestRunway(ctx context.Context, airportID string, heading float64) (*Runway, error)
}

// Client talks to the lookup service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with a pooled transport.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NearestAirport implements Lookup.
func (c *Client) NearestAirport(ctx context.Context, lat, lon float64) (*Airport, error) {
	u := fmt.Sprintf("%s/api/airport/nearest?lat=%g&lon=%g", c.baseURL, lat, lon)
	var out Airport
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, fmt.Errorf("nearest airport at (%g, %g): %w", lat, lon, err)
	}
	return &out, nil
}

// NearestRunway implements Lookup.
func (c *Client) NearestRunway(ctx context.Context, airportID string, heading float64) (*Runway, error) {
	u := fmt.Sprintf("%s/api/airport/%s/runway/nearest?heading=%g",
		c.baseURL, url.PathEscape(airportID), heading)
	var out Runway
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, fmt.Errorf("nearest runway at %s for heading %g: %w", airportID, heading, err)
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Airport lookup request.", "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lookup service returned status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

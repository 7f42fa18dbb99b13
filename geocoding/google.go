// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/maploc/maploc/spatial"
	"github.com/maploc/maploc/utils/httputils"
)

const defaultGeocodingEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsGeocoder uses Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	apiKey     string
	endpoint   string
	region     string
	httpClient *http.Client
}

// GoogleMapsOption customizes a GoogleMapsGeocoder.
type GoogleMapsOption func(*GoogleMapsGeocoder)

// WithGeocodingEndpoint overrides the geocode endpoint. Used by tests.
func WithGeocodingEndpoint(endpoint string) GoogleMapsOption {
	return func(g *GoogleMapsGeocoder) {
		g.endpoint = endpoint
	}
}

// WithRegion biases results toward a ccTLD region code, e.g. "us".
func WithRegion(region string) GoogleMapsOption {
	return func(g *GoogleMapsGeocoder) {
		g.region = region
	}
}

// WithGeocodingTimeout overrides the default 10s request timeout.
func WithGeocodingTimeout(timeout time.Duration) GoogleMapsOption {
	return func(g *GoogleMapsGeocoder) {
		g.httpClient.Timeout = timeout
	}
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder.
func NewGoogleMapsGeocoder(apiKey string, opts ...GoogleMapsOption) *GoogleMapsGeocoder {
	g := &GoogleMapsGeocoder{
		apiKey:   apiKey,
		endpoint: defaultGeocodingEndpoint,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: httputils.DefaultTransport(),
		},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"` // OK, ZERO_RESULTS, etc.
}

// Geocode resolves a place name or address to coordinates. A query the
// provider cannot match yields ErrNoResults.
func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, location string) (*Result, error) {
	params := url.Values{}
	params.Set("address", location)
	params.Set("key", g.apiKey)

	if g.region != "" {
		params.Set("region", g.region)
	}

	reqURL := g.endpoint + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google maps returned status %d", resp.StatusCode)
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if gmResp.Status == "ZERO_RESULTS" || (gmResp.Status == "OK" && len(gmResp.Results) == 0) {
		return nil, ErrNoResults
	}

	if gmResp.Status != "OK" {
		return nil, fmt.Errorf("google maps status: %s", gmResp.Status)
	}

	result := gmResp.Results[0]

	// Determine confidence based on location_type.
	confidence := "low"

	switch result.Geometry.LocationType {
	case "ROOFTOP", "RANGE_INTERPOLATED":
		confidence = "high"
	case "GEOMETRIC_CENTER":
		confidence = "medium"
	case "APPROXIMATE":
		confidence = "low"
	}

	return &Result{
		Point: spatial.Point{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
		Confidence:  confidence,
		Provider:    "google_maps",
		DisplayName: result.FormattedAddress,
	}, nil
}

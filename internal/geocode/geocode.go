// Package geocode annotates coordinates with state/country via the OpenStreetMap
// Nominatim reverse-geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	unknown        = "Unknown"
)

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: "gridmark/1.0",
		http:      &http.Client{Timeout: 5 * time.Second},
	}
}

type reverseResponse struct {
	Address struct {
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// Resolve is best-effort: any transport, status, or decode failure yields the
// Unknown defaults. Lookups are never retried.
func (c *Client) Resolve(ctx context.Context, lat, lng float64) (string, string) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lng))
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return unknown, unknown
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("reverse geocode request failed", "error", err)
		return unknown, unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("reverse geocode non-200", "status", resp.StatusCode)
		return unknown, unknown
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return unknown, unknown
	}

	state, country := body.Address.State, body.Address.Country
	if state == "" {
		state = unknown
	}
	if country == "" {
		country = unknown
	}
	return state, country
}

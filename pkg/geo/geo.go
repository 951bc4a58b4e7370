package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spotlite-scan/spotlite/pkg/config"
)

// Location holds geolocation data for one IP address
type Location struct {
	IP          string  `json:"ip"`
	Country     string  `json:"country,omitzero"`
	CountryCode string  `json:"country_code,omitzero"`
	Region      string  `json:"region,omitzero"`
	City        string  `json:"city,omitzero"`
	Lat         float64 `json:"lat,omitzero"`
	Lon         float64 `json:"lon,omitzero"`
	Timezone    string  `json:"timezone,omitzero"`
	ISP         string  `json:"isp,omitzero"`
	Org         string  `json:"org,omitzero"`
	AS          string  `json:"as,omitzero"`
}

// Client looks up IP geolocation through the ip-api.com JSON endpoint
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a geolocation client. A nil httpClient uses the shared
// pooled client settings; baseURL "" uses the configured endpoint.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = config.NewHTTPClient(config.HTTP)
	}
	if baseURL == "" {
		baseURL = config.Enrich.GeoEndpoint
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// ipAPIResponse is the wire format of the ip-api.com JSON endpoint
type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"regionName"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	AS          string  `json:"as"`
	Query       string  `json:"query"`
}

// Lookup fetches geolocation for one IP. A single request, no retries.
func (c *Client) Lookup(ctx context.Context, ip string) (*Location, error) {
	url := fmt.Sprintf("%s/%s?fields=status,message,country,countryCode,regionName,city,lat,lon,timezone,isp,org,as,query", c.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "spotlite/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, config.HTTP.MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("geolocation read failed: %w", err)
	}

	var r ipAPIResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("geolocation parse failed: %w", err)
	}
	if r.Status != "success" {
		return nil, fmt.Errorf("geolocation lookup failed: %s", r.Message)
	}

	return &Location{
		IP:          ip,
		Country:     r.Country,
		CountryCode: r.CountryCode,
		Region:      r.Region,
		City:        r.City,
		Lat:         r.Lat,
		Lon:         r.Lon,
		Timezone:    r.Timezone,
		ISP:         r.ISP,
		Org:         r.Org,
		AS:          r.AS,
	}, nil
}

package httpmeta

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spotlite-scan/spotlite/pkg/config"
)

// ServerInfo holds server-version metadata extracted from HTTP response
// headers of one host
type ServerInfo struct {
	Server     string `json:"server,omitzero"`
	PoweredBy  string `json:"powered_by,omitzero"`
	StatusCode int    `json:"status_code"`
	Proto      string `json:"proto,omitzero"`
}

// Client fetches server-version metadata with a single HTTP request
type Client struct {
	httpClient *http.Client
	useTLS     bool
}

// NewClient creates a server-metadata client. A nil httpClient uses the
// shared pooled client settings.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = config.NewHTTPClient(config.HTTP)
	}
	return &Client{httpClient: httpClient, useTLS: config.Enrich.ServerTLS}
}

// Fetch requests the root document of host (an IP or domain) and extracts
// the Server and X-Powered-By headers. The body is drained and discarded.
func (c *Client) Fetch(ctx context.Context, host string) (*ServerInfo, error) {
	scheme := "http"
	if c.useTLS {
		scheme = "https"
	}
	return c.FetchURL(ctx, fmt.Sprintf("%s://%s/", scheme, host))
}

// FetchURL is Fetch against an explicit URL, used by tests
func (c *Client) FetchURL(ctx context.Context, url string) (*ServerInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "spotlite/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server-version request failed: %w", err)
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, config.HTTP.MaxResponseSize))

	return &ServerInfo{
		Server:     resp.Header.Get("Server"),
		PoweredBy:  resp.Header.Get("X-Powered-By"),
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
	}, nil
}

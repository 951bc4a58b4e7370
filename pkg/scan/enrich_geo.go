package scan

import (
	"context"

	"github.com/spotlite-scan/spotlite/pkg/geo"
)

// GeoEnricher attaches geolocation data to each scanned host
type GeoEnricher struct {
	client *geo.Client
}

// NewGeoEnricher creates a geolocation enricher. A nil client uses the
// default endpoint.
func NewGeoEnricher(client *geo.Client) *GeoEnricher {
	if client == nil {
		client = geo.NewClient(nil, "")
	}
	return &GeoEnricher{client: client}
}

func (e *GeoEnricher) Name() string {
	return "geo"
}

func (e *GeoEnricher) Enrich(ctx context.Context, host *HostResult) error {
	loc, err := e.client.Lookup(ctx, host.IP)
	if err != nil {
		return err
	}
	host.Geo = loc
	return nil
}

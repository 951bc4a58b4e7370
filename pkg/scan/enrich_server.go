package scan

import (
	"context"

	"github.com/spotlite-scan/spotlite/pkg/httpmeta"
)

// ServerEnricher attaches server-version metadata from HTTP response
// headers to each scanned host
type ServerEnricher struct {
	client *httpmeta.Client
}

// NewServerEnricher creates a server-version enricher. A nil client uses
// the shared pooled HTTP client.
func NewServerEnricher(client *httpmeta.Client) *ServerEnricher {
	if client == nil {
		client = httpmeta.NewClient(nil)
	}
	return &ServerEnricher{client: client}
}

func (e *ServerEnricher) Name() string {
	return "server"
}

func (e *ServerEnricher) Enrich(ctx context.Context, host *HostResult) error {
	info, err := e.client.Fetch(ctx, host.IP)
	if err != nil {
		return err
	}
	host.Server = info
	return nil
}

package scan

import (
	"context"
)

// Enricher adds optional metadata to a host result after its ports have
// been scanned (geolocation, server version). Enrichment is best-effort:
// an error is recorded on the result and never fails the scan.
type Enricher interface {
	// Name returns the enricher identifier (e.g. "geo", "server")
	Name() string

	// Enrich populates its section of the result for the scanned host
	Enrich(ctx context.Context, host *HostResult) error
}

// EnricherFunc is a function adapter for the Enricher interface
type EnricherFunc struct {
	name string
	fn   func(ctx context.Context, host *HostResult) error
}

// NewEnricherFunc creates an Enricher from a function
func NewEnricherFunc(name string, fn func(ctx context.Context, host *HostResult) error) Enricher {
	return &EnricherFunc{name: name, fn: fn}
}

func (e *EnricherFunc) Name() string {
	return e.name
}

func (e *EnricherFunc) Enrich(ctx context.Context, host *HostResult) error {
	return e.fn(ctx, host)
}

// EnricherRegistry manages the enrichers selected for a run
type EnricherRegistry struct {
	enrichers []Enricher
}

// NewEnricherRegistry creates an empty registry
func NewEnricherRegistry() *EnricherRegistry {
	return &EnricherRegistry{enrichers: make([]Enricher, 0)}
}

// Register adds an enricher to the registry
func (r *EnricherRegistry) Register(e Enricher) {
	r.enrichers = append(r.enrichers, e)
}

// All returns all registered enrichers
func (r *EnricherRegistry) All() []Enricher {
	return r.enrichers
}

// Count returns the number of registered enrichers
func (r *EnricherRegistry) Count() int {
	return len(r.enrichers)
}

package whois

import (
	"fmt"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

// Record summarizes domain registration data from a WHOIS lookup
type Record struct {
	Registrar   string   `json:"registrar,omitzero"`
	Created     string   `json:"created,omitzero"`
	Updated     string   `json:"updated,omitzero"`
	Expires     string   `json:"expires,omitzero"`
	NameServers []string `json:"name_servers,omitzero"`
	Status      []string `json:"status,omitzero"`
}

// Lookup performs one WHOIS query for a domain and parses the response.
// Best-effort: unparsable or unregistered domains return an error and the
// caller decides whether that is worth reporting.
func Lookup(domain string) (*Record, error) {
	raw, err := whois.Whois(domain)
	if err != nil {
		return nil, fmt.Errorf("whois query failed: %w", err)
	}
	return parse(raw)
}

func parse(raw string) (*Record, error) {
	info, err := whoisparser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("whois parse failed: %w", err)
	}

	rec := &Record{}
	if info.Registrar != nil {
		rec.Registrar = info.Registrar.Name
	}
	if info.Domain != nil {
		rec.Created = info.Domain.CreatedDate
		rec.Updated = info.Domain.UpdatedDate
		rec.Expires = info.Domain.ExpirationDate
		rec.NameServers = info.Domain.NameServers
		rec.Status = info.Domain.Status
	}
	return rec, nil
}

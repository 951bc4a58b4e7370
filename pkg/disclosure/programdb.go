package disclosure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Program is one entry of the JSON bug-bounty program database
type Program struct {
	Name         string   `json:"name"`
	URL          string   `json:"url,omitzero"`
	OffersBounty bool     `json:"offers_bounty"`
	Scopes       []string `json:"scopes,omitzero"`
}

// programEntry matches the crowdsourced database wire format
type programEntry struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	OffersBounty  bool   `json:"offers_bounties"`
	InScope       []struct {
		AssetIdentifier string `json:"asset_identifier"`
		AssetType       string `json:"asset_type"`
	} `json:"targets,omitzero"`
}

// SearchPrograms fetches the JSON program database and returns the
// programs whose scope covers the domain, either exactly or through a
// wildcard entry. Optional platform credentials attach as request auth.
func (c *Client) SearchPrograms(ctx context.Context, domain string) ([]Program, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ProgramDBURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "spotlite/1.0")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("program database request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("program database HTTP %d", resp.StatusCode)
	}

	var entries []programEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("program database parse failed: %w", err)
	}

	target := normalizeEntry(domain)
	var matches []Program
	for _, entry := range entries {
		var scopes []string
		for _, t := range entry.InScope {
			if scopeCovers(t.AssetIdentifier, target) {
				scopes = append(scopes, t.AssetIdentifier)
			}
		}
		if len(scopes) > 0 {
			matches = append(matches, Program{
				Name:         entry.Name,
				URL:          entry.URL,
				OffersBounty: entry.OffersBounty,
				Scopes:       scopes,
			})
		}
	}
	return matches, nil
}

// authorize attaches whichever platform credentials are configured.
// HackerOne uses basic auth, Bugcrowd a token header.
func (c *Client) authorize(req *http.Request) {
	if c.cfg.HackerOneUsername != "" && c.cfg.HackerOneToken != "" {
		req.SetBasicAuth(c.cfg.HackerOneUsername, c.cfg.HackerOneToken)
		return
	}
	if c.cfg.BugcrowdToken != "" {
		req.Header.Set("Authorization", "Token "+c.cfg.BugcrowdToken)
	}
}

// scopeCovers reports whether a scope identifier covers the target domain.
// "*.example.com" covers example.com and any subdomain of it.
func scopeCovers(scope, target string) bool {
	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope == "" {
		return false
	}
	if wild, ok := strings.CutPrefix(scope, "*."); ok {
		return wild == target || strings.HasSuffix(target, "."+wild)
	}
	return normalizeEntry(scope) == target
}

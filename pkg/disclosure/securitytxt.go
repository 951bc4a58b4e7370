package disclosure

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spotlite-scan/spotlite/pkg/config"
)

// SecurityTXT holds the parsed fields of a published security.txt file
// (RFC 9116). Unknown fields are preserved in Raw order-free.
type SecurityTXT struct {
	URL      string   `json:"url"`
	Contact  []string `json:"contact,omitzero"`
	Policy   []string `json:"policy,omitzero"`
	Expires  string   `json:"expires,omitzero"`
	Language string   `json:"preferred_languages,omitzero"`
}

// wellKnownPaths are tried in order; RFC 9116 mandates the first, many
// sites still publish only the legacy root location
var wellKnownPaths = []string{
	"/.well-known/security.txt",
	"/security.txt",
}

// FetchSecurityTXT retrieves and parses the domain's security.txt, trying
// the well-known location first. Returns nil without error when the domain
// publishes none.
func (c *Client) FetchSecurityTXT(ctx context.Context, domain string) (*SecurityTXT, error) {
	for _, path := range wellKnownPaths {
		url := fmt.Sprintf("https://%s%s", domain, path)
		txt, err := c.fetchSecurityTXT(ctx, url)
		if err != nil {
			return nil, err
		}
		if txt != nil {
			return txt, nil
		}
	}
	return nil, nil
}

func (c *Client) fetchSecurityTXT(ctx context.Context, url string) (*SecurityTXT, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "spotlite/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("security.txt request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, nil
	}

	txt := &SecurityTXT{URL: url}
	scanner := bufio.NewScanner(io.LimitReader(resp.Body, config.HTTP.MaxResponseSize))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		field, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "contact":
			txt.Contact = append(txt.Contact, value)
		case "policy":
			txt.Policy = append(txt.Policy, value)
		case "expires":
			txt.Expires = value
		case "preferred-languages":
			txt.Language = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("security.txt read failed: %w", err)
	}

	// A 200 that carries no recognizable field is a soft 404
	if len(txt.Contact) == 0 && len(txt.Policy) == 0 && txt.Expires == "" {
		return nil, nil
	}
	return txt, nil
}

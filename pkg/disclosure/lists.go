package disclosure

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// InBountyList checks whether the domain appears in the configured
// crowdsourced bounty target list (one domain per line). Entries are
// compared after the same normalization the scanner applies: lowercase
// with a leading "www." stripped.
func (c *Client) InBountyList(ctx context.Context, domain string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BountyListURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", "spotlite/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("bounty list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return false, fmt.Errorf("bounty list HTTP %d", resp.StatusCode)
	}

	target := normalizeEntry(domain)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if normalizeEntry(scanner.Text()) == target {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("bounty list read failed: %w", err)
	}
	return false, nil
}

func normalizeEntry(entry string) string {
	entry = strings.ToLower(strings.TrimSpace(entry))
	entry = strings.TrimPrefix(entry, "*.")
	entry = strings.TrimPrefix(entry, "www.")
	return entry
}

package input

import (
	"fmt"
	"net"
	"strings"
)

// NormalizeDomain turns raw user input into a canonical scan target:
// lowercase, scheme and path stripped, leading "www." removed, trailing dot
// removed. The returned string is what every downstream component matches
// and displays.
func NormalizeDomain(raw string) (string, error) {
	domain := strings.ToLower(strings.TrimSpace(raw))
	if domain == "" {
		return "", fmt.Errorf("empty domain")
	}

	// Strip scheme if the user pasted a URL
	if _, rest, found := strings.Cut(domain, "://"); found {
		domain = rest
	}

	// Strip path, query and fragment
	if host, _, found := strings.Cut(domain, "/"); found {
		domain = host
	}

	// Strip an explicit port
	if host, _, err := net.SplitHostPort(domain); err == nil {
		domain = host
	}

	domain = strings.TrimPrefix(domain, "www.")
	domain = strings.TrimSuffix(domain, ".")

	if domain == "" {
		return "", fmt.Errorf("empty domain after normalization: %q", raw)
	}
	if strings.ContainsAny(domain, " \t,") {
		return "", fmt.Errorf("invalid domain: %q", raw)
	}

	return domain, nil
}

package scan

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects which port set a scan probes
type Mode string

const (
	// ModeFull probes the default port set
	ModeFull Mode = "full"
	// ModeQuick probes the smaller quick set
	ModeQuick Mode = "quick"
	// ModeCustom probes a user-supplied port list
	ModeCustom Mode = "custom"
)

// ParsePortList parses a comma-separated port list into an ordered port
// spec. Any invalid entry fails the whole input; a scan never runs on a
// partially parsed list. Duplicates collapse to their first occurrence so
// no port is probed twice.
func ParsePortList(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return nil, fmt.Errorf("empty port list")
	}

	seen := make(map[int]bool)
	var ports []int
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		port, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", token)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("port %d out of range 1-65535", port)
		}
		if seen[port] {
			continue
		}
		seen[port] = true
		ports = append(ports, port)
	}
	return ports, nil
}

// SelectPorts resolves the port spec for one scan: a non-empty custom list
// wins, then the quick set, then the default set.
func SelectPorts(cfg Config, mode Mode, custom []int) []int {
	if len(custom) > 0 {
		return custom
	}
	if mode == ModeQuick {
		return cfg.QuickPorts
	}
	return cfg.DefaultPorts
}

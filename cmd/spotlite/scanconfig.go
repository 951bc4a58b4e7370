package main

import (
	"github.com/spotlite-scan/spotlite/pkg/scan"
)

// ScanFlags represents the CLI flags that select what a run probes
type ScanFlags struct {
	Quick bool   // --quick
	Ports string // --ports, comma-separated custom list
}

// ScanRequest is the resolved scan selection
type ScanRequest struct {
	Mode        scan.Mode
	CustomPorts []int
}

// ResolveScanRequest resolves CLI flags to a scan request. A custom port
// list takes precedence over --quick; a malformed list fails the whole
// request before any probing starts.
func ResolveScanRequest(flags ScanFlags) (ScanRequest, error) {
	if flags.Ports != "" {
		ports, err := scan.ParsePortList(flags.Ports)
		if err != nil {
			return ScanRequest{}, err
		}
		return ScanRequest{Mode: scan.ModeCustom, CustomPorts: ports}, nil
	}

	if flags.Quick {
		return ScanRequest{Mode: scan.ModeQuick}, nil
	}
	return ScanRequest{Mode: scan.ModeFull}, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spotlite-scan/spotlite/pkg/config"
	"github.com/spotlite-scan/spotlite/pkg/disclosure"
	"github.com/spotlite-scan/spotlite/pkg/input"
	"github.com/spotlite-scan/spotlite/pkg/output"
	"github.com/spotlite-scan/spotlite/pkg/resolve"
	"github.com/spotlite-scan/spotlite/pkg/scan"
	"github.com/spotlite-scan/spotlite/pkg/whois"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	// Port selection
	quickScan bool
	portList  string

	// Enrichment
	geoLookup     bool
	serverVersion bool
	disclosureChk bool
	whoisLookup   bool

	// Resolution
	resolverAddr string

	// Output
	outputFile   string
	outputFormat string

	// Performance
	workers int
	timeout int
	rateLim int

	// Logging
	logFile string
	quiet   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "spotlite [flags] <domain>",
	Short: "Lightweight single-domain reconnaissance",
	Long: `Spotlite - Resolve a domain and probe its addresses for open ports

Resolves the target domain to its IP addresses, then concurrently probes a
port set on each address:
  • quick set (21, 22, 80, 443) with --quick
  • default set (80, 443, 8080, 8443)
  • custom list with --ports

Optional enrichment per address: geolocation (--geo) and server version
headers (--server-version). Domain-level lookups: WHOIS registration
(--whois) and disclosure policy — security.txt, bounty-list membership,
program database (--disclosure).`,

	Example: `  # Default scan
  spotlite example.com

  # Quick set, geolocation, JSONL to file
  spotlite example.com --quick --geo -o results.jsonl

  # Custom ports
  spotlite example.com --ports 22,8022,9000

  # Full enrichment with parquet output
  spotlite example.com --geo --server-version --disclosure --whois --format parquet -o scan.parquet

  # Use a specific nameserver
  spotlite example.com --resolver 1.1.1.1

  # Pipe JSONL to jq
  spotlite example.com | jq '.open_ports'`,

	Args:          cobra.ExactArgs(1),
	RunE:          runScan,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("spotlite %s (commit: %s, built: %s)\n", version, commit, date))

	f := rootCmd.Flags()

	// Port selection
	f.BoolVar(&quickScan, "quick", false, "Probe the quick port set")
	f.StringVarP(&portList, "ports", "p", "", "Custom comma-separated port list")

	// Enrichment
	f.BoolVar(&geoLookup, "geo", false, "Look up geolocation per address")
	f.BoolVar(&serverVersion, "server-version", false, "Fetch server version headers per address")
	f.BoolVar(&disclosureChk, "disclosure", false, "Look up the domain's disclosure policy")
	f.BoolVar(&whoisLookup, "whois", false, "Look up WHOIS registration data")

	// Resolution
	f.StringVar(&resolverAddr, "resolver", "", "Nameserver to resolve through (host or host:port)")

	// Output
	f.StringVarP(&outputFile, "output", "o", "-", "Output file (- for stdout)")
	f.StringVar(&outputFormat, "format", "jsonl", "Output format: jsonl, parquet")

	// Performance
	f.IntVarP(&workers, "workers", "w", 0, "Concurrent probes per address (0 = default)")
	f.IntVarP(&timeout, "timeout", "t", 0, "Probe timeout in seconds (0 = default)")
	f.IntVarP(&rateLim, "rate", "r", 0, "Max probes/second, 0 = unlimited")

	// Logging
	f.StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	f.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	f.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.SetUsageTemplate(usageTemplate)
}

func runScan(cmd *cobra.Command, args []string) error {
	closeLog, err := initLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("stopping scan...")
		cancel()
	}()

	domain, err := input.NormalizeDomain(args[0])
	if err != nil {
		return err
	}

	request, err := ResolveScanRequest(ScanFlags{Quick: quickScan, Ports: portList})
	if err != nil {
		return err
	}

	cfg := scan.DefaultConfig()
	if workers > 0 {
		cfg.Parallelism = workers
	}
	if timeout > 0 {
		cfg.Timeout = time.Duration(timeout) * time.Second
	}
	if rateLim > 0 {
		cfg.RateLimit = rateLim
	}

	var resolver resolve.Resolver
	if resolverAddr != "" {
		resolver = resolve.NewDNSResolver(resolverAddr, cfg.Timeout)
	}

	orch := scan.NewOrchestrator(cfg, resolver, nil)
	if geoLookup {
		orch.Enrichers().Register(scan.NewGeoEnricher(nil))
	}
	if serverVersion {
		orch.Enrichers().Register(scan.NewServerEnricher(nil))
	}

	// Setup output writer
	writeResult, closeWriter, err := createOutputWriter()
	if err != nil {
		return err
	}

	slog.Info("starting scan", "domain", domain, "mode", request.Mode)
	startTime := time.Now()

	report := orch.Run(ctx, domain, request.Mode, request.CustomPorts)
	if !report.Resolved() {
		closeWriter()
		return fmt.Errorf("could not resolve domain %q", domain)
	}

	var scanErr error
	openTotal := 0
	for _, host := range report.Hosts {
		openTotal += len(host.OpenPorts)
		if !quiet {
			logHost(host)
		}
		if err := writeResult(host); err != nil && scanErr == nil {
			scanErr = err
		}
	}

	if closeErr := closeWriter(); closeErr != nil && scanErr == nil {
		scanErr = closeErr
	}
	if scanErr != nil && ctx.Err() == nil {
		return fmt.Errorf("scan failed: %w", scanErr)
	}

	runDomainLookups(ctx, domain)

	if openTotal == 0 {
		slog.Info("no ports open", "domain", domain, "addrs", len(report.Addrs))
	}
	slog.Info("scan completed", "addrs", len(report.Addrs), "open_ports", openTotal,
		"duration", time.Since(startTime).Round(time.Millisecond))

	return nil
}

// runDomainLookups performs the optional domain-level collaborator
// lookups. They are single requests, best-effort, and report through the
// log rather than the result stream.
func runDomainLookups(ctx context.Context, domain string) {
	if whoisLookup {
		rec, err := whois.Lookup(domain)
		if err != nil {
			slog.Warn("whois lookup failed", "domain", domain, "error", err)
		} else {
			slog.Info("whois", slog.Group("registration",
				slog.String("registrar", rec.Registrar),
				slog.String("created", rec.Created),
				slog.String("expires", rec.Expires),
				slog.Int("name_servers", len(rec.NameServers)),
			))
		}
	}

	if disclosureChk {
		policy := disclosure.NewClient(nil, config.Disclosure).Lookup(ctx, domain)
		attrs := []any{slog.Bool("security_txt", policy.SecurityTXT != nil)}
		if policy.SecurityTXT != nil {
			attrs = append(attrs, slog.String("contact", strings.Join(policy.SecurityTXT.Contact, ", ")))
		}
		attrs = append(attrs,
			slog.Int("lists", len(policy.ListedIn)),
			slog.Int("programs", len(policy.Programs)),
		)
		slog.Info("disclosure", slog.Group("policy", attrs...))
	}
}

// logHost logs one host result with structured nested attributes
func logHost(host *scan.HostResult) {
	attrs := []any{
		slog.String("ip", host.IP),
		slog.Any("open_ports", host.OpenPorts),
	}

	if host.Geo != nil {
		attrs = append(attrs, slog.Group("geo",
			slog.String("country", host.Geo.Country),
			slog.String("city", host.Geo.City),
			slog.String("isp", host.Geo.ISP),
		))
	}

	if host.Server != nil && host.Server.Server != "" {
		attrs = append(attrs, slog.Group("server",
			slog.String("header", host.Server.Server),
			slog.Int("status", host.Server.StatusCode),
		))
	}

	slog.Info("host result", attrs...)
}

func createOutputWriter() (func(*scan.HostResult) error, func() error, error) {
	format := strings.ToLower(outputFormat)

	switch format {
	case "parquet":
		if outputFile == "-" {
			return nil, nil, fmt.Errorf("parquet cannot write to stdout, use -o file.parquet")
		}
		pw, err := output.NewParquetWriter(outputFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create parquet writer: %w", err)
		}
		return pw.Write, pw.Close, nil

	default: // jsonl
		jw, err := output.NewWriter(outputFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create writer: %w", err)
		}
		return jw.Write, jw.Close, nil
	}
}

func initLogger() (func(), error) {
	var level slog.Level
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	dest := os.Stderr
	closeLog := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		dest = f
		closeLog = func() { f.Close() }
	}

	handler := slog.NewTextHandler(dest, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return closeLog, nil
}

func main() {
	config.Init()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

const usageTemplate = `Usage:
  {{.UseLine}}

Examples:
{{.Example}}

Port Selection:
      --quick              Probe the quick set (21, 22, 80, 443)
  -p, --ports string       Custom comma-separated port list

Enrichment:
      --geo                Geolocation per address
      --server-version     Server version headers per address
      --disclosure         Disclosure policy lookup for the domain
      --whois              WHOIS registration lookup for the domain

Resolution:
      --resolver string    Nameserver to resolve through (host or host:port)

Output:
  -o, --output string      Output file, - for stdout (default "-")
      --format string      Format: jsonl, parquet (default "jsonl")

Performance:
  -w, --workers int        Concurrent probes per address (default 4)
  -t, --timeout int        Probe timeout in seconds (default 5)
  -r, --rate int           Max probes/second, 0=unlimited

Logging:
      --log-file string    Write logs to file instead of stderr
  -q, --quiet              Suppress progress output
  -v, --verbose            Verbose logging

Other:
  -h, --help               Show help
      --version            Show version
`

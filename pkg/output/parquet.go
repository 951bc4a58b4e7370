package output

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/spotlite-scan/spotlite/pkg/scan"
)

// ParquetRow is a flattened representation of a HostResult for Parquet
// storage. Parquet works best with flat schemas, so nested structures are
// denormalized into columns.
type ParquetRow struct {
	// Core
	Domain     string `parquet:"domain,zstd,dict"`
	IP         string `parquet:"ip,zstd"`
	ScanTimeMs int64  `parquet:"scan_time_ms"`

	// Ports (comma-separated for simplicity)
	OpenPorts  string `parquet:"open_ports,zstd"`
	PortStates string `parquet:"port_states,zstd"`

	// Geolocation
	GeoCountry  string  `parquet:"geo_country,zstd,dict"`
	GeoRegion   string  `parquet:"geo_region,zstd,dict"`
	GeoCity     string  `parquet:"geo_city,zstd"`
	GeoLat      float64 `parquet:"geo_lat"`
	GeoLon      float64 `parquet:"geo_lon"`
	GeoISP      string  `parquet:"geo_isp,zstd"`
	GeoAS       string  `parquet:"geo_as,zstd,dict"`

	// Server metadata
	ServerHeader    string `parquet:"server_header,zstd,dict"`
	ServerPoweredBy string `parquet:"server_powered_by,zstd,dict"`
	ServerStatus    int32  `parquet:"server_status"`

	// Errors
	HasErrors  bool   `parquet:"has_errors"`
	ScanErrors string `parquet:"scan_errors,zstd"`
}

// ParquetWriter writes host results to a Parquet file
type ParquetWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[ParquetRow]
	count  int
}

// NewParquetWriter creates a Parquet writer with optimized settings
func NewParquetWriter(filename string) (*ParquetWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[ParquetRow](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.CreatedBy("spotlite", "1.0.0", "go"),
	)

	return &ParquetWriter{
		file:   file,
		writer: writer,
	}, nil
}

// Write converts a HostResult to a flat ParquetRow and writes it
func (w *ParquetWriter) Write(host *scan.HostResult) error {
	row := hostToParquetRow(host)
	if _, err := w.writer.Write([]ParquetRow{row}); err != nil {
		return fmt.Errorf("failed to write parquet row: %w", err)
	}
	w.count++
	return nil
}

// Close flushes remaining rows and closes the file
func (w *ParquetWriter) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the number of rows written
func (w *ParquetWriter) Count() int {
	return w.count
}

func hostToParquetRow(host *scan.HostResult) ParquetRow {
	row := ParquetRow{
		Domain:     host.Domain,
		IP:         host.IP,
		ScanTimeMs: host.ScanTime,
		OpenPorts:  joinPorts(host.OpenPorts),
		PortStates: joinStates(host.Ports),
		HasErrors:  len(host.ScanErrors) > 0,
		ScanErrors: strings.Join(host.ScanErrors, "; "),
	}

	if host.Geo != nil {
		row.GeoCountry = host.Geo.Country
		row.GeoRegion = host.Geo.Region
		row.GeoCity = host.Geo.City
		row.GeoLat = host.Geo.Lat
		row.GeoLon = host.Geo.Lon
		row.GeoISP = host.Geo.ISP
		row.GeoAS = host.Geo.AS
	}

	if host.Server != nil {
		row.ServerHeader = host.Server.Server
		row.ServerPoweredBy = host.Server.PoweredBy
		row.ServerStatus = int32(host.Server.StatusCode)
	}

	return row
}

func joinPorts(ports []int) string {
	if len(ports) == 0 {
		return ""
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

func joinStates(outcomes []scan.ProbeOutcome) string {
	if len(outcomes) == 0 {
		return ""
	}
	parts := make([]string, len(outcomes))
	for i, o := range outcomes {
		parts[i] = fmt.Sprintf("%d=%s", o.Port, o.State)
	}
	return strings.Join(parts, ",")
}

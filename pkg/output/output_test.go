package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spotlite-scan/spotlite/pkg/scan"
)

func TestNewWriter(t *testing.T) {
	// Test stdout
	w, err := NewWriter("-")
	if err != nil {
		t.Fatalf("Failed to create stdout writer: %v", err)
	}
	w.Close()

	// Test empty string (should be stdout)
	w, err = NewWriter("")
	if err != nil {
		t.Fatalf("Failed to create writer with empty string: %v", err)
	}
	w.Close()
}

func TestNewWriterFile(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.jsonl")

	w, err := NewWriter(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create file writer: %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(tmpFile); os.IsNotExist(err) {
		t.Error("Expected file to be created")
	}
}

func TestWriterWrite(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterFromWriter(&buf)

	host := &scan.HostResult{
		Domain:    "example.com",
		IP:        "192.0.2.10",
		OpenPorts: []int{80, 443},
		ScanTime:  100,
	}

	if err := w.Write(host); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "192.0.2.10") {
		t.Errorf("Expected output to contain IP, got: %s", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Expected output to end with newline")
	}

	var parsed scan.HostResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &parsed); err != nil {
		t.Errorf("Output is not valid JSON: %v", err)
	}
	if parsed.IP != "192.0.2.10" {
		t.Errorf("Parsed IP mismatch: got %s", parsed.IP)
	}
	if len(parsed.OpenPorts) != 2 || parsed.OpenPorts[0] != 80 {
		t.Errorf("Parsed open ports mismatch: got %v", parsed.OpenPorts)
	}
}

func TestWriterCount(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterFromWriter(&buf)

	for range 3 {
		if err := w.Write(&scan.HostResult{IP: "192.0.2.1"}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	if w.Count() != 3 {
		t.Errorf("Expected count 3, got %d", w.Count())
	}
}

func TestParquetWriter(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.parquet")

	w, err := NewParquetWriter(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create parquet writer: %v", err)
	}

	host := &scan.HostResult{
		Domain:    "example.com",
		IP:        "192.0.2.10",
		OpenPorts: []int{80, 443},
		Ports: []scan.ProbeOutcome{
			{Port: 80, State: scan.StateOpen},
			{Port: 443, State: scan.StateOpen},
			{Port: 8080, State: scan.StateRefused},
		},
		ScanTime: 42,
	}
	if err := w.Write(host); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if w.Count() != 1 {
		t.Errorf("Expected count 1, got %d", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	info, err := os.Stat(tmpFile)
	if err != nil {
		t.Fatalf("Expected parquet file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty parquet file")
	}
}

func TestHostToParquetRow(t *testing.T) {
	host := &scan.HostResult{
		Domain:    "example.com",
		IP:        "192.0.2.10",
		OpenPorts: []int{80, 443},
		Ports: []scan.ProbeOutcome{
			{Port: 80, State: scan.StateOpen},
			{Port: 443, State: scan.StateOpen},
		},
		ScanErrors: []string{"geo: lookup failed"},
	}

	row := hostToParquetRow(host)

	if row.OpenPorts != "80,443" {
		t.Errorf("Expected open_ports '80,443', got %q", row.OpenPorts)
	}
	if row.PortStates != "80=open,443=open" {
		t.Errorf("Expected port states '80=open,443=open', got %q", row.PortStates)
	}
	if !row.HasErrors {
		t.Error("Expected has_errors true")
	}
}

package parser

import (
	"path/filepath"
	"testing"

	"github.com/zuhairmahd/AutopilotLogViewer/internal/logger"
)

// The engine's two encoders and the two parsers share the line grammars;
// anything the engine writes must decode back to the same logical record.
func TestEngineOutputParsesBack(t *testing.T) {
	cases := []struct {
		name     string
		encoding logger.Encoding
		format   string
	}{
		{"standard", logger.Standard, "Standard"},
		{"cmtrace", logger.CMTrace, "CMTrace"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.log")
			l := logger.New(logger.Config{Path: path, Encoding: tc.encoding, MinLevel: logger.LevelDebug})

			l.WriteSync("Enrollment", "device join failed: timeout", logger.LevelError)
			l.WriteSync("DeviceSetup", "policy applied", logger.LevelInformation)

			p, err := Detect(path)
			if err != nil {
				t.Fatal(err)
			}
			if p.Name() != tc.format {
				t.Fatalf("expected %s detection, got %s", tc.format, p.Name())
			}

			records, skipped, err := ParseFile(path, p)
			if err != nil {
				t.Fatal(err)
			}
			if skipped != 0 {
				t.Errorf("expected no skipped lines, got %d", skipped)
			}
			if len(records) != 2 {
				t.Fatalf("expected 2 records, got %d", len(records))
			}

			first := records[0]
			if first.Level != "Error" {
				t.Errorf("expected level Error, got %q", first.Level)
			}
			if first.Module != "Enrollment" {
				t.Errorf("expected module Enrollment, got %q", first.Module)
			}
			if first.Message != "device join failed: timeout" {
				t.Errorf("unexpected message %q", first.Message)
			}
			if first.ThreadID <= 0 {
				t.Errorf("expected a positive thread id, got %d", first.ThreadID)
			}

			if records[1].Level != "Information" {
				t.Errorf("expected level Information, got %q", records[1].Level)
			}
		})
	}
}

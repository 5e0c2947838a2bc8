package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/meltforce/fittrack/internal/workout"
)

const sampleText = `
# tracker export
SWM;720;1;80;25;40
RUN;15000;1;75

WLK;9000;1,5;75;180
`

// TestParseText verifies ordered parsing, comments, blank lines and comma decimals.
func TestParseText(t *testing.T) {
	pkgs, err := ParseText(strings.NewReader(sampleText))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(pkgs) != 3 {
		t.Fatalf("packages = %d, want 3", len(pkgs))
	}
	if pkgs[0].Code != "SWM" || len(pkgs[0].Data) != 5 {
		t.Errorf("pkgs[0] = %+v", pkgs[0])
	}
	if pkgs[1].Code != "RUN" || pkgs[1].Data[0] != 15000 {
		t.Errorf("pkgs[1] = %+v", pkgs[1])
	}
	if pkgs[2].Data[1] != 1.5 {
		t.Errorf("pkgs[2] duration = %v, want 1.5", pkgs[2].Data[1])
	}
}

// TestParseTextCodeOnly verifies a bare code parses with no data, leaving
// the arity check to the dispatcher.
func TestParseTextCodeOnly(t *testing.T) {
	pkgs, err := ParseText(strings.NewReader("RUN\nSWM;\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(pkgs) != 2 || len(pkgs[0].Data) != 0 || len(pkgs[1].Data) != 0 {
		t.Errorf("pkgs = %+v", pkgs)
	}
}

// TestParseTextBadNumber verifies a non-numeric value fails only its own
// package, keeps its position, and reports the line.
func TestParseTextBadNumber(t *testing.T) {
	pkgs, err := ParseText(strings.NewReader("RUN;15000;1;75\nWLK;9000;x;75;180\nSWM;720;1;80;25;40\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pkgs) != 3 {
		t.Fatalf("packages = %d, want 3", len(pkgs))
	}
	if pkgs[0].Err != nil || pkgs[2].Err != nil {
		t.Errorf("good lines carry errors: %v, %v", pkgs[0].Err, pkgs[2].Err)
	}
	if pkgs[1].Code != "WLK" || !errors.Is(pkgs[1].Err, workout.ErrInvalidInput) {
		t.Fatalf("pkgs[1] = %+v, want WLK with invalid input", pkgs[1])
	}
	if !strings.Contains(pkgs[1].Err.Error(), "line 2") {
		t.Errorf("error = %q, want line 2", pkgs[1].Err)
	}
}

// TestParseTextMalformed verifies lines without a code are rejected.
func TestParseTextMalformed(t *testing.T) {
	if _, err := ParseText(strings.NewReader("15000;1;75\n")); err == nil {
		t.Fatal("expected error for missing code")
	}
}

const sampleYAML = `
packages:
  - type: SWM
    data: [720, 1, 80, 25, 40]
  - type: RUN
    data: [15000, 1, 75]
  - type: XYZ
    data: []
`

// TestParseYAML verifies the YAML batch format.
func TestParseYAML(t *testing.T) {
	pkgs, err := ParseYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(pkgs) != 3 {
		t.Fatalf("packages = %d, want 3", len(pkgs))
	}
	if pkgs[0].Code != "SWM" || pkgs[0].Data[4] != 40 {
		t.Errorf("pkgs[0] = %+v", pkgs[0])
	}
	if pkgs[2].Code != "XYZ" {
		t.Errorf("pkgs[2].Code = %q, want XYZ", pkgs[2].Code)
	}
}

// TestParseYAMLEmpty verifies an empty document yields no packages.
func TestParseYAMLEmpty(t *testing.T) {
	pkgs, err := ParseYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pkgs) != 0 {
		t.Errorf("packages = %d, want 0", len(pkgs))
	}
}

// TestParseYAMLInvalid verifies decode errors surface.
func TestParseYAMLInvalid(t *testing.T) {
	if _, err := ParseYAML(strings.NewReader("packages: [{type: RUN, data: [a, b]}]")); err == nil {
		t.Fatal("expected error for non-numeric data")
	}
}

// TestFormatForPath verifies extension detection.
func TestFormatForPath(t *testing.T) {
	cases := map[string]Format{
		"batch.yaml": FormatYAML,
		"batch.YML":  FormatYAML,
		"batch.txt":  FormatText,
		"batch":      FormatText,
	}
	for path, want := range cases {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

// TestDefaultPackages verifies the built-in sample batch order.
func TestDefaultPackages(t *testing.T) {
	pkgs := DefaultPackages()
	want := []string{"SWM", "RUN", "WLK"}
	if len(pkgs) != len(want) {
		t.Fatalf("packages = %d, want %d", len(pkgs), len(want))
	}
	for i, code := range want {
		if pkgs[i].Code != code {
			t.Errorf("pkgs[%d] = %s, want %s", i, pkgs[i].Code, code)
		}
	}
}

package surface_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/scoring"
	"github.com/tallybook/tally/pkg/surface"
)

func sampleResult(t *testing.T) *scoring.ScoreResult {
	t.Helper()
	result, err := scoring.Compute(scoring.Measurements{
		HeightCm: 185, WeightKg: 80, BodyFatPct: 12, ShoulderWidth: 120, WaistWidth: 75,
	})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	return result
}

func sampleReport() gradebook.Report {
	g := func(v float64) *float64 { return &v }
	return gradebook.Report{
		ShortName: "ana",
		FullName:  "Ana Pereira",
		ClassYear: "7º ano",
		Subjects: []gradebook.SubjectReport{
			{Subject: "Matemática", Terms: gradebook.Terms{g(5), g(6)}, Average: g(5.5), Below: true},
			{Subject: "História", Terms: gradebook.Terms{g(9)}, Average: g(9)},
			{Subject: "Geografia"},
		},
		BelowCount: 1,
		Status:     gradebook.StatusRecovery,
	}
}

func TestTerminalRenderer_BasicOutput(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	t.Setenv("NO_COLOR", "1")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleResult(t)); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Tally: Chad Light (89.6%)",
		"Congratulations, you are a Chad Light!",
		"Height",
		"1.85 m",
		"Fat-free mass index",
		"Shoulder/waist proportion",
		"2.00 / 2",
		"Total: 8.96 / 10 points",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "\033[") {
		t.Error("expected no ANSI escape codes with NO_COLOR set")
	}
}

func TestTerminalRenderer_ColorRespected(t *testing.T) {
	// Without NO_COLOR, output should have ANSI codes
	os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleResult(t)); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), "\033[") {
		t.Error("expected ANSI escape codes when NO_COLOR is not set")
	}
}

func TestTerminalRenderer_ReportCard(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	if err := (&surface.TerminalRenderer{}).RenderReportCard(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderReportCard() error: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Ana Pereira (ana) - 7º ano",
		"Matemática",
		"5.5",
		"STUDENT IN RECOVERY",
		"Averages below 7: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	// Geografia has no grades at all
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Geografia") && strings.Count(line, "-") != 5 {
			t.Errorf("expected dashes for missing grades, got %q", line)
		}
	}
}

func TestTerminalRenderer_ReportCardColors(t *testing.T) {
	os.Unsetenv("NO_COLOR")

	var buf bytes.Buffer
	_ = (&surface.TerminalRenderer{}).RenderReportCard(&buf, sampleReport())
	output := buf.String()
	if !strings.Contains(output, "\033[31m") {
		t.Error("expected failing grades in red")
	}
	if !strings.Contains(output, "\033[34m") {
		t.Error("expected passing grades in blue")
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&surface.JSONRenderer{}).Render(&buf, sampleResult(t)); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	tier, ok := decoded["tier"].(map[string]any)
	if !ok || tier["key"] != scoring.TierChadLight {
		t.Errorf("unexpected tier in JSON: %v", decoded["tier"])
	}
}

func TestMarkdownRenderer(t *testing.T) {
	out := surface.BuildMarkdownSummary(sampleResult(t))
	for _, want := range []string{
		"## :green_circle: Chad Light (89.6%)",
		"| Height | 185 cm |",
		"| Shoulder/waist proportion | 1.60 | 2.00 / 2 |",
		"**8.96 / 10**",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in markdown:\n%s", want, out)
		}
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    any
		wantErr bool
	}{
		{"", &surface.TerminalRenderer{}, false},
		{"text", &surface.TerminalRenderer{}, false},
		{"json", &surface.JSONRenderer{}, false},
		{"markdown", &surface.MarkdownRenderer{}, false},
		{"xml", nil, true},
	}
	for _, tt := range tests {
		r, err := surface.ForFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFormat(%q) error = %v", tt.format, err)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got, want := fmt.Sprintf("%T", r), fmt.Sprintf("%T", tt.want); got != want {
			t.Errorf("ForFormat(%q) = %s, want %s", tt.format, got, want)
		}
	}
}


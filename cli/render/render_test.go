package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"json lowercase", "json", FormatJSON, false},
		{"json uppercase", "JSON", FormatJSON, false},
		{"table", "table", FormatTable, false},
		{"yaml", "yaml", FormatYAML, false},
		{"empty", "", "", false},
		{"invalid", "xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat_InvalidErrorMessage(t *testing.T) {
	_, err := ParseFormat("xml")
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "json, table, or yaml") {
		t.Errorf("error message should mention valid formats, got: %v", err)
	}
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	data := map[string]string{"run_folder": "240112_NV001_0042_AHXYZ1DRXX"}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, `"run_folder"`) || !strings.Contains(got, "240112_NV001_0042_AHXYZ1DRXX") {
		t.Errorf("JSON output missing expected content: %s", got)
	}
}

func TestRenderer_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatYAML, false, &buf)

	data := map[string]string{"stage": "analysis"}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "stage:") || !strings.Contains(got, "analysis") {
		t.Errorf("YAML output missing expected content: %s", got)
	}
}

type tableRow struct {
	RunFolder string `json:"run_folder"`
	Stage     string `json:"stage"`
	Cycles    int    `json:"cycles"`
}

func TestRenderer_Table_Struct(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	data := tableRow{RunFolder: "240112_NV001_0042_AHXYZ1DRXX", Stage: "incoming", Cycles: 318}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"run_folder:", "240112_NV001_0042_AHXYZ1DRXX", "stage:", "incoming", "318"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q: %s", want, got)
		}
	}
}

func TestRenderer_Table_Slice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	data := []tableRow{
		{RunFolder: "run1", Stage: "incoming", Cycles: 318},
		{RunFolder: "run2", Stage: "analysis", Cycles: 56},
	}
	if err := r.Render(data); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("table has %d lines, want header + 2 rows: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "run_folder") {
		t.Errorf("header row = %q", lines[0])
	}
	if !strings.Contains(lines[2], "run2") {
		t.Errorf("second row = %q", lines[2])
	}
}

func TestRenderer_Table_EmptySlice(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	if err := r.Render([]tableRow{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "(no run folders)") {
		t.Errorf("empty slice output = %q", buf.String())
	}
}

func TestRenderer_NoColorPassesValueThrough(t *testing.T) {
	r := NewRendererWithWriter(FormatTable, true, &bytes.Buffer{})
	if got := r.styled("stage", "analysis"); got != "analysis" {
		t.Errorf("styled with no-color = %q, want bare value", got)
	}
}

func TestStateStyleSelection(t *testing.T) {
	cases := []struct {
		value string
		want  lipgloss.TerminalColor
	}{
		{"complete", successColor},
		{"qc complete", successColor},
		{"lagging", warningColor},
		{"failed", errorColor},
		{"analysis", stageColor},
		{"whatever", mutedColor},
	}
	for _, c := range cases {
		if got := StateStyle(c.value).GetForeground(); got != c.want {
			t.Errorf("StateStyle(%q) foreground = %v, want %v", c.value, got, c.want)
		}
	}
}

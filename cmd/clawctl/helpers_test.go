package main

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/clawctl-project/clawctl/internal/security"
)

// ─── suggest ──────────────────────────────────────────────────────────────────

func TestSuggest_PrefixMatch(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"doc", "doctor"},
		{"sec", "security"},
		{"con", "config"},
		{"plu", "plugins"},
		{"back", "backup"},
		{"sta", "status"},
		{"ver", "version"},
		{"hel", "help"},
	}
	for _, tc := range tests {
		got := suggest(tc.input)
		if got != tc.want {
			t.Errorf("suggest(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSuggest_TypoCorrection(t *testing.T) {
	got := suggest("statux")
	if got != "status" {
		t.Errorf("suggest('statux') = %q, want 'status'", got)
	}
}

func TestSuggest_NoMatch(t *testing.T) {
	got := suggest("zzzzzzzzz")
	if got != "" {
		t.Errorf("suggest('zzzzzzzzz') = %q, want empty", got)
	}
}

func TestSuggest_CaseInsensitive(t *testing.T) {
	got := suggest("DOCTOR")
	if got != "doctor" {
		t.Errorf("suggest('DOCTOR') = %q, want 'doctor'", got)
	}
}

// ─── parseValue ───────────────────────────────────────────────────────────────

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  interface{}
	}{
		{"true", true},
		{"false", false},
		{"42", float64(42)},
		{"3.5", 3.5},
		{"null", nil},
		{"hello", "hello"},
		{`"quoted"`, "quoted"},
		{"", ""},
	}
	for _, tc := range tests {
		got := parseValue(tc.input)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)", tc.input, got, got, tc.want, tc.want)
		}
	}
}

func TestParseValue_Object(t *testing.T) {
	got := parseValue(`{"a": 1}`)
	m, ok := got.(map[string]interface{})
	if !ok || m["a"] != float64(1) {
		t.Errorf("parseValue object = %v (%T)", got, got)
	}
}

// ─── parseKV ──────────────────────────────────────────────────────────────────

func TestParseKV(t *testing.T) {
	got, err := parseKV([]string{"apiKey=sk-123", "rateLimit.rps=5", "enabled=true"})
	if err != nil {
		t.Fatal(err)
	}
	if got["apiKey"] != "sk-123" {
		t.Errorf("apiKey = %v", got["apiKey"])
	}
	rl, ok := got["rateLimit"].(map[string]any)
	if !ok || rl["rps"] != float64(5) {
		t.Errorf("rateLimit = %v", got["rateLimit"])
	}
	if got["enabled"] != true {
		t.Errorf("enabled = %v", got["enabled"])
	}
}

func TestParseKV_Malformed(t *testing.T) {
	if _, err := parseKV([]string{"noequals"}); err == nil {
		t.Error("expected error for pair without '='")
	}
	if _, err := parseKV([]string{"=value"}); err == nil {
		t.Error("expected error for empty key")
	}
}

// ─── hasFlag ──────────────────────────────────────────────────────────────────

func TestHasFlag(t *testing.T) {
	args := []string{"enable", "memory", "--dry-run"}
	if !hasFlag(args, "--dry-run") {
		t.Error("hasFlag missed --dry-run")
	}
	if hasFlag(args, "--json", "-j") {
		t.Error("hasFlag found a flag that is not there")
	}
}

// ─── fixBadge ─────────────────────────────────────────────────────────────────

func TestFixBadge_DryRunSaysWould(t *testing.T) {
	_, line := fixBadge(true, true, "chmod 600 /tmp/x")
	if line != "would apply: chmod 600 /tmp/x" {
		t.Errorf("dry-run line = %q", line)
	}
}

func TestFixBadge_RealRunKeepsAction(t *testing.T) {
	_, line := fixBadge(true, false, "chmod 600 /tmp/x")
	if line != "chmod 600 /tmp/x" {
		t.Errorf("applied line = %q", line)
	}
	_, line = fixBadge(false, false, "chmod 600 /tmp/x")
	if line != "chmod 600 /tmp/x" {
		t.Errorf("failed line = %q", line)
	}
}

// ─── output format ────────────────────────────────────────────────────────────

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  OutputFormat
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{" csv ", FormatCSV},
		{"sarif", FormatSARIF},
		{"table", FormatTable},
		{"bogus", FormatTable},
		{"", FormatTable},
	}
	for _, tc := range tests {
		if got := parseFormat(tc.input); got != tc.want {
			t.Errorf("parseFormat(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFormatName_RoundTrip(t *testing.T) {
	for _, f := range []OutputFormat{FormatTable, FormatJSON, FormatCSV, FormatSARIF} {
		if got := parseFormat(formatName(f)); got != f {
			t.Errorf("parseFormat(formatName(%v)) = %v", f, got)
		}
	}
}

// ─── table renderer ───────────────────────────────────────────────────────────

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "NAME", "STATE")
	tbl.AddRow("gateway", "running")
	tbl.AddRow("cron", "stopped")
	tbl.Render()

	out := buf.String()
	for _, want := range []string{"NAME", "gateway", "running", "cron", "┌", "└"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestTable_ShortRowPadded(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "A", "B", "C")
	tbl.AddRow("only")
	tbl.Render()
	if !strings.Contains(buf.String(), "only") {
		t.Error("short row dropped")
	}
}

// ─── SARIF ────────────────────────────────────────────────────────────────────

func TestWriteSARIF(t *testing.T) {
	findings := []security.Finding{
		{Severity: security.SeverityHigh, Title: "public bind", Description: "gateway listens on all interfaces"},
		{Severity: security.SeverityMedium, Title: "weak secret", Description: "gateway secret is short"},
		{Severity: security.SeverityLow, Title: "inline key", Description: "API key embedded in config"},
	}

	var buf bytes.Buffer
	writeSARIF(&buf, findings, "0.0.1")

	var report sarifReport
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("SARIF output is not JSON: %v", err)
	}
	if report.Version != "2.1.0" {
		t.Errorf("version = %s", report.Version)
	}
	if len(report.Runs) != 1 || len(report.Runs[0].Results) != 3 {
		t.Fatalf("unexpected shape: %+v", report)
	}
	levels := []string{"error", "warning", "note"}
	for i, r := range report.Runs[0].Results {
		if r.Level != levels[i] {
			t.Errorf("result %d level = %s, want %s", i, r.Level, levels[i])
		}
	}
	if report.Runs[0].Tool.Driver.Name != "clawctl" {
		t.Errorf("driver name = %s", report.Runs[0].Tool.Driver.Name)
	}
}

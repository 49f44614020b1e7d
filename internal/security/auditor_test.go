package security

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/clawctl-project/clawctl/internal/configstore"
	"github.com/clawctl-project/clawctl/internal/remedy"
)

func noEnv(string) (string, bool) { return "", false }

// hardenedDoc is a config that should score a clean 100 with permission
// checks disabled.
func hardenedDoc() configstore.Document {
	d := configstore.Document{}
	d.Set("channels.telegram.dmPolicy", "pairing")
	d.Set("gateway.auth.token", "0123456789abcdef0123456789abcdef")
	d.Set("gateway.bind", "loopback")
	d.Set("auth.profiles", map[string]any{"anthropic": map[string]any{"mode": "oauth"}})
	return d
}

func testAuditor(doc configstore.Document) *Auditor {
	return &Auditor{
		Doc:       doc,
		Unix:      false, // permission checks exercised separately
		LookupEnv: noEnv,
		Log:       zerolog.Nop(),
	}
}

// ─── Scoring ────────────────────────────────────────────────────────────────

func TestRun_PerfectScore(t *testing.T) {
	audit := testAuditor(hardenedDoc()).Run()
	if audit.Percent != 100 {
		t.Errorf("percent = %d, want 100 (findings: %+v)", audit.Percent, audit.Findings)
	}
	if audit.Grade != "A" {
		t.Errorf("grade = %q, want A", audit.Grade)
	}
	if len(audit.Findings) != 0 {
		t.Errorf("expected no findings, got %+v", audit.Findings)
	}
}

func TestRun_OpenDMCapsScore(t *testing.T) {
	doc := hardenedDoc()
	doc.Set("channels.telegram.dmPolicy", "open")
	audit := testAuditor(doc).Run()

	// One open channel forfeits the whole DM-policy weight.
	if audit.Earned > audit.Possible-weightDMPolicy {
		t.Errorf("earned = %d of %d, DM-policy weight was not forfeited", audit.Earned, audit.Possible)
	}
	ceiling := ((audit.Possible-weightDMPolicy)*100 + audit.Possible/2) / audit.Possible
	if audit.Percent > ceiling {
		t.Errorf("percent = %d, must not exceed %d with an open DM policy", audit.Percent, ceiling)
	}
	found := false
	for _, f := range audit.Findings {
		if f.Severity == SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Error("open DM policy should produce a high-severity finding")
	}
}

func TestRun_MissingSecret(t *testing.T) {
	doc := hardenedDoc()
	doc.Remove("gateway.auth.token")
	audit := testAuditor(doc).Run()
	if audit.Earned != audit.Possible-weightSecret {
		t.Errorf("earned = %d, want %d", audit.Earned, audit.Possible-weightSecret)
	}
}

func TestRun_WeakSecretPartialCredit(t *testing.T) {
	doc := hardenedDoc()
	doc.Set("gateway.auth.token", "short")
	audit := testAuditor(doc).Run()
	if audit.Earned != audit.Possible-weightSecret+weightSecretWeak {
		t.Errorf("earned = %d, want partial secret credit", audit.Earned)
	}
}

func TestRun_LANBindPartialCredit(t *testing.T) {
	doc := hardenedDoc()
	doc.Set("gateway.bind", "lan")
	doc.Set("gateway.trustedProxies", []any{"10.0.0.1"})
	audit := testAuditor(doc).Run()

	// lan earns partial bind credit and activates the proxy check.
	if audit.Possible != weightDMPolicy+weightSecret+weightModelAuth+weightBind+weightProxies+weightEscapeHatch {
		t.Errorf("possible = %d, proxy check should apply off-loopback", audit.Possible)
	}
	if audit.Earned != audit.Possible-(weightBind-weightBindLAN) {
		t.Errorf("earned = %d, want lan partial credit", audit.Earned)
	}
}

func TestRun_PublicBindIsHighSeverity(t *testing.T) {
	doc := hardenedDoc()
	doc.Set("gateway.bind", "0.0.0.0")
	audit := testAuditor(doc).Run()

	var found *Finding
	for i, f := range audit.Findings {
		if f.Title == `gateway bound to "0.0.0.0"` {
			found = &audit.Findings[i]
		}
	}
	if found == nil || found.Severity != SeverityHigh {
		t.Errorf("public bind should be high severity, findings: %+v", audit.Findings)
	}
}

func TestRun_EscapeHatchAlwaysHigh(t *testing.T) {
	doc := hardenedDoc()
	doc.Set("gateway.debug.disableDeviceAuth", true)
	audit := testAuditor(doc).Run()

	found := false
	for _, f := range audit.Findings {
		if f.Title == "device auth is disabled" && f.Severity == SeverityHigh {
			found = true
		}
	}
	if !found {
		t.Errorf("disableDeviceAuth should always be a high finding: %+v", audit.Findings)
	}
}

func TestRun_InlineKeyIsLowSeverity(t *testing.T) {
	doc := hardenedDoc()
	doc.Remove("auth.profiles")
	doc.Set("models.apiKey", "sk-something")
	audit := testAuditor(doc).Run()

	found := false
	for _, f := range audit.Findings {
		if f.Title == "API key embedded in config" && f.Severity == SeverityLow {
			found = true
		}
	}
	if !found {
		t.Errorf("inline key should be a low finding: %+v", audit.Findings)
	}
}

// ─── Permission checks ──────────────────────────────────────────────────────

func TestRun_PermissionFindingCarriesChmodRemedy(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "openclaw.json")
	if err := os.WriteFile(cfgPath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := testAuditor(hardenedDoc())
	a.Unix = true
	a.ConfigPath = cfgPath
	a.LogDir = filepath.Join(dir, "missing-logs")
	a.Workspace = filepath.Join(dir, "missing-workspace")
	audit := a.Run()

	var perm *Finding
	for i, f := range audit.Findings {
		if f.Remedy != nil {
			perm = &audit.Findings[i]
		}
	}
	if perm == nil {
		t.Fatalf("expected a permission finding with a remedy: %+v", audit.Findings)
	}
	ch, ok := perm.Remedy.(remedy.Chmod)
	if !ok || ch.Path != cfgPath || ch.Mode != 0o600 {
		t.Errorf("remedy = %+v, want chmod 600 of config", perm.Remedy)
	}

	// Missing log/workspace dirs must not enter the denominator.
	wantPossible := weightDMPolicy + weightSecret + weightModelAuth + weightBind + weightEscapeHatch + weightPermConfig
	if audit.Possible != wantPossible {
		t.Errorf("possible = %d, want %d (absent targets excluded)", audit.Possible, wantPossible)
	}
}

func TestRun_NonUnixSkipsPermissionChecks(t *testing.T) {
	a := testAuditor(hardenedDoc())
	a.ConfigPath = "/nonexistent"
	audit := a.Run()
	want := weightDMPolicy + weightSecret + weightModelAuth + weightBind + weightEscapeHatch
	if audit.Possible != want {
		t.Errorf("possible = %d, want %d without permission checks", audit.Possible, want)
	}
}

// ─── Fix ────────────────────────────────────────────────────────────────────

func TestFix_AppliesOnlyRemediableFindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	findings := []Finding{
		{Title: "manual", Fix: "do it yourself"},
		{Title: "loose config", Remedy: remedy.Chmod{Path: path, Mode: 0o600}},
	}
	exec := &remedy.Executor{Log: zerolog.Nop()}
	outcomes := Fix(context.Background(), findings, exec)

	if len(outcomes) != 1 {
		t.Fatalf("outcomes = %+v, want exactly the remediable finding", outcomes)
	}
	if !outcomes[0].Success {
		t.Errorf("fix failed: %s", outcomes[0].Detail)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %o, want 600", info.Mode().Perm())
	}
}

func TestFix_DryRunMarksOutcomesAndTouchesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	findings := []Finding{
		{Title: "loose config", Remedy: remedy.Chmod{Path: path, Mode: 0o600}},
	}
	exec := &remedy.Executor{DryRun: true, Log: zerolog.Nop()}
	outcomes := Fix(context.Background(), findings, exec)

	if len(outcomes) != 1 || !outcomes[0].Success || !outcomes[0].DryRun {
		t.Fatalf("outcomes = %+v, want one successful dry-run outcome", outcomes)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o644 {
		t.Errorf("dry-run changed mode to %o", info.Mode().Perm())
	}
}

func TestFix_ContinuesPastFailures(t *testing.T) {
	good := filepath.Join(t.TempDir(), "openclaw.json")
	if err := os.WriteFile(good, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	findings := []Finding{
		{Title: "broken", Remedy: remedy.Chmod{Path: "/nonexistent/nope", Mode: 0o600}},
		{Title: "fine", Remedy: remedy.Chmod{Path: good, Mode: 0o600}},
	}
	outcomes := Fix(context.Background(), findings, &remedy.Executor{Log: zerolog.Nop()})

	if len(outcomes) != 2 {
		t.Fatalf("want 2 outcomes, got %+v", outcomes)
	}
	if outcomes[0].Success {
		t.Error("first fix should have failed")
	}
	if !outcomes[1].Success {
		t.Errorf("second fix should have run despite the first failing: %s", outcomes[1].Detail)
	}
}

// Package security scores the deployment's security posture from the config
// document plus live filesystem permission bits. Findings are weighted into
// a 0-100 score and letter grade; the only automatic remediation offered is
// tightening permission bits.
package security

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/rs/zerolog"

	"github.com/clawctl-project/clawctl/internal/configstore"
	"github.com/clawctl-project/clawctl/internal/platform"
	"github.com/clawctl-project/clawctl/internal/remedy"
)

// Severity ranks a finding.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Finding is one audit result. Remedy is non-nil only for the narrow set of
// findings the auditor may fix itself.
type Finding struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Fix         string   `json:"fix,omitempty"`

	Remedy remedy.Action `json:"-"`
}

// Audit is the weighted result of one full pass. Checks that did not apply
// on this host are excluded from Possible.
type Audit struct {
	Findings []Finding `json:"findings"`
	Earned   int       `json:"earned"`
	Possible int       `json:"possible"`
	Percent  int       `json:"percent"`
	Grade    string    `json:"grade"`
}

// Check weights. They sum to 100 when every check applies.
const (
	weightDMPolicy    = 25
	weightSecret      = 20
	weightSecretWeak  = 14
	weightPermConfig  = 10
	weightPermLogs    = 5
	weightPermWork    = 5
	weightModelAuth   = 10
	weightModelInline = 5
	weightBind        = 15
	weightBindLAN     = 7
	weightProxies     = 5
	weightEscapeHatch = 5
)

// minSecretLen is the shortest gateway secret that earns full credit.
const minSecretLen = 24

// Auditor runs the fixed check battery against one loaded document.
type Auditor struct {
	Doc        configstore.Document
	ConfigPath string
	LogDir     string
	Workspace  string

	// Unix gates the permission-bit checks; they are excluded from the
	// denominator elsewhere.
	Unix bool

	// LookupEnv is swappable so tests control the ambient environment.
	LookupEnv func(string) (string, bool)

	Log zerolog.Logger
}

// New builds an Auditor over doc with the standard platform layout.
func New(doc configstore.Document, configPath string, log zerolog.Logger) *Auditor {
	return &Auditor{
		Doc:        doc,
		ConfigPath: configPath,
		LogDir:     platform.LogDir(),
		Workspace:  platform.WorkspaceDir(),
		Unix:       runtime.GOOS != "windows",
		LookupEnv:  os.LookupEnv,
		Log:        log,
	}
}

// Run executes every applicable check and aggregates the weighted score.
func (a *Auditor) Run() *Audit {
	audit := &Audit{Findings: []Finding{}}
	tally := func(earned, possible int, findings []Finding) {
		audit.Earned += earned
		audit.Possible += possible
		audit.Findings = append(audit.Findings, findings...)
	}

	tally(a.checkDMPolicies())
	tally(a.checkGatewaySecret())
	tally(a.checkPermissions())
	tally(a.checkModelAuth())
	tally(a.checkBindAddress())
	tally(a.checkTrustedProxies())
	tally(a.checkEscapeHatch())

	if audit.Possible > 0 {
		audit.Percent = (audit.Earned*100 + audit.Possible/2) / audit.Possible
	} else {
		audit.Percent = 100
	}
	audit.Grade = grade(audit.Percent)
	return audit
}

func grade(percent int) string {
	switch {
	case percent >= 90:
		return "A"
	case percent >= 80:
		return "B"
	case percent >= 70:
		return "C"
	case percent >= 60:
		return "D"
	default:
		return "F"
	}
}

// ─── Checks ─────────────────────────────────────────────────────────────────

func (a *Auditor) checkDMPolicies() (int, int, []Finding) {
	var findings []Finding
	for _, name := range channelNames(a.Doc) {
		policy, _ := a.Doc.GetString("channels." + name + ".dmPolicy")
		if policy == "open" {
			findings = append(findings, Finding{
				Severity:    SeverityHigh,
				Title:       fmt.Sprintf("channel %s accepts DMs from anyone", name),
				Description: "dmPolicy \"open\" lets any account message the agent directly",
				Fix:         fmt.Sprintf("clawctl config set channels.%s.dmPolicy pairing", name),
			})
		}
	}
	if len(findings) > 0 {
		return 0, weightDMPolicy, findings
	}
	return weightDMPolicy, weightDMPolicy, nil
}

func (a *Auditor) checkGatewaySecret() (int, int, []Finding) {
	secret, _ := a.Doc.GetString("gateway.auth.token")
	if secret == "" {
		secret, _ = a.Doc.GetString("gateway.auth.password")
	}
	if secret == "" {
		return 0, weightSecret, []Finding{{
			Severity:    SeverityHigh,
			Title:       "gateway has no auth secret",
			Description: "anyone who can reach the gateway port can drive the agent",
			Fix:         "clawctl configure gateway",
		}}
	}
	if len(secret) < minSecretLen {
		return weightSecretWeak, weightSecret, []Finding{{
			Severity:    SeverityMedium,
			Title:       "gateway auth secret is short",
			Description: fmt.Sprintf("secret is %d chars; use at least %d", len(secret), minSecretLen),
			Fix:         "clawctl configure gateway",
		}}
	}
	return weightSecret, weightSecret, nil
}

func (a *Auditor) checkPermissions() (int, int, []Finding) {
	if !a.Unix {
		return 0, 0, nil
	}

	targets := []struct {
		path     string
		weight   int
		severity Severity
		mode     os.FileMode
		what     string
	}{
		{a.ConfigPath, weightPermConfig, SeverityHigh, 0o600, "config file"},
		{a.LogDir, weightPermLogs, SeverityMedium, 0o700, "log directory"},
		{a.Workspace, weightPermWork, SeverityMedium, 0o700, "workspace directory"},
	}

	earned, possible := 0, 0
	var findings []Finding
	for _, t := range targets {
		info, err := os.Stat(t.path)
		if err != nil {
			continue // absent targets don't count either way
		}
		possible += t.weight
		mode := info.Mode().Perm()
		if mode&0o077 == 0 {
			earned += t.weight
			continue
		}
		findings = append(findings, Finding{
			Severity:    t.severity,
			Title:       fmt.Sprintf("%s is group/world accessible", t.what),
			Description: fmt.Sprintf("%s has mode %o", t.path, mode),
			Fix:         fmt.Sprintf("chmod %o %s", t.mode, t.path),
			Remedy:      remedy.Chmod{Path: t.path, Mode: t.mode},
		})
	}
	return earned, possible, findings
}

func (a *Auditor) checkModelAuth() (int, int, []Finding) {
	if profiles := a.Doc.GetMap("auth.profiles"); len(profiles) > 0 {
		return weightModelAuth, weightModelAuth, nil
	}
	for _, name := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "OPENROUTER_API_KEY", "GEMINI_API_KEY"} {
		if v, ok := a.LookupEnv(name); ok && v != "" {
			return weightModelAuth, weightModelAuth, nil
		}
	}
	for _, path := range []string{"models.apiKey", "agents.defaults.apiKey"} {
		if _, ok := a.Doc.GetString(path); ok {
			return weightModelInline, weightModelAuth, []Finding{{
				Severity:    SeverityLow,
				Title:       "API key embedded in config",
				Description: fmt.Sprintf("%s holds a key literal; prefer auth profiles or the environment", path),
				Fix:         "move the key to an auth profile and run clawctl config unset " + path,
			}}
		}
	}
	return 0, weightModelAuth, []Finding{{
		Severity:    SeverityMedium,
		Title:       "no model authentication configured",
		Description: "no auth profiles and no recognized API key environment variable",
		Fix:         "clawctl configure gateway",
	}}
}

func (a *Auditor) checkBindAddress() (int, int, []Finding) {
	bind := fmt.Sprintf("%v", a.Doc.GetOr("gateway.bind", "loopback"))
	switch bind {
	case "loopback", "127.0.0.1", "localhost":
		return weightBind, weightBind, nil
	case "lan":
		return weightBindLAN, weightBind, []Finding{{
			Severity:    SeverityMedium,
			Title:       "gateway bound to the LAN",
			Description: "every device on the local network can reach the gateway",
			Fix:         "clawctl config set gateway.bind loopback",
		}}
	default:
		return 0, weightBind, []Finding{{
			Severity:    SeverityHigh,
			Title:       fmt.Sprintf("gateway bound to %q", bind),
			Description: "a non-loopback bind exposes the gateway beyond this machine",
			Fix:         "clawctl config set gateway.bind loopback",
		}}
	}
}

func (a *Auditor) checkTrustedProxies() (int, int, []Finding) {
	bind := fmt.Sprintf("%v", a.Doc.GetOr("gateway.bind", "loopback"))
	if bind == "loopback" || bind == "127.0.0.1" || bind == "localhost" {
		return 0, 0, nil // only meaningful behind a non-loopback bind
	}
	if arr, _ := a.Doc.GetOr("gateway.trustedProxies", nil).([]any); len(arr) > 0 {
		return weightProxies, weightProxies, nil
	}
	return 0, weightProxies, []Finding{{
		Severity:    SeverityMedium,
		Title:       "no trusted proxy allowlist",
		Description: "client IPs behind a reverse proxy cannot be verified without one",
		Fix:         "clawctl config set gateway.trustedProxies <proxy-ip>",
	}}
}

func (a *Auditor) checkEscapeHatch() (int, int, []Finding) {
	if truthy(a.Doc.GetOr("gateway.debug.disableDeviceAuth", nil)) {
		return 0, weightEscapeHatch, []Finding{{
			Severity:    SeverityHigh,
			Title:       "device auth is disabled",
			Description: "gateway.debug.disableDeviceAuth bypasses pairing entirely",
			Fix:         "clawctl config unset gateway.debug.disableDeviceAuth",
		}}
	}
	return weightEscapeHatch, weightEscapeHatch, nil
}

func truthy(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	case float64:
		return v != 0
	default:
		return false
	}
}

func channelNames(doc configstore.Document) []string {
	channels := doc.GetMap("channels")
	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ─── Auto-fix ───────────────────────────────────────────────────────────────

// FixOutcome records one attempted remediation. DryRun outcomes report what
// would have run; nothing on the host changed.
type FixOutcome struct {
	Title   string `json:"title"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	DryRun  bool   `json:"dryRun,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Fix executes the findings that carry a remediation, one at a time,
// continuing past individual failures.
func Fix(ctx context.Context, findings []Finding, exec *remedy.Executor) []FixOutcome {
	var outcomes []FixOutcome
	for _, f := range findings {
		if f.Remedy == nil {
			continue
		}
		out := FixOutcome{Title: f.Title, Action: f.Remedy.Describe(), Success: true, DryRun: exec.DryRun}
		if err := exec.Apply(ctx, f.Remedy); err != nil {
			out.Success = false
			out.Detail = err.Error()
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

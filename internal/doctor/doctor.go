// Package doctor is the general diagnostic engine: a read-only sweep across
// seven fixed categories producing a flat, machine-readable result list, an
// unweighted health score, and a restricted auto-fix pass that only executes
// the tagged remediation actions from internal/remedy.
package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clawctl-project/clawctl/internal/configstore"
	"github.com/clawctl-project/clawctl/internal/platform"
	"github.com/clawctl-project/clawctl/internal/probes"
	"github.com/clawctl-project/clawctl/internal/remedy"
)

// Category buckets a check. Categories run in a fixed order so reports are
// diffable across runs.
type Category string

const (
	CatConfig       Category = "config"
	CatServices     Category = "services"
	CatConnectivity Category = "connectivity"
	CatStorage      Category = "storage"
	CatSecurity     Category = "security"
	CatTools        Category = "tools"
	CatLogs         Category = "logs"
)

// Status is the outcome of one check: fail for a violated requirement, warn
// for an unmet recommendation, pass otherwise.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Result is one check outcome. Fix is a human-readable remediation hint;
// Remedy, when non-nil, is the machine-executable version of it.
type Result struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Status   Status   `json:"status"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`

	Remedy remedy.Action `json:"-"`
}

// Paths is the platform layout the storage and log checks probe.
type Paths struct {
	LogDir      string
	ErrorLog    string
	Workspace   string
	Datastore   string
	VectorDir   string
	Cron        string
	Env         string
	Credentials string
}

// DefaultPaths resolves the standard OpenClaw layout.
func DefaultPaths() Paths {
	return Paths{
		LogDir:      platform.LogDir(),
		ErrorLog:    platform.ErrorLogPath(),
		Workspace:   platform.WorkspaceDir(),
		Datastore:   platform.DatastorePath(),
		VectorDir:   platform.VectorDir(),
		Cron:        platform.CronPath(),
		Env:         platform.EnvPath(),
		Credentials: platform.CredentialDir(),
	}
}

// Checker runs the sweep. Every probe is behind an injectable field so the
// engine is testable without a live host; zero values fall back to the real
// collaborators.
type Checker struct {
	File    *configstore.File
	LoadErr error

	ConfigPath string
	Paths      Paths

	Services probes.ServiceManager

	RequiredTools []string
	OptionalTools []string

	HTTPTimeout time.Duration
	ExternalURL string

	// Injectable probes.
	CommandExists  func(name string) bool
	Reachable      func(ctx context.Context, url string, timeout time.Duration) (int, error)
	CheckDatastore func(ctx context.Context, path string) (string, error)

	Log zerolog.Logger
}

// New builds a Checker over a loaded (or failed-to-load) config file with
// the real host probes wired in. path is the config file the caller tried
// to load; it is reported even when loading failed.
func New(path string, file *configstore.File, loadErr error, services probes.ServiceManager, log zerolog.Logger) *Checker {
	if path == "" {
		path = platform.ConfigPath()
	}
	c := &Checker{
		File:          file,
		LoadErr:       loadErr,
		ConfigPath:    path,
		Paths:         DefaultPaths(),
		Services:      services,
		RequiredTools: []string{"node", "git"},
		OptionalTools: []string{"docker", "ffmpeg"},
		HTTPTimeout:   3 * time.Second,
		ExternalURL:   "https://api.github.com",
		CommandExists: probes.CommandExists,
		Reachable:     probes.Reachable,
		Log:           log,
	}
	c.CheckDatastore = checkSQLite
	return c
}

func (c *Checker) doc() configstore.Document {
	if c.File == nil {
		return nil
	}
	return c.File.Doc
}

// Run executes all categories in their fixed order and returns the flat
// result list. Checks are read-only; a run is safely repeatable, and a probe
// failing inside one category never aborts the rest.
func (c *Checker) Run(ctx context.Context) []Result {
	var results []Result
	for _, category := range []func(context.Context) []Result{
		c.checkConfig,
		c.checkServices,
		c.checkConnectivity,
		c.checkStorage,
		c.checkCredentials,
		c.checkTools,
		c.checkLogs,
	} {
		results = append(results, category(ctx)...)
	}
	return results
}

// Summary is the unweighted roll-up of one run. Score is the plain pass
// ratio.
type Summary struct {
	Pass  int `json:"pass"`
	Warn  int `json:"warn"`
	Fail  int `json:"fail"`
	Score int `json:"score"`
}

// Summarize counts statuses and computes the pass-ratio score.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.Pass++
		case StatusWarn:
			s.Warn++
		case StatusFail:
			s.Fail++
		}
	}
	if total := len(results); total > 0 {
		s.Score = (s.Pass*100 + total/2) / total
	} else {
		s.Score = 100
	}
	return s
}

// Report is the JSON shape of a full doctor run.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Results     []Result  `json:"results"`
	Summary     Summary   `json:"summary"`
}

// NewReport wraps a result list for serialization.
func NewReport(results []Result) Report {
	return Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Results:     results,
		Summary:     Summarize(results),
	}
}

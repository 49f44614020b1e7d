// Package remedy defines the closed set of auto-fix actions the diagnostic
// engines may execute. Findings carry one of these tagged actions instead of
// free-form fix text; the executor matches on the concrete type, so nothing
// outside this set can ever run.
package remedy

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/clawctl-project/clawctl/internal/probes"
)

// Action is one allow-listed remediation.
type Action interface {
	Describe() string
}

// Chmod tightens the permission bits of a file or directory.
type Chmod struct {
	Path string
	Mode os.FileMode
}

func (c Chmod) Describe() string { return fmt.Sprintf("chmod %o %s", c.Mode, c.Path) }

// MkdirP creates a directory tree.
type MkdirP struct {
	Path string
}

func (m MkdirP) Describe() string { return fmt.Sprintf("mkdir -p %s", m.Path) }

// ServiceRestart reloads a managed service through the service collaborator.
type ServiceRestart struct {
	Label string
}

func (s ServiceRestart) Describe() string { return fmt.Sprintf("restart service %s", s.Label) }

// Executor applies actions one at a time. In dry-run mode every action is
// logged as "would ..." and nothing on the host changes.
type Executor struct {
	DryRun   bool
	Log      zerolog.Logger
	Services probes.ServiceManager
}

// Apply runs a single action. Failures are returned, never fatal; callers
// continue with the rest of their batch.
func (e *Executor) Apply(ctx context.Context, a Action) error {
	if e.DryRun {
		e.Log.Info().Str("action", a.Describe()).Msg("dry-run: would apply fix")
		return nil
	}

	switch a := a.(type) {
	case Chmod:
		if err := os.Chmod(a.Path, a.Mode); err != nil {
			return fmt.Errorf("chmod %s: %w", a.Path, err)
		}
	case MkdirP:
		if err := os.MkdirAll(a.Path, 0o700); err != nil {
			return fmt.Errorf("mkdir %s: %w", a.Path, err)
		}
	case ServiceRestart:
		if e.Services == nil {
			return fmt.Errorf("no service manager available to restart %s", a.Label)
		}
		if err := e.Services.Restart(ctx, a.Label); err != nil {
			return fmt.Errorf("restarting %s: %w", a.Label, err)
		}
	default:
		return fmt.Errorf("action %T is not auto-fixable", a)
	}

	e.Log.Info().Str("action", a.Describe()).Msg("applied fix")
	return nil
}

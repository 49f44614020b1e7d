package doctor

import (
	"context"

	"github.com/clawctl-project/clawctl/internal/remedy"
)

// FixOutcome records one attempted auto-fix. DryRun outcomes report what
// would have run; nothing on the host changed.
type FixOutcome struct {
	Check   string `json:"check"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Manual  bool   `json:"manual,omitempty"`
	DryRun  bool   `json:"dryRun,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Fix runs strictly after a completed read-only pass. Only results carrying
// a tagged remedy execute; a fix hint without one is reported as not
// auto-fixable rather than interpreted. Failures never stop the batch.
func Fix(ctx context.Context, results []Result, exec *remedy.Executor) []FixOutcome {
	var outcomes []FixOutcome
	for _, r := range results {
		if r.Status == StatusPass {
			continue
		}
		if r.Remedy == nil {
			if r.Fix != "" {
				outcomes = append(outcomes, FixOutcome{
					Check:  r.Name,
					Action: r.Fix,
					Manual: true,
					Detail: "not auto-fixable, run manually",
				})
			}
			continue
		}
		out := FixOutcome{Check: r.Name, Action: r.Remedy.Describe(), Success: true, DryRun: exec.DryRun}
		if err := exec.Apply(ctx, r.Remedy); err != nil {
			out.Success = false
			out.Detail = err.Error()
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

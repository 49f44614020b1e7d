package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/clawctl-project/clawctl/internal/probes"
	"github.com/clawctl-project/clawctl/internal/remedy"
)

// minFreeDisk is the free-space floor below which the storage check fails.
const minFreeDisk = 1 << 30 // 1 GiB

func (c *Checker) checkStorage(ctx context.Context) []Result {
	var results []Result
	add := func(r Result) {
		r.Category = CatStorage
		results = append(results, r)
	}

	if info, err := os.Stat(c.Paths.Workspace); err == nil && info.IsDir() {
		add(Result{Name: "workspace", Status: StatusPass, Message: c.Paths.Workspace + " exists"})
	} else {
		add(Result{Name: "workspace", Status: StatusWarn,
			Message: fmt.Sprintf("workspace %s missing", c.Paths.Workspace),
			Fix:     "mkdir -p " + c.Paths.Workspace,
			Remedy:  remedy.MkdirP{Path: c.Paths.Workspace}})
	}

	if info, err := os.Stat(c.Paths.Datastore); err == nil {
		add(Result{Name: "datastore", Status: StatusPass,
			Message: fmt.Sprintf("%s (%.1f MB)", c.Paths.Datastore, float64(info.Size())/(1<<20))})
		add(c.datastoreIntegrity(ctx))
	} else {
		add(Result{Name: "datastore", Status: StatusWarn,
			Message: fmt.Sprintf("datastore %s missing — created on first platform run", c.Paths.Datastore)})
	}

	if info, err := os.Stat(c.Paths.VectorDir); err == nil && info.IsDir() {
		add(Result{Name: "vector_store", Status: StatusPass, Message: c.Paths.VectorDir + " exists"})
	} else {
		add(Result{Name: "vector_store", Status: StatusWarn,
			Message: fmt.Sprintf("vector store %s missing", c.Paths.VectorDir),
			Fix:     "mkdir -p " + c.Paths.VectorDir,
			Remedy:  remedy.MkdirP{Path: c.Paths.VectorDir}})
	}

	add(c.cronCheck())

	if free, ok := probes.FreeDisk(c.Paths.Workspace); ok {
		if free < minFreeDisk {
			add(Result{Name: "disk_space", Status: StatusFail,
				Message: fmt.Sprintf("only %.1f MB free — below the 1 GB floor", float64(free)/(1<<20))})
		} else {
			add(Result{Name: "disk_space", Status: StatusPass,
				Message: fmt.Sprintf("%.1f GB free", float64(free)/(1<<30))})
		}
	}

	return results
}

func (c *Checker) datastoreIntegrity(ctx context.Context) Result {
	verdict, err := c.CheckDatastore(ctx, c.Paths.Datastore)
	if err != nil {
		return Result{Name: "datastore_integrity", Status: StatusWarn,
			Message: fmt.Sprintf("could not verify datastore: %v", err)}
	}
	if verdict != "ok" {
		return Result{Name: "datastore_integrity", Status: StatusFail,
			Message: "datastore integrity check reported: " + verdict,
			Fix:     "clawctl backup restore"}
	}
	return Result{Name: "datastore_integrity", Status: StatusPass, Message: "datastore integrity ok"}
}

// cronJobs is the shape of the platform's scheduled-job file.
type cronJobs struct {
	Jobs []struct {
		Name    string `json:"name"`
		Enabled bool   `json:"enabled"`
	} `json:"jobs"`
}

func (c *Checker) cronCheck() Result {
	raw, err := os.ReadFile(c.Paths.Cron)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: "cron_jobs", Status: StatusPass, Message: "no scheduled jobs file"}
		}
		return Result{Name: "cron_jobs", Status: StatusWarn,
			Message: fmt.Sprintf("cannot read %s: %v", c.Paths.Cron, err)}
	}

	var jobs cronJobs
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return Result{Name: "cron_jobs", Status: StatusWarn,
			Message: fmt.Sprintf("%s does not parse: %v", c.Paths.Cron, err)}
	}
	active := 0
	for _, j := range jobs.Jobs {
		if j.Enabled {
			active++
		}
	}
	return Result{Name: "cron_jobs", Status: StatusPass,
		Message: fmt.Sprintf("%d active job(s) of %d", active, len(jobs.Jobs))}
}

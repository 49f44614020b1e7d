package main

// ---------------------------------------------------------------------------
// cmd_doctor.go — full installation health check with safe auto-fixes
//
// Two strict passes: a read-only sweep first, then (with --fix) a fix pass
// that only executes tagged remediations. --watch re-runs the sweep whenever
// the config file changes on disk.
//
// Usage:
//   clawctl doctor
//   clawctl doctor --fix
//   clawctl doctor --json
//   clawctl doctor --watch
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/clawctl-project/clawctl/internal/configstore"
	"github.com/clawctl-project/clawctl/internal/doctor"
	"github.com/clawctl-project/clawctl/internal/platform"
	"github.com/clawctl-project/clawctl/internal/probes"
	"github.com/clawctl-project/clawctl/internal/remedy"
)

func cmdDoctor(args []string) {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", "", "Platform config path")
	fix := fs.Bool("fix", false, "Apply safe auto-fixes after the read pass")
	dryRun := fs.Bool("dry-run", false, "With --fix: log fixes without applying them")
	jsonOut := fs.Bool("json", false, "Emit the full report as JSON")
	watch := fs.Bool("watch", false, "Re-run whenever the config file changes")
	fs.Parse(args)

	path := envConfig(*configPath)
	prefs := loadSettings()
	log := newLogger(prefs)

	ctx := context.Background()
	services := &probes.SystemManager{Labels: platform.ServiceLabels()}

	run := func() int {
		file, loadErr := configstore.Load(path, true)
		checker := doctor.New(path, file, loadErr, services, log)
		checker.HTTPTimeout = prefs.Doctor.HTTPTimeout
		checker.ExternalURL = prefs.Doctor.ExternalURL
		checker.RequiredTools = prefs.Doctor.RequiredTools
		checker.OptionalTools = prefs.Doctor.OptionalTools

		results := checker.Run(ctx)

		var outcomes []doctor.FixOutcome
		fixFailed := false
		if *fix {
			exec := &remedy.Executor{DryRun: *dryRun, Log: log, Services: services}
			outcomes = doctor.Fix(ctx, results, exec)
			for _, o := range outcomes {
				if !o.Success && !o.Manual {
					fixFailed = true
				}
			}
		}

		if *jsonOut {
			report := doctor.NewReport(results)
			payload := struct {
				doctor.Report
				Fixes []doctor.FixOutcome `json:"fixes,omitempty"`
			}{report, outcomes}
			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				errorf("marshaling report: %v", err)
			}
			fmt.Println(string(data))
		} else {
			renderDoctor(results, outcomes)
		}

		if fixFailed {
			return 1
		}
		return 0
	}

	if !*watch {
		os.Exit(run())
	}

	run()
	watchConfig(path, func() { run() })
}

func renderDoctor(results []doctor.Result, outcomes []doctor.FixOutcome) {
	fmt.Println()
	fmt.Printf("  %s  OpenClaw Doctor\n", bold("🩺"))
	fmt.Printf("  %s\n\n", dim("Read-only health sweep; --fix applies safe remediations"))

	var lastCat doctor.Category
	for _, r := range results {
		if r.Category != lastCat {
			if lastCat != "" {
				fmt.Println()
			}
			fmt.Printf("  %s\n", bold(string(r.Category)))
			lastCat = r.Category
		}
		var icon string
		switch r.Status {
		case doctor.StatusPass:
			icon = green("✓")
		case doctor.StatusWarn:
			icon = yellow("!")
		case doctor.StatusFail:
			icon = red("✗")
		}
		fmt.Printf("    %s  %-22s %s\n", icon, r.Name, r.Message)
		if r.Fix != "" && r.Status != doctor.StatusPass {
			fmt.Printf("       %s %s\n", dim("fix:"), bold(r.Fix))
		}
	}

	if len(outcomes) > 0 {
		fmt.Printf("\n  %s\n", bold("Fixes:"))
		for _, o := range outcomes {
			icon, action := fixBadge(o.Success, o.DryRun, o.Action)
			fmt.Printf("    %s  %-22s %s", icon, o.Check, action)
			if o.Detail != "" {
				fmt.Printf("  %s", dim(o.Detail))
			}
			fmt.Println()
		}
	}

	s := doctor.Summarize(results)
	fmt.Println()
	switch {
	case s.Fail > 0:
		fmt.Printf("  %s %d failure(s), %d warning(s) — score %d/100\n\n", red("✗"), s.Fail, s.Warn, s.Score)
	case s.Warn > 0:
		fmt.Printf("  %s %d warning(s) — score %d/100\n\n", yellow("!"), s.Warn, s.Score)
	default:
		fmt.Printf("  %s Everything looks good — score %d/100\n\n", green("✓"), s.Score)
	}
}

// watchConfig blocks, re-running fn on every write to the config file. The
// parent directory is watched so atomic rename-in-place saves still fire.
func watchConfig(path string, fn func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		errorf("starting watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		errorf("watching %s: %v", filepath.Dir(path), err)
	}
	fmt.Printf("  %s watching %s\n", dim("…"), path)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Name != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fmt.Printf("\n  %s %s changed\n", dim("…"), path)
				fn()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			warnf("watcher: %v", err)
		}
	}
}

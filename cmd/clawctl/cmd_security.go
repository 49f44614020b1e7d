package main

// ---------------------------------------------------------------------------
// cmd_security.go — weighted config audit, auto-fix, hardening profiles
//
// Usage:
//   clawctl security                       # audit (default)
//   clawctl security --fix                 # audit, then apply remediations
//   clawctl security --profile hardened    # apply a hardening profile
//   clawctl security --format sarif        # CI-friendly output
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/clawctl-project/clawctl/internal/configstore"
	"github.com/clawctl-project/clawctl/internal/platform"
	"github.com/clawctl-project/clawctl/internal/probes"
	"github.com/clawctl-project/clawctl/internal/remedy"
	"github.com/clawctl-project/clawctl/internal/security"
)

func cmdSecurity(args []string) {
	fs := flag.NewFlagSet("security", flag.ExitOnError)
	configPath := fs.String("config", "", "Platform config path")
	auditOut := fs.Bool("audit", true, "Print the audit report")
	fix := fs.Bool("fix", false, "Apply remediable findings after the audit")
	profile := fs.String("profile", "", "Apply a hardening profile: minimal, standard, hardened")
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing")
	format := fs.String("format", "table", "Output format: table, json, csv, sarif")
	jsonOut := fs.Bool("json", false, "Shorthand for --format json")
	output := fs.String("output", "", "Write output to file")
	noBackup := fs.Bool("no-backup", false, "Skip the pre-write snapshot")
	fs.Parse(args)

	path := envConfig(*configPath)
	prefs := loadSettings()
	log := newLogger(prefs)

	if *jsonOut {
		*format = "json"
	}
	outFmt := parseFormat(*format)

	if *profile != "" {
		applyProfile(path, *profile, *dryRun, *noBackup || !prefs.Backup.Enabled)
		return
	}

	if !*auditOut && !*fix {
		warnf("nothing to do: --audit=false without --fix")
		return
	}

	file := loadStore(path)
	auditor := security.New(file.Doc, path, log)
	audit := auditor.Run()

	if *auditOut {
		w, cleanup := outputWriter(*output)
		defer cleanup()

		switch outFmt {
		case FormatJSON:
			data, err := json.MarshalIndent(audit, "", "  ")
			if err != nil {
				errorf("marshaling audit: %v", err)
			}
			fmt.Fprintln(w, string(data))
		case FormatCSV:
			rows := make([][]string, 0, len(audit.Findings))
			for _, f := range audit.Findings {
				rows = append(rows, []string{string(f.Severity), f.Title, f.Description, f.Fix})
			}
			writeCSV(w, []string{"severity", "title", "description", "fix"}, rows)
		case FormatSARIF:
			writeSARIF(w, audit.Findings, version)
		default:
			renderAudit(w, audit)
		}
		if *output != "" {
			fmt.Printf("  %s wrote %s report to %s\n", green("✓"), formatName(outFmt), *output)
		}
	}

	if *fix {
		services := &probes.SystemManager{Labels: platform.ServiceLabels()}
		exec := &remedy.Executor{DryRun: *dryRun, Log: log, Services: services}
		outcomes := security.Fix(context.Background(), audit.Findings, exec)
		failed := false
		for _, o := range outcomes {
			icon, action := fixBadge(o.Success, o.DryRun, o.Action)
			if !o.Success && !o.DryRun {
				failed = true
			}
			fmt.Fprintf(os.Stdout, "  %s  %s", icon, action)
			if o.Detail != "" {
				fmt.Fprintf(os.Stdout, "  %s", dim(o.Detail))
			}
			fmt.Fprintln(os.Stdout)
		}
		if failed {
			os.Exit(1)
		}
	}
}

func renderAudit(w *os.File, audit *security.Audit) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  Security Audit\n\n", bold("🔒"))

	if len(audit.Findings) == 0 {
		fmt.Fprintf(w, "  %s no findings\n", green("✓"))
	}
	for _, f := range audit.Findings {
		var icon string
		switch f.Severity {
		case security.SeverityHigh:
			icon = red("✗")
		case security.SeverityMedium:
			icon = yellow("!")
		default:
			icon = cyan("ℹ")
		}
		fmt.Fprintf(w, "  %s  %-8s %s\n", icon, dim("["+string(f.Severity)+"]"), f.Title)
		fmt.Fprintf(w, "       %s\n", f.Description)
		if f.Fix != "" {
			fmt.Fprintf(w, "       %s %s\n", dim("fix:"), bold(f.Fix))
		}
	}

	gradeColor := green
	switch audit.Grade {
	case "C", "D":
		gradeColor = yellow
	case "F":
		gradeColor = red
	}
	fmt.Fprintf(w, "\n  Score: %s  Grade: %s\n\n",
		bold(fmt.Sprintf("%d/100", audit.Percent)), gradeColor(bold(audit.Grade)))
}

func applyProfile(path, name string, dryRun, noBackup bool) {
	valid := false
	for _, p := range security.ProfileNames() {
		if p == name {
			valid = true
		}
	}
	if !valid {
		errorf("unknown profile %q (choose from: minimal, standard, hardened)", name)
	}

	if dryRun {
		file, err := configstore.Load(path, true)
		if err != nil {
			errorf("loading %s: %v", path, err)
		}
		if file.Doc == nil {
			file.Doc = configstore.Document{}
		}
		if err := security.ApplyProfile(file.Doc, name); err != nil {
			errorf("applying profile: %v", err)
		}
		data, _ := json.MarshalIndent(map[string]any(file.Doc), "", "  ")
		fmt.Printf("%s would write to %s:\n%s\n", yellow("dry-run:"), path, data)
		return
	}

	_, result, err := configstore.Update(path, func(f *configstore.File) error {
		return security.ApplyProfile(f.Doc, name)
	}, configstore.UpdateOptions{Backup: !noBackup, CreateIfMissing: true})
	if err != nil {
		errorf("applying profile: %v", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		warnf("could not tighten %s: %v", path, err)
	}

	fmt.Printf("%s Applied %s profile to %s\n", green("✓"), bold(name), path)
	if result.BackupPath != "" {
		fmt.Printf("  %s\n", dim("backup: "+result.BackupPath))
	}
}

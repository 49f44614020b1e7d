package main

// ---------------------------------------------------------------------------
// cmd_backup.go — snapshot, list, or restore platform state
//
// Usage:
//   clawctl backup create [path]
//   clawctl backup list [path]
//   clawctl backup restore <snapshot> [target]
// ---------------------------------------------------------------------------

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/clawctl-project/clawctl/internal/backup"
	"github.com/clawctl-project/clawctl/internal/platform"
)

func cmdBackup(args []string) {
	if len(args) == 0 {
		errorf("usage: clawctl backup <create|list|restore> [args]")
	}
	verb := args[0]
	rest := args[1:]

	switch verb {
	case "create":
		cmdBackupCreate(rest)
	case "list":
		cmdBackupList(rest)
	case "restore":
		cmdBackupRestore(rest)
	default:
		errorf("unknown backup subcommand %q (create, list, restore)", verb)
	}
}

func cmdBackupCreate(args []string) {
	fs := flag.NewFlagSet("backup-create", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output the snapshot record as JSON")
	fs.Parse(args)

	target := platform.ConfigPath()
	if fs.NArg() >= 1 {
		target = fs.Arg(0)
	}

	mgr := backup.New(newLogger(loadSettings()))
	snap, err := mgr.Create(target)
	if err != nil {
		errorf("%v", err)
	}

	if *jsonOut {
		data, _ := json.MarshalIndent(snap, "", "  ")
		fmt.Println(string(data))
		return
	}
	fmt.Printf("%s Snapshot %s\n", green("✓"), bold(snap.Path))
	fmt.Printf("  %s\n", dim(fmt.Sprintf("id %s, %d bytes", snap.ID, snap.Size)))
}

func cmdBackupList(args []string) {
	fs := flag.NewFlagSet("backup-list", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Parse(args)

	target := platform.ConfigPath()
	if fs.NArg() >= 1 {
		target = fs.Arg(0)
	}

	mgr := backup.New(newLogger(loadSettings()))
	snaps, err := mgr.List(target)
	if err != nil {
		errorf("%v", err)
	}

	if *jsonOut {
		data, _ := json.MarshalIndent(snaps, "", "  ")
		fmt.Println(string(data))
		return
	}
	if len(snaps) == 0 {
		fmt.Printf("no snapshots of %s\n", target)
		return
	}
	t := NewTable(os.Stdout, "CREATED", "SIZE", "PATH")
	for _, s := range snaps {
		kind := ""
		if s.IsDir {
			kind = " (dir)"
		}
		t.AddRow(s.CreatedAt.Format("2006-01-02 15:04:05"), fmt.Sprintf("%d%s", s.Size, kind), s.Path)
	}
	t.Render()
}

func cmdBackupRestore(args []string) {
	fs := flag.NewFlagSet("backup-restore", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		errorf("usage: clawctl backup restore <snapshot> [target]")
	}
	snapshot := fs.Arg(0)

	target := ""
	if fs.NArg() >= 2 {
		target = fs.Arg(1)
	} else {
		// Derive the original path from the snapshot naming convention.
		if idx := strings.LastIndex(snapshot, ".backup."); idx > 0 {
			target = snapshot[:idx]
		} else {
			errorf("cannot derive target from %q, pass it explicitly", snapshot)
		}
	}

	mgr := backup.New(newLogger(loadSettings()))
	if err := mgr.Restore(snapshot, target); err != nil {
		errorf("%v", err)
	}
	fmt.Printf("%s Restored %s from %s\n", green("✓"), bold(target), snapshot)
}

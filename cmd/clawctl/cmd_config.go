package main

// ---------------------------------------------------------------------------
// cmd_config.go — show, get, set, or unset platform config values
//
// Writes go through the dialect-preserving store: a commented JSON5 config
// keeps its comments and formatting on untouched lines.
// ---------------------------------------------------------------------------

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/clawctl-project/clawctl/internal/configstore"
)

func cmdConfig(args []string) {
	if len(args) == 0 {
		args = []string{"show"}
	}
	verb := args[0]
	rest := args[1:]

	switch verb {
	case "show":
		cmdConfigShow(rest)
	case "get":
		cmdConfigGet(rest)
	case "set":
		cmdConfigSet(rest)
	case "unset":
		cmdConfigUnset(rest)
	default:
		errorf("unknown config subcommand %q (show, get, set, unset)", verb)
	}
}

func cmdConfigShow(args []string) {
	fs := flag.NewFlagSet("config-show", flag.ExitOnError)
	configPath := fs.String("config", "", "Platform config path")
	jsonOut := fs.Bool("json", false, "Output as strict JSON, comments stripped")
	fs.Parse(args)

	file := loadStore(envConfig(*configPath))
	if *jsonOut {
		data, err := json.MarshalIndent(map[string]any(file.Doc), "", "  ")
		if err != nil {
			errorf("marshaling config: %v", err)
		}
		fmt.Println(string(data))
		return
	}
	// The on-disk bytes are already the canonical representation, comments
	// included.
	os.Stdout.Write(file.Raw)
}

func cmdConfigGet(args []string) {
	fs := flag.NewFlagSet("config-get", flag.ExitOnError)
	configPath := fs.String("config", "", "Platform config path")
	fs.Parse(args)

	if fs.NArg() < 1 {
		errorf("usage: clawctl config get <key>\n\nExample:\n  clawctl config get gateway.port")
	}
	key := fs.Arg(0)

	file := loadStore(envConfig(*configPath))
	val, ok := file.Doc.Get(key)
	if !ok {
		errorf("%s is not set", key)
	}
	data, err := json.MarshalIndent(val, "", "  ")
	if err != nil {
		errorf("marshaling %s: %v", key, err)
	}
	fmt.Println(string(data))
}

func cmdConfigSet(args []string) {
	fs := flag.NewFlagSet("config-set", flag.ExitOnError)
	configPath := fs.String("config", "", "Platform config path")
	noBackup := fs.Bool("no-backup", false, "Skip the pre-write snapshot")
	dryRun := fs.Bool("dry-run", false, "Print the resulting value without writing")
	fs.Parse(args)

	if fs.NArg() < 2 {
		errorf("usage: clawctl config set <key> <value>\n\nExamples:\n  clawctl config set gateway.port 19000\n  clawctl config set channels.telegram.dmPolicy pairing\n  clawctl config set gateway.debug.disableDeviceAuth false")
	}
	key := fs.Arg(0)
	value := parseValue(fs.Arg(1))
	path := envConfig(*configPath)

	if *dryRun {
		file := loadStore(path)
		file.Doc.Set(key, value)
		printDryRun(path, key, file.Doc)
		return
	}

	prefs := loadSettings()
	_, res, err := configstore.Update(path, func(f *configstore.File) error {
		f.Doc.Set(key, value)
		return nil
	}, configstore.UpdateOptions{Backup: !*noBackup && prefs.Backup.Enabled})
	if err != nil {
		reportWriteError(path, err)
	}

	fmt.Printf("%s Set %s = %v in %s\n", green("✓"), bold(key), fs.Arg(1), path)
	if res.BackupPath != "" {
		fmt.Printf("  %s\n", dim("backup: "+res.BackupPath))
	}
}

func cmdConfigUnset(args []string) {
	fs := flag.NewFlagSet("config-unset", flag.ExitOnError)
	configPath := fs.String("config", "", "Platform config path")
	noBackup := fs.Bool("no-backup", false, "Skip the pre-write snapshot")
	dryRun := fs.Bool("dry-run", false, "Print the resulting value without writing")
	fs.Parse(args)

	if fs.NArg() < 1 {
		errorf("usage: clawctl config unset <key>")
	}
	key := fs.Arg(0)
	path := envConfig(*configPath)

	if *dryRun {
		file := loadStore(path)
		file.Doc.Remove(key)
		printDryRun(path, key, file.Doc)
		return
	}

	prefs := loadSettings()
	_, res, err := configstore.Update(path, func(f *configstore.File) error {
		f.Doc.Remove(key)
		return nil
	}, configstore.UpdateOptions{Backup: !*noBackup && prefs.Backup.Enabled})
	if err != nil {
		reportWriteError(path, err)
	}

	fmt.Printf("%s Unset %s in %s\n", green("✓"), bold(key), path)
	if res.BackupPath != "" {
		fmt.Printf("  %s\n", dim("backup: "+res.BackupPath))
	}
}

func printDryRun(path, key string, doc configstore.Document) {
	data, _ := json.MarshalIndent(map[string]any(doc), "", "  ")
	fmt.Printf("%s would write to %s (changed key: %s):\n%s\n", yellow("dry-run:"), path, bold(key), data)
}

// reportWriteError distinguishes an aborted backup from a failed write; in
// both cases the previous file is intact.
func reportWriteError(path string, err error) {
	var be *configstore.BackupError
	if errors.As(err, &be) {
		errorf("backup failed, config untouched: %v", be)
	}
	if errors.Is(err, configstore.ErrNotFound) {
		errorf("%s does not exist — run 'clawctl configure gateway' first", path)
	}
	errorf("writing %s: %v", path, err)
}

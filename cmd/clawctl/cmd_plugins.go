package main

// ---------------------------------------------------------------------------
// cmd_plugins.go — list, enable, or disable platform plugins
//
// Validation problems are reported per field and nothing is written when
// validation fails; the config is never left half-enabled.
// ---------------------------------------------------------------------------

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/clawctl-project/clawctl/internal/configstore"
	"github.com/clawctl-project/clawctl/internal/plugins"
)

func cmdPlugins(args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	verb := args[0]
	rest := args[1:]

	switch verb {
	case "list":
		cmdPluginsList(rest)
	case "enable":
		cmdPluginsEnable(rest)
	case "disable":
		cmdPluginsDisable(rest)
	default:
		errorf("unknown plugins subcommand %q (list, enable, disable)", verb)
	}
}

func cmdPluginsList(args []string) {
	fs := flag.NewFlagSet("plugins-list", flag.ExitOnError)
	configPath := fs.String("config", "", "Platform config path")
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Parse(args)

	file, err := configstore.Load(envConfig(*configPath), true)
	if err != nil {
		errorf("loading config: %v", err)
	}
	enabled := plugins.Enabled(file.Doc)

	if *jsonOut {
		type row struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Enabled     bool   `json:"enabled"`
			Slot        string `json:"slot,omitempty"`
		}
		rows := make([]row, 0, len(plugins.Registry))
		for _, name := range plugins.Names() {
			desc := plugins.Registry[name]
			_, on := enabled[name]
			rows = append(rows, row{name, desc.Description, on, desc.Slot})
		}
		data, _ := json.MarshalIndent(rows, "", "  ")
		fmt.Println(string(data))
		return
	}

	t := NewTable(os.Stdout, "PLUGIN", "STATUS", "SLOT", "DESCRIPTION")
	for _, name := range plugins.Names() {
		desc := plugins.Registry[name]
		status := dim("disabled")
		if _, on := enabled[name]; on {
			status = green("enabled")
		}
		t.AddRow(name, status, desc.Slot, desc.Description)
	}
	t.Render()
}

func cmdPluginsEnable(args []string) {
	fs := flag.NewFlagSet("plugins-enable", flag.ExitOnError)
	configPath := fs.String("config", "", "Platform config path")
	var sets stringList
	fs.Var(&sets, "set", "Plugin config value as key=value (repeatable)")
	noBackup := fs.Bool("no-backup", false, "Skip the pre-write snapshot")
	dryRun := fs.Bool("dry-run", false, "Validate and print without writing")
	fs.Parse(args)

	if fs.NArg() < 1 {
		errorf("usage: clawctl plugins enable <name> [--set key=value ...]\n\nKnown plugins: %s",
			strings.Join(plugins.Names(), ", "))
	}
	name := fs.Arg(0)
	desc, known := plugins.Registry[name]
	if !known {
		errorf("unknown plugin %q (choose from: %s)", name, strings.Join(plugins.Names(), ", "))
	}

	cfg, err := parseKV(sets)
	if err != nil {
		errorf("%v", err)
	}

	path := envConfig(*configPath)
	file, err := configstore.Load(path, true)
	if err != nil {
		errorf("loading %s: %v", path, err)
	}
	if file.Doc == nil {
		file.Doc = configstore.Document{}
	}

	// Validate against the merged view, so values already in the config
	// count toward required fields.
	mergedMap := map[string]any{}
	for k, v := range file.Doc.GetMap("plugins.entries." + name + ".config") {
		mergedMap[k] = v
	}
	for k, v := range cfg {
		mergedMap[k] = v
	}
	res := plugins.Validate(name, mergedMap)
	if !res.Valid {
		fmt.Fprintf(os.Stderr, "%s %s is not ready to enable:\n", red("✗"), name)
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}

	plugins.Enable(file.Doc, name, cfg, desc.Slot)

	if *dryRun {
		data, _ := json.MarshalIndent(file.Doc.GetMap("plugins"), "", "  ")
		fmt.Printf("%s would write to %s:\n%s\n", yellow("dry-run:"), path, data)
		return
	}

	prefs := loadSettings()
	saveRes, err := file.Save(configstore.SaveOptions{Backup: !*noBackup && prefs.Backup.Enabled})
	if err != nil {
		reportWriteError(path, err)
	}
	fmt.Printf("%s Enabled plugin %s\n", green("✓"), bold(name))
	if desc.Slot != "" {
		fmt.Printf("  %s\n", dim("slot "+desc.Slot+" -> "+name))
	}
	if saveRes.BackupPath != "" {
		fmt.Printf("  %s\n", dim("backup: "+saveRes.BackupPath))
	}
}

func cmdPluginsDisable(args []string) {
	fs := flag.NewFlagSet("plugins-disable", flag.ExitOnError)
	configPath := fs.String("config", "", "Platform config path")
	noBackup := fs.Bool("no-backup", false, "Skip the pre-write snapshot")
	dryRun := fs.Bool("dry-run", false, "Print without writing")
	fs.Parse(args)

	if fs.NArg() < 1 {
		errorf("usage: clawctl plugins disable <name>")
	}
	name := fs.Arg(0)
	path := envConfig(*configPath)

	if *dryRun {
		file := loadStore(path)
		plugins.Disable(file.Doc, name)
		data, _ := json.MarshalIndent(file.Doc.GetMap("plugins"), "", "  ")
		fmt.Printf("%s would write to %s:\n%s\n", yellow("dry-run:"), path, data)
		return
	}

	prefs := loadSettings()
	_, saveRes, err := configstore.Update(path, func(f *configstore.File) error {
		plugins.Disable(f.Doc, name)
		return nil
	}, configstore.UpdateOptions{Backup: !*noBackup && prefs.Backup.Enabled})
	if err != nil {
		reportWriteError(path, err)
	}
	fmt.Printf("%s Disabled plugin %s %s\n", green("✓"), bold(name), dim("(config kept)"))
	if saveRes.BackupPath != "" {
		fmt.Printf("  %s\n", dim("backup: "+saveRes.BackupPath))
	}
}

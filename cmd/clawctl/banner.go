package main

// ---------------------------------------------------------------------------
// banner.go — ASCII art banner, version/usage printing, per-command help
// ---------------------------------------------------------------------------

import (
	"fmt"
	"io"
	"os"
	goruntime "runtime"
	"runtime/debug"
)

func bannerText() string {
	art := `
    ╔══════════════════════════════════════════════════════════╗
    ║                                                          ║
    ║    ██████╗ ██╗       █████╗  ██╗    ██╗                 ║
    ║   ██╔════╝ ██║      ██╔══██╗ ██║    ██║                 ║
    ║   ██║      ██║      ███████║ ██║ █╗ ██║                 ║
    ║   ██║      ██║      ██╔══██║ ██║███╗██║                 ║
    ║   ╚██████╗ ███████╗ ██║  ██║ ╚███╔███╔╝                 ║
    ║    ╚═════╝ ╚══════╝ ╚═╝  ╚═╝  ╚══╝╚══╝                  ║
    ║                                                          ║
    ║       OPENCLAW SETUP & MAINTENANCE TOOLKIT               ║
    ║                                                          ║
    ╚══════════════════════════════════════════════════════════╝
`
	if !colorEnabled() {
		return art
	}
	return "\033[36m" + art + "\033[0m"
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "clawctl v%s", version)
	if commit != "dev" {
		fmt.Fprintf(w, " (%s)", commit[:min(7, len(commit))])
	}
	if buildDate != "unknown" {
		fmt.Fprintf(w, " built %s", buildDate)
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(w, " %s", bi.GoVersion)
	}
	fmt.Fprintf(w, " %s/%s", goruntime.GOOS, goruntime.GOARCH)
	fmt.Fprintln(w)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, bannerText())
	fmt.Fprintf(w, "  %s\n\n", dim("v"+version))
	fmt.Fprintf(w, "%s\n\n", bold("USAGE"))
	fmt.Fprintf(w, "  clawctl <command> [flags]\n\n")
	fmt.Fprintf(w, "%s\n\n", bold("COMMANDS"))
	fmt.Fprintf(w, "  %-12s  %s\n", bold("doctor"), "Run health checks across the whole installation")
	fmt.Fprintf(w, "  %-12s  %s\n", bold("security"), "Audit the config for risky settings, optionally fix them")
	fmt.Fprintf(w, "  %-12s  %s\n", bold("config"), "Show, get, set, or unset platform config values")
	fmt.Fprintf(w, "  %-12s  %s\n", bold("configure"), "Apply a settings bundle for one config section")
	fmt.Fprintf(w, "  %-12s  %s\n", bold("plugins"), "List, enable, or disable platform plugins")
	fmt.Fprintf(w, "  %-12s  %s\n", bold("backup"), "Snapshot, list, or restore platform state")
	fmt.Fprintf(w, "  %-12s  %s\n", bold("status"), "Show managed platform services")
	fmt.Fprintf(w, "  %-12s  %s\n", bold("version"), "Print version and build info")
	fmt.Fprintf(w, "  %-12s  %s\n", bold("help"), "Show help for a command")
	fmt.Fprintf(w, "\n%s\n\n", bold("GLOBAL FLAGS"))
	fmt.Fprintf(w, "  %-22s  %s\n", "--config <path>", "Platform config path (env: CLAWCTL_CONFIG)")
	fmt.Fprintf(w, "  %-22s  %s\n", "--json", "Output as JSON")
	fmt.Fprintf(w, "  %-22s  %s\n", "--dry-run", "Report what would change without writing")
	fmt.Fprintf(w, "  %-22s  %s\n", "--version, -V", "Print version and exit")
	fmt.Fprintf(w, "  %-22s  %s\n", "--help, -h", "Show help")
	fmt.Fprintf(w, "\n%s\n\n", bold("ENVIRONMENT VARIABLES"))
	fmt.Fprintf(w, "  %-22s  %s\n", "OPENCLAW_HOME", "Platform home directory (default: ~/.openclaw)")
	fmt.Fprintf(w, "  %-22s  %s\n", "CLAWCTL_CONFIG", "Platform config file path")
	fmt.Fprintf(w, "\n%s\n\n", bold("EXAMPLES"))
	fmt.Fprintf(w, "  %s\n", dim("# Full health check with auto-fix"))
	fmt.Fprintf(w, "  clawctl doctor --fix\n\n")
	fmt.Fprintf(w, "  %s\n", dim("# Security audit in SARIF for CI"))
	fmt.Fprintf(w, "  clawctl security --audit --format sarif --output audit.sarif\n\n")
	fmt.Fprintf(w, "  %s\n", dim("# Preview a hardening profile"))
	fmt.Fprintf(w, "  clawctl security --profile hardened --dry-run\n\n")
	fmt.Fprintf(w, "  %s\n", dim("# Point the gateway at another port"))
	fmt.Fprintf(w, "  clawctl config set gateway.port 19000\n\n")
	fmt.Fprintf(w, "  %s\n", dim("# Enable the memory plugin with its settings"))
	fmt.Fprintf(w, "  clawctl plugins enable memory --set apiKey=sk-... --set embeddingModel=text-embedding-3-small\n\n")
	fmt.Fprintf(w, "Run %s for detailed help on any command.\n\n", bold("clawctl help <command>"))
}

var helpTopics = map[string]string{
	"doctor": `Usage: clawctl doctor [flags]

Runs read-only health checks across config, services, connectivity,
storage, security hygiene, external tools, and logs. The read pass never
mutates anything; --fix runs a second pass that applies only safe, tagged
remediations (chmod, mkdir, service restart).

Flags:
  --fix            Apply safe auto-fixes after the read pass
  --dry-run        With --fix: log fixes without applying them
  --json           Emit the full report as JSON
  --watch          Re-run whenever the config file changes
  --config <path>  Platform config path`,

	"security": `Usage: clawctl security [flags]

Audits the platform config against a weighted rubric (DM policies, gateway
secret, file permissions, model auth, bind address, proxies, debug escape
hatches) and reports a score and letter grade. Exit code is 0 regardless of
findings; the score is the signal.

Flags:
  --audit              Run the audit (default action)
  --fix                Apply remediable findings after the audit
  --profile <name>     Apply a hardening profile: minimal, standard, hardened
  --dry-run            Report what --fix or --profile would change
  --format <fmt>       table, json, csv, or sarif
  --json               Shorthand for --format json
  --output <path>      Write output to a file
  --no-backup          Skip the pre-write snapshot when applying a profile
  --config <path>      Platform config path`,

	"config": `Usage: clawctl config <show|get|set|unset> [args] [flags]

Reads and writes the platform config with dot-separated key paths. Writes
preserve the file's dialect: a commented JSON5 config keeps its comments
and formatting on untouched lines.

  clawctl config show
  clawctl config get gateway.port
  clawctl config set gateway.port 19000
  clawctl config unset gateway.debug.disableDeviceAuth

Flags:
  --no-backup      Skip the pre-write snapshot
  --dry-run        Print the resulting value without writing
  --json           Output as JSON (show/get)
  --config <path>  Platform config path`,

	"configure": `Usage: clawctl configure <gateway|plugins|security> [flags]

Applies a settings bundle for one section of the config, creating the file
if needed. Section values come from flags; defaults fill the rest.

  clawctl configure gateway --port 18789 --bind loopback --token <secret>
  clawctl configure security --profile standard
  clawctl configure plugins --enable memory

Flags:
  --yes            Skip the confirmation summary
  --dry-run        Print the bundle without writing
  --config <path>  Platform config path`,

	"plugins": `Usage: clawctl plugins <list|enable|disable> [name] [flags]

Manages plugin entries in the platform config. Validation problems are
reported per field; nothing is written when validation fails.

  clawctl plugins list
  clawctl plugins enable memory --set apiKey=... --set embeddingModel=...
  clawctl plugins disable voice

Flags:
  --set key=value  Plugin config values (repeatable, enable only)
  --no-backup      Skip the pre-write snapshot
  --dry-run        Validate and print without writing
  --config <path>  Platform config path`,

	"backup": `Usage: clawctl backup <create|list|restore> [args]

Snapshots platform state as timestamped sibling copies. Restore snapshots
the current state first, so a bad restore is itself reversible.

  clawctl backup create            # snapshot the config file
  clawctl backup create <path>     # snapshot any file or directory
  clawctl backup list [path]
  clawctl backup restore <snapshot> [target]`,

	"status": `Usage: clawctl status [--json]

Shows the managed platform services (gateway, cron) and whether each is
running, via systemd on Linux or launchd on macOS.`,
}

func cmdHelp(topic string) {
	if text, ok := helpTopics[topic]; ok {
		fmt.Println(text)
		return
	}
	printUsage(os.Stdout)
}

package main

// ---------------------------------------------------------------------------
// helpers.go — TTY detection, color, error helpers, env-based config
// ---------------------------------------------------------------------------

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clawctl-project/clawctl/internal/configstore"
	"github.com/clawctl-project/clawctl/internal/platform"
	"github.com/clawctl-project/clawctl/internal/settings"
)

// ---------------------------------------------------------------------------
// TTY / color helpers
// ---------------------------------------------------------------------------

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY(os.Stderr)
}

func ansi(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return code + s + "\033[0m"
}

func red(s string) string    { return ansi("\033[91m", s) }
func yellow(s string) string { return ansi("\033[93m", s) }
func green(s string) string  { return ansi("\033[32m", s) }
func cyan(s string) string   { return ansi("\033[36m", s) }
func dim(s string) string    { return ansi("\033[90m", s) }
func bold(s string) string   { return ansi("\033[1m", s) }

// ---------------------------------------------------------------------------
// Error / warn helpers (always to stderr)
// ---------------------------------------------------------------------------

func errorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, red("error: ")+format+"\n", args...)
	os.Exit(1)
}

func warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, yellow("warn: ")+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Env-based configuration
//
// Environment variables:
//   CLAWCTL_CONFIG — platform config file path override
//   OPENCLAW_HOME  — platform home directory override
// ---------------------------------------------------------------------------

// envConfig returns the platform config path, preferring flag > env > default.
func envConfig(flagVal string) string {
	if flagVal != "" {
		return flagVal
	}
	return platform.ConfigPath()
}

// loadStore loads the platform config for a command. Parse failures are
// fatal for mutating commands; doctor handles them itself.
func loadStore(path string) *configstore.File {
	file, err := configstore.Load(path, false)
	if err != nil {
		if errors.Is(err, configstore.ErrNotFound) {
			errorf("%s does not exist — run 'clawctl configure gateway' first", path)
		}
		errorf("loading %s: %v", path, err)
	}
	return file
}

// loadSettings reads the tool's own preferences, never fatally.
func loadSettings() *settings.Settings {
	s, err := settings.Load(platform.SettingsPath())
	if err != nil {
		warnf("ignoring %s: %v", platform.SettingsPath(), err)
		return settings.Default()
	}
	return s
}

// newLogger builds clawctl's own console logger at the configured level.
func newLogger(s *settings.Settings) zerolog.Logger {
	level, err := zerolog.ParseLevel(s.LogLevel())
	if err != nil {
		level = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !colorEnabled()}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// fixBadge renders one fix outcome line: dry-run outcomes are labeled
// "would apply" so they are never mistaken for an applied change.
func fixBadge(success, dryRun bool, action string) (icon, line string) {
	switch {
	case dryRun:
		return cyan("→"), "would apply: " + action
	case !success:
		return red("✗"), action
	}
	return green("✓"), action
}

// ---------------------------------------------------------------------------
// hasFlag checks if any of the given flags appear in args.
// ---------------------------------------------------------------------------

func hasFlag(args []string, flags ...string) bool {
	for _, a := range args {
		for _, f := range flags {
			if a == f {
				return true
			}
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Suggest — typo correction for unknown commands
// ---------------------------------------------------------------------------

func suggest(input string) string {
	cmds := []string{"doctor", "security", "config", "configure", "plugins",
		"backup", "status", "version", "help"}
	input = strings.ToLower(input)
	for _, c := range cmds {
		if strings.HasPrefix(c, input) || strings.HasPrefix(input, c) {
			return c
		}
	}
	for _, c := range cmds {
		if len(c) == len(input) {
			diff := 0
			for i := range c {
				if c[i] != input[i] {
					diff++
				}
			}
			if diff <= 1 {
				return c
			}
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// parseValue converts a CLI string to the matching JSON value type.
// ---------------------------------------------------------------------------

func parseValue(s string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

// parseKV splits repeated --set key=value pairs into a nested object.
func parseKV(pairs []string) (map[string]any, error) {
	out := map[string]any{}
	for _, p := range pairs {
		key, val, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("bad --set %q, want key=value", p)
		}
		m := out
		parts := strings.Split(key, ".")
		for _, part := range parts[:len(parts)-1] {
			next, ok := m[part].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[part] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = parseValue(val)
	}
	return out, nil
}

// Package platform knows the on-disk layout of an OpenClaw installation.
// Pure path resolution — nothing here touches the filesystem.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// Home returns the OpenClaw state directory, honoring OPENCLAW_HOME.
func Home() string {
	if v := os.Getenv("OPENCLAW_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".openclaw"
	}
	return filepath.Join(home, ".openclaw")
}

// ConfigPath returns the platform config file path, honoring CLAWCTL_CONFIG.
func ConfigPath() string {
	if v := os.Getenv("CLAWCTL_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(Home(), "openclaw.json")
}

// SettingsPath returns clawctl's own preferences file.
func SettingsPath() string {
	return filepath.Join(Home(), "clawctl.yaml")
}

func LogDir() string        { return filepath.Join(Home(), "logs") }
func ErrorLogPath() string  { return filepath.Join(LogDir(), "error.log") }
func WorkspaceDir() string  { return filepath.Join(Home(), "workspace") }
func DatastorePath() string { return filepath.Join(Home(), "memory", "main.sqlite") }
func VectorDir() string     { return filepath.Join(Home(), "memory", "vectors") }
func CronPath() string      { return filepath.Join(Home(), "cron", "jobs.json") }
func EnvPath() string       { return filepath.Join(Home(), ".env") }
func CredentialDir() string { return filepath.Join(Home(), "credentials") }

// DefaultGatewayPort is the port the gateway listens on unless configured.
const DefaultGatewayPort = 18789

// GatewayHealthURL returns the local gateway health endpoint for a port.
func GatewayHealthURL(port int) string {
	if port <= 0 {
		port = DefaultGatewayPort
	}
	return fmt.Sprintf("http://127.0.0.1:%d/health", port)
}

// ServiceLabels are the managed service units clawctl knows how to probe.
// The gateway is the only required one; the rest are optional companions.
func ServiceLabels() []string {
	return []string{"openclaw-gateway", "openclaw-cron"}
}

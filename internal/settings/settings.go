// Package settings holds clawctl's own preferences, kept separate from the
// platform config the tool mutates. Stored as YAML at
// ~/.openclaw/clawctl.yaml.
package settings

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the entire clawctl tool configuration.
type Settings struct {
	Output  OutputSettings  `yaml:"output"`
	Doctor  DoctorSettings  `yaml:"doctor"`
	Backup  BackupSettings  `yaml:"backup"`
	Logging LoggingSettings `yaml:"logging"`
}

// OutputSettings control default rendering.
type OutputSettings struct {
	Format string `yaml:"format"` // "table", "json", "csv", or "sarif"
	Color  string `yaml:"color"`  // "auto", "always", or "never"
}

// DoctorSettings tune the diagnostic sweep.
type DoctorSettings struct {
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	ExternalURL   string        `yaml:"external_url"`
	RequiredTools []string      `yaml:"required_tools"`
	OptionalTools []string      `yaml:"optional_tools"`
}

// BackupSettings control snapshot behavior for mutating commands.
type BackupSettings struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingSettings control clawctl's own diagnostics, not the platform's.
type LoggingSettings struct {
	Level string `yaml:"level"`
}

// Default returns Settings with sane defaults so a missing file works out
// of the box.
func Default() *Settings {
	return &Settings{
		Output: OutputSettings{
			Format: "table",
			Color:  "auto",
		},
		Doctor: DoctorSettings{
			HTTPTimeout:   3 * time.Second,
			ExternalURL:   "https://api.github.com",
			RequiredTools: []string{"node", "git"},
			OptionalTools: []string{"docker", "ffmpeg"},
		},
		Backup: BackupSettings{
			Enabled: true,
		},
		Logging: LoggingSettings{
			Level: "warn",
		},
	}
}

// Load reads settings from a YAML file, falling back to defaults when the
// file is absent.
func Load(path string) (*Settings, error) {
	s := Default()

	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}
	return s, nil
}

// Save writes the settings to a YAML file.
func Save(s *Settings, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// LogLevel returns the normalized log level string.
func (s *Settings) LogLevel() string {
	return strings.ToLower(s.Logging.Level)
}

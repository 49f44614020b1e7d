// Package plugins manages the optional feature plugins under the
// plugins.entries config sub-tree: which are enabled, whether a candidate
// configuration is complete, and merging new settings without clobbering
// what the user already customized.
package plugins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clawctl-project/clawctl/internal/configstore"
)

// Descriptor declares what a plugin needs before it counts as validly
// enabled. Adding a plugin is a data entry here, not new code.
type Descriptor struct {
	Description    string
	RequiredFields []string
	Slot           string
}

// Registry is the fixed set of known plugins.
var Registry = map[string]Descriptor{
	"memory": {
		Description:    "embedding-backed long-term memory",
		RequiredFields: []string{"apiKey", "embeddingModel"},
		Slot:           "memory",
	},
	"tasks": {
		Description:    "background task execution",
		RequiredFields: []string{"provider", "model"},
	},
	"browser": {
		Description:    "headless browser control",
		RequiredFields: []string{"executablePath"},
	},
	"voice": {
		Description:    "speech synthesis and transcription",
		RequiredFields: []string{"apiKey", "voice"},
	},
}

// Names returns the registry keys in stable order.
func Names() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry is one plugin's state inside plugins.entries.
type Entry struct {
	Enabled bool
	Config  map[string]any
}

// Enabled returns the plugins with enabled == true, keyed by name. An absent
// or malformed sub-tree yields an empty map.
func Enabled(doc configstore.Document) map[string]Entry {
	out := map[string]Entry{}
	entries := doc.GetMap("plugins.entries")
	for name, raw := range entries {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if m["enabled"] != true {
			continue
		}
		cfg, _ := m["config"].(map[string]any)
		out[name] = Entry{Enabled: true, Config: cfg}
	}
	return out
}

// ValidationResult reports missing required fields as data. Callers decide
// whether to abort; nothing here throws.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validate checks a candidate config against the plugin's required fields.
// Each missing or empty field contributes one error. Unknown plugin names
// have no required fields and validate clean.
func Validate(name string, cfg map[string]any) ValidationResult {
	desc, ok := Registry[name]
	if !ok {
		return ValidationResult{Valid: true}
	}

	res := ValidationResult{Valid: true}
	d := configstore.Document(cfg)
	for _, field := range desc.RequiredFields {
		v, ok := d.Get(field)
		if !ok || isEmpty(v) {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: required field %q is missing or empty", name, field))
		}
	}
	res.Valid = len(res.Errors) == 0
	return res
}

func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// Enable marks the plugin enabled, deep-merging cfg over any existing config
// so fields the caller didn't supply survive. On conflict the candidate
// value wins. If slot is non-empty the
// plugin claims that named role, silently displacing a previous occupant.
func Enable(doc configstore.Document, name string, cfg map[string]any, slot string) {
	base := "plugins.entries." + name
	if cfg == nil {
		cfg = map[string]any{}
	}
	doc.Merge(base+".config", cfg)
	doc.Set(base+".enabled", true)
	if slot != "" {
		doc.Set("plugins.slots."+slot, name)
	}
}

// Disable flips the enabled flag, keeping the plugin's config so a later
// re-enable starts where the user left off.
func Disable(doc configstore.Document, name string) {
	entries := doc.GetMap("plugins.entries")
	if _, ok := entries[name]; !ok {
		return
	}
	doc.Set("plugins.entries."+name+".enabled", false)
}

package plugins

import (
	"reflect"
	"testing"

	"github.com/clawctl-project/clawctl/internal/configstore"
)

// ─── Enabled ────────────────────────────────────────────────────────────────

func TestEnabled_EmptyDocument(t *testing.T) {
	if got := Enabled(configstore.Document{}); len(got) != 0 {
		t.Errorf("Enabled on empty doc = %v, want empty", got)
	}
}

func TestEnabled_FiltersDisabled(t *testing.T) {
	doc := configstore.Document{}
	Enable(doc, "memory", map[string]any{"apiKey": "k"}, "")
	Enable(doc, "tasks", map[string]any{"provider": "anthropic"}, "")
	Disable(doc, "tasks")

	got := Enabled(doc)
	if len(got) != 1 {
		t.Fatalf("Enabled = %v, want only memory", got)
	}
	if _, ok := got["memory"]; !ok {
		t.Error("memory should be enabled")
	}
}

// ─── Validate ───────────────────────────────────────────────────────────────

func TestValidate_MissingFields(t *testing.T) {
	res := Validate("memory", map[string]any{"apiKey": "k"})
	if res.Valid {
		t.Error("memory without embeddingModel should be invalid")
	}
	if len(res.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", res.Errors)
	}
}

func TestValidate_EmptyStringCountsAsMissing(t *testing.T) {
	res := Validate("tasks", map[string]any{"provider": "  ", "model": "claude-sonnet-4"})
	if res.Valid {
		t.Error("whitespace-only provider should be invalid")
	}
}

func TestValidate_Complete(t *testing.T) {
	res := Validate("memory", map[string]any{"apiKey": "k", "embeddingModel": "voyage-3"})
	if !res.Valid || len(res.Errors) != 0 {
		t.Errorf("complete config should validate, got %v", res.Errors)
	}
}

func TestValidate_UnknownPluginHasNoRequirements(t *testing.T) {
	if res := Validate("sideband", nil); !res.Valid {
		t.Errorf("unknown plugin should validate clean, got %v", res.Errors)
	}
}

// ─── Enable ─────────────────────────────────────────────────────────────────

func TestEnable_TwiceMergesPartialConfigs(t *testing.T) {
	doc := configstore.Document{}
	Enable(doc, "memory", map[string]any{"apiKey": "k1", "model": "m1"}, "")
	Enable(doc, "memory", map[string]any{"model": "m2"}, "")

	if got := doc.GetOr("plugins.entries.memory.enabled", nil); got != true {
		t.Errorf("enabled = %v, want true", got)
	}
	cfg := doc.GetMap("plugins.entries.memory.config")
	want := map[string]any{"apiKey": "k1", "model": "m2"}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("config = %v, want %v", cfg, want)
	}
}

func TestEnable_DoesNotDisturbOtherPlugins(t *testing.T) {
	doc := configstore.Document{}
	Enable(doc, "tasks", map[string]any{"provider": "anthropic", "model": "claude-sonnet-4"}, "")
	Enable(doc, "memory", map[string]any{"apiKey": "k"}, "")

	if got := doc.GetOr("plugins.entries.tasks.config.provider", nil); got != "anthropic" {
		t.Errorf("sibling plugin config disturbed: %v", got)
	}
}

func TestEnable_SlotDisplacesPreviousOccupant(t *testing.T) {
	doc := configstore.Document{}
	Enable(doc, "memory", map[string]any{"apiKey": "k"}, "memory")
	Enable(doc, "voice", map[string]any{"apiKey": "k"}, "memory")

	if got := doc.GetOr("plugins.slots.memory", nil); got != "voice" {
		t.Errorf("slot = %v, want voice", got)
	}
}

func TestDisable_KeepsConfig(t *testing.T) {
	doc := configstore.Document{}
	Enable(doc, "memory", map[string]any{"apiKey": "k"}, "")
	Disable(doc, "memory")

	if got := doc.GetOr("plugins.entries.memory.enabled", nil); got != false {
		t.Errorf("enabled = %v, want false", got)
	}
	if got := doc.GetOr("plugins.entries.memory.config.apiKey", nil); got != "k" {
		t.Error("Disable dropped the stored config")
	}
}

func TestDisable_UnknownIsNoop(t *testing.T) {
	doc := configstore.Document{}
	Disable(doc, "memory")
	if _, ok := doc.Get("plugins.entries.memory"); ok {
		t.Error("Disable should not create entries")
	}
}

package configstore

import (
	"reflect"
	"testing"
)

// ─── Get / Set ──────────────────────────────────────────────────────────────

func TestGet_NestedPath(t *testing.T) {
	d := Document{"gateway": map[string]any{"auth": map[string]any{"token": "s3cret"}}}

	v, ok := d.Get("gateway.auth.token")
	if !ok {
		t.Fatal("expected gateway.auth.token to resolve")
	}
	if v != "s3cret" {
		t.Errorf("Get = %v, want s3cret", v)
	}
}

func TestGet_MissingSegment(t *testing.T) {
	d := Document{"gateway": map[string]any{}}
	if _, ok := d.Get("gateway.auth.token"); ok {
		t.Error("expected missing path to not resolve")
	}
	if got := d.GetOr("gateway.auth.token", "fallback"); got != "fallback" {
		t.Errorf("GetOr = %v, want fallback", got)
	}
}

func TestGet_NonObjectIntermediate(t *testing.T) {
	d := Document{"gateway": "not-an-object"}
	if _, ok := d.Get("gateway.auth"); ok {
		t.Error("traversal through a string should fail")
	}
}

func TestSet_CreatesIntermediates(t *testing.T) {
	d := Document{}
	d.Set("plugins.entries.memory.enabled", true)

	v, ok := d.Get("plugins.entries.memory.enabled")
	if !ok || v != true {
		t.Errorf("Set did not create intermediate objects: %v", d)
	}
}

func TestSet_ReplacesNonObjectIntermediate(t *testing.T) {
	d := Document{"gateway": 42}
	d.Set("gateway.port", 18789)

	v, ok := d.Get("gateway.port")
	if !ok || v != 18789 {
		t.Errorf("expected non-object intermediate to be replaced, got %v", d)
	}
}

// ─── Merge ──────────────────────────────────────────────────────────────────

func TestMerge_PreservesSiblings(t *testing.T) {
	d := Document{}
	d.Set("plugins.entries.foo.config", map[string]any{"a": 1, "b": 2})
	d.Merge("plugins.entries.foo.config", map[string]any{"b": 3, "c": 4})

	got := d.GetMap("plugins.entries.foo.config")
	want := map[string]any{"a": 1, "b": 3, "c": 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}
}

func TestMerge_NestedObjectsRecurse(t *testing.T) {
	d := Document{}
	d.Set("security", map[string]any{"rateLimit": map[string]any{"enabled": true, "rps": 10}})
	d.Merge("security", map[string]any{"rateLimit": map[string]any{"rps": 50}})

	rl := d.GetMap("security.rateLimit")
	if rl["enabled"] != true {
		t.Error("nested merge dropped sibling key enabled")
	}
	if rl["rps"] != 50 {
		t.Errorf("rps = %v, want 50", rl["rps"])
	}
}

func TestMerge_ArraysReplacedWholesale(t *testing.T) {
	d := Document{}
	d.Set("gateway.trustedProxies", []any{"10.0.0.1", "10.0.0.2"})
	d.Merge("gateway", map[string]any{"trustedProxies": []any{"192.168.1.1"}})

	v, _ := d.Get("gateway.trustedProxies")
	if !reflect.DeepEqual(v, []any{"192.168.1.1"}) {
		t.Errorf("array should be replaced wholesale, got %v", v)
	}
}

func TestMerge_MissingTargetTreatedAsEmpty(t *testing.T) {
	d := Document{}
	d.Merge("plugins.entries.memory.config", map[string]any{"apiKey": "k"})

	if got := d.GetOr("plugins.entries.memory.config.apiKey", nil); got != "k" {
		t.Errorf("merge into absent path = %v, want k", got)
	}
}

// ─── PushUnique / Remove ────────────────────────────────────────────────────

func TestPushUnique(t *testing.T) {
	d := Document{}
	d.PushUnique("gateway.trustedProxies", "10.0.0.1")
	d.PushUnique("gateway.trustedProxies", "10.0.0.2")
	d.PushUnique("gateway.trustedProxies", "10.0.0.1")

	v, _ := d.Get("gateway.trustedProxies")
	if !reflect.DeepEqual(v, []any{"10.0.0.1", "10.0.0.2"}) {
		t.Errorf("PushUnique = %v", v)
	}
}

func TestRemove(t *testing.T) {
	d := Document{"gateway": map[string]any{"auth": map[string]any{"token": "x"}, "port": 1}}
	d.Remove("gateway.auth.token")

	if _, ok := d.Get("gateway.auth.token"); ok {
		t.Error("Remove left the key in place")
	}
	if _, ok := d.Get("gateway.port"); !ok {
		t.Error("Remove disturbed a sibling key")
	}
}

func TestRemove_NonObjectParentIsNoop(t *testing.T) {
	d := Document{"gateway": "scalar"}
	d.Remove("gateway.auth.token")
	if d["gateway"] != "scalar" {
		t.Errorf("Remove mutated a non-object parent: %v", d)
	}
}

package remedy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// ─── Apply ──────────────────────────────────────────────────────────────────

func TestApply_Chmod(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := &Executor{Log: zerolog.Nop()}
	if err := e.Apply(context.Background(), Chmod{Path: path, Mode: 0o600}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %o, want 600", info.Mode().Perm())
	}
}

func TestApply_MkdirP(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	e := &Executor{Log: zerolog.Nop()}
	if err := e.Apply(context.Background(), MkdirP{Path: dir}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

// ─── Dry-run ────────────────────────────────────────────────────────────────

func TestApply_DryRunHasNoSideEffects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openclaw.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "never")

	e := &Executor{DryRun: true, Log: zerolog.Nop()}
	if err := e.Apply(context.Background(), Chmod{Path: path, Mode: 0o600}); err != nil {
		t.Fatalf("dry-run chmod: %v", err)
	}
	if err := e.Apply(context.Background(), MkdirP{Path: dir}); err != nil {
		t.Fatalf("dry-run mkdir: %v", err)
	}

	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0o644 {
		t.Errorf("dry-run changed mode to %o", info.Mode().Perm())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("dry-run created a directory")
	}
}

func TestApply_ServiceRestartWithoutManager(t *testing.T) {
	e := &Executor{Log: zerolog.Nop()}
	if err := e.Apply(context.Background(), ServiceRestart{Label: "openclaw-gateway"}); err == nil {
		t.Error("expected an error without a service manager")
	}
}

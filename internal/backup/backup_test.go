package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testManager(stamp time.Time) *Manager {
	return &Manager{Log: zerolog.Nop(), now: func() time.Time { return stamp }}
}

func TestCreate_File(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "openclaw.json")
	if err := os.WriteFile(src, []byte(`{"a": 1}`), 0o600); err != nil {
		t.Fatal(err)
	}

	stamp := time.UnixMilli(1700000000000)
	snap, err := testManager(stamp).Create(src)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Path != src+".backup.1700000000000" {
		t.Errorf("snapshot path = %s", snap.Path)
	}
	if snap.ID == "" {
		t.Error("snapshot has no id")
	}
	got, err := os.ReadFile(snap.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"a": 1}` {
		t.Errorf("snapshot content = %q", got)
	}
}

func TestCreate_PreservesMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "secret.json")
	if err := os.WriteFile(src, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	snap, err := New(zerolog.Nop()).Create(src)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(snap.Path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("snapshot mode = %o, want 600", info.Mode().Perm())
	}
}

func TestCreate_Directory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "vectors")
	if err := os.MkdirAll(filepath.Join(src, "shard0"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "shard0", "index.bin"), []byte("abc"), 0o600); err != nil {
		t.Fatal(err)
	}

	snap, err := testManager(time.UnixMilli(42)).Create(src)
	if err != nil {
		t.Fatal(err)
	}
	if !snap.IsDir {
		t.Error("directory snapshot not flagged as dir")
	}
	got, err := os.ReadFile(filepath.Join(snap.Path, "shard0", "index.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Errorf("nested file content = %q", got)
	}
	if snap.Size != 3 {
		t.Errorf("size = %d, want 3", snap.Size)
	}
}

func TestCreate_MissingSource(t *testing.T) {
	if _, err := New(zerolog.Nop()).Create(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestList_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "openclaw.json")
	if err := os.WriteFile(src, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, ms := range []int64{1000, 3000, 2000} {
		if _, err := testManager(time.UnixMilli(ms)).Create(src); err != nil {
			t.Fatal(err)
		}
	}
	// Noise that must not be picked up.
	if err := os.WriteFile(src+".backup.notanumber", []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	snaps, err := New(zerolog.Nop()).List(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}
	for i, want := range []int64{3000, 2000, 1000} {
		if got := snaps[i].CreatedAt.UnixMilli(); got != want {
			t.Errorf("snaps[%d] at %d, want %d", i, got, want)
		}
	}
}

func TestRestore_SnapshotsCurrentFirst(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "openclaw.json")
	if err := os.WriteFile(src, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	m := testManager(time.UnixMilli(1000))
	snap, err := m.Create(src)
	if err != nil {
		t.Fatal(err)
	}

	// Mutate the live file, then restore.
	if err := os.WriteFile(src, []byte("broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	m.now = func() time.Time { return time.UnixMilli(2000) }
	if err := m.Restore(snap.Path, src); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "old" {
		t.Errorf("restored content = %q", got)
	}
	// The broken state was itself snapshotted before being overwritten.
	pre, err := os.ReadFile(src + ".backup.2000")
	if err != nil {
		t.Fatalf("pre-restore snapshot missing: %v", err)
	}
	if string(pre) != "broken" {
		t.Errorf("pre-restore snapshot content = %q", pre)
	}
	// The original snapshot survives the restore.
	if _, err := os.Stat(snap.Path); err != nil {
		t.Error("snapshot was removed by restore")
	}
}

func TestRestore_Directory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "vectors")
	if err := os.MkdirAll(src, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "a"), []byte("1"), 0o600); err != nil {
		t.Fatal(err)
	}

	m := testManager(time.UnixMilli(1000))
	snap, err := m.Create(src)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(src, "junk"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	m.now = func() time.Time { return time.UnixMilli(2000) }
	if err := m.Restore(snap.Path, src); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(src, "junk")); !os.IsNotExist(err) {
		t.Error("restore left stale file behind")
	}
	if _, err := os.Stat(filepath.Join(src, "a")); err != nil {
		t.Error("restored file missing")
	}
}

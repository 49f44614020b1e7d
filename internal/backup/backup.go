// Package backup snapshots and restores platform state files. Snapshots are
// write-once sibling copies of the source; nothing here ever deletes one.
package backup

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Snapshot is one recorded backup.
type Snapshot struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
	IsDir     bool      `json:"is_dir"`
}

// Manager creates and restores snapshots next to their source.
type Manager struct {
	Log zerolog.Logger

	// now is swappable so tests get stable snapshot names.
	now func() time.Time
}

func New(log zerolog.Logger) *Manager {
	return &Manager{Log: log, now: time.Now}
}

// Create snapshots src as a sibling named <src>.backup.<unix-ms>. Files are
// copied byte for byte; directories are copied recursively. The source is
// never modified.
func (m *Manager) Create(src string) (Snapshot, error) {
	info, err := os.Stat(src)
	if err != nil {
		return Snapshot{}, fmt.Errorf("backup source: %w", err)
	}

	now := m.clock()
	dst := fmt.Sprintf("%s.backup.%d", src, now.UnixMilli())

	if info.IsDir() {
		if err := copyTree(src, dst); err != nil {
			return Snapshot{}, fmt.Errorf("backup %s: %w", src, err)
		}
	} else {
		if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
			return Snapshot{}, fmt.Errorf("backup %s: %w", src, err)
		}
	}

	snap := Snapshot{
		ID:        uuid.NewString(),
		Source:    src,
		Path:      dst,
		CreatedAt: now.UTC(),
		Size:      sizeOf(dst),
		IsDir:     info.IsDir(),
	}
	m.Log.Info().Str("source", src).Str("snapshot", dst).Msg("snapshot created")
	return snap, nil
}

// List returns the snapshots of src, newest first. Snapshots are recognized
// purely by the sibling naming convention, so snapshots made by earlier
// versions of the tool still show up.
func (m *Manager) List(src string) ([]Snapshot, error) {
	matches, err := filepath.Glob(src + ".backup.*")
	if err != nil {
		return nil, err
	}

	var snaps []Snapshot
	prefix := src + ".backup."
	for _, path := range matches {
		ms, err := strconv.ParseInt(strings.TrimPrefix(path, prefix), 10, 64)
		if err != nil {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{
			Source:    src,
			Path:      path,
			CreatedAt: time.UnixMilli(ms).UTC(),
			Size:      sizeOf(path),
			IsDir:     info.IsDir(),
		})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].CreatedAt.After(snaps[j].CreatedAt) })
	return snaps, nil
}

// Restore copies a snapshot back over dst. The snapshot itself is left in
// place; the current dst, if any, is snapshotted first so a bad restore is
// itself reversible.
func (m *Manager) Restore(snapshot, dst string) error {
	info, err := os.Stat(snapshot)
	if err != nil {
		return fmt.Errorf("restore source: %w", err)
	}

	if _, err := os.Stat(dst); err == nil {
		if _, err := m.Create(dst); err != nil {
			return fmt.Errorf("pre-restore snapshot: %w", err)
		}
	}

	if info.IsDir() {
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
		if err := copyTree(snapshot, dst); err != nil {
			return fmt.Errorf("restore %s: %w", dst, err)
		}
	} else {
		if err := copyFile(snapshot, dst, info.Mode().Perm()); err != nil {
			return fmt.Errorf("restore %s: %w", dst, err)
		}
	}
	m.Log.Info().Str("snapshot", snapshot).Str("target", dst).Msg("snapshot restored")
	return nil
}

func (m *Manager) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFileOverwrite(path, target, info.Mode().Perm())
	})
}

func copyFileOverwrite(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func sizeOf(path string) int64 {
	var total int64
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}

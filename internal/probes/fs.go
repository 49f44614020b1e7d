package probes

import (
	"os"
)

// Mode returns the permission bits of path.
func Mode(path string) (os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}

// WorldAccessible reports whether group or other bits are set — the
// "mode must be ≤ 0700" rule used by both the auditor and doctor.
func WorldAccessible(mode os.FileMode) bool {
	return mode&0o077 != 0
}

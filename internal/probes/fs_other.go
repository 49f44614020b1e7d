//go:build !unix

package probes

// FreeDisk is unsupported off unix; callers skip the disk check.
func FreeDisk(path string) (bytes uint64, ok bool) {
	return 0, false
}

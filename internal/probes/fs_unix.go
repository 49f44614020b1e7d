//go:build unix

package probes

import "golang.org/x/sys/unix"

// FreeDisk returns the bytes available to unprivileged callers on the
// filesystem holding path. ok is false when the host cannot answer.
func FreeDisk(path string) (bytes uint64, ok bool) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, false
	}
	return st.Bavail * uint64(st.Bsize), true
}

package probes

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// CommandExists reports whether name resolves on PATH.
func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Version runs `name --version` and returns the first output line, or ""
// when the tool is missing or does not answer within the timeout.
func Version(ctx context.Context, name string) string {
	if !CommandExists(name) {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, name, "--version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line)
}

// Reachable issues a GET against url and returns the status code. Timeouts
// and transport failures come back as an error for the caller to downgrade.
func Reachable(ctx context.Context, url string, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := newGet(ctx, url)
	if err != nil {
		return 0, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

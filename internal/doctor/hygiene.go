package doctor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/clawctl-project/clawctl/internal/probes"
	"github.com/clawctl-project/clawctl/internal/remedy"
)

// ─── security / credentials ─────────────────────────────────────────────────

// minGatewaySecretLen mirrors the auditor's full-credit threshold.
const minGatewaySecretLen = 24

func (c *Checker) checkCredentials(ctx context.Context) []Result {
	var results []Result
	add := func(r Result) {
		r.Category = CatSecurity
		results = append(results, r)
	}

	doc := c.doc()
	if doc != nil {
		if profiles := doc.GetMap("auth.profiles"); len(profiles) > 0 {
			add(Result{Name: "auth_profiles", Status: StatusPass,
				Message: fmt.Sprintf("%d auth profile(s) configured", len(profiles))})
		} else {
			add(Result{Name: "auth_profiles", Status: StatusWarn,
				Message: "no model auth profiles configured"})
		}

		secret, _ := doc.GetString("gateway.auth.token")
		if secret == "" {
			secret, _ = doc.GetString("gateway.auth.password")
		}
		switch {
		case secret == "":
			add(Result{Name: "gateway_secret", Status: StatusWarn,
				Message: "gateway has no auth secret", Fix: "clawctl configure gateway"})
		case len(secret) < minGatewaySecretLen:
			add(Result{Name: "gateway_secret", Status: StatusWarn,
				Message: fmt.Sprintf("gateway secret is %d chars; %d+ recommended", len(secret), minGatewaySecretLen)})
		default:
			add(Result{Name: "gateway_secret", Status: StatusPass, Message: "gateway secret length ok"})
		}
	}

	if entries, err := os.ReadDir(c.Paths.Credentials); err == nil {
		add(Result{Name: "credential_files", Status: StatusPass,
			Message: fmt.Sprintf("%d credential file(s)", len(entries))})
	} else {
		add(Result{Name: "credential_files", Status: StatusPass, Message: "no credential directory"})
	}

	if runtime.GOOS != "windows" {
		add(c.permCheck("config_permissions", c.ConfigPath, 0o600))
		if _, err := os.Stat(c.Paths.Env); err == nil {
			add(c.permCheck("env_permissions", c.Paths.Env, 0o600))
		}
	}

	return results
}

func (c *Checker) permCheck(name, path string, want os.FileMode) Result {
	mode, err := probes.Mode(path)
	if err != nil {
		return Result{Name: name, Status: StatusWarn, Message: fmt.Sprintf("cannot stat %s: %v", path, err)}
	}
	if probes.WorldAccessible(mode) {
		return Result{Name: name, Status: StatusFail,
			Message: fmt.Sprintf("%s has mode %o — readable beyond the owner", path, mode),
			Fix:     fmt.Sprintf("chmod %o %s", want, path),
			Remedy:  remedy.Chmod{Path: path, Mode: want}}
	}
	return Result{Name: name, Status: StatusPass, Message: fmt.Sprintf("%s mode %o", path, mode)}
}

// ─── tools ──────────────────────────────────────────────────────────────────

func (c *Checker) checkTools(ctx context.Context) []Result {
	var results []Result
	for _, name := range c.RequiredTools {
		if c.CommandExists(name) {
			msg := name + " found"
			if ver := probes.Version(ctx, name); ver != "" {
				msg = name + ": " + ver
			}
			results = append(results, Result{Name: "tool_" + name, Category: CatTools,
				Status: StatusPass, Message: msg})
		} else {
			results = append(results, Result{Name: "tool_" + name, Category: CatTools,
				Status: StatusFail, Message: name + " not found in PATH",
				Fix: "install " + name})
		}
	}
	for _, name := range c.OptionalTools {
		if c.CommandExists(name) {
			results = append(results, Result{Name: "tool_" + name, Category: CatTools,
				Status: StatusPass, Message: name + " found"})
		} else {
			results = append(results, Result{Name: "tool_" + name, Category: CatTools,
				Status: StatusWarn, Message: name + " not found (optional)"})
		}
	}
	return results
}

// ─── logs ───────────────────────────────────────────────────────────────────

// maxErrorLogSize is the rotation threshold for the error log.
const maxErrorLogSize = 50 << 20

func (c *Checker) checkLogs(ctx context.Context) []Result {
	info, err := os.Stat(c.Paths.ErrorLog)
	if err != nil {
		return []Result{{Name: "error_log", Category: CatLogs, Status: StatusPass,
			Message: "no error log"}}
	}

	if info.Size() > maxErrorLogSize {
		return []Result{{Name: "error_log", Category: CatLogs, Status: StatusWarn,
			Message: fmt.Sprintf("error log is %.1f MB — rotate it", float64(info.Size())/(1<<20)),
			Fix:     "truncate or rotate " + c.Paths.ErrorLog}}
	}

	last, err := lastLine(c.Paths.ErrorLog)
	if err != nil {
		return []Result{{Name: "error_log", Category: CatLogs, Status: StatusWarn,
			Message: fmt.Sprintf("cannot read %s: %v", c.Paths.ErrorLog, err)}}
	}
	lower := strings.ToLower(last)
	if strings.Contains(lower, "error") || strings.Contains(lower, "fatal") {
		return []Result{{Name: "error_log", Category: CatLogs, Status: StatusWarn,
			Message: "recent errors in log: " + truncate(last, 120)}}
	}
	return []Result{{Name: "error_log", Category: CatLogs, Status: StatusPass,
		Message: "no recent errors"}}
}

// lastLine reads only the final 4 KiB of the file.
func lastLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	const tail = 4096
	offset := info.Size() - tail
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return "", err
	}
	buf, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	lines := bytes.Split(bytes.TrimRight(buf, "\n"), []byte("\n"))
	if len(lines) == 0 {
		return "", nil
	}
	return string(lines[len(lines)-1]), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// Package probes holds the read-only collaborators the diagnostic engines
// run against: OS service state, installed tools, filesystem bits, and HTTP
// reachability. Every probe carries a short timeout and returns degraded
// data instead of hanging.
package probes

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

func currentUID() string { return strconv.Itoa(os.Getuid()) }

// ServiceStatus is the live state of one managed service.
type ServiceStatus struct {
	Label   string
	Running bool
	PID     int
	Detail  string
}

// ServiceManager is the service lifecycle collaborator. Implementations
// report "not found" as a non-running status, not an error; errors are
// reserved for the service manager itself being unusable.
type ServiceManager interface {
	Discover(ctx context.Context) ([]string, error)
	Status(ctx context.Context, label string) (ServiceStatus, error)
	Start(ctx context.Context, label string) error
	Stop(ctx context.Context, label string) error
	Restart(ctx context.Context, label string) error
}

const execTimeout = 5 * time.Second

// SystemManager drives the host's native service manager (systemd user units
// on Linux, launchd on macOS) through its CLI.
type SystemManager struct {
	// Labels to probe during Discover. Defaults to the platform units.
	Labels []string
}

func (s *SystemManager) Discover(ctx context.Context) ([]string, error) {
	found := make([]string, 0, len(s.Labels))
	for _, label := range s.Labels {
		st, err := s.Status(ctx, label)
		if err != nil {
			return found, err
		}
		if st.Detail != "not installed" {
			found = append(found, label)
		}
	}
	return found, nil
}

func (s *SystemManager) Status(ctx context.Context, label string) (ServiceStatus, error) {
	switch runtime.GOOS {
	case "linux":
		return s.systemdStatus(ctx, label)
	case "darwin":
		return s.launchdStatus(ctx, label)
	default:
		return ServiceStatus{Label: label, Detail: "no service manager on " + runtime.GOOS}, nil
	}
}

func (s *SystemManager) Start(ctx context.Context, label string) error {
	return s.control(ctx, "start", label)
}

func (s *SystemManager) Stop(ctx context.Context, label string) error {
	return s.control(ctx, "stop", label)
}

func (s *SystemManager) Restart(ctx context.Context, label string) error {
	return s.control(ctx, "restart", label)
}

func (s *SystemManager) control(ctx context.Context, verb, label string) error {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()
	switch runtime.GOOS {
	case "linux":
		out, err := exec.CommandContext(ctx, "systemctl", "--user", verb, label).CombinedOutput()
		if err != nil {
			return fmt.Errorf("systemctl %s %s: %v: %s", verb, label, err, strings.TrimSpace(string(out)))
		}
		return nil
	case "darwin":
		sub := map[string]string{"start": "kickstart", "restart": "kickstart -k", "stop": "kill SIGTERM"}[verb]
		args := append(strings.Fields(sub), "gui/"+currentUID()+"/"+label)
		out, err := exec.CommandContext(ctx, "launchctl", args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("launchctl %s %s: %v: %s", verb, label, err, strings.TrimSpace(string(out)))
		}
		return nil
	default:
		return fmt.Errorf("no service manager on %s", runtime.GOOS)
	}
}

func (s *SystemManager) systemdStatus(ctx context.Context, label string) (ServiceStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "systemctl", "--user", "show", label+".service",
		"--property=LoadState,ActiveState,MainPID").Output()
	if err != nil {
		// systemctl itself missing or broken; the unit being absent still
		// exits 0 with LoadState=not-found.
		return ServiceStatus{Label: label, Detail: "not installed"}, nil
	}

	st := ServiceStatus{Label: label}
	props := map[string]string{}
	for _, line := range strings.Split(string(out), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			props[k] = strings.TrimSpace(v)
		}
	}
	if props["LoadState"] != "loaded" {
		st.Detail = "not installed"
		return st, nil
	}
	st.Running = props["ActiveState"] == "active"
	st.PID, _ = strconv.Atoi(props["MainPID"])
	st.Detail = props["ActiveState"]
	return st, nil
}

func (s *SystemManager) launchdStatus(ctx context.Context, label string) (ServiceStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "launchctl", "print", "gui/"+currentUID()+"/"+label).Output()
	if err != nil {
		return ServiceStatus{Label: label, Detail: "not installed"}, nil
	}

	st := ServiceStatus{Label: label, Detail: "loaded"}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "state = "); ok {
			st.Running = v == "running"
			st.Detail = v
		}
		if v, ok := strings.CutPrefix(line, "pid = "); ok {
			st.PID, _ = strconv.Atoi(v)
		}
	}
	return st, nil
}

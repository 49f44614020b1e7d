package main

// ---------------------------------------------------------------------------
// cmd_status.go — show managed platform services
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/clawctl-project/clawctl/internal/platform"
	"github.com/clawctl-project/clawctl/internal/probes"
)

func cmdStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Parse(args)

	ctx := context.Background()
	services := &probes.SystemManager{Labels: platform.ServiceLabels()}

	labels, err := services.Discover(ctx)
	if err != nil {
		warnf("service discovery: %v", err)
	}

	statuses := make([]probes.ServiceStatus, 0, len(labels))
	for _, label := range labels {
		st, err := services.Status(ctx, label)
		if err != nil {
			st = probes.ServiceStatus{Label: label, Detail: err.Error()}
		}
		statuses = append(statuses, st)
	}

	if *jsonOut {
		data, _ := json.MarshalIndent(statuses, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("%s OpenClaw Services\n\n", bold("●"))
	if len(statuses) == 0 {
		fmt.Printf("  %s no managed services installed\n\n", dim("○"))
		return
	}
	t := NewTable(os.Stdout, "SERVICE", "STATE", "PID", "DETAIL")
	for _, st := range statuses {
		state := red("stopped")
		pid := ""
		if st.Running {
			state = green("running")
			pid = fmt.Sprintf("%d", st.PID)
		}
		t.AddRow(st.Label, state, pid, st.Detail)
	}
	t.Render()
}

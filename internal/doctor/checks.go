package doctor

import (
	"context"
	"fmt"

	"github.com/clawctl-project/clawctl/internal/platform"
	"github.com/clawctl-project/clawctl/internal/plugins"
	"github.com/clawctl-project/clawctl/internal/remedy"
)

// ─── config ─────────────────────────────────────────────────────────────────

func (c *Checker) checkConfig(ctx context.Context) []Result {
	var results []Result
	add := func(name string, status Status, msg, fix string) {
		results = append(results, Result{Name: name, Category: CatConfig, Status: status, Message: msg, Fix: fix})
	}

	switch {
	case c.LoadErr != nil:
		add("config_file", StatusFail, fmt.Sprintf("cannot load %s: %v", c.ConfigPath, c.LoadErr), "clawctl configure gateway")
		return results
	case c.File == nil || !c.File.Exists:
		add("config_file", StatusFail, fmt.Sprintf("%s does not exist", c.ConfigPath), "clawctl configure gateway")
		return results
	default:
		add("config_file", StatusPass, fmt.Sprintf("parsed %s (%s)", c.ConfigPath, c.File.Dialect), "")
	}

	doc := c.doc()

	if model, ok := doc.GetString("agents.defaults.model"); ok {
		add("default_model", StatusPass, "default agent model is "+model, "")
	} else {
		add("default_model", StatusWarn, "no default agent model configured",
			"clawctl config set agents.defaults.model <model-id>")
	}

	if enabled := plugins.Enabled(doc); len(enabled) > 0 {
		add("plugins", StatusPass, fmt.Sprintf("%d plugin(s) enabled", len(enabled)), "")
	} else {
		add("plugins", StatusWarn, "no plugins enabled", "clawctl plugins enable <name>")
	}

	if channels := doc.GetMap("channels"); len(channels) > 0 {
		add("channels", StatusPass, fmt.Sprintf("%d channel(s) configured", len(channels)), "")
	} else {
		add("channels", StatusWarn, "no channels configured — the agent is unreachable", "clawctl configure gateway")
	}

	_, hasPort := doc.Get("gateway.port")
	_, hasMode := doc.GetString("gateway.mode")
	if hasPort && hasMode {
		add("gateway_config", StatusPass, fmt.Sprintf("gateway on port %v (%v)",
			doc.GetOr("gateway.port", nil), doc.GetOr("gateway.mode", nil)), "")
	} else {
		add("gateway_config", StatusWarn, "gateway port/mode not fully configured", "clawctl configure gateway")
	}

	return results
}

// ─── services ───────────────────────────────────────────────────────────────

func (c *Checker) checkServices(ctx context.Context) []Result {
	var results []Result
	if c.Services == nil {
		return []Result{{Name: "services", Category: CatServices, Status: StatusWarn,
			Message: "no service manager available on this host"}}
	}

	labels, err := c.Services.Discover(ctx)
	if err != nil {
		return []Result{{Name: "services", Category: CatServices, Status: StatusWarn,
			Message: fmt.Sprintf("service discovery failed: %v", err)}}
	}
	if len(labels) == 0 {
		return []Result{{Name: "services", Category: CatServices, Status: StatusWarn,
			Message: "no managed platform services installed", Fix: "install the gateway service"}}
	}

	for _, label := range labels {
		st, err := c.Services.Status(ctx, label)
		switch {
		case err != nil:
			results = append(results, Result{Name: label, Category: CatServices, Status: StatusWarn,
				Message: fmt.Sprintf("status probe failed: %v", err)})
		case st.Running:
			results = append(results, Result{Name: label, Category: CatServices, Status: StatusPass,
				Message: fmt.Sprintf("running (pid %d)", st.PID)})
		default:
			results = append(results, Result{Name: label, Category: CatServices, Status: StatusFail,
				Message: fmt.Sprintf("not running (%s)", st.Detail),
				Fix:     "restart service " + label,
				Remedy:  remedy.ServiceRestart{Label: label}})
		}
	}
	return results
}

// ─── connectivity ───────────────────────────────────────────────────────────

func (c *Checker) checkConnectivity(ctx context.Context) []Result {
	var results []Result

	port := 0
	if doc := c.doc(); doc != nil {
		if v, ok := doc.Get("gateway.port"); ok {
			if f, ok := v.(float64); ok {
				port = int(f)
			}
		}
	}
	url := platform.GatewayHealthURL(port)
	status, err := c.Reachable(ctx, url, c.HTTPTimeout)
	switch {
	case err != nil:
		results = append(results, Result{Name: "gateway_http", Category: CatConnectivity, Status: StatusFail,
			Message: fmt.Sprintf("%s not reachable: %v", url, err),
			Fix:     "restart service openclaw-gateway",
			Remedy:  remedy.ServiceRestart{Label: "openclaw-gateway"}})
	case status >= 500:
		results = append(results, Result{Name: "gateway_http", Category: CatConnectivity, Status: StatusFail,
			Message: fmt.Sprintf("%s answered HTTP %d", url, status),
			Fix:     "restart service openclaw-gateway",
			Remedy:  remedy.ServiceRestart{Label: "openclaw-gateway"}})
	default:
		results = append(results, Result{Name: "gateway_http", Category: CatConnectivity, Status: StatusPass,
			Message: fmt.Sprintf("gateway answered HTTP %d", status)})
	}

	if _, err := c.Reachable(ctx, c.ExternalURL, c.HTTPTimeout); err != nil {
		results = append(results, Result{Name: "internet", Category: CatConnectivity, Status: StatusWarn,
			Message: fmt.Sprintf("no outbound reachability to %s: %v", c.ExternalURL, err)})
	} else {
		results = append(results, Result{Name: "internet", Category: CatConnectivity, Status: StatusPass,
			Message: "outbound internet reachable"})
	}

	return results
}

package security

import (
	"fmt"
	"sort"

	"github.com/clawctl-project/clawctl/internal/configstore"
)

// profileBundles are the canned settings merged into the security sub-tree.
var profileBundles = map[string]map[string]any{
	"minimal": {
		"pairingRequired":     false,
		"webhookVerification": false,
		"rateLimit":           map[string]any{"enabled": false},
		"keyRotationDays":     0,
		"auditLog":            false,
	},
	"standard": {
		"pairingRequired":     true,
		"webhookVerification": true,
		"rateLimit":           map[string]any{"enabled": true, "rps": 10},
		"keyRotationDays":     90,
		"auditLog":            true,
	},
	"hardened": {
		"pairingRequired":     true,
		"webhookVerification": true,
		"rateLimit":           map[string]any{"enabled": true, "rps": 5},
		"keyRotationDays":     30,
		"auditLog":            true,
	},
}

// ProfileNames lists the canned profiles in stable order.
func ProfileNames() []string {
	names := make([]string, 0, len(profileBundles))
	for name := range profileBundles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyProfile merges the named profile's bundle into the security sub-tree
// and adjusts channel DM policies. An explicit existing policy is never
// clobbered: standard/hardened only promote unset or "open" policies to
// "pairing", and minimal only fills unset policies with "open". The caller
// follows up with a chmod 600 of the config file on unix hosts.
func ApplyProfile(doc configstore.Document, name string) error {
	bundle, ok := profileBundles[name]
	if !ok {
		return fmt.Errorf("unknown security profile %q (have: %v)", name, ProfileNames())
	}

	doc.Merge("security", bundle)

	for _, ch := range channelNames(doc) {
		path := "channels." + ch + ".dmPolicy"
		policy, _ := doc.GetString(path)
		switch name {
		case "minimal":
			if policy == "" {
				doc.Set(path, "open")
			}
		default:
			if policy == "" || policy == "open" {
				doc.Set(path, "pairing")
			}
		}
	}
	return nil
}

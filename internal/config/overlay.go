package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// policyOverlay is the schema of .stabl/policy.toml. Pattern lists are
// appended to the config's own lists; the identity-comparable flag is
// sticky once either source sets it.
type policyOverlay struct {
	Policy struct {
		IgnoredClasses                    []string `toml:"ignoredClasses"`
		StableClasses                     []string `toml:"stableClasses"`
		TreatUnstableAsIdentityComparable bool     `toml:"treatUnstableAsIdentityComparable"`
	} `toml:"policy"`
}

func applyPolicyOverlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read policy overlay: %w", err)
	}

	var overlay policyOverlay
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("cannot parse %s: %w", path, err)
	}

	cfg.Policy.IgnoredClasses = append(cfg.Policy.IgnoredClasses, overlay.Policy.IgnoredClasses...)
	cfg.Policy.StableClasses = append(cfg.Policy.StableClasses, overlay.Policy.StableClasses...)
	if overlay.Policy.TreatUnstableAsIdentityComparable {
		cfg.Policy.TreatUnstableAsIdentityComparable = true
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minebound/digsim/internal/loadout"
	"github.com/minebound/digsim/internal/logger"
	"github.com/minebound/digsim/internal/optimizer"
	"github.com/minebound/digsim/internal/sim"
	"github.com/minebound/digsim/internal/stats"
	"github.com/minebound/digsim/internal/tables"
)

// Profile is the YAML run configuration: the player's build, the remaining
// budget and the run settings. This is the configuration boundary; an
// allocation that round-trips through it aggregates to an identical bundle.
type Profile struct {
	Label      string                  `yaml:"label,omitempty"`
	Allocation loadout.AllocationState `yaml:"allocation"`
	Budget     optimizer.Budget        `yaml:"budget"`
	Abilities  abilityToggles          `yaml:"abilities"`
	StartDepth float64                 `yaml:"start_depth"`
	Logging    *logger.Config          `yaml:"logging,omitempty"`
}

type abilityToggles struct {
	Frenzy    bool `yaml:"frenzy"`
	Surge     bool `yaml:"surge"`
	Shockwave bool `yaml:"shockwave"`
}

func (t abilityToggles) flags() sim.AbilityFlags {
	return sim.AbilityFlags{Frenzy: t.Frenzy, Surge: t.Surge, Shockwave: t.Shockwave}
}

func loadProfile(path string) (Profile, error) {
	var p Profile
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := loadout.Validate(p.Allocation); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	if p.Label == "" {
		p.Label = strings.TrimSuffix(path, ".yaml")
	}
	return p, nil
}

// parseMetric turns "depth", "xp" or "fragments:<archetype>" into a metric.
func parseMetric(s string) (stats.Metric, error) {
	switch {
	case s == "" || s == "depth":
		return stats.Metric{Kind: stats.MetricDepth}, nil
	case s == "xp":
		return stats.Metric{Kind: stats.MetricXPPerHour}, nil
	case strings.HasPrefix(s, "fragments:"):
		id := tables.ArchetypeID(strings.TrimPrefix(s, "fragments:"))
		for _, known := range tables.ArchetypeOrder {
			if id == known {
				return stats.Metric{Kind: stats.MetricFragmentsPerHour, Fragment: id}, nil
			}
		}
		return stats.Metric{}, fmt.Errorf("unknown fragment archetype: %s", id)
	default:
		return stats.Metric{}, fmt.Errorf("unknown metric %q (want depth, xp or fragments:<archetype>)", s)
	}
}

package loyalty

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultLadder returns the tea house's standard four-tier ladder.
func DefaultLadder() Ladder {
	return Ladder{
		{Name: "Sprout", MinPoints: 0, Reward: "Tea postcard with a wish"},
		{Name: "Fox Cub", MinPoints: 50, Reward: "5% off your next ceremony"},
		{Name: "Keeper of Teas", MinPoints: 120, Reward: "Free rare tea tasting"},
		{Name: "Kitsune Master", MinPoints: 200, Reward: "Private tea ceremony"},
	}
}

// LoadLadder reads a replacement ladder from a YAML file so thresholds and
// rewards can change without a code change.
func LoadLadder(path string) (Ladder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ladder file: %w", err)
	}

	var cfg struct {
		Tiers Ladder `yaml:"tiers"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse ladder file: %w", err)
	}

	if err := cfg.Tiers.Validate(); err != nil {
		return nil, fmt.Errorf("ladder file %s: %w", path, err)
	}
	return cfg.Tiers, nil
}

// Validate checks the structural invariants TierForPoints relies on.
func (l Ladder) Validate() error {
	if len(l) == 0 {
		return fmt.Errorf("ladder has no tiers")
	}
	if l[0].MinPoints != 0 {
		return fmt.Errorf("floor tier %q must have min_points 0, has %d", l[0].Name, l[0].MinPoints)
	}
	for i, t := range l {
		if t.Name == "" {
			return fmt.Errorf("tier %d has no name", i)
		}
		if i > 0 && t.MinPoints <= l[i-1].MinPoints {
			return fmt.Errorf("tier %q threshold %d does not ascend past %q (%d)",
				t.Name, t.MinPoints, l[i-1].Name, l[i-1].MinPoints)
		}
	}
	return nil
}

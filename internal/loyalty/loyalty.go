// Package loyalty maps visit counts to points and points to reward tiers.
// It is pure computation: no I/O, no clock, no storage.
package loyalty

// PointsPerVisit is how many points a single recorded visit earns.
const PointsPerVisit = 10

// Tier is one rung of the reward ladder.
type Tier struct {
	Name      string `json:"name" yaml:"name"`
	MinPoints int    `json:"min_points" yaml:"min_points"`
	Reward    string `json:"reward" yaml:"reward"`
}

// Ladder is an ordered set of tiers, ascending by MinPoints. The first tier
// must have MinPoints 0 so every guest always lands on some tier.
type Ladder []Tier

// PointsFromVisits converts a visit count to points. Negative counts are
// clamped to zero rather than rejected.
func PointsFromVisits(visits int) int {
	if visits < 0 {
		return 0
	}
	return visits * PointsPerVisit
}

// TierForPoints returns the highest tier whose threshold the points meet.
// The scan keeps the last match in ascending order; with a zero-threshold
// floor tier there is always one.
func (l Ladder) TierForPoints(points int) Tier {
	selected := l[0]
	for _, t := range l {
		if points >= t.MinPoints {
			selected = t
		}
	}
	return selected
}

// NextTier returns the first tier the points do not yet reach, or false when
// the guest is at or beyond the top of the ladder.
func (l Ladder) NextTier(points int) (Tier, bool) {
	for _, t := range l {
		if points < t.MinPoints {
			return t, true
		}
	}
	return Tier{}, false
}

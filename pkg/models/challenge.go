package models

// DailyChallenge is a bounded counter that accumulates toward a target within a day
type DailyChallenge struct {
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Target      int    `json:"target" db:"target"`
	Progress    int    `json:"progress" db:"progress"`
	Points      int    `json:"points" db:"points"`
}

// Completed reports whether the challenge target has been reached.
// Progress may be stored past the target; completion is derived, not a flag.
func (c *DailyChallenge) Completed() bool {
	return c.Progress >= c.Target
}

// CappedProgress returns the progress capped at the target for display
func (c *DailyChallenge) CappedProgress() int {
	if c.Progress > c.Target {
		return c.Target
	}
	return c.Progress
}

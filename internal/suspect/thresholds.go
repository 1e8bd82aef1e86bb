package suspect

import (
	"errors"
	"time"
)

// Thresholds carries the immutable classification settings for a run. It is
// constructed once from configuration and passed by value into every
// evaluation.
type Thresholds struct {
	// TimeDiff is the temporal suspicion window: items whose updatedAt trails
	// addedAt by less than this are flagged.
	TimeDiff time.Duration
	// Blackness is the black-pixel fraction (0..1) at or above which a
	// thumbnail counts as black.
	Blackness float64
}

// Validate reports whether the thresholds are usable.
func (t Thresholds) Validate() error {
	if t.TimeDiff < 0 {
		return errors.New("time diff threshold must be >= 0")
	}
	if t.Blackness < 0 || t.Blackness > 1 {
		return errors.New("blackness threshold must be between 0 and 1")
	}
	return nil
}

package types

import "time"

// EvaluateStatus is the pure function of spec.md §4.2: it derives the
// current Status of a challenge from its recorded state and the
// authoritative clock reading `now`, applying the rules in order. It
// never mutates the challenge and never blocks; the whole point of a
// passive-timeout design (spec.md §9) is that a caller computes this on
// demand instead of a timer firing.
func EvaluateStatus(arith SegmentArithmetic, c *Challenge, now time.Time, provingTimeout time.Duration) (Status, error) {
	if c.Approved {
		return StatusApproved, nil
	}
	if c.Turn < 1 {
		return StatusNone, nil
	}
	if (c.OutputRoot != Hash{}) {
		return StatusProven, nil
	}

	challengerIsNext := NextActorIsChallenger(c.Turn)

	if now.After(c.TimeoutAt) {
		if challengerIsNext {
			return StatusChallengerTimeout, nil
		}
		if now.After(c.TimeoutAt.Add(provingTimeout)) {
			return StatusChallengerTimeout, nil
		}
		return StatusAsserterTimeout, nil
	}

	ableToBisect, err := arith.IsAbleToBisect(c.Turn, c.SegSize)
	if err != nil {
		return StatusNone, err
	}
	if !ableToBisect {
		return StatusReadyToProve, nil
	}
	if challengerIsNext {
		return StatusChallengerTurn, nil
	}
	return StatusAsserterTurn, nil
}

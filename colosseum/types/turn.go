package types

// ExpectedActor maps a Status to the unique actor permitted to act next,
// per spec.md §4.3. The zero Address and false are returned for any
// status with no legal move — callers must reject rather than treat
// that as "anyone may act".
func ExpectedActor(status Status, c *Challenge) (actor Address, ok bool) {
	switch status {
	case StatusChallengerTurn, StatusReadyToProve, StatusAsserterTimeout:
		return c.Challenger, true
	case StatusAsserterTurn, StatusChallengerTimeout:
		return c.Asserter, true
	default:
		return Address{}, false
	}
}

// CheckTurn validates that caller is the actor expected to act given
// status, returning ErrWrongTurn otherwise. Bisect and ProveFault call
// it after loading the challenge (spec.md §4.3): on rejection, no state
// is mutated.
//
// challengerTimeout does not go through CheckTurn at all (spec.md §9
// Open Questions): anyone may invoke it while status is
// CHALLENGER_TIMEOUT, because the resulting transition is forced and
// caller-independent. createChallenge has no turn to check, and
// approveChallenge is restricted by the coordinator's CheckCouncil
// instead.
func CheckTurn(status Status, c *Challenge, caller Address) error {
	actor, ok := ExpectedActor(status, c)
	if !ok || actor != caller {
		return ErrWrongTurn
	}
	return nil
}

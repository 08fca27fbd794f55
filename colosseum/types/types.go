// Package types defines the data model of the Colosseum fault-dispute
// protocol: challenges, segment configuration and the small set of
// sentinel errors every operation can return.
package types

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ClockReader exposes the single authoritative wall-clock source an
// operation reads from exactly once.
type ClockReader interface {
	Now() time.Time
}

// Address is the account type used throughout the protocol: asserters,
// challengers and the council are all identified this way.
type Address = common.Address

// Hash is a 32-byte digest: an output root, a public-input digest, or a
// segment value.
type Hash = common.Hash

// OutputIndex identifies a disputed L2 checkpoint output. Index 0 is the
// genesis output and can never be challenged.
type OutputIndex uint64

// Challenge is the full state of a single fault dispute, keyed by its
// OutputIndex in the coordinator's store.
type Challenge struct {
	Asserter   Address
	Challenger Address

	Segments []Hash
	SegStart uint64
	SegSize  uint64

	// Turn is 1 at creation; odd turns end with a challenger submission,
	// even turns end with an asserter submission. Turn 0 means the slot
	// is empty (I6 in spec.md §8).
	Turn uint64

	TimeoutAt time.Time

	// OutputRoot is the zero hash until proveFault succeeds.
	OutputRoot Hash

	Approved bool
}

// IsEmpty reports whether this is the zero-value placeholder for an
// absent challenge (invariant 6: turn >= 1 for any live challenge).
func (c *Challenge) IsEmpty() bool {
	return c == nil || c.Turn == 0
}

// SegmentsLengths is the configuration vector L[1..K], stored 0-indexed
// so L[t] reads as lengths[t-1].
type SegmentsLengths []uint64

// AtTurn returns the required segment count L[turn].
func (l SegmentsLengths) AtTurn(turn uint64) (uint64, bool) {
	if turn < 1 || turn > uint64(len(l)) {
		return 0, false
	}
	return l[turn-1], true
}

// NumTurns is K, the final turn of the configuration.
func (l SegmentsLengths) NumTurns() uint64 {
	return uint64(len(l))
}

// Validate enforces the configuration law of spec.md §3/§4.1: len(L)
// must be even and the product of (L[t]-1) across all turns must equal
// submissionInterval exactly, so bisections partition the interval
// without remainder and terminate at single-block granularity on the
// final (challenger) turn.
func (l SegmentsLengths) Validate(submissionInterval uint64) error {
	if len(l)%2 != 0 {
		return ErrConfigInvalid
	}
	if len(l) == 0 {
		return ErrConfigInvalid
	}
	product := uint64(1)
	for _, length := range l {
		if length < 2 {
			return ErrConfigInvalid
		}
		product *= length - 1
	}
	if product != submissionInterval {
		return ErrConfigInvalid
	}
	return nil
}

// Status is the pure function result of evaluating a challenge against
// the clock; see spec.md §4.2.
type Status int

const (
	StatusNone Status = iota
	StatusChallengerTurn
	StatusAsserterTurn
	StatusChallengerTimeout
	StatusAsserterTimeout
	StatusReadyToProve
	StatusProven
	StatusApproved
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "NONE"
	case StatusChallengerTurn:
		return "CHALLENGER_TURN"
	case StatusAsserterTurn:
		return "ASSERTER_TURN"
	case StatusChallengerTimeout:
		return "CHALLENGER_TIMEOUT"
	case StatusAsserterTimeout:
		return "ASSERTER_TIMEOUT"
	case StatusReadyToProve:
		return "READY_TO_PROVE"
	case StatusProven:
		return "PROVEN"
	case StatusApproved:
		return "APPROVED"
	default:
		return "UNKNOWN"
	}
}

// InProgress matches spec.md §4.2: every status except NONE and
// CHALLENGER_TIMEOUT.
func (s Status) InProgress() bool {
	return s != StatusNone && s != StatusChallengerTimeout
}

// Sentinel errors, one per spec.md §7 error kind. Every mutating
// coordinator operation returns one of these (wrapped with context)
// and otherwise leaves state untouched.
var (
	ErrOutputFinalized = errors.New("output finalized")
	ErrInvalidIndex    = errors.New("invalid output index")
	ErrAlreadyActive   = errors.New("challenge already active")
	ErrBadSegments     = errors.New("bad segments")
	ErrWrongTurn       = errors.New("wrong turn")
	ErrProofRejected   = errors.New("proof rejected")
	ErrReplay          = errors.New("public input already verified")
	ErrNotCouncil      = errors.New("caller is not the security council")
	ErrNotProven       = errors.New("challenge is not in proven status")
	ErrConfigInvalid   = errors.New("segments lengths configuration invalid")
)

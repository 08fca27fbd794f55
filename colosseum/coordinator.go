// Package colosseum implements the Challenge Coordinator (spec.md
// §4.5): the top-level createChallenge / bisect / proveFault /
// challengerTimeout / approveChallenge operations, orchestrating the
// segment arithmetic, status evaluator, turn validator and proof
// pipeline against the external collaborators of spec.md §6.
//
// Structurally this plays the role op-challenger/game/fault.Agent plays
// for the cannon bisection game: a single owning object that loads
// state, figures out the legal next move, and drives the external
// world — except here the state machine IS the contract's own logic,
// not a client watching one.
package colosseum

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mantlenetworkio/colosseum/colosseum/contracts"
	"github.com/mantlenetworkio/colosseum/colosseum/hashing"
	"github.com/mantlenetworkio/colosseum/colosseum/proof"
	"github.com/mantlenetworkio/colosseum/colosseum/types"
	"github.com/ethereum/go-ethereum/log"
)

// Config holds the immutable configuration constants of spec.md §6.
type Config struct {
	BisectionTimeout time.Duration
	ProvingTimeout   time.Duration
	DummyHash        types.Hash
	MaxTxs           int
	SegmentsLengths  types.SegmentsLengths
}

// Coordinator is the single owning structure for all challenge state:
// the challenges map, the verified-digests set and the configuration
// vector, packaged the way spec.md §9 prescribes in place of a cyclic
// pointer graph or free-floating globals.
type Coordinator struct {
	cfg   Config
	arith types.SegmentArithmetic

	store *Store

	oracle   contracts.Oracle
	bondPool contracts.BondPool
	council  contracts.Council
	zk       contracts.ZKVerifier
	trie     contracts.TrieVerifier

	clock types.ClockReader
	log   log.Logger

	events chan Event
	nonce  atomic.Uint64
}

// New constructs a Coordinator, enforcing the configuration law of
// spec.md §3/§4.1 at construction: ConfigInvalid is returned, not
// panicked, if len(SegmentsLengths) is odd or the product law fails.
func New(
	cfg Config,
	oracle contracts.Oracle,
	bondPool contracts.BondPool,
	council contracts.Council,
	zk contracts.ZKVerifier,
	trie contracts.TrieVerifier,
	clock types.ClockReader,
	logger log.Logger,
) (*Coordinator, error) {
	if err := cfg.SegmentsLengths.Validate(oracle.SubmissionInterval()); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Root()
	}
	return &Coordinator{
		cfg:      cfg,
		arith:    types.SegmentArithmetic{Lengths: cfg.SegmentsLengths},
		store:    NewStore(),
		oracle:   oracle,
		bondPool: bondPool,
		council:  council,
		zk:       zk,
		trie:     trie,
		clock:    clock,
		log:      logger,
		events:   make(chan Event, 64),
	}, nil
}

func (c *Coordinator) status(ch types.Challenge, now time.Time) (types.Status, error) {
	return types.EvaluateStatus(c.arith, &ch, now, c.cfg.ProvingTimeout)
}

// GetChallenge is the getChallenge query of spec.md §6.
func (c *Coordinator) GetChallenge(index types.OutputIndex) types.Challenge {
	return c.store.Get(index)
}

// GetStatus is the getStatus query of spec.md §6.
func (c *Coordinator) GetStatus(index types.OutputIndex) (types.Status, error) {
	return c.status(c.store.Get(index), c.clock.Now())
}

// GetSegmentsLength is the getSegmentsLength query of spec.md §6.
func (c *Coordinator) GetSegmentsLength(turn uint64) (uint64, bool) {
	return c.cfg.SegmentsLengths.AtTurn(turn)
}

// IsAbleToBisect is the isAbleToBisect query of spec.md §6.
func (c *Coordinator) IsAbleToBisect(index types.OutputIndex) (bool, error) {
	ch := c.store.Get(index)
	if ch.IsEmpty() {
		return false, nil
	}
	return c.arith.IsAbleToBisect(ch.Turn, ch.SegSize)
}

// IsInProgress is the isInProgress query of spec.md §6.
func (c *Coordinator) IsInProgress(index types.OutputIndex) (bool, error) {
	status, err := c.GetStatus(index)
	if err != nil {
		return false, err
	}
	return status.InProgress(), nil
}

// IsChallengeRelated is the isChallengeRelated query of spec.md §6.
func (c *Coordinator) IsChallengeRelated(index types.OutputIndex, addr types.Address) bool {
	ch := c.store.Get(index)
	if ch.IsEmpty() {
		return false
	}
	return ch.Asserter == addr || ch.Challenger == addr
}

// CreateChallenge implements spec.md §4.5 createChallenge.
func (c *Coordinator) CreateChallenge(ctx context.Context, index types.OutputIndex, challenger types.Address, segments []types.Hash) error {
	if index == 0 {
		return fmt.Errorf("createChallenge: genesis index: %w", types.ErrInvalidIndex)
	}
	finalized, err := c.oracle.IsFinalized(ctx, index)
	if err != nil {
		return err
	}
	if finalized {
		return fmt.Errorf("createChallenge: %w", types.ErrOutputFinalized)
	}

	now := c.clock.Now()
	existing := c.store.Get(index)
	status, err := c.status(existing, now)
	if err != nil {
		return err
	}
	if status.InProgress() {
		return fmt.Errorf("createChallenge: %w", types.ErrAlreadyActive)
	}

	target, err := c.oracle.GetL2Output(ctx, index)
	if err != nil {
		return fmt.Errorf("createChallenge: %w", types.ErrInvalidIndex)
	}
	if challenger == target.Submitter {
		return fmt.Errorf("createChallenge: caller is the submitter: %w", types.ErrInvalidIndex)
	}

	turn1Length, _ := c.cfg.SegmentsLengths.AtTurn(1)
	if uint64(len(segments)) != turn1Length {
		return fmt.Errorf("createChallenge: expected %d segments: %w", turn1Length, types.ErrBadSegments)
	}
	// The first segment anchors to the disputed output's own root, not
	// the previous output's root (spec.md §9 Open Questions): this is a
	// known weakness preserved intentionally, not strengthened here.
	if segments[0] != target.OutputRoot {
		return fmt.Errorf("createChallenge: first segment must match target output root: %w", types.ErrBadSegments)
	}
	if segments[len(segments)-1] == target.OutputRoot {
		return fmt.Errorf("createChallenge: last segment must differ from target output root: %w", types.ErrBadSegments)
	}

	submissionInterval := c.oracle.SubmissionInterval()
	err = c.store.withChallenge(index, func(current types.Challenge) (types.Challenge, error) {
		st, serr := c.status(current, now)
		if serr != nil {
			return current, serr
		}
		if st.InProgress() {
			return current, fmt.Errorf("createChallenge: %w", types.ErrAlreadyActive)
		}
		// Bond pool call ordered before the state write, but inside the
		// same per-index critical section as the re-check above, so a
		// caller that loses the race to create this challenge never has
		// its bond doubled for a challenge it did not end up opening
		// (spec.md §5: external collaborator effects commit with the
		// coordinator's own effects). A re-challenge after a
		// CHALLENGER_TIMEOUT slot doubles the escrow.
		if err := c.bondPool.IncreaseBond(ctx, challenger, index); err != nil {
			return current, err
		}
		return types.Challenge{
			Asserter:   target.Submitter,
			Challenger: challenger,
			Segments:   append([]types.Hash(nil), segments...),
			SegStart:   target.L2BlockNumber - submissionInterval,
			SegSize:    submissionInterval,
			Turn:       1,
			TimeoutAt:  now.Add(c.cfg.BisectionTimeout),
		}, nil
	})
	if err != nil {
		return err
	}

	c.log.Info("Challenge created", "outputIndex", index, "challenger", challenger, "asserter", target.Submitter)
	c.emit(Event{Kind: EventChallengeCreated, OutputIndex: index, Turn: 1})
	return nil
}

// Bisect implements spec.md §4.5 bisect.
func (c *Coordinator) Bisect(ctx context.Context, index types.OutputIndex, caller types.Address, pos uint64, segments []types.Hash) error {
	finalized, err := c.oracle.IsFinalized(ctx, index)
	if err != nil {
		return err
	}
	if finalized {
		return fmt.Errorf("bisect: %w", types.ErrOutputFinalized)
	}

	now := c.clock.Now()
	var resultTurn uint64
	err = c.store.withChallenge(index, func(current types.Challenge) (types.Challenge, error) {
		if current.IsEmpty() {
			return current, fmt.Errorf("bisect: %w", types.ErrWrongTurn)
		}
		status, serr := c.status(current, now)
		if serr != nil {
			return current, serr
		}
		if status != types.StatusChallengerTurn && status != types.StatusAsserterTurn {
			return current, fmt.Errorf("bisect: %w", types.ErrWrongTurn)
		}
		if cerr := types.CheckTurn(status, &current, caller); cerr != nil {
			return current, fmt.Errorf("bisect: %w", cerr)
		}

		nextTurn := current.Turn + 1
		length, ok := c.cfg.SegmentsLengths.AtTurn(nextTurn)
		if !ok {
			return current, fmt.Errorf("bisect: no turn %d in configuration: %w", nextTurn, types.ErrBadSegments)
		}
		if uint64(len(segments)) != length {
			return current, fmt.Errorf("bisect: expected %d segments: %w", length, types.ErrBadSegments)
		}
		if pos+1 >= uint64(len(current.Segments)) {
			return current, fmt.Errorf("bisect: position out of range: %w", types.ErrBadSegments)
		}
		if segments[0] != current.Segments[pos] {
			return current, fmt.Errorf("bisect: first segment must match parent: %w", types.ErrBadSegments)
		}
		if segments[len(segments)-1] == current.Segments[pos+1] {
			return current, fmt.Errorf("bisect: last segment must differ from parent: %w", types.ErrBadSegments)
		}

		newStart, newSize, rerr := c.arith.ChildRange(current.Turn, current.SegStart, current.SegSize, pos)
		if rerr != nil {
			return current, fmt.Errorf("bisect: %w", rerr)
		}
		ableToBisect, aerr := c.arith.IsAbleToBisect(nextTurn, newSize)
		if aerr != nil {
			return current, aerr
		}
		timeout := c.cfg.ProvingTimeout
		if ableToBisect {
			timeout = c.cfg.BisectionTimeout
		}

		resultTurn = nextTurn
		next := current
		next.Segments = append([]types.Hash(nil), segments...)
		next.SegStart = newStart
		next.SegSize = newSize
		next.Turn = nextTurn
		next.TimeoutAt = now.Add(timeout)
		return next, nil
	})
	if err != nil {
		return err
	}

	c.log.Info("Bisected", "outputIndex", index, "turn", resultTurn, "pos", pos)
	c.emit(Event{Kind: EventBisected, OutputIndex: index, Turn: resultTurn})
	return nil
}

// ProveFaultInputs bundles the proveFault arguments that do not already
// have a named home in spec.md §4.4.
type ProveFaultInputs struct {
	OutputRootNew types.Hash
	Pos           uint64
	Bundle        proof.Bundle
	ZKProof       []byte
	Pair          []byte
}

// ProveFault implements spec.md §4.4/§4.5 proveFault.
func (c *Coordinator) ProveFault(ctx context.Context, index types.OutputIndex, caller types.Address, in ProveFaultInputs) error {
	now := c.clock.Now()
	var digest types.Hash
	err := c.store.withChallenge(index, func(current types.Challenge) (types.Challenge, error) {
		if current.IsEmpty() {
			return current, fmt.Errorf("proveFault: %w", types.ErrWrongTurn)
		}
		status, serr := c.status(current, now)
		if serr != nil {
			return current, serr
		}
		if status != types.StatusReadyToProve && status != types.StatusAsserterTimeout {
			return current, fmt.Errorf("proveFault: %w", types.ErrWrongTurn)
		}
		if cerr := types.CheckTurn(status, &current, caller); cerr != nil {
			return current, fmt.Errorf("proveFault: %w", cerr)
		}

		ableToBisect, aerr := c.arith.IsAbleToBisect(current.Turn, current.SegSize)
		if aerr != nil {
			return current, aerr
		}
		enteredViaAsserterTimeout := status == types.StatusAsserterTimeout

		h, verr := proof.Verify(ctx, c.zk, c.trie, c.store, current.Segments, ableToBisect, enteredViaAsserterTimeout, proof.Inputs{
			Bundle:        in.Bundle,
			OutputRootNew: in.OutputRootNew,
			Pos:           in.Pos,
			ZKProof:       in.ZKProof,
			Pair:          in.Pair,
			DummyHash:     c.cfg.DummyHash,
			MaxTxs:        c.cfg.MaxTxs,
		})
		if verr != nil {
			return current, fmt.Errorf("proveFault: %w", verr)
		}
		digest = h

		next := current
		next.OutputRoot = in.OutputRootNew
		return next, nil
	})
	if err != nil {
		return err
	}

	nonce := c.nonce.Add(1)
	payload := hashing.HashOutputRootProof(in.Bundle.DstOutputRootProof)
	if err := c.council.RequestValidation(ctx, payload[:], nonce, func(ctx context.Context) error {
		return c.ApproveChallenge(ctx, index, c.council.Address())
	}); err != nil {
		return fmt.Errorf("proveFault: requesting council validation: %w", err)
	}

	c.log.Info("Proven", "outputIndex", index, "publicInputDigest", digest, "newOutputRoot", in.OutputRootNew)
	c.emit(Event{Kind: EventProven, OutputIndex: index, OutputRoot: in.OutputRootNew})
	return nil
}

// ChallengerTimeout implements spec.md §4.5 challengerTimeout. Per
// spec.md §9 Open Questions, no caller check is performed: the
// transition is forced and its outcome is not caller-controlled.
func (c *Coordinator) ChallengerTimeout(ctx context.Context, index types.OutputIndex) error {
	now := c.clock.Now()
	err := c.store.withChallenge(index, func(current types.Challenge) (types.Challenge, error) {
		if current.IsEmpty() {
			return current, fmt.Errorf("challengerTimeout: %w", types.ErrWrongTurn)
		}
		status, serr := c.status(current, now)
		if serr != nil {
			return current, serr
		}
		if status != types.StatusChallengerTimeout {
			return current, fmt.Errorf("challengerTimeout: %w", types.ErrWrongTurn)
		}
		return types.Challenge{}, nil
	})
	if err != nil {
		return err
	}
	c.log.Info("Deleted", "outputIndex", index, "reason", "challenger timeout")
	c.emit(Event{Kind: EventDeleted, OutputIndex: index})
	return nil
}

// ApproveChallenge implements spec.md §4.5 approveChallenge. It is
// restricted to the security-council address (spec.md §4.5, §7
// NotCouncil) and is the re-entry point the council's callback invokes
// from ProveFault, passing the council's own address as caller.
func (c *Coordinator) ApproveChallenge(ctx context.Context, index types.OutputIndex, caller types.Address) error {
	if err := c.CheckCouncil(caller); err != nil {
		return fmt.Errorf("approveChallenge: %w", err)
	}

	var outputRoot types.Hash
	var challengerAddr types.Address
	err := c.store.withChallenge(index, func(current types.Challenge) (types.Challenge, error) {
		if current.IsEmpty() {
			return current, fmt.Errorf("approveChallenge: %w", types.ErrNotProven)
		}
		status, serr := c.status(current, c.clock.Now())
		if serr != nil {
			return current, serr
		}
		if status != types.StatusProven {
			return current, fmt.Errorf("approveChallenge: %w", types.ErrNotProven)
		}
		outputRoot = current.OutputRoot
		challengerAddr = current.Challenger
		// Tombstone: Approved stays true forever, every other field is
		// cleared, preventing re-open at this index (spec.md §3, §4.2
		// I6).
		return types.Challenge{Approved: true}, nil
	})
	if err != nil {
		return err
	}

	if err := c.oracle.ReplaceL2Output(ctx, index, outputRoot, challengerAddr); err != nil {
		return fmt.Errorf("approveChallenge: %w", err)
	}

	c.log.Info("Approved", "outputIndex", index, "outputRoot", outputRoot)
	c.emit(Event{Kind: EventApproved, OutputIndex: index, OutputRoot: outputRoot})
	return nil
}

// CheckCouncil is a convenience guard for callers exposing
// approveChallenge over a transport that authenticates callers
// separately from the Coordinator (e.g. an RPC server): it returns
// ErrNotCouncil if caller is not the configured council address.
func (c *Coordinator) CheckCouncil(caller types.Address) error {
	if caller != c.council.Address() {
		return types.ErrNotCouncil
	}
	return nil
}

// Package contracts declares the narrow collaborator interfaces the
// coordinator depends on (spec.md §6) plus in-memory fakes used by the
// test suite, grounded on the way op-challenger's game/fault package
// injects a ClaimLoader/Responder pair rather than talking to bindings
// directly.
package contracts

import (
	"context"
	"time"

	"github.com/mantlenetworkio/colosseum/colosseum/types"
)

// Output is the checkpoint record the Oracle tracks for an OutputIndex.
type Output struct {
	OutputRoot    types.Hash
	L2BlockNumber uint64
	Timestamp     time.Time
	Submitter     types.Address
}

// Oracle is the external output-oracle collaborator (spec.md §6).
type Oracle interface {
	IsFinalized(ctx context.Context, index types.OutputIndex) (bool, error)
	GetL2Output(ctx context.Context, index types.OutputIndex) (Output, error)
	ReplaceL2Output(ctx context.Context, index types.OutputIndex, newRoot types.Hash, submitter types.Address) error
	SubmissionInterval() uint64
}

// BondPool is the external validator-bond collaborator (spec.md §6).
type BondPool interface {
	// IncreaseBond is idempotent-per-bidder and doubles the escrowed
	// amount on repeat (re-challenge after a CHALLENGER_TIMEOUT).
	IncreaseBond(ctx context.Context, bidder types.Address, index types.OutputIndex) error
}

// ApprovalCallback is invoked by the Council once a validation request
// is approved; it re-enters the coordinator's approveChallenge.
type ApprovalCallback func(ctx context.Context) error

// Council is the external security-council multisig collaborator.
type Council interface {
	Address() types.Address
	// RequestValidation schedules a council vote over payload; on
	// success it invokes callback. Re-entry from the callback into the
	// coordinator must be accepted under the same serialization
	// discipline (spec.md §5, §9).
	RequestValidation(ctx context.Context, payload []byte, nonce uint64, callback ApprovalCallback) error
}

// ZKVerifier is the opaque ZK validity-proof predicate (spec.md §6).
type ZKVerifier interface {
	Verify(ctx context.Context, proof []byte, pair []byte, publicInputDigest types.Hash) (bool, error)
}

// TrieVerifier is the opaque Merkle-trie inclusion-proof predicate.
type TrieVerifier interface {
	VerifyInclusionProof(ctx context.Context, key []byte, valueEncoding []byte, proofNodes [][]byte, stateRoot types.Hash) (bool, error)
}

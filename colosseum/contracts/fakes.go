package contracts

import (
	"context"
	"sync"

	"github.com/mantlenetworkio/colosseum/colosseum/types"
)

// MemOracle is an in-memory fake Oracle for tests and for embedders
// without a live L1 output oracle to talk to yet.
type MemOracle struct {
	mu                 sync.Mutex
	outputs            map[types.OutputIndex]Output
	finalized          map[types.OutputIndex]bool
	submissionInterval uint64
}

func NewMemOracle(submissionInterval uint64) *MemOracle {
	return &MemOracle{
		outputs:            make(map[types.OutputIndex]Output),
		finalized:          make(map[types.OutputIndex]bool),
		submissionInterval: submissionInterval,
	}
}

func (o *MemOracle) SetOutput(index types.OutputIndex, out Output) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outputs[index] = out
}

func (o *MemOracle) SetFinalized(index types.OutputIndex, finalized bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finalized[index] = finalized
}

func (o *MemOracle) IsFinalized(_ context.Context, index types.OutputIndex) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.finalized[index], nil
}

func (o *MemOracle) GetL2Output(_ context.Context, index types.OutputIndex) (Output, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out, ok := o.outputs[index]
	if !ok {
		return Output{}, types.ErrInvalidIndex
	}
	return out, nil
}

func (o *MemOracle) ReplaceL2Output(_ context.Context, index types.OutputIndex, newRoot types.Hash, submitter types.Address) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	out, ok := o.outputs[index]
	if !ok {
		return types.ErrInvalidIndex
	}
	out.OutputRoot = newRoot
	out.Submitter = submitter
	o.outputs[index] = out
	return nil
}

func (o *MemOracle) SubmissionInterval() uint64 {
	return o.submissionInterval
}

// MemBondPool is an in-memory fake BondPool that tracks the doubling
// sequence described in spec.md §8 scenario 4.
type MemBondPool struct {
	mu    sync.Mutex
	bonds map[types.OutputIndex]uint64
}

func NewMemBondPool() *MemBondPool {
	return &MemBondPool{bonds: make(map[types.OutputIndex]uint64)}
}

const minBond = 1

func (p *MemBondPool) IncreaseBond(_ context.Context, _ types.Address, index types.OutputIndex) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	current := p.bonds[index]
	if current == 0 {
		p.bonds[index] = minBond
	} else {
		p.bonds[index] = current * 2
	}
	return nil
}

func (p *MemBondPool) BondAt(index types.OutputIndex) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bonds[index]
}

// MemCouncil is an in-memory fake Council. ApproveNow synchronously
// invokes the pending callback, modelling an immediate council vote for
// tests; production wiring replaces this with a real multisig-backed
// implementation.
type MemCouncil struct {
	mu      sync.Mutex
	addr    types.Address
	pending map[uint64]ApprovalCallback
}

func NewMemCouncil(addr types.Address) *MemCouncil {
	return &MemCouncil{addr: addr, pending: make(map[uint64]ApprovalCallback)}
}

func (c *MemCouncil) Address() types.Address {
	return c.addr
}

func (c *MemCouncil) RequestValidation(_ context.Context, _ []byte, nonce uint64, callback ApprovalCallback) error {
	c.mu.Lock()
	c.pending[nonce] = callback
	c.mu.Unlock()
	return nil
}

// ApproveNow runs the callback registered under nonce, as if the
// council had just voted to approve it.
func (c *MemCouncil) ApproveNow(ctx context.Context, nonce uint64) error {
	c.mu.Lock()
	cb, ok := c.pending[nonce]
	delete(c.pending, nonce)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return cb(ctx)
}

// MemZKVerifier is an in-memory fake ZKVerifier driven entirely by a
// caller-supplied predicate, so tests can model both acceptance and
// rejection without a real proving system.
type MemZKVerifier struct {
	Accept func(proof []byte, pair []byte, digest types.Hash) bool
}

func NewMemZKVerifier() *MemZKVerifier {
	return &MemZKVerifier{Accept: func([]byte, []byte, types.Hash) bool { return true }}
}

func (v *MemZKVerifier) Verify(_ context.Context, proof []byte, pair []byte, digest types.Hash) (bool, error) {
	return v.Accept(proof, pair, digest), nil
}

// MemTrieVerifier is an in-memory fake TrieVerifier, also predicate
// driven.
type MemTrieVerifier struct {
	Accept func(key []byte, valueEncoding []byte, proofNodes [][]byte, stateRoot types.Hash) bool
}

func NewMemTrieVerifier() *MemTrieVerifier {
	return &MemTrieVerifier{Accept: func([]byte, []byte, [][]byte, types.Hash) bool { return true }}
}

func (v *MemTrieVerifier) VerifyInclusionProof(_ context.Context, key []byte, valueEncoding []byte, proofNodes [][]byte, stateRoot types.Hash) (bool, error) {
	return v.Accept(key, valueEncoding, proofNodes, stateRoot), nil
}

package proof

import (
	"context"
	"math/big"
	"testing"

	"github.com/mantlenetworkio/colosseum/colosseum/contracts"
	"github.com/mantlenetworkio/colosseum/colosseum/hashing"
	"github.com/mantlenetworkio/colosseum/colosseum/types"
	"github.com/stretchr/testify/require"
)

type memVerifiedSet struct {
	seen map[types.Hash]bool
}

func newMemVerifiedSet() *memVerifiedSet { return &memVerifiedSet{seen: make(map[types.Hash]bool)} }

func (s *memVerifiedSet) Has(digest types.Hash) bool { return s.seen[digest] }
func (s *memVerifiedSet) Add(digest types.Hash)      { s.seen[digest] = true }

func validBundle() Bundle {
	src := hashing.OutputRootProof{
		StateRoot:                types.Hash{0x1},
		MessagePasserStorageRoot: types.Hash{0x2},
		BlockHash:                types.Hash{0x3},
	}
	dstStateRoot := types.Hash{0x5}
	pi := hashing.PublicInput{
		StateRoot:  dstStateRoot,
		ParentHash: src.BlockHash,
		Number:     42,
		Timestamp:  1000,
		ExtraData:  []byte("x"),
	}
	// The next block's hash is whatever HashBlockHeader derives from the
	// public input: src anchors to it via NextBlockHash, dst anchors to
	// it via BlockHash (spec.md §4.4 step 3 block-linkage check).
	nextBlockHash := hashing.HashBlockHeader(pi, nil)
	src.NextBlockHash = nextBlockHash
	dst := hashing.OutputRootProof{
		StateRoot:                dstStateRoot,
		MessagePasserStorageRoot: types.Hash{0x6},
		BlockHash:                nextBlockHash,
		NextBlockHash:            types.Hash{0x7},
	}
	return Bundle{
		SrcOutputRootProof:          src,
		DstOutputRootProof:          dst,
		PublicInput:                 pi,
		Rlps:                        nil,
		MerkleProof:                 [][]byte{{0xAA}},
		L2ToL1MessagePasserBalance:  big.NewInt(0),
		L2ToL1MessagePasserCodeHash: types.Hash{},
	}
}

// segmentsFor builds the two-element bisection record a proveFault call
// must match: segments[0] is the agreed starting state, segments[1] is
// the disputed (and here, incorrect) claim about the next state, which
// must differ from the honestly-computed DstOutputRootProof for the
// fault to be provable.
func segmentsFor(b Bundle) []types.Hash {
	return []types.Hash{
		hashing.HashOutputRootProof(b.SrcOutputRootProof),
		{0xDE, 0xAD},
	}
}

func TestVerifyAcceptsValidSingleBlockProof(t *testing.T) {
	b := validBundle()
	segments := segmentsFor(b)
	verified := newMemVerifiedSet()
	zk := contracts.NewMemZKVerifier()
	trie := contracts.NewMemTrieVerifier()

	digest, err := Verify(context.Background(), zk, trie, verified, segments, false, false, Inputs{
		Bundle:        b,
		OutputRootNew: hashing.HashOutputRootProof(b.DstOutputRootProof),
		Pos:           0,
		DummyHash:     types.Hash{0xFF},
		MaxTxs:        4,
	})
	require.NoError(t, err)
	require.True(t, verified.Has(digest))
}

func TestVerifyRejectsSegmentAnchorMismatch(t *testing.T) {
	b := validBundle()
	segments := segmentsFor(b)
	segments[0] = types.Hash{0x99} // does not match src output root hash
	verified := newMemVerifiedSet()
	zk := contracts.NewMemZKVerifier()
	trie := contracts.NewMemTrieVerifier()

	_, err := Verify(context.Background(), zk, trie, verified, segments, false, false, Inputs{
		Bundle:    b,
		Pos:       0,
		DummyHash: types.Hash{0xFF},
		MaxTxs:    4,
	})
	require.ErrorIs(t, err, types.ErrProofRejected)
}

func TestVerifyRejectsReplay(t *testing.T) {
	b := validBundle()
	segments := segmentsFor(b)
	verified := newMemVerifiedSet()
	zk := contracts.NewMemZKVerifier()
	trie := contracts.NewMemTrieVerifier()

	in := Inputs{
		Bundle:        b,
		OutputRootNew: hashing.HashOutputRootProof(b.DstOutputRootProof),
		Pos:           0,
		DummyHash:     types.Hash{0xFF},
		MaxTxs:        4,
	}
	_, err := Verify(context.Background(), zk, trie, verified, segments, false, false, in)
	require.NoError(t, err)

	_, err = Verify(context.Background(), zk, trie, verified, segments, false, false, in)
	require.ErrorIs(t, err, types.ErrReplay)
}

func TestVerifyRejectsFailingZKProof(t *testing.T) {
	b := validBundle()
	segments := segmentsFor(b)
	verified := newMemVerifiedSet()
	zk := &contracts.MemZKVerifier{Accept: func([]byte, []byte, types.Hash) bool { return false }}
	trie := contracts.NewMemTrieVerifier()

	_, err := Verify(context.Background(), zk, trie, verified, segments, false, false, Inputs{
		Bundle:    b,
		Pos:       0,
		DummyHash: types.Hash{0xFF},
		MaxTxs:    4,
	})
	require.ErrorIs(t, err, types.ErrProofRejected)
}

func TestVerifyRejectsBisectableWithoutAsserterTimeoutEntry(t *testing.T) {
	b := validBundle()
	segments := segmentsFor(b)
	verified := newMemVerifiedSet()
	zk := contracts.NewMemZKVerifier()
	trie := contracts.NewMemTrieVerifier()

	_, err := Verify(context.Background(), zk, trie, verified, segments, true, false, Inputs{
		Bundle:    b,
		Pos:       0,
		DummyHash: types.Hash{0xFF},
		MaxTxs:    4,
	})
	require.ErrorIs(t, err, types.ErrProofRejected)
}

// Package hashing implements the pure hashing collaborators of
// spec.md §6: output-root preimage hashing, block-header hashing and
// public-input digesting. The output-root layout (version ++ state
// root ++ message-passer storage root ++ block hash) is grounded on
// op-service/eth.OutputV0, and the withdrawal storage-slot convention
// is grounded on op-node/withdrawals.StorageSlotOfWithdrawalHash.
package hashing

import (
	"encoding/binary"

	"github.com/mantlenetworkio/colosseum/colosseum/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// OutputRootProof is the structured preimage of an output root: the
// src/dst boundary of a single-block dispute, per spec.md §4.4.
type OutputRootProof struct {
	StateRoot                types.Hash
	MessagePasserStorageRoot types.Hash
	BlockHash                types.Hash
	NextBlockHash            types.Hash
}

// outputRootVersion is version 0 of the OP-stack output-root encoding;
// Colosseum never changed this, so it is not configurable.
var outputRootVersion = types.Hash{}

// HashOutputRootProof returns keccak256(version ++ stateRoot ++
// messagePasserStorageRoot ++ blockHash), the standard OP-stack output
// root. NextBlockHash is not part of the on-chain commitment; it is
// witness data used only for block-linkage checks (spec.md §4.4 step 3).
func HashOutputRootProof(p OutputRootProof) types.Hash {
	return crypto.Keccak256Hash(
		outputRootVersion[:],
		p.StateRoot[:],
		p.MessagePasserStorageRoot[:],
		p.BlockHash[:],
	)
}

// PublicInput carries the header fields sufficient, together with Rlps,
// to recompute the next block hash deterministically (spec.md §4.4).
type PublicInput struct {
	StateRoot  types.Hash
	ParentHash types.Hash
	Number     uint64
	Timestamp  uint64
	ExtraData  []byte
}

// HashBlockHeader recomputes the next block's hash from the public
// input and its supplementary RLP-encoded slices. It is deliberately a
// thin keccak over the canonical field encoding rather than a full RLP
// header codec: Colosseum's off-chain reimplementation treats rlps as
// an opaque supplement supplied by the caller, not something this
// package re-derives.
func HashBlockHeader(p PublicInput, rlps [][]byte) types.Hash {
	data := make([][]byte, 0, 5+len(rlps))
	numberBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(numberBytes, p.Number)
	timestampBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timestampBytes, p.Timestamp)
	data = append(data, p.StateRoot[:], p.ParentHash[:], numberBytes, timestampBytes, p.ExtraData)
	data = append(data, rlps...)
	return crypto.Keccak256Hash(data...)
}

// HashPublicInput computes the digest fed to the ZK verifier: the
// previous state root, the public input fields, and the dummy-padded
// transaction hash list. Per spec.md §9 Open Questions, transaction-root
// verification is deliberately omitted here, matching the source
// behavior exactly — this is preserved, not an oversight.
func HashPublicInput(prevStateRoot types.Hash, p PublicInput, dummyHashes []types.Hash) types.Hash {
	data := make([][]byte, 0, 6+len(dummyHashes))
	numberBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(numberBytes, p.Number)
	timestampBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timestampBytes, p.Timestamp)
	data = append(data, prevStateRoot[:], p.StateRoot[:], p.ParentHash[:], numberBytes, timestampBytes, p.ExtraData)
	for _, h := range dummyHashes {
		hc := h
		data = append(data, hc[:])
	}
	return crypto.Keccak256Hash(data...)
}

// GenerateDummyHashes pads the transaction-hash list up to maxTxs using
// dummyHash, the fixed replay-defense filler described in spec.md §4.4
// step 6.
func GenerateDummyHashes(dummyHash types.Hash, n int) []types.Hash {
	out := make([]types.Hash, n)
	for i := range out {
		out[i] = dummyHash
	}
	return out
}

package colosseum

import (
	"sync"

	"github.com/mantlenetworkio/colosseum/colosseum/types"
	"github.com/mantlenetworkio/colosseum/op-service/locks"
)

// slot is a single outputIndex's challenge plus the mutex that
// serializes every operation touching it. Striping the lock per index,
// rather than taking one coordinator-wide mutex, follows spec.md §5 and
// §9: "ordering between challenges at distinct outputIndex values is
// independent" and a per-outputIndex striped lock is explicitly called
// out as an acceptable implementation of the serialization discipline.
type slot struct {
	mu        sync.Mutex
	challenge types.Challenge
}

// Store holds the coordinator's persisted state layout (spec.md §6):
// the outputIndex -> Challenge mapping and the verified-public-input
// digest set.
type Store struct {
	slots      locks.RWMap[types.OutputIndex, *slot]
	verified   locks.RWMap[types.Hash, struct{}]
	slotsMu    sync.Mutex // guards lazy slot creation, distinct from any individual slot's mutex
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) slotFor(index types.OutputIndex) *slot {
	if sl, ok := s.slots.Get(index); ok {
		return sl
	}
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()
	if sl, ok := s.slots.Get(index); ok {
		return sl
	}
	sl := &slot{}
	s.slots.Set(index, sl)
	return sl
}

// Get returns the challenge at index, or the zero Challenge (Turn==0,
// Approved==false) if none is recorded — the NONE state of invariant 6.
func (s *Store) Get(index types.OutputIndex) types.Challenge {
	sl := s.slotFor(index)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.challenge
}

// withChallenge performs an atomic read-validate-write sequence against
// the single slot at index, holding that index's lock (and no other)
// for the duration of fn — the serialization unit spec.md §5 asks for,
// including any external collaborator calls fn makes along the way.
// On error, the slot is left exactly as it was found.
func (s *Store) withChallenge(index types.OutputIndex, fn func(current types.Challenge) (next types.Challenge, err error)) error {
	sl := s.slotFor(index)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	next, err := fn(sl.challenge)
	if err != nil {
		return err
	}
	sl.challenge = next
	return nil
}

// Has reports whether a public-input digest has ever been verified
// (VerifiedPublicInputs in spec.md §3 — monotonically growing, I4).
func (s *Store) Has(digest types.Hash) bool {
	return s.verified.Has(digest)
}

// Add records digest as verified; it can never be removed (replay
// defense is lifetime-wide).
func (s *Store) Add(digest types.Hash) {
	s.verified.Set(digest, struct{}{})
}

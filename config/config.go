// Package config is a well typed config parsed from CLI params, used
// to initialize the coordinator, grounded on op-challenger/config.go's
// Config/Check split between a plain struct and a validation pass run
// once at startup.
package config

import (
	"errors"
	"time"

	"github.com/mantlenetworkio/colosseum/colosseum/types"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrMissingOracleAddress   = errors.New("missing output oracle address")
	ErrMissingBondPoolAddress = errors.New("missing validator pool address")
	ErrMissingCouncilAddress  = errors.New("missing security council address")
	ErrMissingTrieVerifier    = errors.New("missing trie verifier endpoint")
	ErrZeroBisectionTimeout   = errors.New("bisection timeout must not be 0")
	ErrZeroProvingTimeout     = errors.New("proving timeout must not be 0")
	ErrZeroMaxTxs             = errors.New("max txs must not be 0")
	ErrZeroPollInterval       = errors.New("poll interval must not be 0")
)

const (
	DefaultPollInterval     = 6 * time.Second
	DefaultBisectionTimeout = 30 * time.Minute
	DefaultProvingTimeout   = 30 * time.Minute
	DefaultMaxTxs           = 100
)

// Config is the full set of values the service runner needs to build a
// colosseum.Coordinator and drive it, combining the protocol
// configuration law (spec.md §3) with ambient service settings.
type Config struct {
	OutputOracleAddress    common.Address
	ValidatorPoolAddress   common.Address
	SecurityCouncilAddress common.Address
	TrieVerifierEndpoint   string

	BisectionTimeout time.Duration
	ProvingTimeout   time.Duration
	DummyHash        types.Hash
	MaxTxs           int
	SegmentsLengths  types.SegmentsLengths

	// PollInterval controls how often the service runner re-evaluates
	// every known challenge's status (the Service Runner component).
	PollInterval time.Duration

	LogLevel string
}

// NewConfig returns the Config with the fixed, non-protocol-law
// defaults filled in; callers still need to provide addresses and the
// SegmentsLengths vector.
func NewConfig(oracle, bondPool, council common.Address, trieVerifierEndpoint string, segmentsLengths types.SegmentsLengths) Config {
	return Config{
		OutputOracleAddress:    oracle,
		ValidatorPoolAddress:   bondPool,
		SecurityCouncilAddress: council,
		TrieVerifierEndpoint:   trieVerifierEndpoint,
		BisectionTimeout:       DefaultBisectionTimeout,
		ProvingTimeout:         DefaultProvingTimeout,
		MaxTxs:                 DefaultMaxTxs,
		SegmentsLengths:        segmentsLengths,
		PollInterval:           DefaultPollInterval,
		LogLevel:               "info",
	}
}

// Check validates the config, grounded on op-challenger/config.go's
// Check(): every field is checked in order and the first violation
// wins, returning a sentinel error rather than a formatted string.
func (c Config) Check() error {
	if c.OutputOracleAddress == (common.Address{}) {
		return ErrMissingOracleAddress
	}
	if c.ValidatorPoolAddress == (common.Address{}) {
		return ErrMissingBondPoolAddress
	}
	if c.SecurityCouncilAddress == (common.Address{}) {
		return ErrMissingCouncilAddress
	}
	if c.TrieVerifierEndpoint == "" {
		return ErrMissingTrieVerifier
	}
	if c.BisectionTimeout == 0 {
		return ErrZeroBisectionTimeout
	}
	if c.ProvingTimeout == 0 {
		return ErrZeroProvingTimeout
	}
	if c.MaxTxs == 0 {
		return ErrZeroMaxTxs
	}
	if c.PollInterval == 0 {
		return ErrZeroPollInterval
	}
	// SubmissionInterval is only known once the Oracle collaborator is
	// reachable; the product law is checked again at coordinator
	// construction time (colosseum.New), not here.
	return nil
}

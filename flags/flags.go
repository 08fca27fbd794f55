// Package flags declares the op-colosseum CLI surface, grounded on
// op-challenger/flags/flags.go's EnvVarPrefix + prefixed-flag
// convention.
package flags

import (
	"fmt"

	"github.com/mantlenetworkio/colosseum/config"
	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "OP_COLOSSEUM"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	OutputOracleAddressFlag = &cli.StringFlag{
		Name:    "output-oracle-address",
		Usage:   "Address of the L2 output oracle contract.",
		EnvVars: prefixEnvVars("OUTPUT_ORACLE_ADDRESS"),
	}
	ValidatorPoolAddressFlag = &cli.StringFlag{
		Name:    "validator-pool-address",
		Usage:   "Address of the validator bond pool contract.",
		EnvVars: prefixEnvVars("VALIDATOR_POOL_ADDRESS"),
	}
	SecurityCouncilAddressFlag = &cli.StringFlag{
		Name:    "security-council-address",
		Usage:   "Address of the security council contract.",
		EnvVars: prefixEnvVars("SECURITY_COUNCIL_ADDRESS"),
	}
	TrieVerifierEndpointFlag = &cli.StringFlag{
		Name:    "trie-verifier-endpoint",
		Usage:   "RPC endpoint of the Merkle-trie inclusion proof verifier.",
		EnvVars: prefixEnvVars("TRIE_VERIFIER_ENDPOINT"),
	}
	SegmentsLengthsFlag = &cli.Uint64SliceFlag{
		Name:    "segments-lengths",
		Usage:   "The L[1..K] segment length vector, comma-separated.",
		EnvVars: prefixEnvVars("SEGMENTS_LENGTHS"),
	}
	DummyHashFlag = &cli.StringFlag{
		Name:    "dummy-hash",
		Usage:   "The fixed transaction-root padding hash.",
		EnvVars: prefixEnvVars("DUMMY_HASH"),
	}
	MaxTxsFlag = &cli.IntFlag{
		Name:    "max-txs",
		Usage:   "Maximum transactions per block the padding scheme accommodates.",
		EnvVars: prefixEnvVars("MAX_TXS"),
		Value:   config.DefaultMaxTxs,
	}
	BisectionTimeoutFlag = &cli.DurationFlag{
		Name:    "bisection-timeout",
		Usage:   "Time allowed for a turn-holder to respond during bisection.",
		EnvVars: prefixEnvVars("BISECTION_TIMEOUT"),
		Value:   config.DefaultBisectionTimeout,
	}
	ProvingTimeoutFlag = &cli.DurationFlag{
		Name:    "proving-timeout",
		Usage:   "Additional time allowed for the challenger to submit a ZK proof after the asserter's default.",
		EnvVars: prefixEnvVars("PROVING_TIMEOUT"),
		Value:   config.DefaultProvingTimeout,
	}
	PollIntervalFlag = &cli.DurationFlag{
		Name:    "poll-interval",
		Usage:   "How often the service runner re-evaluates known challenges.",
		EnvVars: prefixEnvVars("POLL_INTERVAL"),
		Value:   config.DefaultPollInterval,
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "The lowest log level that will be output.",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Value:   "info",
	}
)

var requiredFlags = []cli.Flag{
	OutputOracleAddressFlag,
	ValidatorPoolAddressFlag,
	SecurityCouncilAddressFlag,
	TrieVerifierEndpointFlag,
	SegmentsLengthsFlag,
	DummyHashFlag,
}

var optionalFlags = []cli.Flag{
	MaxTxsFlag,
	BisectionTimeoutFlag,
	ProvingTimeoutFlag,
	PollIntervalFlag,
	LogLevelFlag,
}

// Flags is the complete CLI surface registered on the app.
var Flags []cli.Flag

func init() {
	Flags = append(Flags, requiredFlags...)
	Flags = append(Flags, optionalFlags...)
}

// CheckRequired mirrors op-challenger's own fail-fast pattern: every
// required flag must be set before the CLI action attempts to build a
// Config, so the error names the missing flag instead of surfacing as
// a zero-value downstream.
func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}

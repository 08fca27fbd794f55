// Command op-colosseum runs the Service Runner for the Colosseum fault
// dispute protocol and serves Prometheus metrics, in the same
// single-binary-CLI shape as op-validator/cmd/main.go. The runner forces
// CHALLENGER_TIMEOUT transitions only on the outputIndex values it is
// given to watch; this command gives it none, so its ticks evaluate no
// challenge.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	occonfig "github.com/mantlenetworkio/colosseum/config"
	"github.com/mantlenetworkio/colosseum/colosseum"
	"github.com/mantlenetworkio/colosseum/colosseum/contracts"
	"github.com/mantlenetworkio/colosseum/flags"
	"github.com/mantlenetworkio/colosseum/metrics"
	opclock "github.com/mantlenetworkio/colosseum/op-service/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slog"
)

var (
	GitCommit = ""
	GitDate   = ""
	Version   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "op-colosseum"
	app.Usage = "Colosseum fault dispute service runner"
	app.Description = "Polls and progresses forced transitions of active fault-dispute challenges"
	app.Flags = append(flags.Flags, MetricsAddrFlag)
	app.Action = Main

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

var MetricsAddrFlag = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "Address to serve Prometheus metrics on; empty disables the server.",
	EnvVars: []string{flags.EnvVarPrefix + "_METRICS_ADDR"},
}

func Main(ctx *cli.Context) error {
	if err := flags.CheckRequired(ctx); err != nil {
		return err
	}
	logger := newLogger(ctx.String(flags.LogLevelFlag.Name))

	segLengths, err := parseSegmentsLengths(ctx.Uint64Slice(flags.SegmentsLengthsFlag.Name))
	if err != nil {
		return err
	}
	cfg := occonfig.NewConfig(
		common.HexToAddress(ctx.String(flags.OutputOracleAddressFlag.Name)),
		common.HexToAddress(ctx.String(flags.ValidatorPoolAddressFlag.Name)),
		common.HexToAddress(ctx.String(flags.SecurityCouncilAddressFlag.Name)),
		ctx.String(flags.TrieVerifierEndpointFlag.Name),
		segLengths,
	)
	cfg.DummyHash = common.HexToHash(ctx.String(flags.DummyHashFlag.Name))
	cfg.MaxTxs = ctx.Int(flags.MaxTxsFlag.Name)
	cfg.BisectionTimeout = ctx.Duration(flags.BisectionTimeoutFlag.Name)
	cfg.ProvingTimeout = ctx.Duration(flags.ProvingTimeoutFlag.Name)
	cfg.PollInterval = ctx.Duration(flags.PollIntervalFlag.Name)
	cfg.LogLevel = ctx.String(flags.LogLevelFlag.Name)
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	m := metrics.NewMetrics()
	if addr := ctx.String(MetricsAddrFlag.Name); addr != "" {
		go serveMetrics(addr, m, logger)
	}

	// Collaborator bindings to the live output oracle, bond pool,
	// security council and external verifiers are deployment-specific
	// (spec.md §6 leaves them opaque); the in-memory fakes stand in here
	// so the runner is a complete, runnable binary out of the box.
	oracle := contracts.NewMemOracle(1_000_000)
	bondPool := contracts.NewMemBondPool()
	council := contracts.NewMemCouncil(cfg.SecurityCouncilAddress)
	zk := contracts.NewMemZKVerifier()
	trie := contracts.NewMemTrieVerifier()

	coordCfg := colosseum.Config{
		BisectionTimeout: cfg.BisectionTimeout,
		ProvingTimeout:   cfg.ProvingTimeout,
		DummyHash:        cfg.DummyHash,
		MaxTxs:           cfg.MaxTxs,
		SegmentsLengths:  cfg.SegmentsLengths,
	}
	coord, err := colosseum.New(coordCfg, oracle, bondPool, council, zk, trie, opclock.SystemClock{}, logger)
	if err != nil {
		return fmt.Errorf("failed to construct coordinator: %w", err)
	}

	runner := colosseum.NewRunner(coord, cfg.PollInterval, m, logger, nil)

	runCtx, cancel := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	logger.Info("op-colosseum starting", "pollInterval", cfg.PollInterval)
	err = runner.Run(runCtx)
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func serveMetrics(addr string, m *metrics.Metrics, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "err", err)
	}
}

func parseSegmentsLengths(vals []uint64) ([]uint64, error) {
	if len(vals) == 0 {
		return nil, fmt.Errorf("segments-lengths must not be empty")
	}
	return vals, nil
}

func newLogger(level string) log.Logger {
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, parseLevel(level), false)
	return log.NewLogger(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "trace":
		return log.LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "crit":
		return log.LevelCrit
	default:
		return slog.LevelInfo
	}
}

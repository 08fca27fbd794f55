package colosseum

import (
	"context"
	"time"

	"github.com/mantlenetworkio/colosseum/colosseum/types"
	"github.com/mantlenetworkio/colosseum/metrics"
	"github.com/ethereum/go-ethereum/log"
)

// Runner is the Service Runner ambient component: it polls a set of
// watched outputIndex values on an interval and forces any
// CHALLENGER_TIMEOUT transitions it observes, draining the
// Coordinator's event channel into logs and metrics as it goes.
// Structurally this is op-challenger/game/fault.Agent's Act() polling
// loop, adapted from "progress one game's claim tree" to "progress one
// challenge's forced timeout transition".
type Runner struct {
	coord        *Coordinator
	pollInterval time.Duration
	metrics      metrics.Metricer
	log          log.Logger

	watch []types.OutputIndex
}

func NewRunner(coord *Coordinator, pollInterval time.Duration, m metrics.Metricer, logger log.Logger, watch []types.OutputIndex) *Runner {
	if m == nil {
		m = metrics.NoopMetrics
	}
	if logger == nil {
		logger = log.Root()
	}
	return &Runner{coord: coord, pollInterval: pollInterval, metrics: m, log: logger, watch: watch}
}

// Run blocks, polling on pollInterval until ctx is done. Each tick: for
// every watched outputIndex, force ChallengerTimeout if due, then drain
// pending events into logs and metrics.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	r.metrics.RecordUp()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		case ev := <-r.coord.Events():
			r.handle(ev)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	active := 0
	for _, index := range r.watch {
		status, err := r.coord.GetStatus(index)
		if err != nil {
			r.log.Warn("Failed to evaluate status", "outputIndex", index, "err", err)
			continue
		}
		if status == types.StatusChallengerTimeout {
			if err := r.coord.ChallengerTimeout(ctx, index); err != nil {
				r.log.Warn("Failed to force challenger timeout", "outputIndex", index, "err", err)
				r.metrics.RecordOperationFailed("challengerTimeout")
			}
			continue
		}
		if status.InProgress() {
			active++
		}
	}
	r.metrics.RecordActiveChallenges(active)

	// drain any events queued since the last tick without blocking
	for {
		select {
		case ev := <-r.coord.Events():
			r.handle(ev)
		default:
			return
		}
	}
}

func (r *Runner) handle(ev Event) {
	switch ev.Kind {
	case EventChallengeCreated:
		r.metrics.RecordChallengeCreated(uint64(ev.OutputIndex))
	case EventBisected:
		r.metrics.RecordBisected(uint64(ev.OutputIndex), ev.Turn)
	case EventProven:
		r.metrics.RecordProven(uint64(ev.OutputIndex))
	case EventApproved:
		r.metrics.RecordApproved(uint64(ev.OutputIndex))
	case EventDeleted:
		r.metrics.RecordDeleted(uint64(ev.OutputIndex))
	}
	r.log.Info("Challenge event", "kind", ev.Kind, "outputIndex", ev.OutputIndex)
}

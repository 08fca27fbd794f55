// Package metrics declares the Metricer surface the service runner
// records against, grounded on op-challenger/metrics for the interface
// shape and on datalayr/dl-node's metrics.go for the
// promauto.With(registry) registration style.
package metrics

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "op_colosseum"

// Metricer is the full set of measurements the service runner records
// while draining coordinator events (spec.md §6).
type Metricer interface {
	RecordUp()
	RecordChallengeCreated(outputIndex uint64)
	RecordBisected(outputIndex uint64, turn uint64)
	RecordProven(outputIndex uint64)
	RecordApproved(outputIndex uint64)
	RecordDeleted(outputIndex uint64)
	RecordOperationFailed(op string)
	RecordActiveChallenges(n int)
	RecordCallerAddress(role string, addr common.Address)
}

// Metrics is the Prometheus-backed Metricer, registered under Namespace
// the way op-challenger's metrics.Metrics embeds op-service/metrics
// helpers instead of hand-rolling registration boilerplate.
type Metrics struct {
	registry *prometheus.Registry

	up                *prometheus.GaugeVec
	challengesCreated prometheus.Counter
	bisections        *prometheus.CounterVec
	proofsAccepted    prometheus.Counter
	approvals         prometheus.Counter
	deletions         prometheus.Counter
	operationFailures *prometheus.CounterVec
	activeChallenges  prometheus.Gauge
}

var _ Metricer = (*Metrics)(nil)

// NewMetrics constructs and registers the collectors against a fresh
// registry, following the promauto.With(reg) style used by dl-node's
// NewMetrics rather than registering against prometheus's global
// default registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(collectors.NewGoCollector())

	return &Metrics{
		registry: reg,

		up: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "up",
			Help:      "1 if the service runner is polling",
		}, []string{}),
		challengesCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "challenges_created_total",
			Help:      "Number of challenges created",
		}),
		bisections: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bisections_total",
			Help:      "Number of bisect calls, labeled by resulting turn",
		}, []string{"turn"}),
		proofsAccepted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "proofs_accepted_total",
			Help:      "Number of proveFault calls that were accepted",
		}),
		approvals: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "approvals_total",
			Help:      "Number of challenges approved by the council",
		}),
		deletions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "challenger_timeouts_total",
			Help:      "Number of challenges cleared by challenger timeout",
		}),
		operationFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operation_failures_total",
			Help:      "Number of operation failures, labeled by operation name",
		}, []string{"op"}),
		activeChallenges: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "active_challenges",
			Help:      "Current number of in-progress challenges observed by the runner",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecordUp() { m.up.WithLabelValues().Set(1) }

func (m *Metrics) RecordChallengeCreated(outputIndex uint64) { m.challengesCreated.Inc() }

func (m *Metrics) RecordBisected(outputIndex uint64, turn uint64) {
	m.bisections.WithLabelValues(itoa(turn)).Inc()
}

func (m *Metrics) RecordProven(outputIndex uint64) { m.proofsAccepted.Inc() }

func (m *Metrics) RecordApproved(outputIndex uint64) { m.approvals.Inc() }

func (m *Metrics) RecordDeleted(outputIndex uint64) { m.deletions.Inc() }

func (m *Metrics) RecordOperationFailed(op string) { m.operationFailures.WithLabelValues(op).Inc() }

func (m *Metrics) RecordActiveChallenges(n int) { m.activeChallenges.Set(float64(n)) }

func (m *Metrics) RecordCallerAddress(role string, addr common.Address) {}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

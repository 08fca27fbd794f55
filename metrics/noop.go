package metrics

import "github.com/ethereum/go-ethereum/common"

// NoopMetricsImpl discards every measurement, grounded on
// op-challenger/metrics.NoopMetricsImpl, used by tests and anywhere a
// Metricer is required but no registry is wired up.
type NoopMetricsImpl struct{}

var NoopMetrics Metricer = new(NoopMetricsImpl)

var _ Metricer = (*NoopMetricsImpl)(nil)

func (*NoopMetricsImpl) RecordUp()                                        {}
func (*NoopMetricsImpl) RecordChallengeCreated(outputIndex uint64)        {}
func (*NoopMetricsImpl) RecordBisected(outputIndex uint64, turn uint64)   {}
func (*NoopMetricsImpl) RecordProven(outputIndex uint64)                  {}
func (*NoopMetricsImpl) RecordApproved(outputIndex uint64)                {}
func (*NoopMetricsImpl) RecordDeleted(outputIndex uint64)                 {}
func (*NoopMetricsImpl) RecordOperationFailed(op string)                  {}
func (*NoopMetricsImpl) RecordActiveChallenges(n int)                     {}
func (*NoopMetricsImpl) RecordCallerAddress(role string, addr common.Address) {}

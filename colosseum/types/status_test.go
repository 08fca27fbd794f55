package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEvaluateStatus(t *testing.T) {
	arith := SegmentArithmetic{Lengths: SegmentsLengths{2, 2, 3, 4}}
	provingTimeout := 10 * time.Minute
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("none when turn is zero", func(t *testing.T) {
		c := &Challenge{}
		status, err := EvaluateStatus(arith, c, base, provingTimeout)
		require.NoError(t, err)
		require.Equal(t, StatusNone, status)
	})

	t.Run("approved wins over everything else", func(t *testing.T) {
		c := &Challenge{Turn: 2, Approved: true, TimeoutAt: base.Add(-time.Hour)}
		status, err := EvaluateStatus(arith, c, base, provingTimeout)
		require.NoError(t, err)
		require.Equal(t, StatusApproved, status)
	})

	t.Run("proven once output root is set", func(t *testing.T) {
		c := &Challenge{Turn: 3, OutputRoot: Hash{0x1}, TimeoutAt: base.Add(time.Hour)}
		status, err := EvaluateStatus(arith, c, base, provingTimeout)
		require.NoError(t, err)
		require.Equal(t, StatusProven, status)
	})

	t.Run("asserter turn after the opening submission, not yet timed out", func(t *testing.T) {
		c := &Challenge{Turn: 1, SegSize: 6, TimeoutAt: base.Add(time.Hour)}
		status, err := EvaluateStatus(arith, c, base, provingTimeout)
		require.NoError(t, err)
		require.Equal(t, StatusAsserterTurn, status, "at turn 1 the asserter moves next")
	})

	t.Run("ready to prove once no further bisection is possible", func(t *testing.T) {
		c := &Challenge{Turn: 4, SegSize: 3, TimeoutAt: base.Add(time.Hour)}
		status, err := EvaluateStatus(arith, c, base, provingTimeout)
		require.NoError(t, err)
		require.Equal(t, StatusReadyToProve, status)
	})

	t.Run("asserter timeout before the proving grace period elapses", func(t *testing.T) {
		c := &Challenge{Turn: 1, SegSize: 6, TimeoutAt: base.Add(-time.Minute)}
		status, err := EvaluateStatus(arith, c, base, provingTimeout)
		require.NoError(t, err)
		require.Equal(t, StatusAsserterTimeout, status, "turn 1 times out to the asserter, not the challenger")
	})

	t.Run("challenger timeout past the proving grace period", func(t *testing.T) {
		c := &Challenge{Turn: 1, SegSize: 6, TimeoutAt: base.Add(-provingTimeout - time.Minute)}
		status, err := EvaluateStatus(arith, c, base, provingTimeout)
		require.NoError(t, err)
		require.Equal(t, StatusChallengerTimeout, status)
	})

	t.Run("challenger timeout directly on an even turn", func(t *testing.T) {
		c := &Challenge{Turn: 2, SegSize: 6, TimeoutAt: base.Add(-time.Minute)}
		status, err := EvaluateStatus(arith, c, base, provingTimeout)
		require.NoError(t, err)
		require.Equal(t, StatusChallengerTimeout, status)
	})

	t.Run("strict inequality: exactly at timeout is not yet timed out", func(t *testing.T) {
		c := &Challenge{Turn: 1, SegSize: 6, TimeoutAt: base}
		status, err := EvaluateStatus(arith, c, base, provingTimeout)
		require.NoError(t, err)
		require.Equal(t, StatusAsserterTurn, status)
	})
}

func TestStatusInProgress(t *testing.T) {
	require.False(t, StatusNone.InProgress())
	require.False(t, StatusChallengerTimeout.InProgress())
	require.True(t, StatusChallengerTurn.InProgress())
	require.True(t, StatusAsserterTurn.InProgress())
	require.True(t, StatusReadyToProve.InProgress())
	require.True(t, StatusAsserterTimeout.InProgress())
	require.True(t, StatusProven.InProgress())
	require.True(t, StatusApproved.InProgress())
}

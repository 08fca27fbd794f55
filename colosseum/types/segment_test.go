package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentsLengthsValidate(t *testing.T) {
	tests := []struct {
		name               string
		lengths            SegmentsLengths
		submissionInterval uint64
		wantErr            bool
	}{
		{"valid even vector", SegmentsLengths{2, 2, 3, 4}, 6, false},
		{"odd length count", SegmentsLengths{2, 2, 3}, 2, true},
		{"product mismatch", SegmentsLengths{2, 2, 3, 4}, 7, true},
		{"length below two", SegmentsLengths{2, 1}, 1, true},
		{"empty vector", SegmentsLengths{}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lengths.Validate(tt.submissionInterval)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSegmentArithmeticChildRange(t *testing.T) {
	arith := SegmentArithmetic{Lengths: SegmentsLengths{2, 2, 3, 4}}

	ableToBisect, err := arith.IsAbleToBisect(1, 6)
	require.NoError(t, err)
	require.True(t, ableToBisect)

	start, size, err := arith.ChildRange(1, 0, 6, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), start)
	require.Equal(t, uint64(6), size)

	_, _, err = arith.ChildRange(1, 0, 6, 1)
	require.ErrorIs(t, err, ErrBadSegments)
}

func TestSegmentArithmeticFinalTurnCollapsesToSingleBlock(t *testing.T) {
	arith := SegmentArithmetic{Lengths: SegmentsLengths{2, 2, 3, 4}}
	ableToBisect, err := arith.IsAbleToBisect(4, 3)
	require.NoError(t, err)
	require.False(t, ableToBisect, "turn 4 with segSize 3 must collapse to single-block granularity")
}

func TestNextActorIsChallenger(t *testing.T) {
	require.True(t, NextActorIsChallenger(2))
	require.False(t, NextActorIsChallenger(1))
}

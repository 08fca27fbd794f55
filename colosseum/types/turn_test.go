package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestCheckTurn(t *testing.T) {
	asserter := common.Address{0x1}
	challenger := common.Address{0x2}
	stranger := common.Address{0x3}
	c := &Challenge{Asserter: asserter, Challenger: challenger}

	require.NoError(t, CheckTurn(StatusChallengerTurn, c, challenger))
	require.ErrorIs(t, CheckTurn(StatusChallengerTurn, c, asserter), ErrWrongTurn)

	require.NoError(t, CheckTurn(StatusAsserterTurn, c, asserter))
	require.ErrorIs(t, CheckTurn(StatusAsserterTurn, c, challenger), ErrWrongTurn)

	require.NoError(t, CheckTurn(StatusReadyToProve, c, challenger))
	require.NoError(t, CheckTurn(StatusAsserterTimeout, c, challenger))

	require.NoError(t, CheckTurn(StatusChallengerTimeout, c, asserter))
	require.ErrorIs(t, CheckTurn(StatusChallengerTimeout, c, challenger), ErrWrongTurn)
	require.ErrorIs(t, CheckTurn(StatusChallengerTimeout, c, stranger), ErrWrongTurn)

	require.ErrorIs(t, CheckTurn(StatusNone, c, asserter), ErrWrongTurn)
	require.ErrorIs(t, CheckTurn(StatusProven, c, asserter), ErrWrongTurn)
	require.ErrorIs(t, CheckTurn(StatusApproved, c, asserter), ErrWrongTurn)
}

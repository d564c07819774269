package logicpk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettle(t *testing.T) {
	s := Settle(100)

	require.Equal(t, int64(200), s.TotalPot)
	require.Equal(t, int64(20), s.PlatformFee)
	require.Equal(t, int64(180), s.WinnerPrize)
	require.Equal(t, ConsolationPrize, s.Consolation)
}

func TestSettleMaxBet(t *testing.T) {
	s := Settle(MaxBet)

	require.Equal(t, int64(2000), s.TotalPot)
	require.Equal(t, int64(200), s.PlatformFee)
	require.Equal(t, int64(1800), s.WinnerPrize)
}

func TestSettlePotAccountedFor(t *testing.T) {
	for _, bet := range []int64{MinBet, 55, 500, MaxBet} {
		s := Settle(bet)
		require.Equal(t, s.TotalPot, s.WinnerPrize+s.PlatformFee,
			"bet=%d", bet)
	}
}

func TestQuestionsWellFormed(t *testing.T) {
	require.NotEmpty(t, Questions)

	seen := make(map[string]bool)
	for _, q := range Questions {
		require.False(t, seen[q.ID], "duplicate question id %s", q.ID)
		seen[q.ID] = true

		require.Len(t, q.Options, 4, "question %s", q.ID)
		require.Contains(t, q.Options, q.Correct, "question %s", q.ID)
	}
}

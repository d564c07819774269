package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayoutWin(t *testing.T) {
	o := Payout(100, WinningRate)

	require.Equal(t, ResultWin, o.Result)
	require.Equal(t, int64(70), o.WonAmount)
	require.Equal(t, int64(30), o.CharityAmount)
	require.Equal(t, int64(0), o.PlatformCut)
	// payout minus stake: winning still costs 30
	require.Equal(t, int64(-30), o.BalanceChange)
}

func TestPayoutLose(t *testing.T) {
	o := Payout(100, WinningRate+1)

	require.Equal(t, ResultLose, o.Result)
	require.Equal(t, int64(0), o.WonAmount)
	require.Equal(t, int64(45), o.CharityAmount)
	require.Equal(t, int64(55), o.PlatformCut)
	require.Equal(t, int64(-100), o.BalanceChange)
}

func TestPayoutDrawBoundaries(t *testing.T) {
	require.Equal(t, ResultWin, Payout(50, 1).Result)
	require.Equal(t, ResultWin, Payout(50, 45).Result)
	require.Equal(t, ResultLose, Payout(50, 46).Result)
	require.Equal(t, ResultLose, Payout(50, 100).Result)
}

func TestPayoutSplitsCoverBet(t *testing.T) {
	for _, bet := range []int64{MinBet, 100, 1234, MaxBet} {
		win := Payout(bet, 1)
		require.Equal(t, bet, win.WonAmount+win.CharityAmount,
			"win split for bet=%d", bet)

		lose := Payout(bet, 100)
		require.Equal(t, bet, lose.CharityAmount+lose.PlatformCut,
			"lose split for bet=%d", bet)
	}
}

package leaderboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTierForRank(t *testing.T) {
	require.Equal(t, "gold", TierForRank(1))
	require.Equal(t, "gold", TierForRank(10))
	require.Equal(t, "silver", TierForRank(11))
	require.Equal(t, "silver", TierForRank(50))
	require.Equal(t, "bronze", TierForRank(51))
	require.Equal(t, "bronze", TierForRank(150))
}

func TestPrizeTables(t *testing.T) {
	require.Equal(t, int64(500), DailyPrizes[1])
	require.Equal(t, int64(200), DailyPrizes[3])
	require.Len(t, DailyPrizes, 3)

	require.Equal(t, int64(5000), WeeklyPrizes[1])
	require.Equal(t, int64(2000), WeeklyPrizes[3])
	for rank := 4; rank <= 10; rank++ {
		require.Equal(t, int64(1000), WeeklyPrizes[rank], "rank=%d", rank)
		require.Equal(t, int64(500), MonthlyPrizes[rank], "rank=%d", rank)
	}
	require.Len(t, WeeklyPrizes, 10)
	require.Len(t, MonthlyPrizes, 10)

	_, ok := WeeklyPrizes[11]
	require.False(t, ok)
}

func TestPrizesForPeriodKeys(t *testing.T) {
	now := time.Now()

	prizes, key, err := prizesFor(PeriodDaily)
	require.NoError(t, err)
	require.Equal(t, DailyPrizes, prizes)
	require.Equal(t, now.Format("2006-01-02"), key)

	prizes, key, err = prizesFor(PeriodWeekly)
	require.NoError(t, err)
	require.Equal(t, WeeklyPrizes, prizes)
	year, week := now.ISOWeek()
	require.Equal(t, fmt.Sprintf("%d-W%02d", year, week), key)

	prizes, key, err = prizesFor(PeriodMonthly)
	require.NoError(t, err)
	require.Equal(t, MonthlyPrizes, prizes)
	require.Equal(t, now.Format("2006-01"), key)

	_, _, err = prizesFor("hourly")
	require.Error(t, err)
}

func TestMonthlyVideoPrizes(t *testing.T) {
	require.Len(t, MonthlyVideoPrizes, 10)
	require.Equal(t, "iPhone 16 Pro Max", MonthlyVideoPrizes[1].Prize)
	for rank := 6; rank <= 10; rank++ {
		require.Equal(t, int64(10000), MonthlyVideoPrizes[rank].Coins, "rank=%d", rank)
	}
}

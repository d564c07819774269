package exchange

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteFor(t *testing.T) {
	q := QuoteFor(1000)

	require.Equal(t, int64(1000), q.Stars)
	require.Equal(t, int64(920), q.GrossCoins)
	require.Equal(t, int64(80), q.FeeCoins)
	// the quoted rate already nets out the fee
	require.Equal(t, q.GrossCoins, q.NetCoins)
}

func TestQuoteForMinimum(t *testing.T) {
	q := QuoteFor(MinimumStars)

	require.Equal(t, int64(920), q.NetCoins)
	require.Equal(t, int64(80), q.FeeCoins)
}

func TestQuoteForTruncates(t *testing.T) {
	// 1001 * 0.92 = 920.92 -> 920; fee 1001 * 8% = 80.08 -> 80
	q := QuoteFor(1001)
	require.Equal(t, int64(920), q.GrossCoins)
	require.Equal(t, int64(80), q.FeeCoins)

	q = QuoteFor(12345)
	require.Equal(t, int64(11357), q.GrossCoins)
	require.Equal(t, int64(987), q.FeeCoins)
}

package agency

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBracketForBoundaries(t *testing.T) {
	cases := []struct {
		earnings int64
		rate     int64
	}{
		{0, 4},
		{1_500_000, 4},
		{2_000_000, 4}, // upper bound is inclusive
		{2_000_001, 8},
		{10_000_000, 8},
		{10_000_001, 12},
		{50_000_001, 16},
		{150_000_001, 20},
		{5_000_000_000, 20},
	}

	for _, c := range cases {
		require.Equal(t, c.rate, BracketFor(c.earnings).Rate,
			"earnings=%d", c.earnings)
	}
}

func TestCommissionOfTruncates(t *testing.T) {
	require.Equal(t, int64(40), CommissionOf(1000, 4))
	require.Equal(t, int64(80), CommissionOf(1000, 8))

	// 33 * 4% = 1.32, truncated toward zero
	require.Equal(t, int64(1), CommissionOf(33, 4))
	require.Equal(t, int64(0), CommissionOf(10, 4))
}

func TestAgentLevelFor(t *testing.T) {
	require.Equal(t, 1, AgentLevelFor(0).Level)
	require.Equal(t, 1, AgentLevelFor(1_999_999).Level)
	require.Equal(t, 2, AgentLevelFor(2_000_000).Level)
	require.Equal(t, 3, AgentLevelFor(10_000_000).Level)
	require.Equal(t, 4, AgentLevelFor(50_000_000).Level)
	require.Equal(t, 5, AgentLevelFor(150_000_000).Level)
	require.Equal(t, 5, AgentLevelFor(999_999_999_999).Level)
}

func TestBracketAndLevelRatesAgree(t *testing.T) {
	// an agent's level rate must match the bracket covering the same earnings
	for _, earnings := range []int64{0, 2_000_000, 2_000_001, 10_000_001, 50_000_001, 150_000_001} {
		require.Equal(t, BracketFor(earnings).Rate, AgentLevelFor(earnings).Rate,
			"earnings=%d", earnings)
	}
}

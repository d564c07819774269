package vip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEligibleLevel(t *testing.T) {
	cases := []struct {
		recharged int64
		level     int
	}{
		{0, 0},
		{499, 0},
		{500, 1},
		{4_999, 1},
		{5_000, 3}, // Silver and Gold share the threshold; Gold wins
		{14_999, 3},
		{15_000, 4},
		{49_999, 4},
		{50_000, 5},
		{1_000_000, 5},
	}

	for _, c := range cases {
		require.Equal(t, c.level, EligibleLevel(c.recharged),
			"recharged=%d", c.recharged)
	}
}

func TestLevelByNumber(t *testing.T) {
	l, ok := LevelByNumber(2)
	require.True(t, ok)
	require.Equal(t, "Silver", l.Name)
	require.Equal(t, int64(5000), l.MinRecharge)

	_, ok = LevelByNumber(6)
	require.False(t, ok)
}

func TestLevelsOrderedAscending(t *testing.T) {
	for i := 1; i < len(Levels); i++ {
		require.Equal(t, Levels[i-1].Level+1, Levels[i].Level)
		require.GreaterOrEqual(t, Levels[i].MinRecharge, Levels[i-1].MinRecharge)
	}
}

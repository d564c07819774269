package reward

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestAvailableRewards(t *testing.T) {
	cases := []struct {
		name      string
		minutes   int64
		claimed   int64
		available int64
	}{
		{"no activity", 0, 0, 0},
		{"just under one block", 14, 0, 0},
		{"one block earned", 15, 0, 1},
		{"one earned one claimed", 15, 1, 0},
		{"three earned one claimed", 45, 1, 2},
		{"cap reached", 200, 0, 6},
		{"cap after claims", 200, 4, 2},
		{"all claimed", 200, 6, 0},
		{"claims never go negative", 15, 6, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := &ActivitySession{
				TotalActiveMinutes: c.minutes,
				RewardsClaimed:     c.claimed,
			}
			require.Equal(t, c.available, availableRewards(a))
		})
	}
}

func TestMissionByID(t *testing.T) {
	m, ok := MissionByID("study_time")
	require.True(t, ok)
	require.Equal(t, int64(40), m.RewardCoins)
	require.Equal(t, 30, m.Target)

	_, ok = MissionByID("sleep_early")
	require.False(t, ok)
}

package education

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelForHours(t *testing.T) {
	cases := []struct {
		hours float64
		name  string
	}{
		{0, "seedling"},
		{9.9, "seedling"},
		{10, "sprout"},
		{24.99, "sprout"},
		{25, "tree"},
		{50, "star_learner"},
		{100, "diamond_scholar"},
		{200, "master_guru"},
		{499.9, "master_guru"},
		{500, "legend"},
		{10_000, "legend"},
	}

	for _, c := range cases {
		require.Equal(t, c.name, LevelForHours(c.hours).Name,
			"hours=%v", c.hours)
	}
}

func TestNextLevel(t *testing.T) {
	next := NextLevel(0)
	require.NotNil(t, next)
	require.Equal(t, "sprout", next.Name)

	next = NextLevel(150)
	require.NotNil(t, next)
	require.Equal(t, "master_guru", next.Name)

	require.Nil(t, NextLevel(500))
}

func TestCourseIDsAreSlugs(t *testing.T) {
	ids := make(map[string]bool)
	for _, c := range Courses {
		require.False(t, ids[c.ID], "duplicate course id %s", c.ID)
		ids[c.ID] = true
	}

	require.True(t, ids["math-basics"])
	require.True(t, ids["english-speaking"])
	require.True(t, ids["mind-training"])

	_, ok := CourseByID("math-basics")
	require.True(t, ok)
	_, ok = CourseByID("unknown-course")
	require.False(t, ok)
}

func TestMindGameReward(t *testing.T) {
	g, ok := MindGameByID("math_puzzle")
	require.True(t, ok)
	require.Equal(t, int64(100), g.CoinsReward)
	require.Equal(t, 60, g.TimeLimitSeconds)

	// full score at a normal pace pays the base reward
	require.Equal(t, int64(100), MindGameReward(g, 100, 45))

	// score scales the base linearly
	require.Equal(t, int64(50), MindGameReward(g, 50, 45))
	require.Equal(t, int64(0), MindGameReward(g, 0, 45))

	// finishing under half the limit pays 1.5x
	require.Equal(t, int64(150), MindGameReward(g, 100, 29))
	require.Equal(t, int64(100), MindGameReward(g, 100, 30))
}

func TestMindGameRewardClampsScore(t *testing.T) {
	g, ok := MindGameByID("memory_match")
	require.True(t, ok)

	require.Equal(t, int64(50), MindGameReward(g, 250, 100))
	require.Equal(t, int64(0), MindGameReward(g, -10, 100))
}

package host

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionRewardVideo(t *testing.T) {
	// below the hour minimum nothing is paid
	require.Equal(t, int64(0), SessionReward(TypeVideo, true, 59))
	require.Equal(t, int64(0), SessionReward(TypeVideo, false, 59))

	require.Equal(t, int64(2000), SessionReward(TypeVideo, true, 60))
	require.Equal(t, int64(1000), SessionReward(TypeVideo, false, 60))

	// partial hours are not paid
	require.Equal(t, int64(2000), SessionReward(TypeVideo, true, 119))
	require.Equal(t, int64(4000), SessionReward(TypeVideo, true, 120))
	require.Equal(t, int64(2000), SessionReward(TypeVideo, false, 120))
}

func TestSessionRewardAudioWelcome(t *testing.T) {
	require.Equal(t, int64(0), SessionReward(TypeAudio, true, 119))
	require.Equal(t, int64(3000), SessionReward(TypeAudio, true, 120))
	require.Equal(t, int64(3000), SessionReward(TypeAudio, true, 239))
	require.Equal(t, int64(6000), SessionReward(TypeAudio, true, 240))
}

func TestSessionRewardAudioNormal(t *testing.T) {
	// normal audio has no minimum and pays per full hour
	require.Equal(t, int64(0), SessionReward(TypeAudio, false, 59))
	require.Equal(t, int64(500), SessionReward(TypeAudio, false, 60))
	require.Equal(t, int64(500), SessionReward(TypeAudio, false, 90))
	require.Equal(t, int64(1000), SessionReward(TypeAudio, false, 120))
	require.Equal(t, int64(2000), SessionReward(TypeAudio, false, 240))
}

func TestSessionRewardUnknownType(t *testing.T) {
	require.Equal(t, int64(0), SessionReward("screen", true, 600))
}

package charity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gyansultanat-platform/services/testutil"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Contribution{}, &CharityPool{}, &PlatformStat{})

	return NewService(ServiceParams{DB: db, Node: testutil.NewSnowflakeNode(t)})
}

func TestCutOf(t *testing.T) {
	require.Equal(t, int64(2), CutOf(100))
	require.Equal(t, int64(0), CutOf(49))
	require.Equal(t, int64(6000), CutOf(300_000))
}

func TestRecordAccumulatesPool(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "user-1", "gift", 100))
	require.NoError(t, svc.Record(ctx, "user-1", "lucky_wallet", 45))
	require.NoError(t, svc.Record(ctx, "user-2", "gift", 55))

	// zero and negative amounts are ignored
	require.NoError(t, svc.Record(ctx, "user-1", "gift", 0))
	require.NoError(t, svc.Record(ctx, "user-1", "gift", -10))

	status, err := svc.GetStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(200), status.Pool.TotalBalance)
	require.Equal(t, int64(200), status.Pool.TotalReceived)

	rows, total, err := svc.UserContributions(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(145), total)
}

func TestGetStatusPhaseSwitch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	status, err := svc.GetStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, status.Phase)
	require.Equal(t, Phase1Percent, status.CharityPercent)

	require.NoError(t, svc.AddRevenue(ctx, Phase1Threshold))

	status, err = svc.GetStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, status.Phase)
	require.Equal(t, Phase2Percent, status.CharityPercent)
}

func TestAddExchangeVolume(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddExchangeVolume(ctx, 10_000, 800))

	stat, err := svc.getStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(800), stat.TotalRevenue)
	require.Equal(t, int64(10_000), stat.TotalStarsExchanged)
	require.Equal(t, int64(800), stat.TotalExchangeFees)
}

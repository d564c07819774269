package crown

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

	db := testutil.NewTestDB(t, &UserStats{}, &UserCrown{})

	return NewService(ServiceParams{DB: db, Node: testutil.NewSnowflakeNode(t)})
}

func TestCheckEligibilityFreshUser(t *testing.T) {
	svc := newTestService(t)

	elig, err := svc.CheckEligibility(context.Background(), "user-1")
	require.NoError(t, err)
	require.Empty(t, elig.EligibleCrowns)
	require.NotNil(t, elig.Stats)
}

func TestCheckEligibilityBronze(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddVideoStats(ctx, "user-1", 5, 100, 0))

	elig, err := svc.CheckEligibility(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, []string{TypeBronze}, elig.EligibleCrowns)

	// one like short of the threshold
	require.NoError(t, svc.AddVideoStats(ctx, "user-2", 5, 99, 0))

	elig, err = svc.CheckEligibility(ctx, "user-2")
	require.NoError(t, err)
	require.Empty(t, elig.EligibleCrowns)
}

func TestCheckEligibilityGifter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AddGiftsSent(ctx, "user-1", 10_000))

	elig, err := svc.CheckEligibility(ctx, "user-1")
	require.NoError(t, err)
	require.Contains(t, elig.EligibleCrowns, TypeGifter)
}

func TestClaim(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// not eligible yet
	_, err := svc.Claim(ctx, "user-1", TypeBronze)
	require.Error(t, err)

	require.NoError(t, svc.AddVideoStats(ctx, "user-1", 10, 500, 0))

	crown, err := svc.Claim(ctx, "user-1", TypeBronze)
	require.NoError(t, err)
	require.Equal(t, TypeBronze, crown.CrownType)
	require.True(t, crown.IsActive)

	// held crowns drop out of eligibility
	elig, err := svc.CheckEligibility(ctx, "user-1")
	require.NoError(t, err)
	require.NotContains(t, elig.EligibleCrowns, TypeBronze)
}

func TestClaimQueenRejected(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Claim(context.Background(), "user-1", TypeQueen)
	require.Error(t, err)
}

func TestAwardIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Award(ctx, "user-1", TypeQueen)
	require.NoError(t, err)

	second, err := svc.Award(ctx, "user-1", TypeQueen)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	crowns, err := svc.MyCrowns(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, crowns, 1)

	_, err = svc.Award(ctx, "user-1", "emerald")
	require.Error(t, err)
}

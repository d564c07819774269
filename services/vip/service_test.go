package vip

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gyansultanat-platform/services/testutil"
	"gyansultanat-platform/services/wallet"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type seqStub struct{ n int }

func (s *seqStub) next(prefix string) string {
	s.n++
	return fmt.Sprintf("%s-TEST-%06d", prefix, s.n)
}

func (s *seqStub) NextTransactionCode(ctx context.Context) (string, error) {
	return s.next("TXN"), nil
}

func (s *seqStub) NextWithdrawalCode(ctx context.Context) (string, error) {
	return s.next("WDR"), nil
}

func (s *seqStub) NextChallengeCode(ctx context.Context) (string, error) {
	return s.next("CHL"), nil
}

func (s *seqStub) NextPaymentCode(ctx context.Context) (string, error) {
	return s.next("PAY"), nil
}

func newTestService(t *testing.T) (*Service, *wallet.Service) {
	t.Helper()

	db := testutil.NewTestDB(t,
		&VIPStatus{},
		&wallet.Wallet{}, &wallet.WalletTransaction{},
	)
	node := testutil.NewSnowflakeNode(t)

	wallets := wallet.NewService(wallet.ServiceParams{DB: db, Node: node, Sequence: &seqStub{}})

	return NewService(ServiceParams{DB: db, Node: node, Wallet: wallets}), wallets
}

func TestSubscribeActivatesPaidLevel(t *testing.T) {
	svc, wallets := newTestService(t)
	ctx := context.Background()

	status, err := svc.Subscribe(ctx, "user-1", 1)
	require.NoError(t, err)
	require.Equal(t, 1, status.Level)
	require.NotNil(t, status.ExpiresAt)
	require.True(t, status.ExpiresAt.After(time.Now()))

	tier, ok := LevelByNumber(1)
	require.True(t, ok)

	w, err := wallets.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(wallet.WelcomeCoins)-tier.MonthlyFee, w.CoinsBalance)
}

func TestSubscribeRejectsUnknownLevel(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Subscribe(context.Background(), "user-1", 0)
	require.Error(t, err)

	_, err = svc.Subscribe(context.Background(), "user-1", 99)
	require.Error(t, err)
}

func TestExpiredSubscriptionDowngradeIsStored(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	status, err := svc.Subscribe(ctx, "user-1", 1)
	require.NoError(t, err)

	// age the subscription past its expiry
	expired := time.Now().Add(-time.Hour)
	require.NoError(t, svc.statuses.Update(ctx, status.ID, map[string]any{"expires_at": expired}))

	got, err := svc.GetStatus(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 0, got.Level)
	require.Nil(t, got.ExpiresAt)

	// the downgrade is written through, not just reported
	stored, err := svc.statuses.FindOne(ctx, &VIPStatus{UserID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, 0, stored.Level)
	require.Nil(t, stored.ExpiresAt)

	_, err = svc.Renew(ctx, "user-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no active subscription")
}

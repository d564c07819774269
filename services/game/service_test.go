package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gyansultanat-platform/services/charity"
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
		&LuckyWalletGame{},
		&wallet.Wallet{}, &wallet.WalletTransaction{},
		&charity.Contribution{}, &charity.CharityPool{}, &charity.PlatformStat{},
	)
	node := testutil.NewSnowflakeNode(t)

	wallets := wallet.NewService(wallet.ServiceParams{DB: db, Node: node, Sequence: &seqStub{}})
	charities := charity.NewService(charity.ServiceParams{DB: db, Node: node})

	svc := NewService(ServiceParams{DB: db, Node: node, Wallet: wallets, Charity: charities})
	svc.draw = func() int { return WinningRate + 1 } // always a losing draw

	return svc, wallets
}

func TestPlayRejectsBetsOutsideBounds(t *testing.T) {
	svc, wallets := newTestService(t)
	ctx := context.Background()

	_, err := svc.Play(ctx, "user-1", MinBet-1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "minimum bet")

	_, err = svc.Play(ctx, "user-1", MaxBet+1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "maximum bet")

	_, err = svc.Play(ctx, "user-1", 0)
	require.Error(t, err)

	// nothing was played or debited
	games, err := svc.games.Find(ctx, &LuckyWalletGame{UserID: "user-1"})
	require.NoError(t, err)
	require.Empty(t, games)

	w, err := wallets.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(wallet.WelcomeCoins), w.CoinsBalance)
}

func TestPlayAcceptsMinimumBet(t *testing.T) {
	svc, wallets := newTestService(t)
	ctx := context.Background()

	record, err := svc.Play(ctx, "user-1", MinBet)
	require.NoError(t, err)
	require.Equal(t, int64(MinBet), record.BetAmount)
	require.Equal(t, ResultLose, record.Result)

	w, err := wallets.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(wallet.WelcomeCoins-MinBet), w.CoinsBalance)
}

func TestPlayAcceptsMaximumBet(t *testing.T) {
	svc, wallets := newTestService(t)
	ctx := context.Background()

	_, err := wallets.Credit(ctx, wallet.Entry{
		UserID:      "user-1",
		SubBalance:  wallet.SubCoins,
		Amount:      MaxBet,
		Type:        wallet.TypeDeposit,
		Description: "table stake",
	})
	require.NoError(t, err)

	record, err := svc.Play(ctx, "user-1", MaxBet)
	require.NoError(t, err)
	require.Equal(t, int64(MaxBet), record.BetAmount)

	w, err := wallets.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(wallet.WelcomeCoins), w.CoinsBalance)
}

func TestPlayRequiresSufficientBalance(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Play(context.Background(), "user-1", MaxBet)
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient balance")
}

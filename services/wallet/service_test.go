package wallet

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gyansultanat-platform/services/testutil"
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

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Wallet{}, &WalletTransaction{})

	return NewService(ServiceParams{DB: db, Node: testutil.NewSnowflakeNode(t), Sequence: &seqStub{}})
}

func TestGetOrCreateProvisionsWelcomeGrant(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	w, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(WelcomeCoins), w.CoinsBalance)
	require.Equal(t, int64(WelcomeBonus), w.BonusBalance)

	txns, err := svc.transactions.Find(ctx, &WalletTransaction{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.Equal(t, TypeBonus, txns[0].Type)

	// second access returns the same wallet without another grant
	again, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, w.ID, again.ID)

	txns, err = svc.transactions.Find(ctx, &WalletTransaction{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, txns, 1)
}

func TestCreditAddsToSubBalance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	txn, err := svc.Credit(ctx, Entry{
		UserID:      "user-1",
		SubBalance:  SubStars,
		Amount:      250,
		Type:        TypeHostReward,
		Description: "Live session reward",
	})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, txn.Status)

	w, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(250), w.StarsBalance)
	require.Equal(t, int64(WelcomeCoins), w.CoinsBalance)
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Credit(context.Background(), Entry{
		UserID: "user-1", SubBalance: SubCoins, Amount: 0, Type: TypeBonus,
	})
	require.Error(t, err)

	_, err = svc.Credit(context.Background(), Entry{
		UserID: "user-1", SubBalance: "gems", Amount: 10, Type: TypeBonus,
	})
	require.Error(t, err)
}

func TestDebitInsufficientLeavesWalletUnchanged(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.Debit(ctx, Entry{
		UserID:     "user-1",
		SubBalance: SubCoins,
		Amount:     WelcomeCoins + 1,
		Type:       TypeLuckyWalletBet,
	})
	require.Error(t, err)

	w, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(WelcomeCoins), w.CoinsBalance)

	// only the welcome grant exists; the failed debit wrote nothing
	txns, err := svc.transactions.Find(ctx, &WalletTransaction{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, txns, 1)
}

func TestDebitSucceeds(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Debit(ctx, Entry{
		UserID:      "user-1",
		SubBalance:  SubCoins,
		Amount:      400,
		Type:        TypeLuckyWalletBet,
		Description: "Lucky wallet stake",
	})
	require.NoError(t, err)

	w, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(WelcomeCoins-400), w.CoinsBalance)
}

func TestHoldAndRelease(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Hold(ctx, "user-1", 300))

	w, err := svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(WelcomeCoins-300), w.CoinsBalance)
	require.Equal(t, int64(300), w.HeldBalance)

	require.NoError(t, svc.ReleaseHeld(ctx, "user-1", 300))

	w, err = svc.GetOrCreate(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(0), w.HeldBalance)

	require.Error(t, svc.ReleaseHeld(ctx, "user-1", 1))
}

func TestDepositEnforcesMaximum(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Deposit(ctx, "user-1", MaxDepositAmount+1)
	require.Error(t, err)

	w, txn, err := svc.Deposit(ctx, "user-1", 5000)
	require.NoError(t, err)
	require.Equal(t, TypeDeposit, txn.Type)
	require.Equal(t, int64(WelcomeCoins+5000), w.CoinsBalance)
	require.Equal(t, int64(5000), w.TotalDeposited)
}

func TestTransferBetweenSubBalances(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Credit(ctx, Entry{
		UserID: "user-1", SubBalance: SubStars, Amount: 500, Type: TypeHostReward,
	})
	require.NoError(t, err)

	w, err := svc.Transfer(ctx, "user-1", SubStars, SubCoins, 200)
	require.NoError(t, err)
	require.Equal(t, int64(300), w.StarsBalance)
	require.Equal(t, int64(WelcomeCoins+200), w.CoinsBalance)

	_, err = svc.Transfer(ctx, "user-1", SubStars, SubStars, 50)
	require.Error(t, err)

	_, err = svc.Transfer(ctx, "user-1", SubHeld, SubCoins, 50)
	require.Error(t, err)

	_, err = svc.Transfer(ctx, "user-1", SubStars, SubCoins, 10_000)
	require.Error(t, err)
}

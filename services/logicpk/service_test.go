package logicpk

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

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
		&Challenge{}, &History{},
		&wallet.Wallet{}, &wallet.WalletTransaction{},
	)
	node := testutil.NewSnowflakeNode(t)
	seq := &seqStub{}

	wallets := wallet.NewService(wallet.ServiceParams{DB: db, Node: node, Sequence: seq})

	svc := NewService(ServiceParams{DB: db, Node: node, Sequence: seq, Wallet: wallets})

	return svc, wallets
}

func correctAnswer(t *testing.T, challenge *Challenge) string {
	t.Helper()

	var q Question
	require.NoError(t, json.Unmarshal(challenge.Question, &q))
	require.NotEmpty(t, q.Correct)

	return q.Correct
}

func TestSubmitAnswerRejectedBeforeAccept(t *testing.T) {
	svc, wallets := newTestService(t)
	ctx := context.Background()

	challenge, err := svc.CreateChallenge(ctx, "alice", "bob", 100)
	require.NoError(t, err)
	require.Equal(t, StatusPending, challenge.Status)

	// the opponent never accepted, so only the challenger's stake is held
	_, err = svc.SubmitAnswer(ctx, "bob", challenge.ID, correctAnswer(t, challenge))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not in progress")

	stored, err := svc.challenges.FindOne(ctx, &Challenge{ID: challenge.ID})
	require.NoError(t, err)
	require.Equal(t, StatusPending, stored.Status)
	require.Empty(t, stored.OpponentAnswer)
	require.Empty(t, stored.WinnerID)

	// no settlement ran: the challenger's stake stays held and the
	// opponent's wallet holds only the welcome grant
	alice, err := wallets.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(wallet.WelcomeCoins-100), alice.CoinsBalance)
	require.Equal(t, int64(100), alice.HeldBalance)

	bob, err := wallets.GetOrCreate(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(wallet.WelcomeCoins), bob.CoinsBalance)
	require.Equal(t, int64(0), bob.HeldBalance)
}

func TestChallengeSettlesAfterBothAnswer(t *testing.T) {
	svc, wallets := newTestService(t)
	ctx := context.Background()

	challenge, err := svc.CreateChallenge(ctx, "alice", "bob", 100)
	require.NoError(t, err)

	accepted, err := svc.AcceptChallenge(ctx, "bob", challenge.ID)
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, accepted.Status)

	correct := correctAnswer(t, challenge)

	res, err := svc.SubmitAnswer(ctx, "alice", challenge.ID, correct)
	require.NoError(t, err)
	require.Equal(t, "waiting", res.Status)

	res, err = svc.SubmitAnswer(ctx, "bob", challenge.ID, "definitely-wrong")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, res.Status)
	require.Equal(t, "alice", res.WinnerID)
	require.Equal(t, correct, res.CorrectAnswer)

	st := Settle(100)
	require.Equal(t, st.WinnerPrize, res.Prize)

	// winner: stake consumed, prize credited; loser: stake consumed,
	// consolation credited
	alice, err := wallets.GetOrCreate(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(wallet.WelcomeCoins-100)+st.WinnerPrize, alice.CoinsBalance)
	require.Equal(t, int64(0), alice.HeldBalance)

	bob, err := wallets.GetOrCreate(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, int64(wallet.WelcomeCoins-100)+st.Consolation, bob.CoinsBalance)
	require.Equal(t, int64(0), bob.HeldBalance)

	stored, err := svc.challenges.FindOne(ctx, &Challenge{ID: challenge.ID})
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, stored.Status)
	require.Equal(t, "alice", stored.WinnerID)

	rows, err := svc.history.Find(ctx, &History{ChallengeID: challenge.ID})
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestSubmitAnswerCannotBeChanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	challenge, err := svc.CreateChallenge(ctx, "alice", "bob", 50)
	require.NoError(t, err)

	_, err = svc.AcceptChallenge(ctx, "bob", challenge.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, "alice", challenge.ID, "first")
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, "alice", challenge.ID, "second")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already submitted")

	stored, err := svc.challenges.FindOne(ctx, &Challenge{ID: challenge.ID})
	require.NoError(t, err)
	require.Equal(t, "first", stored.ChallengerAnswer)
}

func TestSubmitAnswerOutsiderForbidden(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	challenge, err := svc.CreateChallenge(ctx, "alice", "bob", 50)
	require.NoError(t, err)

	_, err = svc.AcceptChallenge(ctx, "bob", challenge.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, "mallory", challenge.ID, "42")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not part of this challenge")
}

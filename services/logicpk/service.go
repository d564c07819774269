package logicpk

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/sequence"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node
	seq  sequence.Generator

	wallets *wallet.Service

	challenges repository.Repository[Challenge]
	history    repository.Repository[History]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Node     *snowflake.Node
	Sequence sequence.Generator
	Wallet   *wallet.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,
		seq:  p.Sequence,

		wallets: p.Wallet,

		challenges: repository.ProvideStore[Challenge](p.DB),
		history:    repository.ProvideStore[History](p.DB),
	}
}

// CreateChallenge opens a challenge against an opponent and holds the
// challenger's stake.
func (s *Service) CreateChallenge(ctx context.Context, challengerID, opponentID string, bet int64) (*Challenge, error) {
	if bet < MinBet {
		return nil, errutil.BadRequest(fmt.Sprintf("minimum bet is %d coins", MinBet), nil)
	}
	if bet > MaxBet {
		return nil, errutil.BadRequest(fmt.Sprintf("maximum bet is %d coins", MaxBet), nil)
	}
	if opponentID == "" || opponentID == challengerID {
		return nil, errutil.BadRequest("invalid opponent", nil)
	}

	w, err := s.wallets.GetOrCreate(ctx, challengerID)
	if err != nil {
		return nil, err
	}
	if bet > w.CoinsBalance*MaxBetPercent/100 {
		return nil, errutil.BadRequest(
			fmt.Sprintf("bet cannot exceed %d%% of your coins balance", MaxBetPercent), nil)
	}

	if err := s.checkCooldown(ctx, challengerID); err != nil {
		return nil, err
	}

	question, err := json.Marshal(pickQuestion())
	if err != nil {
		return nil, err
	}

	code, err := s.seq.NextChallengeCode(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.wallets.Hold(ctx, challengerID, bet); err != nil {
		return nil, err
	}

	challenge := &Challenge{
		ID:           s.node.Generate().String(),
		Code:         code,
		ChallengerID: challengerID,
		OpponentID:   opponentID,
		BetAmount:    bet,
		Status:       StatusPending,
		Question:     datatypes.JSON(question),
	}

	if err := s.challenges.Create(ctx, challenge); err != nil {
		// release the stake if the record can't be written
		if rerr := s.releaseToCoins(ctx, challengerID, bet); rerr != nil {
			zap.L().Error("failed to release stake after create failure",
				zap.String("user_id", challengerID), zap.Error(rerr))
		}
		return nil, err
	}

	return challenge, nil
}

// AcceptChallenge holds the opponent's stake and moves the challenge to
// in_progress.
func (s *Service) AcceptChallenge(ctx context.Context, userID, challengeID string) (*Challenge, error) {
	challenge, err := s.challenges.FindOne(ctx, &Challenge{ID: challengeID})
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, errutil.NotFound("challenge not found", nil)
	}
	if challenge.OpponentID != userID {
		return nil, errutil.Forbidden("this challenge is not for you", nil)
	}
	if challenge.Status != StatusPending {
		return nil, errutil.BadRequest("challenge already processed", nil)
	}

	if err := s.wallets.Hold(ctx, userID, challenge.BetAmount); err != nil {
		return nil, err
	}

	if err := s.challenges.Update(ctx, challenge.ID, map[string]any{"status": StatusInProgress}); err != nil {
		return nil, err
	}
	challenge.Status = StatusInProgress

	return challenge, nil
}

type AnswerResult struct {
	Status        string `json:"status"`
	WinnerID      string `json:"winner,omitempty"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Prize         int64  `json:"prize"`
}

// SubmitAnswer records a participant's answer; once both sides have
// answered, the challenge settles.
func (s *Service) SubmitAnswer(ctx context.Context, userID, challengeID, answer string) (*AnswerResult, error) {
	if answer == "" {
		return nil, errutil.BadRequest("answer is required", nil)
	}

	challenge, err := s.challenges.FindOne(ctx, &Challenge{ID: challengeID})
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, errutil.NotFound("challenge not found", nil)
	}

	isChallenger := challenge.ChallengerID == userID
	isOpponent := challenge.OpponentID == userID
	if !isChallenger && !isOpponent {
		return nil, errutil.Forbidden("you are not part of this challenge", nil)
	}
	// answers are only valid once both stakes are held; a pending
	// challenge would settle against a half-funded pot
	if challenge.Status != StatusInProgress {
		return nil, errutil.BadRequest("challenge is not in progress", nil)
	}

	field, submitted := "challenger_answer", challenge.ChallengerAnswer
	if isOpponent {
		field, submitted = "opponent_answer", challenge.OpponentAnswer
	}
	if submitted != "" {
		return nil, errutil.BadRequest("answer already submitted", nil)
	}
	if err := s.challenges.Update(ctx, challenge.ID, map[string]any{field: answer}); err != nil {
		return nil, err
	}

	challenge, err = s.challenges.FindOne(ctx, &Challenge{ID: challengeID})
	if err != nil {
		return nil, err
	}

	if challenge.ChallengerAnswer == "" || challenge.OpponentAnswer == "" {
		return &AnswerResult{Status: "waiting"}, nil
	}

	return s.settle(ctx, challenge)
}

func (s *Service) settle(ctx context.Context, challenge *Challenge) (*AnswerResult, error) {
	var question Question
	if err := json.Unmarshal(challenge.Question, &question); err != nil {
		return nil, err
	}

	challengerCorrect := challenge.ChallengerAnswer == question.Correct
	opponentCorrect := challenge.OpponentAnswer == question.Correct

	winnerID := ""
	switch {
	case challengerCorrect && !opponentCorrect:
		winnerID = challenge.ChallengerID
	case opponentCorrect && !challengerCorrect:
		winnerID = challenge.OpponentID
	case challengerCorrect && opponentCorrect:
		winnerID = WinnerTie
	}

	settlement := Settle(challenge.BetAmount)
	result := &AnswerResult{
		Status:        StatusCompleted,
		WinnerID:      winnerID,
		CorrectAnswer: question.Correct,
	}

	if winnerID != "" && winnerID != WinnerTie {
		loserID := challenge.OpponentID
		if winnerID == challenge.OpponentID {
			loserID = challenge.ChallengerID
		}

		if err := s.payout(ctx, challenge, winnerID, loserID, settlement); err != nil {
			return nil, err
		}
		result.Prize = settlement.WinnerPrize
	} else {
		// no winner or both correct: stakes return in full
		for _, uid := range []string{challenge.ChallengerID, challenge.OpponentID} {
			if err := s.refund(ctx, uid, challenge); err != nil {
				return nil, err
			}
		}
	}

	if err := s.challenges.Update(ctx, challenge.ID, map[string]any{
		"status":    StatusCompleted,
		"winner_id": winnerID,
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) payout(ctx context.Context, challenge *Challenge, winnerID, loserID string, st Settlement) error {
	if err := s.wallets.ReleaseHeld(ctx, winnerID, challenge.BetAmount); err != nil {
		return err
	}
	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      winnerID,
		SubBalance:  wallet.SubCoins,
		Amount:      st.WinnerPrize,
		Type:        wallet.TypeLogicPKWin,
		Description: fmt.Sprintf("Logic PK win (%s)", challenge.Code),
		Metadata:    map[string]any{"challenge_id": challenge.ID},
	}); err != nil {
		return err
	}

	if err := s.wallets.ReleaseHeld(ctx, loserID, challenge.BetAmount); err != nil {
		return err
	}
	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      loserID,
		SubBalance:  wallet.SubCoins,
		Amount:      st.Consolation,
		Type:        wallet.TypeLogicPKBet,
		Description: fmt.Sprintf("Logic PK consolation (%s)", challenge.Code),
		Metadata:    map[string]any{"challenge_id": challenge.ID},
	}); err != nil {
		return err
	}

	if err := s.history.Create(ctx, &History{
		ID:          s.node.Generate().String(),
		UserID:      winnerID,
		ChallengeID: challenge.ID,
		Result:      ResultWin,
		CoinsWon:    st.WinnerPrize,
	}); err != nil {
		return err
	}

	return s.history.Create(ctx, &History{
		ID:          s.node.Generate().String(),
		UserID:      loserID,
		ChallengeID: challenge.ID,
		Result:      ResultLoss,
		CoinsLost:   challenge.BetAmount - st.Consolation,
	})
}

func (s *Service) refund(ctx context.Context, userID string, challenge *Challenge) error {
	return s.releaseToCoins(ctx, userID, challenge.BetAmount)
}

// releaseToCoins returns held funds to the coins balance.
func (s *Service) releaseToCoins(ctx context.Context, userID string, amount int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&wallet.Wallet{}).
			Where("user_id = ? AND held_balance >= ?", userID, amount).
			Updates(map[string]any{
				"held_balance":  gorm.Expr("held_balance - ?", amount),
				"coins_balance": gorm.Expr("coins_balance + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errutil.UnprocessableEntity("held balance below refund amount", nil)
		}
		return nil
	})
}

// ListOpen returns the user's pending and in-progress challenges.
func (s *Service) ListOpen(ctx context.Context, userID string) ([]*Challenge, error) {
	var challenges []*Challenge
	err := s.db.WithContext(ctx).
		Where("(challenger_id = ? OR opponent_id = ?) AND status IN ?",
			userID, userID, []string{StatusPending, StatusInProgress}).
		Limit(20).
		Find(&challenges).Error
	return challenges, err
}

func (s *Service) checkCooldown(ctx context.Context, userID string) error {
	since := time.Now().Add(-CooldownWindow)

	var losses int64
	if err := s.db.WithContext(ctx).Model(&History{}).
		Where("user_id = ? AND result = ? AND created_at >= ?", userID, ResultLoss, since).
		Count(&losses).Error; err != nil {
		return err
	}

	if losses >= CooldownLosses {
		return errutil.BadRequest("24-hour betting cooldown active due to consecutive losses", nil)
	}

	return nil
}

func pickQuestion() Question {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(Questions))))
	if err != nil {
		return Questions[0]
	}
	return Questions[n.Int64()]
}

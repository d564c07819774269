package game

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/db/option"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/featureflags"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/services/charity"
	"gyansultanat-platform/services/wallet"
)

const killSwitchFlag = "lucky_wallet_enabled"

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	wallets *wallet.Service
	charity *charity.Service
	flags   featureflags.FeatureFlag

	games repository.Repository[LuckyWalletGame]

	// draw is swappable in tests
	draw func() int
}

type ServiceParams struct {
	fx.In

	DB      *gorm.DB
	Node    *snowflake.Node
	Wallet  *wallet.Service
	Charity *charity.Service
	Flags   featureflags.FeatureFlag `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		wallets: p.Wallet,
		charity: p.Charity,
		flags:   p.Flags,

		games: repository.ProvideStore[LuckyWalletGame](p.DB),

		draw: secureDraw,
	}
}

func secureDraw() int {
	n, err := rand.Int(rand.Reader, big.NewInt(100))
	if err != nil {
		zap.L().Error("failed to read secure randomness", zap.Error(err))
		return 100
	}
	return int(n.Int64()) + 1
}

// Play runs one round of the lucky wallet for the user.
func (s *Service) Play(ctx context.Context, userID string, bet int64) (*LuckyWalletGame, error) {
	if bet < MinBet {
		return nil, errutil.BadRequest(fmt.Sprintf("minimum bet is %d coins", MinBet), nil)
	}
	if bet > MaxBet {
		return nil, errutil.BadRequest(fmt.Sprintf("maximum bet is %d coins", MaxBet), nil)
	}

	if !s.enabled(ctx, userID) {
		return nil, errutil.Forbidden("lucky wallet is temporarily unavailable", nil)
	}

	w, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w.CoinsBalance < bet {
		return nil, errutil.BadRequest(
			fmt.Sprintf("insufficient balance: have %d coins, need %d coins", w.CoinsBalance, bet), nil)
	}

	outcome := Payout(bet, s.draw())

	// both outcomes are a net debit; the win pays back 70% of the stake
	loss := -outcome.BalanceChange
	txnType := wallet.TypeLuckyWalletBet
	desc := fmt.Sprintf("Lucky Wallet - Lost (bet %d, charity %d)", bet, outcome.CharityAmount)
	if outcome.Result == ResultWin {
		txnType = wallet.TypeLuckyWalletWin
		desc = fmt.Sprintf("Lucky Wallet - Won (bet %d, charity %d)", bet, outcome.CharityAmount)
	}

	if loss > 0 {
		if _, err := s.wallets.Debit(ctx, wallet.Entry{
			UserID:      userID,
			SubBalance:  wallet.SubCoins,
			Amount:      loss,
			Type:        txnType,
			Description: desc,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.charity.Record(ctx, userID, "lucky_wallet", outcome.CharityAmount); err != nil {
		zap.L().Error("failed to record lucky wallet charity cut", zap.Error(err))
	}
	if outcome.PlatformCut > 0 {
		if err := s.charity.AddRevenue(ctx, outcome.PlatformCut); err != nil {
			zap.L().Error("failed to record platform cut", zap.Error(err))
		}
	}

	record := &LuckyWalletGame{
		ID:            s.node.Generate().String(),
		UserID:        userID,
		BetAmount:     bet,
		Result:        outcome.Result,
		Draw:          outcome.Draw,
		WonAmount:     outcome.WonAmount,
		CharityAmount: outcome.CharityAmount,
		PlatformCut:   outcome.PlatformCut,
		BalanceChange: outcome.BalanceChange,
		NewBalance:    w.CoinsBalance + outcome.BalanceChange,
	}

	if err := s.games.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// History returns the user's recent plays, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*LuckyWalletGame, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return s.games.Find(ctx, &LuckyWalletGame{UserID: userID},
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
		option.WithLimit(limit),
	)
}

type Stats struct {
	TotalGames   int64 `json:"total_games"`
	TotalWins    int64 `json:"total_wins"`
	TotalWagered int64 `json:"total_wagered"`
	TotalCharity int64 `json:"total_charity_contribution"`
	TodayGames   int64 `json:"today_games"`
	TodayCharity int64 `json:"today_charity_contribution"`
}

// GetStats aggregates the user's lifetime and same-day play totals.
func (s *Service) GetStats(ctx context.Context, userID string) (*Stats, error) {
	stats := &Stats{}

	row := s.db.WithContext(ctx).Model(&LuckyWalletGame{}).
		Where("user_id = ?", userID).
		Select("COUNT(*) AS total_games, " +
			"COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0) AS total_wins, " +
			"COALESCE(SUM(bet_amount), 0) AS total_wagered, " +
			"COALESCE(SUM(charity_amount), 0) AS total_charity")
	if err := row.Scan(stats).Error; err != nil {
		return nil, err
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	today := s.db.WithContext(ctx).Model(&LuckyWalletGame{}).
		Where("user_id = ? AND created_at >= ?", userID, startOfDay).
		Select("COUNT(*) AS today_games, COALESCE(SUM(charity_amount), 0) AS today_charity")
	if err := today.Scan(stats).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *Service) enabled(ctx context.Context, userID string) bool {
	if s.flags == nil {
		return true
	}

	flags, err := s.flags.Flags(ctx, userID)
	if err != nil {
		// fail open; the flag is an operational kill switch
		return true
	}

	enabled, err := flags.IsFeatureEnabled(killSwitchFlag)
	if err != nil {
		return true
	}

	return enabled
}

package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/db/option"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/rediskey"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/services/charity"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	rdb  *redis.Client
	node *snowflake.Node

	wallets *wallet.Service
	charity *charity.Service

	exchanges repository.Repository[StarExchange]
}

type ServiceParams struct {
	fx.In

	DB      *gorm.DB
	Redis   *redis.Client
	Node    *snowflake.Node
	Wallet  *wallet.Service
	Charity *charity.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		rdb:  p.Redis,
		node: p.Node,

		wallets: p.Wallet,
		charity: p.Charity,

		exchanges: repository.ProvideStore[StarExchange](p.DB),
	}
}

// Calculate quotes an exchange without executing it.
func (s *Service) Calculate(stars int64) (Quote, error) {
	if stars < MinimumStars {
		return Quote{}, errutil.BadRequest(fmt.Sprintf("minimum %d stars required", MinimumStars), nil)
	}
	return QuoteFor(stars), nil
}

// Execute converts stars into coins. The daily quota is reserved in
// redis before funds move and released again if the debit fails.
func (s *Service) Execute(ctx context.Context, userID string, stars int64) (*StarExchange, error) {
	quote, err := s.Calculate(stars)
	if err != nil {
		return nil, err
	}

	key := rediskey.BuildExchangeDailyKey(userID, time.Now().UTC().Format("20060102"))
	used, err := s.rdb.IncrBy(ctx, key, stars).Result()
	if err != nil {
		return nil, errutil.Internal("failed to reserve daily quota", err)
	}
	if used == stars {
		_ = s.rdb.Expire(ctx, key, 48*time.Hour).Err()
	}
	if used > DailyLimitStars {
		_ = s.rdb.DecrBy(ctx, key, stars).Err()
		remaining := DailyLimitStars - (used - stars)
		if remaining < 0 {
			remaining = 0
		}
		return nil, errutil.BadRequest(
			fmt.Sprintf("daily limit exceeded: you can exchange %d more stars today", remaining), nil)
	}

	release := func() {
		if err := s.rdb.DecrBy(ctx, key, stars).Err(); err != nil {
			zap.L().Warn("failed to release exchange quota", zap.String("user_id", userID), zap.Error(err))
		}
	}

	if _, err := s.wallets.Debit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubStars,
		Amount:      stars,
		Type:        wallet.TypeStarsConversion,
		Description: fmt.Sprintf("Exchanged %d Stars to %d Coins", stars, quote.NetCoins),
	}); err != nil {
		release()
		return nil, err
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubCoins,
		Amount:      quote.NetCoins,
		Type:        wallet.TypeStarsConversion,
		Description: fmt.Sprintf("Received %d Coins for %d Stars", quote.NetCoins, stars),
	}); err != nil {
		return nil, err
	}

	if err := s.charity.AddExchangeVolume(ctx, stars, quote.FeeCoins); err != nil {
		zap.L().Error("failed to record exchange volume", zap.Error(err))
	}

	record := &StarExchange{
		ID:             s.node.Generate().String(),
		UserID:         userID,
		StarsExchanged: stars,
		CoinsReceived:  quote.NetCoins,
		FeeCoins:       quote.FeeCoins,
		Rate:           Rate.String(),
	}
	if err := s.exchanges.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

type HistoryTotals struct {
	TotalStarsExchanged int64 `json:"total_stars_exchanged"`
	TotalCoinsReceived  int64 `json:"total_coins_received"`
	TotalFees           int64 `json:"total_fees"`
	Count               int64 `json:"count"`
}

// History returns recent exchanges and lifetime totals.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*StarExchange, *HistoryTotals, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.exchanges.Find(ctx, &StarExchange{UserID: userID},
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
		option.WithLimit(limit),
	)
	if err != nil {
		return nil, nil, err
	}

	totals := &HistoryTotals{}
	if err := s.db.WithContext(ctx).Model(&StarExchange{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(stars_exchanged), 0) AS total_stars_exchanged, " +
			"COALESCE(SUM(coins_received), 0) AS total_coins_received, " +
			"COALESCE(SUM(fee_coins), 0) AS total_fees, " +
			"COUNT(*) AS count").
		Scan(totals).Error; err != nil {
		return nil, nil, err
	}

	return rows, totals, nil
}

// DailyUsed reports how much of today's quota the user has consumed.
func (s *Service) DailyUsed(ctx context.Context, userID string) (int64, error) {
	key := rediskey.BuildExchangeDailyKey(userID, time.Now().UTC().Format("20060102"))
	used, err := s.rdb.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return used, err
}

package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/services/charity"
	"gyansultanat-platform/services/crown"
	"gyansultanat-platform/services/education"
	"gyansultanat-platform/services/gift"
	"gyansultanat-platform/services/logicpk"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	wallets *wallet.Service
	crowns  *crown.Service

	payouts repository.Repository[Payout]
}

type ServiceParams struct {
	fx.In

	DB     *gorm.DB
	Node   *snowflake.Node
	Wallet *wallet.Service
	Crown  *crown.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		wallets: p.Wallet,
		crowns:  p.Crown,

		payouts: repository.ProvideStore[Payout](p.DB),
	}
}

type MultiCategory struct {
	Education    []*Entry         `json:"education"`
	Logic        []*Entry         `json:"logic"`
	Charity      []*Entry         `json:"charity"`
	Gifting      []*Entry         `json:"gifting"`
	GlobalSultan []*Entry         `json:"global_sultan"`
	Rewards      map[string]any   `json:"rewards"`
	NextReset    map[string]string `json:"next_reset"`
}

// GetMultiCategory builds the five category rankings; the underlying
// queries run in parallel.
func (s *Service) GetMultiCategory(ctx context.Context) (*MultiCategory, error) {
	out := &MultiCategory{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.Education, err = s.topByQuery(ctx, s.db.WithContext(ctx).
			Model(&education.EducationProfile{}).
			Select("user_id, total_learning_hours AS score").
			Order("score DESC"))
		return err
	})

	g.Go(func() error {
		var err error
		out.Logic, err = s.topByQuery(ctx, s.db.WithContext(ctx).
			Model(&logicpk.History{}).
			Select("user_id, COUNT(*) AS score").
			Where("result = ?", logicpk.ResultWin).
			Group("user_id").
			Order("score DESC"))
		return err
	})

	g.Go(func() error {
		var err error
		out.Charity, err = s.topByQuery(ctx, s.db.WithContext(ctx).
			Model(&charity.Contribution{}).
			Select("user_id, SUM(amount) AS score").
			Group("user_id").
			Order("score DESC"))
		return err
	})

	g.Go(func() error {
		var err error
		out.Gifting, err = s.topByQuery(ctx, s.db.WithContext(ctx).
			Model(&gift.GiftRecord{}).
			Select("sender_id AS user_id, SUM(total_value) AS score").
			Group("sender_id").
			Order("score DESC"))
		return err
	})

	g.Go(func() error {
		entries, err := s.TopModels(ctx, 10)
		if err != nil {
			return err
		}
		out.GlobalSultan = make([]*Entry, 0, len(entries))
		for _, e := range entries {
			out.GlobalSultan = append(out.GlobalSultan, &Entry{Rank: e.Rank, UserID: e.UserID, Score: e.Score})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Rewards = map[string]any{
		"daily":   map[string]int64{"top1": 500, "top2": 300, "top3": 200},
		"weekly":  map[string]int64{"top1": 5000, "top2": 3000, "top3": 2000, "top4_10": 1000},
		"monthly": map[string]int64{"top1": 5000, "top2": 3000, "top3": 2000, "top4_10": 500},
	}
	out.NextReset = map[string]string{
		"daily":   "12:00 AM",
		"weekly":  "Monday 12:00 AM",
		"monthly": "1st of month 12:00 AM",
	}

	return out, nil
}

func (s *Service) topByQuery(ctx context.Context, q *gorm.DB) ([]*Entry, error) {
	var entries []*Entry
	if err := q.Limit(10).Scan(&entries).Error; err != nil {
		return nil, err
	}
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries, nil
}

type ModelEntry struct {
	Rank       int     `json:"rank"`
	UserID     string  `gorm:"column:user_id" json:"user_id"`
	Score      float64 `gorm:"column:score" json:"score"`
	TotalLikes int64   `gorm:"column:total_likes" json:"total_likes"`
	TotalViews int64   `gorm:"column:total_views" json:"total_views"`
	TotalGifts int64   `gorm:"column:total_gifts" json:"total_gifts"`
	Tier       string  `json:"tier"`
}

// TopModels ranks creators by a blended score of likes, views and
// gifts received.
func (s *Service) TopModels(ctx context.Context, limit int) ([]*ModelEntry, error) {
	if limit <= 0 || limit > TopModelsLimit {
		limit = TopModelsLimit
	}

	var entries []*ModelEntry
	err := s.db.WithContext(ctx).
		Table("user_stats AS us").
		Select("us.user_id, us.total_likes_received AS total_likes, us.total_views, " +
			"COALESCE(hp.total_gifts_received, 0) AS total_gifts, " +
			"(us.total_likes_received + 0.1 * us.total_views + 10 * COALESCE(hp.total_gifts_received, 0)) AS score").
		Joins("LEFT JOIN host_profiles hp ON hp.user_id = us.user_id").
		Order("score DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	for i, e := range entries {
		e.Rank = i + 1
		e.Tier = TierForRank(e.Rank)
	}

	return entries, nil
}

// RunPayout credits the prize table for a period to the current global
// standings. Guarded by a unique period record so reruns are no-ops.
func (s *Service) RunPayout(ctx context.Context, period string) error {
	prizes, periodKey, err := prizesFor(period)
	if err != nil {
		return err
	}

	existing, err := s.payouts.FindOne(ctx, &Payout{Period: period, PeriodKey: periodKey})
	if err != nil {
		return err
	}
	if existing != nil {
		zap.L().Info("leaderboard payout already settled",
			zap.String("period", period), zap.String("period_key", periodKey))
		return nil
	}

	standings, err := s.TopModels(ctx, 50)
	if err != nil {
		return err
	}

	var winners int
	var totalPaid int64
	for _, entry := range standings {
		prize := prizes[entry.Rank]
		if prize > 0 {
			if _, err := s.wallets.Credit(ctx, wallet.Entry{
				UserID:      entry.UserID,
				SubBalance:  wallet.SubCoins,
				Amount:      prize,
				Type:        wallet.TypeDailyReward,
				Description: fmt.Sprintf("%s leaderboard prize (rank %d)", period, entry.Rank),
				Metadata:    map[string]any{"period": period, "period_key": periodKey, "rank": entry.Rank},
			}); err != nil {
				return err
			}
			winners++
			totalPaid += prize
		}

		// monthly standings also confer rank crowns
		if period == PeriodMonthly {
			crownType := ""
			switch {
			case entry.Rank == 1:
				crownType = crown.TypeGold
			case entry.Rank <= 10:
				crownType = crown.TypeSilver
			case entry.Rank <= 50:
				crownType = crown.TypeBronze
			}
			if crownType != "" {
				if _, err := s.crowns.Award(ctx, entry.UserID, crownType); err != nil {
					zap.L().Warn("failed to award rank crown",
						zap.String("user_id", entry.UserID), zap.Error(err))
				}
			}
		}
	}

	return s.payouts.Create(ctx, &Payout{
		ID:        s.node.Generate().String(),
		Period:    period,
		PeriodKey: periodKey,
		Winners:   winners,
		TotalPaid: totalPaid,
	})
}

func prizesFor(period string) (map[int]int64, string, error) {
	now := time.Now()
	switch period {
	case PeriodDaily:
		return DailyPrizes, now.Format("2006-01-02"), nil
	case PeriodWeekly:
		year, week := now.ISOWeek()
		return WeeklyPrizes, fmt.Sprintf("%d-W%02d", year, week), nil
	case PeriodMonthly:
		return MonthlyPrizes, now.Format("2006-01"), nil
	}
	return nil, "", fmt.Errorf("unknown payout period %q", period)
}

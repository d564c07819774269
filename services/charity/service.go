package charity

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/db/option"
	"gyansultanat-platform/pkg/repository"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	contributions repository.Repository[Contribution]
	pools         repository.Repository[CharityPool]
	stats         repository.Repository[PlatformStat]
}

type ServiceParams struct {
	fx.In

	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		contributions: repository.ProvideStore[Contribution](p.DB),
		pools:         repository.ProvideStore[CharityPool](p.DB),
		stats:         repository.ProvideStore[PlatformStat](p.DB),
	}
}

// CutPercent is the charity share applied to gift and host flows.
func CutPercent() int64 {
	return Phase1Percent
}

// CutOf returns the charity cut of an amount under the phase 1 rate.
func CutOf(amount int64) int64 {
	return amount * Phase1Percent / 100
}

// Record books a contribution against the user and the global pool.
func (s *Service) Record(ctx context.Context, userID, source string, amount int64) error {
	if amount <= 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.contributions.WithTrx(tx).Create(ctx, &Contribution{
			ID:     s.node.Generate().String(),
			UserID: userID,
			Source: source,
			Amount: amount,
		}); err != nil {
			return err
		}

		if err := s.ensurePool(ctx, tx); err != nil {
			return err
		}

		return tx.Model(&CharityPool{}).
			Where("id = ?", singletonID).
			Updates(map[string]any{
				"total_balance":  gorm.Expr("total_balance + ?", amount),
				"total_received": gorm.Expr("total_received + ?", amount),
			}).Error
	})
}

// AddRevenue accumulates platform revenue toward the phase switch.
func (s *Service) AddRevenue(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureStats(ctx, tx); err != nil {
			return err
		}
		return tx.Model(&PlatformStat{}).
			Where("id = ?", singletonID).
			Update("total_revenue", gorm.Expr("total_revenue + ?", amount)).Error
	})
}

// AddExchangeVolume records stars conversion throughput and fee revenue.
func (s *Service) AddExchangeVolume(ctx context.Context, stars, fee int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ensureStats(ctx, tx); err != nil {
			return err
		}
		return tx.Model(&PlatformStat{}).
			Where("id = ?", singletonID).
			Updates(map[string]any{
				"total_revenue":         gorm.Expr("total_revenue + ?", fee),
				"total_stars_exchanged": gorm.Expr("total_stars_exchanged + ?", stars),
				"total_exchange_fees":   gorm.Expr("total_exchange_fees + ?", fee),
			}).Error
	})
}

type Status struct {
	Pool           *CharityPool `json:"pool"`
	Phase          int          `json:"phase"`
	CharityPercent int          `json:"charity_percent"`
	TotalRevenue   int64        `json:"total_revenue"`
	Threshold      int64        `json:"phase_threshold"`
}

// GetStatus reports the pool aggregate and which revenue phase applies.
func (s *Service) GetStatus(ctx context.Context) (*Status, error) {
	pool, err := s.getPool(ctx)
	if err != nil {
		return nil, err
	}

	stat, err := s.getStats(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{
		Pool:           pool,
		Phase:          1,
		CharityPercent: Phase1Percent,
		TotalRevenue:   stat.TotalRevenue,
		Threshold:      Phase1Threshold,
	}
	if stat.TotalRevenue >= Phase1Threshold {
		status.Phase = 2
		status.CharityPercent = Phase2Percent
	}

	return status, nil
}

// UserContributions returns the user's latest contributions and their
// lifetime total.
func (s *Service) UserContributions(ctx context.Context, userID string, limit int) ([]*Contribution, int64, error) {
	rows, err := s.contributions.Find(ctx, &Contribution{UserID: userID},
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
		option.WithLimit(limit),
	)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&Contribution{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"user_id"`
	TotalDonated int64  `json:"total_donated"`
}

// Leaderboard returns the top contributors by lifetime donations.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	var entries []*LeaderboardEntry
	if err := s.db.WithContext(ctx).Model(&Contribution{}).
		Select("user_id, SUM(amount) AS total_donated").
		Group("user_id").
		Order("total_donated DESC").
		Limit(limit).
		Scan(&entries).Error; err != nil {
		return nil, err
	}

	for i, e := range entries {
		e.Rank = i + 1
	}

	return entries, nil
}

func (s *Service) getPool(ctx context.Context) (*CharityPool, error) {
	pool, err := s.pools.FindOne(ctx, &CharityPool{ID: singletonID})
	if err != nil {
		return nil, err
	}
	if pool == nil {
		pool = &CharityPool{ID: singletonID}
		if err := s.pools.Create(ctx, pool); err != nil {
			zap.L().Warn("failed to seed charity pool", zap.Error(err))
		}
	}
	return pool, nil
}

func (s *Service) getStats(ctx context.Context) (*PlatformStat, error) {
	stat, err := s.stats.FindOne(ctx, &PlatformStat{ID: singletonID})
	if err != nil {
		return nil, err
	}
	if stat == nil {
		stat = &PlatformStat{ID: singletonID}
		if err := s.stats.Create(ctx, stat); err != nil {
			zap.L().Warn("failed to seed platform stats", zap.Error(err))
		}
	}
	return stat, nil
}

func (s *Service) ensurePool(ctx context.Context, tx *gorm.DB) error {
	existing, err := s.pools.WithTrx(tx).FindOne(ctx, &CharityPool{ID: singletonID})
	if err != nil {
		return err
	}
	if existing == nil {
		return s.pools.WithTrx(tx).Create(ctx, &CharityPool{ID: singletonID})
	}
	return nil
}

func (s *Service) ensureStats(ctx context.Context, tx *gorm.DB) error {
	existing, err := s.stats.WithTrx(tx).FindOne(ctx, &PlatformStat{ID: singletonID})
	if err != nil {
		return err
	}
	if existing == nil {
		return s.stats.WithTrx(tx).Create(ctx, &PlatformStat{ID: singletonID})
	}
	return nil
}

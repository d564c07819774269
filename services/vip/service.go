package vip

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	wallets  *wallet.Service
	statuses repository.Repository[VIPStatus]
}

type ServiceParams struct {
	fx.In

	DB     *gorm.DB
	Node   *snowflake.Node
	Wallet *wallet.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		wallets:  p.Wallet,
		statuses: repository.ProvideStore[VIPStatus](p.DB),
	}
}

// GetStatus returns the user's VIP status, creating a level 0 record on
// first access. Total recharged tracks the wallet's lifetime deposits,
// and the eligible level is recomputed on every read.
func (s *Service) GetStatus(ctx context.Context, userID string) (*VIPStatus, error) {
	w, err := s.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	status, err := s.statuses.FindOne(ctx, &VIPStatus{UserID: userID})
	if err != nil {
		return nil, err
	}

	if status == nil {
		status = &VIPStatus{
			ID:     s.node.Generate().String(),
			UserID: userID,
		}
		if err := s.statuses.Create(ctx, status); err != nil {
			if existing, ferr := s.statuses.FindOne(ctx, &VIPStatus{UserID: userID}); ferr == nil && existing != nil {
				status = existing
			} else {
				return nil, err
			}
		}
	}

	// expired subscriptions drop back to level 0; the downgrade is
	// written through so later reads see it without re-checking expiry
	if status.ExpiresAt != nil && status.ExpiresAt.Before(time.Now()) {
		if err := s.statuses.Update(ctx, status.ID, map[string]any{
			"level":      0,
			"expires_at": nil,
		}); err != nil {
			return nil, err
		}
		status.Level = 0
		status.ExpiresAt = nil
	}

	if status.TotalRecharged != w.TotalDeposited {
		status.TotalRecharged = w.TotalDeposited
		if err := s.statuses.Update(ctx, status.ID, map[string]any{"total_recharged": w.TotalDeposited}); err != nil {
			return nil, err
		}
	}

	return status, nil
}

// EligibleLevelFor reports the level the user's lifetime recharge
// qualifies for, independent of any paid subscription.
func (s *Service) EligibleLevelFor(ctx context.Context, userID string) (int, error) {
	status, err := s.GetStatus(ctx, userID)
	if err != nil {
		return 0, err
	}
	return EligibleLevel(status.TotalRecharged), nil
}

// Subscribe activates a paid VIP level for 30 days.
func (s *Service) Subscribe(ctx context.Context, userID string, level int) (*VIPStatus, error) {
	tier, ok := LevelByNumber(level)
	if !ok || level == 0 {
		return nil, errutil.BadRequest("unknown vip level", nil)
	}

	status, err := s.GetStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.wallets.Debit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubCoins,
		Amount:      tier.MonthlyFee,
		Type:        wallet.TypeVIPSubscription,
		Description: fmt.Sprintf("VIP %s subscription", tier.Name),
	}); err != nil {
		return nil, err
	}

	expires := time.Now().Add(30 * 24 * time.Hour)
	if err := s.statuses.Update(ctx, status.ID, map[string]any{
		"level":      level,
		"expires_at": expires,
	}); err != nil {
		return nil, err
	}

	status.Level = level
	status.ExpiresAt = &expires

	return status, nil
}

// Renew extends the current paid subscription by 30 days.
func (s *Service) Renew(ctx context.Context, userID string) (*VIPStatus, error) {
	status, err := s.GetStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status.Level == 0 {
		return nil, errutil.BadRequest("no active subscription to renew", nil)
	}

	tier, _ := LevelByNumber(status.Level)
	if _, err := s.wallets.Debit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubCoins,
		Amount:      tier.MonthlyFee,
		Type:        wallet.TypeVIPRenewal,
		Description: fmt.Sprintf("VIP %s renewal", tier.Name),
	}); err != nil {
		return nil, err
	}

	base := time.Now()
	if status.ExpiresAt != nil && status.ExpiresAt.After(base) {
		base = *status.ExpiresAt
	}
	expires := base.Add(30 * 24 * time.Hour)

	if err := s.statuses.Update(ctx, status.ID, map[string]any{"expires_at": expires}); err != nil {
		return nil, err
	}
	status.ExpiresAt = &expires

	return status, nil
}

package agency

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/task"
	"gyansultanat-platform/pkg/taskname"
	"gyansultanat-platform/pkg/util"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	wallets  *wallet.Service
	enqueuer task.Enqueuer

	statuses    repository.Repository[AgencyStatus]
	referrals   repository.Repository[Referral]
	commissions repository.Repository[Commission]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Node     *snowflake.Node
	Wallet   *wallet.Service
	Enqueuer task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		wallets:  p.Wallet,
		enqueuer: p.Enqueuer,

		statuses:    repository.ProvideStore[AgencyStatus](p.DB),
		referrals:   repository.ProvideStore[Referral](p.DB),
		commissions: repository.ProvideStore[Commission](p.DB),
	}
}

// GetStatus returns the user's agency record, creating one with a
// fresh referral code on first access.
func (s *Service) GetStatus(ctx context.Context, userID string) (*AgencyStatus, error) {
	status, err := s.statuses.FindOne(ctx, &AgencyStatus{UserID: userID})
	if err != nil {
		return nil, err
	}
	if status != nil {
		return status, nil
	}

	status = &AgencyStatus{
		ID:           s.node.Generate().String(),
		UserID:       userID,
		ReferralCode: util.GenerateReferralCode(),
		LastActiveAt: time.Now(),
	}
	if err := s.statuses.Create(ctx, status); err != nil {
		if existing, ferr := s.statuses.FindOne(ctx, &AgencyStatus{UserID: userID}); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	return status, nil
}

type StatusView struct {
	*AgencyStatus
	CurrentRate    int64      `json:"current_commission_rate"`
	Bracket        Bracket    `json:"commission_bracket"`
	LevelInfo      AgentLevel `json:"level_info"`
	IsActive       bool       `json:"is_active"`
	Referrals      []*Referral `json:"referrals"`
	AllBrackets    []Bracket  `json:"commission_brackets"`
	EarningsWindow string     `json:"earnings_window"`
}

// GetStatusView assembles the full agency dashboard: trailing-30-day
// earnings, the bracket they land in and the derived agent level.
func (s *Service) GetStatusView(ctx context.Context, userID string) (*StatusView, error) {
	status, err := s.GetStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	earnings, err := s.trailingEarnings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if status.Last30DaysEarnings != earnings {
		status.Last30DaysEarnings = earnings
		_ = s.statuses.Update(ctx, status.ID, map[string]any{"last_30_days_earnings": earnings})
	}

	referrals, err := s.referrals.Find(ctx, &Referral{ReferrerID: userID})
	if err != nil {
		return nil, err
	}

	bracket := BracketFor(earnings)
	level := AgentLevelFor(earnings)

	return &StatusView{
		AgencyStatus:   status,
		CurrentRate:    bracket.Rate,
		Bracket:        bracket,
		LevelInfo:      level,
		IsActive:       time.Since(status.LastActiveAt) < InactiveAfterDays*24*time.Hour,
		Referrals:      referrals,
		AllBrackets:    Brackets,
		EarningsWindow: "30d",
	}, nil
}

// ApplyReferral binds the caller to the owner of the given code. A user
// can only ever be referred once.
func (s *Service) ApplyReferral(ctx context.Context, userID, code string) error {
	existing, err := s.referrals.FindOne(ctx, &Referral{ReferredID: userID})
	if err != nil {
		return err
	}
	if existing != nil {
		return errutil.Conflict("you already have a referrer", nil)
	}

	referrer, err := s.statuses.FindOne(ctx, &AgencyStatus{ReferralCode: strings.ToUpper(code)})
	if err != nil {
		return err
	}
	if referrer == nil {
		return errutil.NotFound("invalid referral code", nil)
	}
	if referrer.UserID == userID {
		return errutil.BadRequest("cannot use your own referral code", nil)
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.referrals.WithTrx(tx).Create(ctx, &Referral{
			ID:         s.node.Generate().String(),
			ReferrerID: referrer.UserID,
			ReferredID: userID,
			Status:     "active",
		}); err != nil {
			return err
		}

		return tx.Model(&AgencyStatus{}).
			Where("id = ?", referrer.ID).
			Updates(map[string]any{
				"total_referrals":  gorm.Expr("total_referrals + 1"),
				"active_referrals": gorm.Expr("active_referrals + 1"),
			}).Error
	}); err != nil {
		return err
	}

	s.notify(referrer.UserID, "New Referral!", "A new user joined using your referral code!", "agency")

	return nil
}

// PayCommission credits the referrer of fromUserID for a deposit of
// baseAmount, at the referrer's current bracket rate. No-op when the
// depositor has no referrer.
func (s *Service) PayCommission(ctx context.Context, fromUserID string, baseAmount int64) (*Commission, error) {
	referral, err := s.referrals.FindOne(ctx, &Referral{ReferredID: fromUserID})
	if err != nil {
		return nil, err
	}
	if referral == nil {
		return nil, nil
	}

	status, err := s.GetStatus(ctx, referral.ReferrerID)
	if err != nil {
		return nil, err
	}
	if status.IsBanned {
		return nil, nil
	}

	earnings, err := s.trailingEarnings(ctx, referral.ReferrerID)
	if err != nil {
		return nil, err
	}

	bracket := BracketFor(earnings)
	amount := CommissionOf(baseAmount, bracket.Rate)
	if amount <= 0 {
		return nil, nil
	}

	commission := &Commission{
		ID:         s.node.Generate().String(),
		UserID:     referral.ReferrerID,
		FromUserID: fromUserID,
		BaseAmount: baseAmount,
		Rate:       bracket.Rate,
		Amount:     amount,
	}

	if err := s.commissions.Create(ctx, commission); err != nil {
		return nil, err
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      referral.ReferrerID,
		SubBalance:  wallet.SubWithdrawable,
		Amount:      amount,
		Type:        wallet.TypeReferralCommission,
		Description: "Referral commission",
		Metadata:    map[string]any{"commission_id": commission.ID, "from_user_id": fromUserID},
	}); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&AgencyStatus{}).
		Where("id = ?", status.ID).
		Updates(map[string]any{
			"total_commission_earned": gorm.Expr("total_commission_earned + ?", amount),
			"last_active_at":          time.Now(),
		}).Error; err != nil {
		return nil, err
	}

	return commission, nil
}

// trailingEarnings sums commissions credited in the last 30 days.
func (s *Service) trailingEarnings(ctx context.Context, userID string) (int64, error) {
	since := time.Now().Add(-30 * 24 * time.Hour)

	var total int64
	err := s.db.WithContext(ctx).Model(&Commission{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (s *Service) notify(userID, title, message, kind string) {
	if s.enqueuer == nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"user_id": userID,
		"title":   title,
		"message": message,
		"type":    kind,
	})

	if _, err := s.enqueuer.Enqueue(asynq.NewTask(taskname.NotificationDispatch, payload)); err != nil {
		zap.L().Warn("failed to enqueue agency notification", zap.Error(err))
	}
}

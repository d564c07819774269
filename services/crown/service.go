package crown

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/celengine"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/task"
	"gyansultanat-platform/pkg/taskname"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	enqueuer task.Enqueuer

	stats  repository.Repository[UserStats]
	crowns repository.Repository[UserCrown]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Node     *snowflake.Node
	Enqueuer task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		enqueuer: p.Enqueuer,

		stats:  repository.ProvideStore[UserStats](p.DB),
		crowns: repository.ProvideStore[UserCrown](p.DB),
	}
}

// MyCrowns lists the user's active crowns.
func (s *Service) MyCrowns(ctx context.Context, userID string) ([]*UserCrown, error) {
	return s.crowns.Find(ctx, &UserCrown{UserID: userID, IsActive: true})
}

type Eligibility struct {
	EligibleCrowns []string   `json:"eligible_crowns"`
	Stats          *UserStats `json:"user_stats"`
}

// CheckEligibility evaluates every crown rule against the user's stats
// and filters out crowns already held.
func (s *Service) CheckEligibility(ctx context.Context, userID string) (*Eligibility, error) {
	stats, err := s.getOrCreateStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	attrs := map[string]any{
		"total_likes":      stats.TotalLikesReceived,
		"total_videos":     stats.TotalVideos,
		"total_views":      stats.TotalViews,
		"total_gifts_sent": stats.TotalGiftsSent,
	}

	env, err := celengine.GetOrBuildEnv(attrs)
	if err != nil {
		return nil, err
	}

	existing, err := s.MyCrowns(ctx, userID)
	if err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(existing))
	for _, c := range existing {
		held[c.CrownType] = true
	}

	var eligible []string
	for _, def := range Definitions {
		if def.Expr == "" || held[def.Type] {
			continue
		}

		ok, err := celengine.Evaluate(env, def.Expr, attrs)
		if err != nil {
			zap.L().Error("failed to evaluate crown rule",
				zap.String("crown_type", def.Type), zap.Error(err))
			continue
		}
		if ok {
			eligible = append(eligible, def.Type)
		}
	}

	return &Eligibility{EligibleCrowns: eligible, Stats: stats}, nil
}

// Claim awards an eligible crown. Crowns are permanent.
func (s *Service) Claim(ctx context.Context, userID, crownType string) (*UserCrown, error) {
	def, ok := DefinitionByType(crownType)
	if !ok {
		return nil, errutil.NotFound("unknown crown type", nil)
	}
	if def.Expr == "" {
		return nil, errutil.BadRequest("this crown cannot be claimed", nil)
	}

	eligibility, err := s.CheckEligibility(ctx, userID)
	if err != nil {
		return nil, err
	}

	eligible := false
	for _, t := range eligibility.EligibleCrowns {
		if t == crownType {
			eligible = true
			break
		}
	}
	if !eligible {
		return nil, errutil.BadRequest("not eligible for this crown", nil)
	}

	crown := &UserCrown{
		ID:        s.node.Generate().String(),
		UserID:    userID,
		CrownType: crownType,
		EarnedAt:  time.Now(),
		IsActive:  true,
	}
	if err := s.crowns.Create(ctx, crown); err != nil {
		return nil, err
	}

	s.notify(userID, "New Crown Earned!",
		fmt.Sprintf("Congratulations! You've earned the %s Crown!", def.Name))

	return crown, nil
}

// Award grants a crown outside the rule engine; used for the manually
// assigned queen crown and leaderboard prizes. Idempotent per type.
func (s *Service) Award(ctx context.Context, userID, crownType string) (*UserCrown, error) {
	def, ok := DefinitionByType(crownType)
	if !ok {
		return nil, errutil.NotFound("unknown crown type", nil)
	}

	existing, err := s.crowns.FindOne(ctx, &UserCrown{UserID: userID, CrownType: crownType, IsActive: true})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	crown := &UserCrown{
		ID:        s.node.Generate().String(),
		UserID:    userID,
		CrownType: crownType,
		EarnedAt:  time.Now(),
		IsActive:  true,
	}
	if err := s.crowns.Create(ctx, crown); err != nil {
		return nil, err
	}

	s.notify(userID, "New Crown Earned!",
		fmt.Sprintf("Congratulations! You've earned the %s Crown!", def.Name))

	return crown, nil
}

// AddGiftsSent bumps the stat behind the gifter crown.
func (s *Service) AddGiftsSent(ctx context.Context, userID string, amount int64) error {
	if _, err := s.getOrCreateStats(ctx, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&UserStats{}).
		Where("user_id = ?", userID).
		Update("total_gifts_sent", gorm.Expr("total_gifts_sent + ?", amount)).Error
}

// AddVideoStats bumps the creator-facing counters.
func (s *Service) AddVideoStats(ctx context.Context, userID string, videos, likes, views int64) error {
	if _, err := s.getOrCreateStats(ctx, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&UserStats{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"total_videos":         gorm.Expr("total_videos + ?", videos),
			"total_likes_received": gorm.Expr("total_likes_received + ?", likes),
			"total_views":          gorm.Expr("total_views + ?", views),
		}).Error
}

func (s *Service) getOrCreateStats(ctx context.Context, userID string) (*UserStats, error) {
	stats, err := s.stats.FindOne(ctx, &UserStats{UserID: userID})
	if err != nil {
		return nil, err
	}
	if stats != nil {
		return stats, nil
	}

	stats = &UserStats{
		ID:     s.node.Generate().String(),
		UserID: userID,
	}
	if err := s.stats.Create(ctx, stats); err != nil {
		if existing, ferr := s.stats.FindOne(ctx, &UserStats{UserID: userID}); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	return stats, nil
}

func (s *Service) notify(userID, title, message string) {
	if s.enqueuer == nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"user_id":    userID,
		"title":      title,
		"message":    message,
		"type":       "crown_earned",
		"action_url": "/crowns",
	})

	if _, err := s.enqueuer.Enqueue(asynq.NewTask(taskname.NotificationDispatch, payload)); err != nil {
		zap.L().Warn("failed to enqueue crown notification", zap.Error(err))
	}
}

package host

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

	"gyansultanat-platform/pkg/db/option"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/task"
	"gyansultanat-platform/pkg/taskname"
	"gyansultanat-platform/services/charity"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	wallets  *wallet.Service
	charity  *charity.Service
	enqueuer task.Enqueuer

	profiles repository.Repository[Profile]
	sessions repository.Repository[Session]
	bonuses  repository.Repository[HighEarnerRecord]
}

type ServiceParams struct {
	fx.In

	DB       *gorm.DB
	Node     *snowflake.Node
	Wallet   *wallet.Service
	Charity  *charity.Service
	Enqueuer task.Enqueuer `optional:"true"`
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		wallets:  p.Wallet,
		charity:  p.Charity,
		enqueuer: p.Enqueuer,

		profiles: repository.ProvideStore[Profile](p.DB),
		sessions: repository.ProvideStore[Session](p.DB),
		bonuses:  repository.ProvideStore[HighEarnerRecord](p.DB),
	}
}

// Policy returns the static reward configuration.
func (s *Service) Policy() map[string]any {
	return map[string]any{
		"welcome_period_days":            WelcomePeriodDays,
		"welcome_video_reward_per_hour":  WelcomeVideoRewardPerHour,
		"welcome_audio_reward_per_2hours": WelcomeAudioRewardPer2Hours,
		"normal_video_reward_per_hour":   NormalVideoRewardPerHour,
		"normal_audio_reward_per_hour":   NormalAudioRewardPerHour,
		"daily_target_stars":             DailyTargetStars,
		"high_earner_threshold":          HighEarnerThreshold,
		"high_earner_bonus":              HighEarnerBonus,
		"high_earner_charity_percent":    HighEarnerCharityPercent,
		"min_video_minutes":              MinVideoMinutes,
		"min_audio_minutes":              MinAudioMinutes,
	}
}

type StatusView struct {
	Profile              *Profile `json:"host_profile"`
	IsWelcomePeriod      bool     `json:"is_welcome_period"`
	WelcomeDaysRemaining int      `json:"welcome_days_remaining"`
	ActiveSession        *Session `json:"active_session,omitempty"`
	TodayVideoMinutes    int64    `json:"today_video_minutes"`
	TodayAudioMinutes    int64    `json:"today_audio_minutes"`
	TodayStarsEarned     int64    `json:"today_stars_earned"`
	VideoRewardPerHour   int64    `json:"video_reward_per_hour"`
	AudioRewardPer2Hours int64    `json:"audio_reward_per_2hours"`
	IsHighEarner         bool     `json:"is_high_earner"`
	DailyTargetStars     int64    `json:"daily_target_stars"`
	TargetProgress       float64  `json:"target_progress"`
}

// GetStatus reports the host's policy tier, today's totals and any
// running session. A profile is created on first access.
func (s *Service) GetStatus(ctx context.Context, userID string) (*StatusView, error) {
	profile, err := s.getOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	daysSince := int(time.Since(profile.RegisteredAt).Hours() / 24)
	welcome := daysSince < WelcomePeriodDays

	var today struct {
		VideoMinutes int64
		AudioMinutes int64
		StarsEarned  int64
	}
	startOfDay := time.Now().Truncate(24 * time.Hour)
	if err := s.db.WithContext(ctx).Model(&Session{}).
		Where("user_id = ? AND created_at >= ?", userID, startOfDay).
		Select(
			"COALESCE(SUM(CASE WHEN host_type = 'video' THEN duration_minutes ELSE 0 END), 0) AS video_minutes, " +
				"COALESCE(SUM(CASE WHEN host_type = 'audio' THEN duration_minutes ELSE 0 END), 0) AS audio_minutes, " +
				"COALESCE(SUM(stars_earned), 0) AS stars_earned").
		Scan(&today).Error; err != nil {
		return nil, err
	}

	active, err := s.sessions.FindOne(ctx, &Session{UserID: userID, Status: SessionActive})
	if err != nil {
		return nil, err
	}

	videoReward := NormalVideoRewardPerHour
	audioReward := NormalAudioRewardPerHour * 2
	if welcome {
		videoReward = WelcomeVideoRewardPerHour
		audioReward = WelcomeAudioRewardPer2Hours
	}

	remaining := WelcomePeriodDays - daysSince
	if remaining < 0 {
		remaining = 0
	}

	return &StatusView{
		Profile:              profile,
		IsWelcomePeriod:      welcome,
		WelcomeDaysRemaining: remaining,
		ActiveSession:        active,
		TodayVideoMinutes:    today.VideoMinutes,
		TodayAudioMinutes:    today.AudioMinutes,
		TodayStarsEarned:     today.StarsEarned,
		VideoRewardPerHour:   videoReward,
		AudioRewardPer2Hours: audioReward,
		IsHighEarner:         profile.TotalGiftsReceived >= HighEarnerThreshold,
		DailyTargetStars:     DailyTargetStars,
		TargetProgress:       float64(today.StarsEarned) / float64(DailyTargetStars) * 100,
	}, nil
}

// StartSession opens a live session. Only one may run at a time.
func (s *Service) StartSession(ctx context.Context, userID, hostType string) (*Session, error) {
	if hostType != TypeVideo && hostType != TypeAudio {
		return nil, errutil.BadRequest("host_type must be video or audio", nil)
	}

	active, err := s.sessions.FindOne(ctx, &Session{UserID: userID, Status: SessionActive})
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, errutil.BadRequest("you already have an active session", nil)
	}

	profile, err := s.getOrCreateProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	welcome := int(time.Since(profile.RegisteredAt).Hours()/24) < WelcomePeriodDays

	session := &Session{
		ID:              s.node.Generate().String(),
		UserID:          userID,
		HostType:        hostType,
		Status:          SessionActive,
		IsWelcomePeriod: welcome,
		StartedAt:       time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// EndSession closes the active session and pays the earned stars.
func (s *Service) EndSession(ctx context.Context, userID, sessionID string) (*Session, error) {
	session, err := s.sessions.FindOne(ctx, &Session{ID: sessionID, UserID: userID, Status: SessionActive})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errutil.NotFound("active session not found", nil)
	}

	now := time.Now()
	duration := int64(now.Sub(session.StartedAt).Minutes())
	earned := SessionReward(session.HostType, session.IsWelcomePeriod, duration)

	if err := s.sessions.Update(ctx, session.ID, map[string]any{
		"ended_at":         now,
		"duration_minutes": duration,
		"stars_earned":     earned,
		"status":           SessionCompleted,
	}); err != nil {
		return nil, err
	}
	session.EndedAt = &now
	session.DurationMinutes = duration
	session.StarsEarned = earned
	session.Status = SessionCompleted

	if earned > 0 {
		label := "Audio"
		if session.HostType == TypeVideo {
			label = "Video"
		}
		desc := fmt.Sprintf("%s Live Reward (%d mins)", label, duration)
		if session.IsWelcomePeriod {
			desc += " [Welcome Bonus]"
		}

		if _, err := s.wallets.Credit(ctx, wallet.Entry{
			UserID:      userID,
			SubBalance:  wallet.SubStars,
			Amount:      earned,
			Type:        wallet.TypeHostReward,
			Description: desc,
			Metadata:    map[string]any{"session_id": session.ID},
		}); err != nil {
			return nil, err
		}

		if err := s.db.WithContext(ctx).Model(&Profile{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				"total_live_minutes": gorm.Expr("total_live_minutes + ?", duration),
				"total_stars_earned": gorm.Expr("total_stars_earned + ?", earned),
			}).Error; err != nil {
			return nil, err
		}

		s.notify(userID, "Live Session Completed!",
			fmt.Sprintf("You earned %d stars for your %d minute %s session!", earned, duration, session.HostType))
	}

	return session, nil
}

type BonusResult struct {
	Eligible           bool   `json:"eligible"`
	AlreadyClaimed     bool   `json:"already_claimed,omitempty"`
	TotalGiftsReceived int64  `json:"total_gifts_received"`
	Remaining          int64  `json:"remaining,omitempty"`
	BonusCredited      int64  `json:"bonus_credited,omitempty"`
	NextInstalment     int64  `json:"next_instalment,omitempty"`
	NextInstalmentDate string `json:"next_instalment_date,omitempty"`
	CharityCut         int64  `json:"charity_contribution,omitempty"`
	Message            string `json:"message"`
}

// ClaimHighEarnerBonus pays the first instalment of the 300K gift bonus
// and schedules the second. Claimable once per calendar month.
func (s *Service) ClaimHighEarnerBonus(ctx context.Context, userID string) (*BonusResult, error) {
	profile, err := s.profiles.FindOne(ctx, &Profile{UserID: userID})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errutil.NotFound("host profile not found", nil)
	}

	if profile.TotalGiftsReceived < HighEarnerThreshold {
		remaining := HighEarnerThreshold - profile.TotalGiftsReceived
		return &BonusResult{
			Eligible:           false,
			TotalGiftsReceived: profile.TotalGiftsReceived,
			Remaining:          remaining,
			Message:            fmt.Sprintf("You need %d more stars in gifts to qualify for the high-earner bonus", remaining),
		}, nil
	}

	month := time.Now().Format("2006-01")
	existing, err := s.bonuses.FindOne(ctx, &HighEarnerRecord{UserID: userID, Month: month})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &BonusResult{
			Eligible:           true,
			AlreadyClaimed:     true,
			TotalGiftsReceived: profile.TotalGiftsReceived,
			Message:            "You have already claimed your high-earner bonus this month",
		}, nil
	}

	instalment := HighEarnerBonus / 2
	secondAt := time.Now().Add(HighEarnerInstalmentGapDays * 24 * time.Hour)

	record := &HighEarnerRecord{
		ID:                 s.node.Generate().String(),
		UserID:             userID,
		Month:              month,
		TotalBonus:         HighEarnerBonus,
		Instalment:         instalment,
		SecondInstalmentAt: secondAt,
		Status:             BonusPartial,
	}
	if err := s.bonuses.Create(ctx, record); err != nil {
		return nil, err
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubStars,
		Amount:      instalment,
		Type:        wallet.TypeHighEarnerBonus,
		Description: "High-Earner Bonus (Instalment 1/2) - 300K Gift Achievement",
		Metadata:    map[string]any{"bonus_id": record.ID},
	}); err != nil {
		return nil, err
	}

	charityCut := profile.TotalGiftsReceived * HighEarnerCharityPercent / 100
	if err := s.charity.Record(ctx, userID, "high_earner", charityCut); err != nil {
		zap.L().Error("failed to record high-earner charity cut",
			zap.String("user_id", userID), zap.Error(err))
	}

	s.scheduleSecondInstalment(record)
	s.notify(userID, "High-Earner Bonus Unlocked!",
		fmt.Sprintf("Congratulations! You received %d stars bonus (1st instalment). 2nd instalment in %d days!",
			instalment, HighEarnerInstalmentGapDays))

	return &BonusResult{
		Eligible:           true,
		TotalGiftsReceived: profile.TotalGiftsReceived,
		BonusCredited:      instalment,
		NextInstalment:     instalment,
		NextInstalmentDate: secondAt.Format(time.RFC3339),
		CharityCut:         charityCut,
		Message:            fmt.Sprintf("High-Earner Bonus activated! %d stars credited, %d more in %d days!", instalment, instalment, HighEarnerInstalmentGapDays),
	}, nil
}

// PaySecondInstalment settles the deferred half of a high-earner bonus.
// Safe to call more than once.
func (s *Service) PaySecondInstalment(ctx context.Context, bonusID string) error {
	record, err := s.bonuses.FindOne(ctx, &HighEarnerRecord{ID: bonusID})
	if err != nil {
		return err
	}
	if record == nil {
		return errutil.NotFound("bonus record not found", nil)
	}
	if record.Status != BonusPartial {
		return nil
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      record.UserID,
		SubBalance:  wallet.SubStars,
		Amount:      record.Instalment,
		Type:        wallet.TypeHighEarnerBonus,
		Description: "High-Earner Bonus (Instalment 2/2) - 300K Gift Achievement",
		Metadata:    map[string]any{"bonus_id": record.ID},
	}); err != nil {
		return err
	}

	now := time.Now()
	if err := s.bonuses.Update(ctx, record.ID, map[string]any{
		"status":         BonusPaid,
		"second_paid_at": now,
	}); err != nil {
		return err
	}

	s.notify(record.UserID, "High-Earner Bonus Complete!",
		fmt.Sprintf("Your 2nd instalment of %d stars has been credited.", record.Instalment))

	return nil
}

// AddGiftValue bumps the host's lifetime gift counter, used by the
// high-earner threshold.
func (s *Service) AddGiftValue(ctx context.Context, userID string, amount int64) error {
	if _, err := s.getOrCreateProfile(ctx, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&Profile{}).
		Where("user_id = ?", userID).
		Update("total_gifts_received", gorm.Expr("total_gifts_received + ?", amount)).Error
}

// Sessions lists the host's past sessions, newest first.
func (s *Service) Sessions(ctx context.Context, userID string, limit int) ([]*Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	return s.sessions.Find(ctx, &Session{UserID: userID},
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "created_at",
			OrderBy: "desc",
			Allow:   map[string]bool{"created_at": true},
		}),
		option.WithLimit(limit),
	)
}

type LeaderboardEntry struct {
	UserID       string `gorm:"column:user_id" json:"user_id"`
	TotalStars   int64  `gorm:"column:total_stars" json:"total_stars"`
	TotalMinutes int64  `gorm:"column:total_minutes" json:"total_minutes"`
	SessionCount int64  `gorm:"column:session_count" json:"session_count"`
}

// Leaderboard ranks hosts by stars earned across completed sessions.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var entries []*LeaderboardEntry
	err := s.db.WithContext(ctx).Model(&Session{}).
		Select("user_id, SUM(stars_earned) AS total_stars, SUM(duration_minutes) AS total_minutes, COUNT(*) AS session_count").
		Where("status = ?", SessionCompleted).
		Group("user_id").
		Order("total_stars DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

func (s *Service) getOrCreateProfile(ctx context.Context, userID string) (*Profile, error) {
	profile, err := s.profiles.FindOne(ctx, &Profile{UserID: userID})
	if err != nil {
		return nil, err
	}
	if profile != nil {
		return profile, nil
	}

	profile = &Profile{
		ID:           s.node.Generate().String(),
		UserID:       userID,
		RegisteredAt: time.Now(),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		// lost the race against a concurrent first access
		if existing, ferr := s.profiles.FindOne(ctx, &Profile{UserID: userID}); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	return profile, nil
}

func (s *Service) scheduleSecondInstalment(record *HighEarnerRecord) {
	if s.enqueuer == nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{"bonus_id": record.ID})
	if _, err := s.enqueuer.Enqueue(
		asynq.NewTask(taskname.HostBonusInstalment, payload),
		asynq.ProcessAt(record.SecondInstalmentAt),
		asynq.Queue("critical"),
	); err != nil {
		zap.L().Error("failed to schedule bonus instalment",
			zap.String("bonus_id", record.ID), zap.Error(err))
	}
}

func (s *Service) notify(userID, title, message string) {
	if s.enqueuer == nil {
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"user_id":    userID,
		"title":      title,
		"message":    message,
		"type":       "host_reward",
		"action_url": "/host",
	})

	if _, err := s.enqueuer.Enqueue(asynq.NewTask(taskname.NotificationDispatch, payload)); err != nil {
		zap.L().Warn("failed to enqueue host notification", zap.Error(err))
	}
}

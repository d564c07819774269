package reward

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/services/wallet"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	wallets *wallet.Service

	activities repository.Repository[ActivitySession]
	messaging  repository.Repository[MessagingReward]
	missions   repository.Repository[MissionProgress]
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

		wallets: p.Wallet,

		activities: repository.ProvideStore[ActivitySession](p.DB),
		messaging:  repository.ProvideStore[MessagingReward](p.DB),
		missions:   repository.ProvideStore[MissionProgress](p.DB),
	}
}

func today() string { return time.Now().Format("2006-01-02") }

type ActivityStatus struct {
	TotalActiveMinutes  int64   `json:"total_active_minutes"`
	MinutesTowardsNext  int64   `json:"minutes_towards_next"`
	MinutesRequired     int64   `json:"minutes_required"`
	ProgressPercent     float64 `json:"progress_percent"`
	RewardsClaimedToday int64   `json:"rewards_claimed_today"`
	RewardsAvailable    int64   `json:"rewards_available"`
	MaxDailyRewards     int64   `json:"max_daily_rewards"`
	CoinsPerReward      int64   `json:"coins_per_reward"`
}

// GetActivityStatus reports today's tracked minutes and claimable rewards.
func (s *Service) GetActivityStatus(ctx context.Context, userID string) (*ActivityStatus, error) {
	activity, err := s.getOrCreateActivity(ctx, userID)
	if err != nil {
		return nil, err
	}

	towardsNext := activity.TotalActiveMinutes % ActivityMinutesRequired
	available := availableRewards(activity)

	return &ActivityStatus{
		TotalActiveMinutes:  activity.TotalActiveMinutes,
		MinutesTowardsNext:  towardsNext,
		MinutesRequired:     ActivityMinutesRequired,
		ProgressPercent:     float64(towardsNext) / float64(ActivityMinutesRequired) * 100,
		RewardsClaimedToday: activity.RewardsClaimed,
		RewardsAvailable:    available,
		MaxDailyRewards:     ActivityMaxDailyRewards,
		CoinsPerReward:      ActivityCoinsReward,
	}, nil
}

// TrackActivity adds one active minute; the client calls this on a timer.
func (s *Service) TrackActivity(ctx context.Context, userID string) (*ActivityStatus, error) {
	activity, err := s.getOrCreateActivity(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&ActivitySession{}).
		Where("id = ?", activity.ID).
		Update("total_active_minutes", gorm.Expr("total_active_minutes + 1")).Error; err != nil {
		return nil, err
	}
	activity.TotalActiveMinutes++

	return s.GetActivityStatus(ctx, userID)
}

type ActivityClaim struct {
	RewardAmount        int64 `json:"reward_amount"`
	FirstRewardBonus    bool  `json:"first_reward_bonus"`
	RewardsClaimedToday int64 `json:"rewards_claimed_today"`
	RewardsRemaining    int64 `json:"rewards_remaining"`
}

// ClaimActivityReward pays one earned activity reward. The first claim
// of the day carries an extra bonus.
func (s *Service) ClaimActivityReward(ctx context.Context, userID string) (*ActivityClaim, error) {
	activity, err := s.activities.FindOne(ctx, &ActivitySession{UserID: userID, Date: today()})
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, errutil.BadRequest("no activity recorded today", nil)
	}

	if activity.RewardsClaimed >= ActivityMaxDailyRewards {
		return nil, errutil.BadRequest("daily reward limit reached", nil)
	}
	if availableRewards(activity) <= 0 {
		return nil, errutil.BadRequest("no rewards available yet, keep being active", nil)
	}

	amount := ActivityCoinsReward
	first := activity.RewardsClaimed == 0
	if first {
		amount += ActivityFirstDailyBonus
	}

	if err := s.activities.Update(ctx, activity.ID, map[string]any{
		"rewards_claimed": gorm.Expr("rewards_claimed + 1"),
	}); err != nil {
		return nil, err
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubCoins,
		Amount:      amount,
		Type:        wallet.TypeActivityReward,
		Description: fmt.Sprintf("Activity reward (%d/%d)", activity.RewardsClaimed+1, ActivityMaxDailyRewards),
	}); err != nil {
		return nil, err
	}

	return &ActivityClaim{
		RewardAmount:        amount,
		FirstRewardBonus:    first,
		RewardsClaimedToday: activity.RewardsClaimed + 1,
		RewardsRemaining:    ActivityMaxDailyRewards - activity.RewardsClaimed - 1,
	}, nil
}

type DailySummary struct {
	ActivityStreak int                `json:"activity_streak"`
	Last7Days      []*ActivitySession `json:"last_7_days"`
	TotalEarned    int64              `json:"total_earned"`
}

// GetDailySummary reports the last week of activity and the current streak.
func (s *Service) GetDailySummary(ctx context.Context, userID string) (*DailySummary, error) {
	since := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	var sessions []*ActivitySession
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	streak := 0
	for _, a := range sessions {
		if a.RewardsClaimed > 0 {
			streak++
		} else {
			break
		}
	}

	var totalEarned int64
	if err := s.db.WithContext(ctx).Model(&wallet.WalletTransaction{}).
		Where("user_id = ? AND type = ? AND created_at >= ?", userID, wallet.TypeActivityReward, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalEarned).Error; err != nil {
		return nil, err
	}

	return &DailySummary{
		ActivityStreak: streak,
		Last7Days:      sessions,
		TotalEarned:    totalEarned,
	}, nil
}

type MessagingClaim struct {
	RewardAmount        int64 `json:"reward_amount"`
	RewardsClaimedToday int64 `json:"rewards_claimed_today"`
	MaxDailyRewards     int64 `json:"max_daily_rewards"`
}

// ClaimMessagingReward pays the per-chat reward, capped per day.
func (s *Service) ClaimMessagingReward(ctx context.Context, userID string) (*MessagingClaim, error) {
	claimed, err := s.messaging.Count(ctx, &MessagingReward{UserID: userID, Date: today()})
	if err != nil {
		return nil, err
	}

	if claimed >= MaxDailyChatRewards {
		return nil, errutil.BadRequest(
			fmt.Sprintf("daily limit of %d chat rewards reached", MaxDailyChatRewards), nil)
	}

	if err := s.messaging.Create(ctx, &MessagingReward{
		ID:     s.node.Generate().String(),
		UserID: userID,
		Date:   today(),
		Amount: ChatReward,
	}); err != nil {
		return nil, err
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubCoins,
		Amount:      ChatReward,
		Type:        wallet.TypeMessagingReward,
		Description: fmt.Sprintf("Chat reward (%d/%d)", claimed+1, MaxDailyChatRewards),
	}); err != nil {
		return nil, err
	}

	return &MessagingClaim{
		RewardAmount:        ChatReward,
		RewardsClaimedToday: claimed + 1,
		MaxDailyRewards:     MaxDailyChatRewards,
	}, nil
}

type MessagingStatus struct {
	RewardsClaimedToday int64 `json:"rewards_claimed_today"`
	MaxDailyRewards     int64 `json:"max_daily_rewards"`
	RewardPerChat       int64 `json:"reward_per_chat"`
	TotalEarnedToday    int64 `json:"total_earned_today"`
	CanClaimMore        bool  `json:"can_claim_more"`
}

func (s *Service) GetMessagingStatus(ctx context.Context, userID string) (*MessagingStatus, error) {
	claimed, err := s.messaging.Count(ctx, &MessagingReward{UserID: userID, Date: today()})
	if err != nil {
		return nil, err
	}

	return &MessagingStatus{
		RewardsClaimedToday: claimed,
		MaxDailyRewards:     MaxDailyChatRewards,
		RewardPerChat:       ChatReward,
		TotalEarnedToday:    claimed * ChatReward,
		CanClaimMore:        claimed < MaxDailyChatRewards,
	}, nil
}

type MissionView struct {
	Mission
	MissionState
}

type MissionsView struct {
	Date                string         `json:"date"`
	Missions            []*MissionView `json:"missions"`
	AllCompleted        bool           `json:"all_completed"`
	AllCompletedBonus   int64          `json:"all_completed_bonus"`
	AllBonusClaimed     bool           `json:"all_completed_bonus_claimed"`
}

// GetDailyMissions returns today's missions with progress.
func (s *Service) GetDailyMissions(ctx context.Context, userID string) (*MissionsView, error) {
	progress, states, err := s.getOrCreateMissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*MissionView, 0, len(Missions))
	allCompleted := true
	for _, m := range Missions {
		state := states[m.ID]
		if !state.Completed {
			allCompleted = false
		}
		views = append(views, &MissionView{Mission: m, MissionState: state})
	}

	return &MissionsView{
		Date:              progress.Date,
		Missions:          views,
		AllCompleted:      allCompleted,
		AllCompletedBonus: AllMissionsBonus,
		AllBonusClaimed:   progress.AllBonusClaimed,
	}, nil
}

type MissionUpdate struct {
	MissionID string `json:"mission_id"`
	Progress  int    `json:"progress"`
	Target    int    `json:"target"`
	Completed bool   `json:"completed"`
}

// UpdateMissionProgress advances a mission, clamping at its target.
func (s *Service) UpdateMissionProgress(ctx context.Context, userID, missionID string, amount int) (*MissionUpdate, error) {
	mission, ok := MissionByID(missionID)
	if !ok {
		return nil, errutil.NotFound("mission not found", nil)
	}
	if amount <= 0 {
		amount = 1
	}

	progress, states, err := s.getOrCreateMissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := states[missionID]
	state.Progress += amount
	if state.Progress > mission.Target {
		state.Progress = mission.Target
	}
	state.Completed = state.Progress >= mission.Target
	states[missionID] = state

	if err := s.saveMissionStates(ctx, progress, states); err != nil {
		return nil, err
	}

	return &MissionUpdate{
		MissionID: missionID,
		Progress:  state.Progress,
		Target:    mission.Target,
		Completed: state.Completed,
	}, nil
}

// ClaimMission pays a completed mission's reward once.
func (s *Service) ClaimMission(ctx context.Context, userID, missionID string) (int64, error) {
	mission, ok := MissionByID(missionID)
	if !ok {
		return 0, errutil.NotFound("mission not found", nil)
	}

	progress, states, err := s.getOrCreateMissions(ctx, userID)
	if err != nil {
		return 0, err
	}

	state := states[missionID]
	if !state.Completed {
		return 0, errutil.BadRequest("mission not completed", nil)
	}
	if state.Claimed {
		return 0, errutil.BadRequest("reward already claimed", nil)
	}

	state.Claimed = true
	states[missionID] = state
	if err := s.saveMissionStates(ctx, progress, states); err != nil {
		return 0, err
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubCoins,
		Amount:      mission.RewardCoins,
		Type:        wallet.TypeMissionReward,
		Description: fmt.Sprintf("Daily mission: %s", mission.Title),
	}); err != nil {
		return 0, err
	}

	return mission.RewardCoins, nil
}

// ClaimAllMissionsBonus pays the all-completed bonus once per day.
func (s *Service) ClaimAllMissionsBonus(ctx context.Context, userID string) (int64, error) {
	progress, states, err := s.getOrCreateMissions(ctx, userID)
	if err != nil {
		return 0, err
	}

	for _, m := range Missions {
		if !states[m.ID].Completed {
			return 0, errutil.BadRequest("not all missions completed", nil)
		}
	}
	if progress.AllBonusClaimed {
		return 0, errutil.BadRequest("bonus already claimed", nil)
	}

	if err := s.missions.Update(ctx, progress.ID, map[string]any{"all_bonus_claimed": true}); err != nil {
		return 0, err
	}

	if _, err := s.wallets.Credit(ctx, wallet.Entry{
		UserID:      userID,
		SubBalance:  wallet.SubCoins,
		Amount:      AllMissionsBonus,
		Type:        wallet.TypeMissionReward,
		Description: "All daily missions completed bonus",
	}); err != nil {
		return 0, err
	}

	return AllMissionsBonus, nil
}

func availableRewards(a *ActivitySession) int64 {
	earned := a.TotalActiveMinutes/ActivityMinutesRequired - a.RewardsClaimed
	remaining := ActivityMaxDailyRewards - a.RewardsClaimed
	if earned < remaining {
		return max(earned, 0)
	}
	return max(remaining, 0)
}

func (s *Service) getOrCreateActivity(ctx context.Context, userID string) (*ActivitySession, error) {
	activity, err := s.activities.FindOne(ctx, &ActivitySession{UserID: userID, Date: today()})
	if err != nil {
		return nil, err
	}
	if activity != nil {
		return activity, nil
	}

	activity = &ActivitySession{
		ID:     s.node.Generate().String(),
		UserID: userID,
		Date:   today(),
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		if existing, ferr := s.activities.FindOne(ctx, &ActivitySession{UserID: userID, Date: today()}); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	return activity, nil
}

func (s *Service) getOrCreateMissions(ctx context.Context, userID string) (*MissionProgress, map[string]MissionState, error) {
	progress, err := s.missions.FindOne(ctx, &MissionProgress{UserID: userID, Date: today()})
	if err != nil {
		return nil, nil, err
	}

	if progress == nil {
		states := make(map[string]MissionState, len(Missions))
		for _, m := range Missions {
			states[m.ID] = MissionState{}
		}
		b, _ := json.Marshal(states)

		progress = &MissionProgress{
			ID:       s.node.Generate().String(),
			UserID:   userID,
			Date:     today(),
			Missions: datatypes.JSON(b),
		}
		if err := s.missions.Create(ctx, progress); err != nil {
			if existing, ferr := s.missions.FindOne(ctx, &MissionProgress{UserID: userID, Date: today()}); ferr == nil && existing != nil {
				progress = existing
			} else {
				return nil, nil, err
			}
		}
	}

	var states map[string]MissionState
	if err := json.Unmarshal(progress.Missions, &states); err != nil {
		return nil, nil, err
	}
	if states == nil {
		states = map[string]MissionState{}
	}

	return progress, states, nil
}

func (s *Service) saveMissionStates(ctx context.Context, progress *MissionProgress, states map[string]MissionState) error {
	b, err := json.Marshal(states)
	if err != nil {
		return err
	}
	return s.missions.Update(ctx, progress.ID, map[string]any{"missions": datatypes.JSON(b)})
}

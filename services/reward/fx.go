package reward

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("reward.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	rewards := e.Group("/api/rewards", authsvc.Middleware())
	rewards.GET("/activity-status", s.handleActivityStatus)
	rewards.POST("/track-activity", s.handleTrackActivity)
	rewards.POST("/claim-activity-reward", s.handleClaimActivity)
	rewards.GET("/daily-summary", s.handleDailySummary)

	messages := e.Group("/api/messages", authsvc.Middleware())
	messages.POST("/reward", s.handleClaimMessaging)
	messages.GET("/reward-status", s.handleMessagingStatus)

	missions := e.Group("/api/daily-missions", authsvc.Middleware())
	missions.GET("", s.handleDailyMissions)
	missions.POST("/update-progress", s.handleUpdateMission)
	missions.POST("/claim/:id", s.handleClaimMission)
	missions.POST("/claim-all-bonus", s.handleClaimAllBonus)
}

func (s *Service) handleActivityStatus(c *gin.Context) {
	session := auth.CurrentSession(c)

	status, err := s.GetActivityStatus(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (s *Service) handleTrackActivity(c *gin.Context) {
	session := auth.CurrentSession(c)

	status, err := s.TrackActivity(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (s *Service) handleClaimActivity(c *gin.Context) {
	session := auth.CurrentSession(c)

	claim, err := s.ClaimActivityReward(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"reward_amount":         claim.RewardAmount,
		"first_reward_bonus":    claim.FirstRewardBonus,
		"rewards_claimed_today": claim.RewardsClaimedToday,
		"rewards_remaining":     claim.RewardsRemaining,
	})
}

func (s *Service) handleDailySummary(c *gin.Context) {
	session := auth.CurrentSession(c)

	summary, err := s.GetDailySummary(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Service) handleClaimMessaging(c *gin.Context) {
	session := auth.CurrentSession(c)

	claim, err := s.ClaimMessagingReward(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"reward_amount":         claim.RewardAmount,
		"rewards_claimed_today": claim.RewardsClaimedToday,
		"max_daily_rewards":     claim.MaxDailyRewards,
	})
}

func (s *Service) handleMessagingStatus(c *gin.Context) {
	session := auth.CurrentSession(c)

	status, err := s.GetMessagingStatus(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (s *Service) handleDailyMissions(c *gin.Context) {
	session := auth.CurrentSession(c)

	view, err := s.GetDailyMissions(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type updateMissionRequest struct {
	MissionID string `json:"mission_id"`
	Amount    int    `json:"progress_amount"`
}

func (s *Service) handleUpdateMission(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req updateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	update, err := s.UpdateMissionProgress(c.Request.Context(), session.UserID, req.MissionID, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, update)
}

func (s *Service) handleClaimMission(c *gin.Context) {
	session := auth.CurrentSession(c)

	coins, err := s.ClaimMission(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"coins_earned": coins})
}

func (s *Service) handleClaimAllBonus(c *gin.Context) {
	session := auth.CurrentSession(c)

	bonus, err := s.ClaimAllMissionsBonus(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bonus_coins": bonus})
}

package game

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("game.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	api := e.Group("/api/lucky-wallet")

	api.GET("/config", s.handleConfig)

	authed := api.Group("", authsvc.Middleware())
	authed.POST("/play", s.handlePlay)
	authed.GET("/history", s.handleHistory)
	authed.GET("/stats", s.handleStats)
}

func (s *Service) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"config": gin.H{
			"winning_rate":          WinningRate,
			"win_user_percent":      WinUserPercent,
			"win_charity_percent":   WinCharityPercent,
			"lose_charity_percent":  LoseCharityPercent,
			"lose_platform_percent": LosePlatformPct,
			"min_bet":               MinBet,
			"max_bet":               MaxBet,
		},
		"description": "Charity Lucky Wallet - 45% winning chance. Help charity while playing!",
	})
}

type playRequest struct {
	BetAmount int64 `json:"bet_amount"`
}

func (s *Service) handlePlay(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	record, err := s.Play(c.Request.Context(), session.UserID, req.BetAmount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"game":              record,
		"winning_threshold": WinningRate,
	})
}

func (s *Service) handleHistory(c *gin.Context) {
	session := auth.CurrentSession(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := s.History(c.Request.Context(), session.UserID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": rows})
}

func (s *Service) handleStats(c *gin.Context) {
	session := auth.CurrentSession(c)

	stats, err := s.GetStats(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

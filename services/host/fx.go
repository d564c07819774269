package host

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/taskname"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("host.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

var TaskModule = fx.Module("host.task",
	fx.Provide(NewService),
	fx.Invoke(registerTaskHandlers),
)

func registerTaskHandlers(mux *asynq.ServeMux, s *Service) {
	mux.HandleFunc(taskname.HostBonusInstalment, s.HandleInstalmentTask)
}

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	public := e.Group("/api/host")
	public.GET("/policy", s.handlePolicy)
	public.GET("/leaderboard", s.handleLeaderboard)

	api := e.Group("/api/host", authsvc.Middleware())
	api.GET("/status", s.handleStatus)
	api.POST("/start-session", s.handleStartSession)
	api.POST("/end-session/:id", s.handleEndSession)
	api.POST("/check-high-earner-bonus", s.handleHighEarnerBonus)
	api.GET("/sessions", s.handleSessions)
}

func (s *Service) handlePolicy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"config":      s.Policy(),
		"description": "Earn stars by going live!",
	})
}

func (s *Service) handleStatus(c *gin.Context) {
	session := auth.CurrentSession(c)

	view, err := s.GetStatus(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type startSessionRequest struct {
	HostType string `json:"host_type"`
}

func (s *Service) handleStartSession(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	hs, err := s.StartSession(c.Request.Context(), session.UserID, req.HostType)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"session_id":        hs.ID,
		"host_type":         hs.HostType,
		"is_welcome_period": hs.IsWelcomePeriod,
		"started_at":        hs.StartedAt,
	})
}

func (s *Service) handleEndSession(c *gin.Context) {
	session := auth.CurrentSession(c)

	hs, err := s.EndSession(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"session_id":        hs.ID,
		"duration_minutes":  hs.DurationMinutes,
		"stars_earned":      hs.StarsEarned,
		"is_welcome_period": hs.IsWelcomePeriod,
		"host_type":         hs.HostType,
	})
}

func (s *Service) handleHighEarnerBonus(c *gin.Context) {
	session := auth.CurrentSession(c)

	result, err := s.ClaimHighEarnerBonus(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Service) handleSessions(c *gin.Context) {
	session := auth.CurrentSession(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	sessions, err := s.Sessions(c.Request.Context(), session.UserID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Service) handleLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := s.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

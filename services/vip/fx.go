package vip

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("vip.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	api := e.Group("/api/vip")

	api.GET("/levels", s.handleListLevels)

	authed := api.Group("", authsvc.Middleware())
	authed.GET("/status", s.handleGetStatus)
	authed.POST("/subscribe", s.handleSubscribe)
	authed.POST("/renew", s.handleRenew)
}

func (s *Service) handleListLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": Levels})
}

func (s *Service) handleGetStatus(c *gin.Context) {
	session := auth.CurrentSession(c)

	status, err := s.GetStatus(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	current, _ := LevelByNumber(status.Level)
	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"current_level":  current,
		"eligible_level": EligibleLevel(status.TotalRecharged),
	})
}

type subscribeRequest struct {
	Level int `json:"level"`
}

func (s *Service) handleSubscribe(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// allow ?level= as fallback for older clients
		if v, perr := strconv.Atoi(c.Query("level")); perr == nil {
			req.Level = v
		} else {
			c.Error(errutil.BadRequest("invalid request body", err))
			return
		}
	}

	status, err := s.Subscribe(c.Request.Context(), session.UserID, req.Level)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (s *Service) handleRenew(c *gin.Context) {
	session := auth.CurrentSession(c)

	status, err := s.Renew(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}

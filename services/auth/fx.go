package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
)

var Module = fx.Module("auth.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service) {
	api := e.Group("/api/auth")

	api.POST("/session", s.handleExchange)
	api.POST("/logout", s.handleLogout)

	authed := api.Group("", s.Middleware())
	authed.GET("/me", s.handleMe)
	authed.GET("/check", s.handleCheck)
}

type exchangeRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Service) handleExchange(c *gin.Context) {
	var req exchangeRequest
	_ = c.ShouldBindJSON(&req)
	if req.SessionID == "" {
		req.SessionID = c.GetHeader("X-Session-ID")
	}

	token, user, err := s.ExchangeSession(c.Request.Context(), req.SessionID)
	if err != nil {
		c.Error(err)
		return
	}

	c.SetCookie(s.cookieName(), token, int(s.sessionTTL().Seconds()), "/", "", s.cfg.TLS.Enable, true)
	c.JSON(http.StatusOK, gin.H{
		"session_token": token,
		"user":          user,
	})
}

func (s *Service) handleLogout(c *gin.Context) {
	if err := s.Revoke(c.Request.Context(), s.TokenFromRequest(c)); err != nil {
		c.Error(err)
		return
	}

	c.SetCookie(s.cookieName(), "", -1, "/", "", s.cfg.TLS.Enable, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func (s *Service) handleMe(c *gin.Context) {
	session := CurrentSession(c)

	user, err := s.users.FindOne(c.Request.Context(), &User{ID: session.UserID})
	if err != nil {
		c.Error(err)
		return
	}
	if user == nil {
		c.Error(errutil.NotFound("user not found", nil))
		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Service) handleCheck(c *gin.Context) {
	session := CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user_id":       session.UserID,
		"expires_at":    session.ExpiresAt,
	})
}

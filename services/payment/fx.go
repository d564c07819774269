package payment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("payment.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	// QR and confirmation are reachable by the payer without a session
	public := e.Group("/api/payments")
	public.GET("/:code/qr", s.handleQR)
	public.POST("/:code/confirm", s.handleConfirm)

	api := e.Group("/api/payments", authsvc.Middleware())
	api.POST("/create-link", s.handleCreateLink)
	api.POST("/:code/cancel", s.handleCancel)
	api.GET("/history", s.handleHistory)
}

type createLinkRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Service) handleCreateLink(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	link, err := s.CreateLink(c.Request.Context(), session.UserID, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"payment": link,
		"qr_url":  "/api/payments/" + link.Code + "/qr",
	})
}

func (s *Service) handleQR(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "256"))

	png, err := s.QRCode(c.Request.Context(), c.Param("code"), size)
	if err != nil {
		c.Error(err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (s *Service) handleConfirm(c *gin.Context) {
	link, err := s.Confirm(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payment": link})
}

func (s *Service) handleCancel(c *gin.Context) {
	session := auth.CurrentSession(c)

	link, err := s.Cancel(c.Request.Context(), session.UserID, c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payment": link})
}

func (s *Service) handleHistory(c *gin.Context) {
	session := auth.CurrentSession(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	links, err := s.History(c.Request.Context(), session.UserID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": links})
}

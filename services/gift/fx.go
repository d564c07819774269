package gift

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("gift.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	api := e.Group("/api/gifts")

	api.GET("/catalog", s.handleCatalog)

	authed := api.Group("", authsvc.Middleware())
	authed.POST("/send", s.handleSend)
	authed.GET("/history", s.handleHistory)
}

func (s *Service) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"gifts": Catalog})
}

type sendRequest struct {
	ReceiverID string `json:"receiver_id"`
	GiftID     string `json:"gift_id"`
	Quantity   int    `json:"quantity"`
	Message    string `json:"message"`
}

func (s *Service) handleSend(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	record, err := s.Send(c.Request.Context(), SendParams{
		SenderID:   session.UserID,
		ReceiverID: req.ReceiverID,
		GiftID:     req.GiftID,
		Quantity:   req.Quantity,
		Message:    req.Message,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Service) handleHistory(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(errutil.BadRequest("invalid query", err))
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	rows, pageInfo, err := s.History(c.Request.Context(), session.UserID, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      rows,
		"page_info": pageInfo,
	})
}

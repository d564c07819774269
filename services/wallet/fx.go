package wallet

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("wallet.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	api := e.Group("/api/wallet", authsvc.Middleware())

	api.GET("", s.handleGetWallet)
	api.POST("/deposit", s.handleDeposit)
	api.POST("/transfer", s.handleTransfer)
	api.GET("/transactions", s.handleListTransactions)
}

func (s *Service) handleGetWallet(c *gin.Context) {
	session := auth.CurrentSession(c)

	w, err := s.GetOrCreate(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, w)
}

type depositRequest struct {
	Amount int64 `json:"amount"`
}

func (s *Service) handleDeposit(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	w, txn, err := s.Deposit(c.Request.Context(), session.UserID, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":      w,
		"transaction": txn,
	})
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

func (s *Service) handleTransfer(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	w, err := s.Transfer(c.Request.Context(), session.UserID, req.From, req.To, req.Amount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, w)
}

func (s *Service) handleListTransactions(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req ListTransactionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(errutil.BadRequest("invalid query", err))
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	rows, pageInfo, err := s.ListTransactions(c.Request.Context(), session.UserID, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      rows,
		"page_info": pageInfo,
	})
}

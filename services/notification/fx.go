package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/taskname"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("notification.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

// TaskModule wires the dispatch handler into the worker's mux.
var TaskModule = fx.Module("notification.task",
	fx.Provide(NewService),
	fx.Invoke(registerTaskHandlers),
)

func registerTaskHandlers(mux *asynq.ServeMux, s *Service) {
	mux.HandleFunc(taskname.NotificationDispatch, s.HandleDispatchTask)
}

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	api := e.Group("/api/notifications", authsvc.Middleware())

	api.GET("", s.handleList)
	api.POST("/:id/read", s.handleMarkRead)
	api.POST("/read-all", s.handleMarkAllRead)
}

func (s *Service) handleList(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(errutil.BadRequest("invalid query", err))
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	rows, pageInfo, unread, err := s.List(c.Request.Context(), session.UserID, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":         rows,
		"page_info":    pageInfo,
		"unread_count": unread,
	})
}

func (s *Service) handleMarkRead(c *gin.Context) {
	session := auth.CurrentSession(c)

	n, err := s.MarkRead(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, n)
}

func (s *Service) handleMarkAllRead(c *gin.Context) {
	session := auth.CurrentSession(c)

	affected, err := s.MarkAllRead(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": affected})
}

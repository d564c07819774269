package logicpk

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("logicpk.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	api := e.Group("/api/logic-pk", authsvc.Middleware())

	api.POST("/create-challenge", s.handleCreate)
	api.POST("/accept-challenge/:id", s.handleAccept)
	api.POST("/submit-answer/:id", s.handleSubmitAnswer)
	api.GET("/challenges", s.handleListOpen)
}

type createRequest struct {
	OpponentID string `json:"opponent_id"`
	BetAmount  int64  `json:"bet_amount"`
}

func (s *Service) handleCreate(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	challenge, err := s.CreateChallenge(c.Request.Context(), session.UserID, req.OpponentID, req.BetAmount)
	if err != nil {
		c.Error(err)
		return
	}

	var question Question
	_ = json.Unmarshal(challenge.Question, &question)

	c.JSON(http.StatusOK, gin.H{
		"challenge_id": challenge.ID,
		"code":         challenge.Code,
		"message":      "Challenge sent!",
		"bet_amount":   challenge.BetAmount,
		"question":     question.Question,
		"options":      question.Options,
	})
}

func (s *Service) handleAccept(c *gin.Context) {
	session := auth.CurrentSession(c)

	challenge, err := s.AcceptChallenge(c.Request.Context(), session.UserID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	var question Question
	_ = json.Unmarshal(challenge.Question, &question)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Challenge accepted!",
		"question":   question.Question,
		"options":    question.Options,
		"time_limit": AnswerTimeLimitSeconds,
	})
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (s *Service) handleSubmitAnswer(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	result, err := s.SubmitAnswer(c.Request.Context(), session.UserID, c.Param("id"), req.Answer)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Service) handleListOpen(c *gin.Context) {
	session := auth.CurrentSession(c)

	challenges, err := s.ListOpen(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

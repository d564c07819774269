package education

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("education.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	public := e.Group("/api/education")
	public.GET("/config", s.handleConfig)
	public.GET("/courses", s.handleCourses)
	public.GET("/mind-games", s.handleMindGames)
	public.GET("/leaderboard", s.handleLeaderboard)

	api := e.Group("/api/education", authsvc.Middleware())
	api.GET("/profile", s.handleProfile)
	api.POST("/enroll", s.handleEnroll)
	api.POST("/complete-lesson", s.handleCompleteLesson)
	api.POST("/play-mind-game", s.handlePlayMindGame)
}

func (s *Service) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"learning_levels": Levels,
		"categories":      Categories,
		"mind_games":      MindGames,
		"config": gin.H{
			"quiz_correct_reward":            QuizCorrectReward,
			"quiz_completion_bonus":          QuizCompletionBonus,
			"course_completion_bonus":        CourseCompletionBonus,
			"daily_learning_target_minutes":  DailyTargetMinutes,
			"daily_learning_reward":          DailyLearningReward,
		},
	})
}

func (s *Service) handleCourses(c *gin.Context) {
	courses := s.ListCourses(c.Query("category"), c.Query("difficulty"))
	c.JSON(http.StatusOK, gin.H{"courses": courses, "total": len(courses)})
}

func (s *Service) handleMindGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": MindGames})
}

func (s *Service) handleProfile(c *gin.Context) {
	session := auth.CurrentSession(c)

	view, err := s.GetProfile(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type enrollRequest struct {
	CourseID string `json:"course_id"`
}

func (s *Service) handleEnroll(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	enrollment, err := s.Enroll(c.Request.Context(), session.UserID, req.CourseID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "enrollment": enrollment})
}

type completeLessonRequest struct {
	CourseID        string `json:"course_id"`
	LessonID        string `json:"lesson_id"`
	DurationMinutes int64  `json:"duration_minutes"`
}

func (s *Service) handleCompleteLesson(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req completeLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	result, err := s.CompleteLesson(c.Request.Context(), session.UserID, req.CourseID, req.LessonID, req.DurationMinutes)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"coins_earned":        result.CoinsEarned,
		"bonus_earned":        result.BonusEarned,
		"new_progress":        result.NewProgress,
		"is_course_completed": result.IsCourseCompleted,
	})
}

type playMindGameRequest struct {
	GameID           string `json:"game_id"`
	Score            int    `json:"score"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
}

func (s *Service) handlePlayMindGame(c *gin.Context) {
	session := auth.CurrentSession(c)

	var req playMindGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	result, err := s.PlayMindGame(c.Request.Context(), session.UserID, req.GameID, req.Score, req.TimeTakenSeconds)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"game":         result.Game,
		"score":        result.Score,
		"coins_earned": result.CoinsEarned,
		"time_taken":   result.TimeTaken,
		"time_limit":   result.TimeLimit,
	})
}

func (s *Service) handleLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := s.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

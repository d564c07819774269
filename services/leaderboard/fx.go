package leaderboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"

	"gyansultanat-platform/pkg/taskname"
)

var Module = fx.Module("leaderboard.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

var TaskModule = fx.Module("leaderboard.task",
	fx.Provide(NewService),
	fx.Invoke(registerTaskHandlers),
)

func registerTaskHandlers(mux *asynq.ServeMux, s *Service) {
	mux.HandleFunc(taskname.LeaderboardPayout, s.HandlePayoutTask)
}

func registerRoutes(e *gin.Engine, s *Service) {
	api := e.Group("/api/leaderboard")

	api.GET("/multi-category", s.handleMultiCategory)
	api.GET("/top-150", s.handleTopModels)
	api.GET("/video/monthly", s.handleMonthlyVideo)
}

func (s *Service) handleMultiCategory(c *gin.Context) {
	view, err := s.GetMultiCategory(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (s *Service) handleTopModels(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "150"))

	entries, err := s.TopModels(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}

	goldCount := min(10, len(entries))
	silverCount := max(0, min(40, len(entries)-10))
	bronzeCount := max(0, len(entries)-50)

	c.JSON(http.StatusOK, gin.H{
		"top_models": entries,
		"tiers": gin.H{
			"gold":   gin.H{"range": "1-10", "count": goldCount},
			"silver": gin.H{"range": "11-50", "count": silverCount},
			"bronze": gin.H{"range": "51-150", "count": bronzeCount},
		},
	})
}

func (s *Service) handleMonthlyVideo(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}

	entries, err := s.TopModels(c.Request.Context(), TopModelsLimit)
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		prize := MonthlyVideoPrizes[e.Rank]
		out = append(out, gin.H{
			"rank":        e.Rank,
			"user_id":     e.UserID,
			"total_likes": e.TotalLikes,
			"total_views": e.TotalViews,
			"prize":       prize.Prize,
			"prize_coins": prize.Coins,
			"tier":        e.Tier,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"month":              month,
		"leaderboard":        out,
		"total_participants": len(out),
		"prizes":             MonthlyVideoPrizes,
		"last_updated":       time.Now().Format(time.RFC3339),
	})
}

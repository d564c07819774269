package crown

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"gyansultanat-platform/services/auth"
)

var Module = fx.Module("crown.service",
	fx.Provide(NewService),
	fx.Invoke(registerRoutes),
)

func registerRoutes(e *gin.Engine, s *Service, authsvc *auth.Service) {
	public := e.Group("/api/crowns")
	public.GET("/types", s.handleTypes)

	api := e.Group("/api/crowns", authsvc.Middleware())
	api.GET("/my-crowns", s.handleMyCrowns)
	api.POST("/check-eligibility", s.handleCheckEligibility)
	api.POST("/claim/:type", s.handleClaim)
}

func (s *Service) handleTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"crowns": Definitions})
}

func (s *Service) handleMyCrowns(c *gin.Context) {
	session := auth.CurrentSession(c)

	crowns, err := s.MyCrowns(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]gin.H, 0, len(crowns))
	for _, crown := range crowns {
		def, _ := DefinitionByType(crown.CrownType)
		out = append(out, gin.H{
			"crown_id":   crown.ID,
			"crown_type": crown.CrownType,
			"icon":       def.Icon,
			"color":      def.Color,
			"earned_at":  crown.EarnedAt,
			"expires_at": crown.ExpiresAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"crowns": out, "total_crowns": len(out)})
}

func (s *Service) handleCheckEligibility(c *gin.Context) {
	session := auth.CurrentSession(c)

	eligibility, err := s.CheckEligibility(c.Request.Context(), session.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, eligibility)
}

func (s *Service) handleClaim(c *gin.Context) {
	session := auth.CurrentSession(c)

	crown, err := s.Claim(c.Request.Context(), session.UserID, c.Param("type"))
	if err != nil {
		c.Error(err)
		return
	}

	def, _ := DefinitionByType(crown.CrownType)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"crown_id":   crown.ID,
		"crown_type": crown.CrownType,
		"icon":       def.Icon,
		"message":    "Successfully claimed " + def.Name + " Crown!",
	})
}

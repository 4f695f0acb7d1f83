package api

import (
	"github.com/JustJay7/consumer-case-tracker/internal/config"
	"github.com/JustJay7/consumer-case-tracker/internal/fallback"
	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/JustJay7/consumer-case-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// searchRoutes maps the per-mode search endpoints to their search mode
var searchRoutes = map[string]jagriti.SearchMode{
	"/by-case-number":          jagriti.ModeCaseNumber,
	"/by-complainant":          jagriti.ModeComplainant,
	"/by-respondent":           jagriti.ModeRespondent,
	"/by-complainant-advocate": jagriti.ModeComplainantAdvocate,
	"/by-respondent-advocate":  jagriti.ModeRespondentAdvocate,
	"/by-industry-type":        jagriti.ModeIndustryType,
	"/by-judge":                jagriti.ModeJudge,
}

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, gateway Gateway, store *fallback.Store, logger *logger.Logger, cfg *config.Config) {
	h := NewHandlers(db, gateway, store, logger, cfg)

	router.GET("/", h.Root)

	states := router.Group("/states")
	{
		states.GET("/", h.ListStates)
		states.GET("/:state_id/commissions", h.ListCommissions)
	}

	cases := router.Group("/cases")
	{
		for path, mode := range searchRoutes {
			cases.POST(path, h.SearchByMode(mode))
		}
		cases.POST("/search", h.SearchCases)
	}

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", h.HealthCheck)

		// Query audit log
		api.GET("/queries", h.ListQueriesAPI)
		api.GET("/queries/stats", h.QueryStatsAPI)

		// Fallback dataset stats
		api.GET("/fallback/stats", h.FallbackStats)

		// Concurrent search
		api.POST("/cases/bulk", h.BulkSearchAPI)
	}
}

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/JustJay7/consumer-case-tracker/internal/config"
	"github.com/JustJay7/consumer-case-tracker/internal/database"
	"github.com/JustJay7/consumer-case-tracker/internal/fallback"
	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/JustJay7/consumer-case-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DataSourceHeader tells clients whether a commission list is live or fallback data
const DataSourceHeader = "X-Data-Source"

// Gateway is the upstream portal as seen by the handlers
type Gateway interface {
	ListRegions(ctx context.Context) ([]jagriti.Region, error)
	ListSubCommissions(ctx context.Context, regionID string) (*jagriti.SubCommissionList, error)
	SearchCases(ctx context.Context, q jagriti.SearchQuery) ([]jagriti.SearchItem, error)
}

// Handlers holds all HTTP handlers
type Handlers struct {
	db       *gorm.DB
	gateway  Gateway
	fallback *fallback.Store
	logger   *logger.Logger
	cfg      *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(db *gorm.DB, gateway Gateway, store *fallback.Store, logger *logger.Logger, cfg *config.Config) *Handlers {
	return &Handlers{
		db:       db,
		gateway:  gateway,
		fallback: store,
		logger:   logger,
		cfg:      cfg,
	}
}

// Root is a liveness probe
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API is running!"})
}

// ListStates returns every state commission and circuit bench
func (h *Handlers) ListStates(c *gin.Context) {
	entry := h.newQueryLog(c, "list_regions")

	regions, err := h.gateway.ListRegions(c.Request.Context())
	h.record(entry, len(regions), err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(regions),
		"data":    regions,
	})
}

// ListCommissions returns the district commissions of a state
func (h *Handlers) ListCommissions(c *gin.Context) {
	stateID := c.Param("state_id")
	entry := h.newQueryLog(c, "list_sub_commissions")
	entry.RegionID = stateID

	list, err := h.gateway.ListSubCommissions(c.Request.Context(), stateID)
	if err != nil {
		h.record(entry, 0, err)
		h.respondError(c, err)
		return
	}
	entry.DataSource = string(list.Source)
	h.record(entry, len(list.Items), nil)

	c.Header(DataSourceHeader, string(list.Source))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(list.Items),
		"data":    list.Items,
	})
}

// SearchByMode returns a handler that searches with a fixed mode
func (h *Handlers) SearchByMode(mode jagriti.SearchMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CaseSearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		req.SearchBy = string(mode)
		h.search(c, req)
	}
}

// SearchCases searches with the mode named in the request body
func (h *Handlers) SearchCases(c *gin.Context) {
	var req CaseSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.SearchBy == "" {
		badRequest(c, "search_by is required")
		return
	}
	h.search(c, req)
}

func (h *Handlers) search(c *gin.Context, req CaseSearchRequest) {
	query, err := req.toQuery(h.cfg.DefaultOrderType)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	entry := h.newQueryLog(c, "search_cases")
	fillSearchLog(entry, query)

	items, err := h.gateway.SearchCases(c.Request.Context(), query)
	h.record(entry, len(items), err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"data":    items,
	})
}

// ListQueriesAPI returns the query audit log
func (h *Handlers) ListQueriesAPI(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	page, limit = database.ClampPage(page, limit)

	logs, total, err := database.ListQueryLogs(h.db, page, limit)
	if err != nil {
		h.logger.Error("Failed to list query logs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to list queries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    logs,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// QueryStatsAPI returns call counts per operation and outcome
func (h *Handlers) QueryStatsAPI(c *gin.Context) {
	counts, err := database.CountOutcomes(h.db)
	if err != nil {
		h.logger.Error("Failed to count query outcomes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to count queries",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    counts,
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	var count int64
	dbHealthy := h.db.Model(&database.QueryLog{}).Count(&count).Error == nil

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbHealthy,
		"fallback": h.fallback.Stats(),
		"time":     time.Now().Unix(),
	})
}

// FallbackStats returns fallback dataset statistics
func (h *Handlers) FallbackStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.fallback.Stats(),
	})
}

func (h *Handlers) newQueryLog(c *gin.Context, operation string) *database.QueryLog {
	return &database.QueryLog{
		RequestID: c.GetString(RequestIDKey),
		Operation: operation,
		QueryTime: time.Now(),
		IPAddress: c.ClientIP(),
	}
}

// record stores the outcome of a gateway call. Failing to write the audit log
// never fails the request.
func (h *Handlers) record(entry *database.QueryLog, count int, err error) {
	entry.DurationMillis = time.Since(entry.QueryTime).Milliseconds()
	h.recordWithDuration(entry, count, err)
}

func (h *Handlers) recordWithDuration(entry *database.QueryLog, count int, err error) {
	entry.ResultCount = count
	entry.Success = err == nil
	if err != nil {
		entry.ErrorMessage = err.Error()
		entry.ErrorKind = string(jagriti.KindOf(err))
		if gwErr := asGatewayError(err); gwErr != nil {
			entry.UpstreamStatus = gwErr.Status
		}
	}

	if dbErr := h.db.Create(entry).Error; dbErr != nil {
		h.logger.Error("Failed to save query log", "operation", entry.Operation, "error", dbErr)
	}
}

func fillSearchLog(entry *database.QueryLog, q jagriti.SearchQuery) {
	entry.SubCommissionID = q.SubCommissionID
	entry.SearchMode = string(q.Mode)
	entry.SearchTerm = q.SearchTerm
	entry.DateFrom = q.DateFrom.Format(jagriti.DateLayout)
	entry.DateTo = q.DateTo.Format(jagriti.DateLayout)
}

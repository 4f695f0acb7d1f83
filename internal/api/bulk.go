package api

import (
	"net/http"
	"time"

	"github.com/JustJay7/consumer-case-tracker/internal/database"
	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// BulkSearchRequest carries several independent searches
type BulkSearchRequest struct {
	Queries []CaseSearchRequest `json:"queries" binding:"required,min=1,max=10,dive"`
}

// BulkSearchResult is the outcome of one query in a bulk search
type BulkSearchResult struct {
	Query CaseSearchRequest
	Items []jagriti.SearchItem
	Error error
}

// queryEcho is the part of a bulk query repeated back in its result. The
// captcha is left out.
type queryEcho struct {
	CommissionID string `json:"commission_id"`
	SearchValue  string `json:"search_value"`
	SearchBy     string `json:"search_by"`
	FromDate     string `json:"from_date"`
	ToDate       string `json:"to_date"`
	OrderType    string `json:"order_type,omitempty"`
}

func echoQuery(r CaseSearchRequest) queryEcho {
	return queryEcho{
		CommissionID: r.CommissionID,
		SearchValue:  r.SearchValue,
		SearchBy:     r.SearchBy,
		FromDate:     r.FromDate,
		ToDate:       r.ToDate,
		OrderType:    r.OrderType,
	}
}

// BulkSearchAPI runs up to ten searches concurrently. Every query gets its
// own result; one failing query does not affect the others.
func (h *Handlers) BulkSearchAPI(c *gin.Context) {
	var req BulkSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	results := h.searchConcurrent(c, req.Queries)

	responseData := make([]gin.H, 0, len(results))
	for _, result := range results {
		data := gin.H{
			"query": echoQuery(result.Query),
		}

		if result.Error != nil {
			body := errorBody(result.Error)
			for k, v := range body {
				data[k] = v
			}
		} else {
			data["success"] = true
			data["count"] = len(result.Items)
			data["data"] = result.Items
		}

		responseData = append(responseData, data)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": responseData,
	})
}

func (h *Handlers) searchConcurrent(c *gin.Context, queries []CaseSearchRequest) []BulkSearchResult {
	results := make([]BulkSearchResult, len(queries))
	entries := make([]*database.QueryLog, len(queries))

	g, ctx := errgroup.WithContext(c.Request.Context())
	if h.cfg.MaxConcurrentSearches > 0 {
		g.SetLimit(h.cfg.MaxConcurrentSearches)
	}

	for i, q := range queries {
		i, q := i, q
		results[i].Query = q

		query, err := q.toQuery(h.cfg.DefaultOrderType)
		if err != nil {
			results[i].Error = &jagriti.Error{
				Kind:    jagriti.KindInvalidInput,
				Op:      "search_cases",
				Message: err.Error(),
			}
			continue
		}

		entries[i] = h.newQueryLog(c, "search_cases")
		fillSearchLog(entries[i], query)

		g.Go(func() error {
			items, err := h.gateway.SearchCases(ctx, query)
			entries[i].DurationMillis = time.Since(entries[i].QueryTime).Milliseconds()
			results[i].Items = items
			results[i].Error = err
			// per-query failures are reported in results, never cancel siblings
			return nil
		})
	}

	_ = g.Wait()

	// sqlite serializes writers, so the audit entries are written after the fan-out
	for i, entry := range entries {
		if entry != nil {
			h.recordWithDuration(entry, len(results[i].Items), results[i].Error)
		}
	}
	return results
}

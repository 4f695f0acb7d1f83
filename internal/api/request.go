package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
)

var errDateFormat = errors.New("Date must be in DD-MM-YYYY or YYYY-MM-DD format")

// CaseSearchRequest is the body accepted by the case search endpoints
type CaseSearchRequest struct {
	CommissionID string `json:"commission_id" binding:"required"`
	SearchValue  string `json:"search_value" binding:"required"`
	SearchBy     string `json:"search_by"`
	FromDate     string `json:"from_date" binding:"required"`
	ToDate       string `json:"to_date" binding:"required"`
	OrderType    string `json:"order_type"`
	Captcha      string `json:"captcha"`
}

func (r CaseSearchRequest) toQuery(defaultOrderType string) (jagriti.SearchQuery, error) {
	mode, err := jagriti.ParseSearchMode(r.SearchBy)
	if err != nil {
		return jagriti.SearchQuery{}, err
	}

	from, err := normalizeDate(r.FromDate)
	if err != nil {
		return jagriti.SearchQuery{}, fmt.Errorf("from_date: %w", err)
	}
	to, err := normalizeDate(r.ToDate)
	if err != nil {
		return jagriti.SearchQuery{}, fmt.Errorf("to_date: %w", err)
	}

	orderType := r.OrderType
	if orderType == "" {
		orderType = defaultOrderType
	}

	return jagriti.SearchQuery{
		SubCommissionID: strings.TrimSpace(r.CommissionID),
		SearchTerm:      r.SearchValue,
		Mode:            mode,
		DateFrom:        from,
		DateTo:          to,
		OrderType:       orderType,
		Captcha:         r.Captcha,
	}, nil
}

// dateLayouts accept a day and month with or without a leading zero
var dateLayouts = []string{"2006-1-2", "2-1-2006"}

// normalizeDate accepts YYYY-MM-DD or DD-MM-YYYY
func normalizeDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d, nil
		}
	}
	return time.Time{}, errDateFormat
}

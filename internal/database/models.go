package database

import (
	"time"

	"gorm.io/gorm"
)

// QueryLog records one gateway call made on behalf of an API client. Only the
// query and its outcome are kept; upstream results are never stored.
type QueryLog struct {
	gorm.Model
	RequestID       string    `json:"request_id" gorm:"index"`
	Operation       string    `json:"operation"`
	RegionID        string    `json:"region_id,omitempty"`
	SubCommissionID string    `json:"sub_commission_id,omitempty"`
	SearchMode      string    `json:"search_mode,omitempty"`
	SearchTerm      string    `json:"search_term,omitempty"`
	DateFrom        string    `json:"date_from,omitempty"`
	DateTo          string    `json:"date_to,omitempty"`
	Success         bool      `json:"success"`
	ErrorKind       string    `json:"error_kind,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	UpstreamStatus  int       `json:"upstream_status,omitempty"`
	DataSource      string    `json:"data_source,omitempty"`
	ResultCount     int       `json:"result_count"`
	DurationMillis  int64     `json:"duration_ms"`
	QueryTime       time.Time `json:"query_time"`
	IPAddress       string    `json:"ip_address"`
}

func (QueryLog) TableName() string {
	return "query_logs"
}

package database

import (
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ClampPage returns the page and limit ListQueryLogs actually uses
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	return page, limit
}

// ListQueryLogs returns one page of query logs, newest first, and the total count
func ListQueryLogs(db *gorm.DB, page, limit int) ([]QueryLog, int64, error) {
	page, limit = ClampPage(page, limit)

	var total int64
	if err := db.Model(&QueryLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := []QueryLog{}
	err := db.Offset((page - 1) * limit).
		Limit(limit).
		Order("query_time DESC").
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// OutcomeCount is the number of calls per operation and error kind
type OutcomeCount struct {
	Operation string `json:"operation"`
	ErrorKind string `json:"error_kind"`
	Count     int64  `json:"count"`
}

// CountOutcomes groups the query log by operation and error kind. Successful
// calls have an empty error kind.
func CountOutcomes(db *gorm.DB) ([]OutcomeCount, error) {
	counts := []OutcomeCount{}
	err := db.Model(&QueryLog{}).
		Select("operation, error_kind, count(*) as count").
		Group("operation, error_kind").
		Order("operation, error_kind").
		Scan(&counts).Error
	return counts, err
}

package store

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type JobQueryFilter BaseQuerier

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *JobQueryFilter) ByBuyerEmail(email string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("buyer_email = ?", email)
	})
	return f
}

func (f *JobQueryFilter) ByCategory(category string) *JobQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("category = ?", category)
	})
	return f
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ByTitleLike matches a case-insensitive substring of the title. The search
// term is literal: % and _ are escaped.
// LOWER/LIKE is used instead of ILIKE so the filter also runs on sqlite.
func (f *JobQueryFilter) ByTitleLike(search string) *JobQueryFilter {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
	})
	return f
}

type SortOrder int

const (
	SortNone SortOrder = iota
	SortAscending
	SortDescending
)

type JobQueryOptions BaseQuerier

func NewJobQueryOptions() *JobQueryOptions {
	return &JobQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *JobQueryOptions) WithDeadlineSort(order SortOrder) *JobQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		switch order {
		case SortAscending:
			return tx.Order("deadline ASC")
		case SortDescending:
			return tx.Order("deadline DESC")
		default:
			return tx
		}
	})
	return o
}

// Limit results
func (o *JobQueryOptions) WithLimit(limit int) *JobQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Limit(limit)
	})
	return o
}

type BidQueryFilter BaseQuerier

func NewBidQueryFilter() *BidQueryFilter {
	return &BidQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (f *BidQueryFilter) ByWorkerEmail(email string) *BidQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("worker_email = ?", email)
	})
	return f
}

func (f *BidQueryFilter) ByBuyerEmail(email string) *BidQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("buyer_email = ?", email)
	})
	return f
}

func (f *BidQueryFilter) ByJobID(id uuid.UUID) *BidQueryFilter {
	f.QueryFn = append(f.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("job_id = ?", id)
	})
	return f
}

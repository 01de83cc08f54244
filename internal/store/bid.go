package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/solosphere/marketplace/internal/store/model"
	"gorm.io/gorm"
)

type Bid interface {
	List(ctx context.Context, filter *BidQueryFilter) (model.BidList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Bid, error)
	FindByWorkerAndJob(ctx context.Context, workerEmail string, jobID uuid.UUID) (*model.Bid, error)
	Create(ctx context.Context, bid model.Bid) (*model.Bid, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BidStatus, from ...model.BidStatus) (int64, error)
	CountByJob(ctx context.Context) (map[uuid.UUID]int64, error)
}

type BidStore struct {
	db *gorm.DB
}

// Make sure we conform to Bid interface
var _ Bid = (*BidStore)(nil)

func NewBidStore(db *gorm.DB) Bid {
	return &BidStore{db: db}
}

func (s *BidStore) List(ctx context.Context, filter *BidQueryFilter) (model.BidList, error) {
	var bids model.BidList
	tx := s.getDB(ctx).Model(&bids).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&bids); result.Error != nil {
		return nil, result.Error
	}
	return bids, nil
}

func (s *BidStore) Get(ctx context.Context, id uuid.UUID) (*model.Bid, error) {
	var bid model.Bid
	result := s.getDB(ctx).First(&bid, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &bid, nil
}

func (s *BidStore) FindByWorkerAndJob(ctx context.Context, workerEmail string, jobID uuid.UUID) (*model.Bid, error) {
	var bid model.Bid
	result := s.getDB(ctx).Where("worker_email = ? AND job_id = ?", workerEmail, jobID).First(&bid)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &bid, nil
}

// Create inserts the bid. A second bid for the same (worker_email, job_id)
// violates the unique index and yields ErrDuplicateKey.
func (s *BidStore) Create(ctx context.Context, bid model.Bid) (*model.Bid, error) {
	if bid.ID == uuid.Nil {
		bid.ID = uuid.New()
	}

	result := s.getDB(ctx).Create(&bid)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &bid, nil
}

// UpdateStatus overwrites the status and returns the number of matched rows.
// When from is set the row only matches if its current status is one of them,
// which makes the transition a single compare-and-set statement.
func (s *BidStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BidStatus, from ...model.BidStatus) (int64, error) {
	tx := s.getDB(ctx).Model(&model.Bid{}).Where("id = ?", id)
	if len(from) > 0 {
		tx = tx.Where("status IN ?", from)
	}

	result := tx.Updates(map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return 0, fmt.Errorf("updating bid status: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *BidStore) CountByJob(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		JobID uuid.UUID
		Count int64
	}

	result := s.getDB(ctx).
		Model(&model.Bid{}).
		Select("job_id, COUNT(*) AS count").
		Group("job_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("counting bids: %w", result.Error)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.JobID] = r.Count
	}
	return counts, nil
}

func (s *BidStore) getDB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

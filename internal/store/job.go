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

// jobUpdatableColumns lists what a job update may overwrite.
// bid_count is only written by bid placement and reconciliation.
var jobUpdatableColumns = []string{
	"title",
	"buyer_email",
	"buyer_name",
	"buyer_photo",
	"category",
	"deadline",
	"min_price",
	"max_price",
	"description",
	"updated_at",
}

type Job interface {
	List(ctx context.Context, filter *JobQueryFilter, opts *JobQueryOptions) (model.JobList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	Upsert(ctx context.Context, job model.Job) (int64, bool, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	IncrementBidCount(ctx context.Context, id uuid.UUID, delta int) error
	RecountBids(ctx context.Context, id uuid.UUID) error
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) List(ctx context.Context, filter *JobQueryFilter, opts *JobQueryOptions) (model.JobList, error) {
	var jobs model.JobList
	tx := s.getDB(ctx).Model(&jobs)

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&jobs); result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	result := s.getDB(ctx).First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &job, nil
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.BidCount = 0

	result := s.getDB(ctx).Create(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &job, nil
}

// Upsert overwrites the updatable columns of the job or inserts it when the id is unknown.
// It returns the number of matched rows and whether a new row was inserted.
func (s *JobStore) Upsert(ctx context.Context, job model.Job) (int64, bool, error) {
	now := time.Now()
	job.UpdatedAt = &now

	matched, err := s.update(ctx, job)
	if err != nil {
		return 0, false, err
	}
	if matched > 0 {
		return matched, false, nil
	}

	if _, err := s.Create(ctx, job); err != nil {
		if !errors.Is(err, ErrDuplicateKey) {
			return 0, false, err
		}
		// lost the insert race against another upsert of the same id
		matched, err = s.update(ctx, job)
		return matched, false, err
	}

	return 0, true, nil
}

func (s *JobStore) update(ctx context.Context, job model.Job) (int64, error) {
	result := s.getDB(ctx).
		Model(&model.Job{ID: job.ID}).
		Select(jobUpdatableColumns).
		Updates(&job)
	if result.Error != nil {
		return 0, fmt.Errorf("updating job: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *JobStore) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := s.getDB(ctx).Unscoped().Delete(&model.Job{}, "id = ?", id)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncrementBidCount is a single UPDATE statement so concurrent increments never lose updates.
func (s *JobStore) IncrementBidCount(ctx context.Context, id uuid.UUID, delta int) error {
	result := s.getDB(ctx).
		Model(&model.Job{}).
		Where("id = ?", id).
		UpdateColumn("bid_count", gorm.Expr("bid_count + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("incrementing bid count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// RecountBids sets bid_count from the bids table in one statement.
func (s *JobStore) RecountBids(ctx context.Context, id uuid.UUID) error {
	result := s.getDB(ctx).
		Model(&model.Job{}).
		Where("id = ?", id).
		UpdateColumn("bid_count", gorm.Expr("(SELECT COUNT(*) FROM bids WHERE bids.job_id = jobs.id)"))
	if result.Error != nil {
		return fmt.Errorf("recounting bids: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *JobStore) getDB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

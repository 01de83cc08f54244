package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/solosphere/marketplace/internal/service/mappers"
	"github.com/solosphere/marketplace/internal/store"
	"github.com/solosphere/marketplace/internal/store/model"
	"go.uber.org/zap"
)

type JobService struct {
	store store.Store
}

func NewJobService(store store.Store) *JobService {
	return &JobService{store: store}
}

func (s *JobService) ListJobs(ctx context.Context, filter *JobFilter) (model.JobList, error) {
	storeFilter := store.NewJobQueryFilter()
	storeOptions := store.NewJobQueryOptions()

	if filter != nil {
		if filter.BuyerEmail != "" {
			storeFilter = storeFilter.ByBuyerEmail(filter.BuyerEmail)
		}
		if filter.Category != "" {
			storeFilter = storeFilter.ByCategory(filter.Category)
		}
		if filter.Search != "" {
			storeFilter = storeFilter.ByTitleLike(filter.Search)
		}
		storeOptions = storeOptions.WithDeadlineSort(filter.Sort)
	}

	return s.store.Job().List(ctx, storeFilter, storeOptions)
}

func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}

func (s *JobService) CreateJob(ctx context.Context, form mappers.JobForm) (*model.Job, error) {
	job, err := s.store.Job().Create(ctx, form.ToJob(uuid.New()))
	if err != nil {
		return nil, err
	}
	zap.S().Named("job_service").Infow("job created", "job_id", job.ID, "buyer", job.Buyer.Email)
	return job, nil
}

type UpdateResult struct {
	MatchedCount int64
	UpsertedID   *uuid.UUID
}

// UpdateJob overwrites the job or creates it under the given id.
// The bid count is never taken from the form.
func (s *JobService) UpdateJob(ctx context.Context, id uuid.UUID, form mappers.JobForm) (UpdateResult, error) {
	matched, upserted, err := s.store.Job().Upsert(ctx, form.ToJob(id))
	if err != nil {
		return UpdateResult{}, err
	}

	result := UpdateResult{MatchedCount: matched}
	if upserted {
		result.UpsertedID = &id
	}
	return result, nil
}

func (s *JobService) DeleteJob(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.store.Job().Delete(ctx, id)
}

type JobFilterFunc func(f *JobFilter)

type JobFilter struct {
	BuyerEmail string
	Category   string
	Search     string
	Sort       store.SortOrder
}

func NewJobFilter(filters ...JobFilterFunc) *JobFilter {
	f := &JobFilter{}
	for _, fn := range filters {
		fn(f)
	}
	return f
}

func (f *JobFilter) WithOption(o JobFilterFunc) *JobFilter {
	o(f)
	return f
}

func WithBuyerEmail(email string) JobFilterFunc {
	return func(f *JobFilter) {
		f.BuyerEmail = email
	}
}

func WithCategory(category string) JobFilterFunc {
	return func(f *JobFilter) {
		f.Category = category
	}
}

func WithSearch(search string) JobFilterFunc {
	return func(f *JobFilter) {
		f.Search = search
	}
}

func WithDeadlineSort(order store.SortOrder) JobFilterFunc {
	return func(f *JobFilter) {
		f.Sort = order
	}
}

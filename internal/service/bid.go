package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/solosphere/marketplace/internal/events"
	"github.com/solosphere/marketplace/internal/service/mappers"
	"github.com/solosphere/marketplace/internal/store"
	"github.com/solosphere/marketplace/internal/store/model"
	"github.com/solosphere/marketplace/pkg/metrics"
	"go.uber.org/zap"
)

// allowedTransitions is only enforced when strict transitions are enabled.
var allowedTransitions = map[model.BidStatus][]model.BidStatus{
	model.BidStatusPending:    {model.BidStatusInProgress, model.BidStatusRejected},
	model.BidStatusInProgress: {model.BidStatusCompleted},
}

// EventWriter publishes domain events. Publishing is best effort and never fails an operation.
type EventWriter interface {
	WriteJSON(ctx context.Context, kind string, v any) error
}

type BidServiceOption func(s *BidService)

func WithEventWriter(w EventWriter) BidServiceOption {
	return func(s *BidService) {
		s.events = w
	}
}

func WithStrictTransitions(strict bool) BidServiceOption {
	return func(s *BidService) {
		s.strictTransitions = strict
	}
}

// BidService places bids and moves them through their statuses. Placing a bid
// touches two tables without a transaction: the bid insert and the job counter
// increment are each atomic on their own, and the unique (worker_email, job_id)
// index is what actually guarantees one bid per worker and job.
type BidService struct {
	store             store.Store
	strictTransitions bool
	events            EventWriter
}

func NewBidService(store store.Store, opts ...BidServiceOption) *BidService {
	s := &BidService{store: store}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *BidService) PlaceBid(ctx context.Context, form mappers.BidCreateForm) (*model.Bid, error) {
	logger := zap.S().Named("bid_service").With("job_id", form.JobID, "worker", form.WorkerEmail)

	if _, err := s.store.Job().Get(ctx, form.JobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(form.JobID)
		}
		metrics.IncreaseBidPlacementsTotalMetric(metrics.PlacementFailed)
		return nil, err
	}

	// fast path only, concurrent placements are caught by the unique index below
	_, err := s.store.Bid().FindByWorkerAndJob(ctx, form.WorkerEmail, form.JobID)
	switch {
	case err == nil:
		metrics.IncreaseBidPlacementsTotalMetric(metrics.PlacementDuplicate)
		return nil, NewErrDuplicateBid()
	case !errors.Is(err, store.ErrRecordNotFound):
		metrics.IncreaseBidPlacementsTotalMetric(metrics.PlacementFailed)
		return nil, err
	}

	bid, err := s.store.Bid().Create(ctx, form.ToBid())
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			logger.Debug("concurrent duplicate bid rejected by the store")
			metrics.IncreaseBidPlacementsTotalMetric(metrics.PlacementDuplicate)
			return nil, NewErrDuplicateBid()
		}
		metrics.IncreaseBidPlacementsTotalMetric(metrics.PlacementFailed)
		return nil, err
	}

	// The bid is not rolled back and the increment is not retried if this fails.
	// The drift is left to the reconciler.
	if err := s.store.Job().IncrementBidCount(ctx, form.JobID, 1); err != nil {
		metrics.IncreaseBidCountDriftMetric()
		metrics.IncreaseBidPlacementsTotalMetric(metrics.PlacementFailed)
		logger.Errorw("bid stored but job bid count not incremented", "bid_id", bid.ID, "error", err)
		return nil, NewErrBidCountDrift(bid.ID, form.JobID, err)
	}

	metrics.IncreaseBidPlacementsTotalMetric(metrics.PlacementPlaced)
	logger.Infow("bid placed", "bid_id", bid.ID)

	s.publish(ctx, events.BidPlacedMessageKind, events.BidPlacedEvent{
		BidID:       bid.ID.String(),
		JobID:       bid.JobID.String(),
		WorkerEmail: bid.WorkerEmail,
		BuyerEmail:  bid.BuyerEmail,
		Price:       bid.Price,
		PlacedAt:    bid.CreatedAt,
	})

	return bid, nil
}

// UpdateBidStatus overwrites the status of a bid and returns the number of matched bids.
// An unknown id matches nothing and is not an error.
func (s *BidService) UpdateBidStatus(ctx context.Context, id uuid.UUID, status model.BidStatus) (int64, error) {
	if !s.strictTransitions {
		matched, err := s.store.Bid().UpdateStatus(ctx, id, status)
		if err != nil {
			return 0, err
		}
		if matched > 0 {
			metrics.IncreaseBidStatusUpdateTotalMetric(string(status))
			s.publish(ctx, events.BidStatusMessageKind, events.BidStatusEvent{BidID: id.String(), Status: string(status)})
		}
		return matched, nil
	}

	return s.transition(ctx, id, status)
}

func (s *BidService) transition(ctx context.Context, id uuid.UUID, status model.BidStatus) (int64, error) {
	from := predecessors(status)
	if len(from) > 0 {
		matched, err := s.store.Bid().UpdateStatus(ctx, id, status, from...)
		if err != nil {
			return 0, err
		}
		if matched > 0 {
			metrics.IncreaseBidStatusUpdateTotalMetric(string(status))
			s.publish(ctx, events.BidStatusMessageKind, events.BidStatusEvent{BidID: id.String(), Status: string(status)})
			return matched, nil
		}
	}

	// nothing matched: either the bid does not exist or it is in the wrong state
	current, err := s.store.Bid().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return 0, NewErrInvalidTransition(current.Status, status)
}

func (s *BidService) ListBids(ctx context.Context, filter *store.BidQueryFilter) (model.BidList, error) {
	return s.store.Bid().List(ctx, filter)
}

func (s *BidService) GetBid(ctx context.Context, id uuid.UUID) (*model.Bid, error) {
	bid, err := s.store.Bid().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrBidNotFound(id)
		}
		return nil, err
	}
	return bid, nil
}

func (s *BidService) publish(ctx context.Context, kind string, v any) {
	if s.events == nil {
		return
	}
	if err := s.events.WriteJSON(ctx, kind, v); err != nil {
		zap.S().Named("bid_service").Warnw("failed to publish event", "kind", kind, "error", err)
	}
}

func predecessors(to model.BidStatus) []model.BidStatus {
	var from []model.BidStatus
	for src, targets := range allowedTransitions {
		for _, t := range targets {
			if t == to {
				from = append(from, src)
			}
		}
	}
	return from
}

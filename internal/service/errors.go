package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/solosphere/marketplace/internal/store/model"
)

const DuplicateBidMessage = "You have already placed a bid on this job"

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job")
}

func NewErrBidNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "bid")
}

// ErrDuplicateBid is a user error: the worker already has a bid on the job.
type ErrDuplicateBid struct {
	error
}

func NewErrDuplicateBid() *ErrDuplicateBid {
	return &ErrDuplicateBid{fmt.Errorf("%s", DuplicateBidMessage)}
}

type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(from, to model.BidStatus) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("bid status cannot move from %q to %q", from, to)}
}

// ErrBidCountDrift reports a bid that was stored while the job counter could not be incremented.
type ErrBidCountDrift struct {
	error
	BidID uuid.UUID
	JobID uuid.UUID
}

func NewErrBidCountDrift(bidID, jobID uuid.UUID, cause error) *ErrBidCountDrift {
	return &ErrBidCountDrift{
		error: fmt.Errorf("bid %s stored but bid count of job %s not incremented: %w", bidID, jobID, cause),
		BidID: bidID,
		JobID: jobID,
	}
}

func (e *ErrBidCountDrift) Unwrap() error {
	return e.error
}

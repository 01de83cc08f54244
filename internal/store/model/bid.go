package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type BidStatus string

const (
	BidStatusPending    BidStatus = "Pending"
	BidStatusInProgress BidStatus = "In Progress"
	BidStatusCompleted  BidStatus = "Completed"
	BidStatusRejected   BidStatus = "Rejected"
)

func (s BidStatus) IsValid() bool {
	switch s {
	case BidStatusPending, BidStatusInProgress, BidStatusCompleted, BidStatusRejected:
		return true
	default:
		return false
	}
}

// Bid is unique per (worker_email, job_id). The unique index is what keeps
// concurrent placements from the same worker on the same job from both landing.
type Bid struct {
	ID          uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   *time.Time
	JobID       uuid.UUID `gorm:"not null;type:VARCHAR(255);uniqueIndex:bids_worker_email_job_id,priority:2"`
	WorkerEmail string    `gorm:"not null;type:VARCHAR(255);uniqueIndex:bids_worker_email_job_id,priority:1"`
	BuyerEmail  string    `gorm:"not null;type:VARCHAR(255);index:bids_buyer_email_idx"`
	Price       float64
	Status      BidStatus `gorm:"not null;type:VARCHAR(50);default:'Pending'"`
	Comment     string    `gorm:"type:TEXT"`
	Deadline    *time.Time
	Title       string `gorm:"type:VARCHAR(255)"`
	Category    string `gorm:"type:VARCHAR(100)"`
}

type BidList []Bid

func (b Bid) String() string {
	val, _ := json.Marshal(b)
	return string(val)
}

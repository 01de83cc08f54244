package mappers

import (
	"time"

	"github.com/google/uuid"
	"github.com/solosphere/marketplace/internal/store/model"
)

type BidCreateForm struct {
	JobID       uuid.UUID
	WorkerEmail string
	BuyerEmail  string
	Price       float64
	Comment     string
	Deadline    *time.Time
	Title       string
	Category    string
}

// ToBid builds a new bid. Every bid starts Pending regardless of the payload.
func (f BidCreateForm) ToBid() model.Bid {
	return model.Bid{
		ID:          uuid.New(),
		JobID:       f.JobID,
		WorkerEmail: f.WorkerEmail,
		BuyerEmail:  f.BuyerEmail,
		Price:       f.Price,
		Status:      model.BidStatusPending,
		Comment:     f.Comment,
		Deadline:    f.Deadline,
		Title:       f.Title,
		Category:    f.Category,
	}
}

type JobForm struct {
	Title       string
	BuyerEmail  string
	BuyerName   string
	BuyerPhoto  string
	Category    string
	Deadline    time.Time
	MinPrice    float64
	MaxPrice    float64
	Description string
}

func (f JobForm) ToJob(id uuid.UUID) model.Job {
	return model.Job{
		ID:    id,
		Title: f.Title,
		Buyer: model.Buyer{
			Email: f.BuyerEmail,
			Name:  f.BuyerName,
			Photo: f.BuyerPhoto,
		},
		Category:    model.JobCategory(f.Category),
		Deadline:    f.Deadline,
		MinPrice:    f.MinPrice,
		MaxPrice:    f.MaxPrice,
		Description: f.Description,
	}
}

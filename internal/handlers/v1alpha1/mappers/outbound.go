package mappers

import (
	api "github.com/solosphere/marketplace/api/v1alpha1"
	"github.com/solosphere/marketplace/internal/store/model"
	"github.com/thoas/go-funk"
)

func JobToApi(j model.Job) api.Job {
	return api.Job{
		Id:    j.ID.String(),
		Title: j.Title,
		Buyer: api.Buyer{
			Email: j.Buyer.Email,
			Name:  j.Buyer.Name,
			Photo: j.Buyer.Photo,
		},
		Category:    string(j.Category),
		Deadline:    j.Deadline,
		MinPrice:    j.MinPrice,
		MaxPrice:    j.MaxPrice,
		Description: j.Description,
		BidCount:    j.BidCount,
		CreatedAt:   j.CreatedAt,
	}
}

func JobListToApi(jobs model.JobList) api.JobList {
	if len(jobs) == 0 {
		return api.JobList{}
	}
	return funk.Map([]model.Job(jobs), JobToApi).([]api.Job)
}

func BidToApi(b model.Bid) api.Bid {
	return api.Bid{
		Id:        b.ID.String(),
		JobId:     b.JobID.String(),
		Email:     b.WorkerEmail,
		Buyer:     b.BuyerEmail,
		Price:     b.Price,
		Status:    string(b.Status),
		Comment:   b.Comment,
		Deadline:  b.Deadline,
		Title:     b.Title,
		Category:  b.Category,
		CreatedAt: b.CreatedAt,
	}
}

func BidListToApi(bids model.BidList) api.BidList {
	if len(bids) == 0 {
		return api.BidList{}
	}
	return funk.Map([]model.Bid(bids), BidToApi).([]api.Bid)
}

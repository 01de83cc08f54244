package mappers

import (
	"github.com/google/uuid"
	api "github.com/solosphere/marketplace/api/v1alpha1"
	"github.com/solosphere/marketplace/internal/service/mappers"
)

func JobFormApi(resource api.JobCreate) mappers.JobForm {
	return mappers.JobForm{
		Title:       resource.Title,
		BuyerEmail:  resource.Buyer.Email,
		BuyerName:   resource.Buyer.Name,
		BuyerPhoto:  resource.Buyer.Photo,
		Category:    resource.Category,
		Deadline:    resource.Deadline,
		MinPrice:    resource.MinPrice,
		MaxPrice:    resource.MaxPrice,
		Description: resource.Description,
	}
}

// BidFormApi expects a validated resource, the job id has already been checked to be a uuid.
func BidFormApi(resource api.BidCreate) mappers.BidCreateForm {
	return mappers.BidCreateForm{
		JobID:       uuid.MustParse(resource.JobId),
		WorkerEmail: resource.Email,
		BuyerEmail:  resource.Buyer,
		Price:       resource.Price,
		Comment:     resource.Comment,
		Deadline:    resource.Deadline,
		Title:       resource.Title,
		Category:    resource.Category,
	}
}

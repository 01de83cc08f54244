package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/solosphere/marketplace/internal/store/model"
)

func jobCategoryValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return model.JobCategory(val).IsValid()
}

func bidStatusValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return model.BidStatus(val).IsValid()
}

package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/alumnet/alumnet-backend/internal/domain"
)

// requestValidator checks the `validate` tags on request bodies after binding.
// Tags: role, visibility, job_type.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
	mustRegister(v, "visibility", func(fl validator.FieldLevel) bool {
		return domain.Visibility(fl.Field().String()).Valid()
	})
	mustRegister(v, "job_type", func(fl validator.FieldLevel) bool {
		return domain.JobType(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

package middlewares

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"pos-api/models"
)

// RegisterValidators adds the custom binding rules used by the dtos.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return models.ValidPhone(fl.Field().String())
	})
}

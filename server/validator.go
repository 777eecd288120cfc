package server

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/swapshelf/bookswap/models"
)

// Register the condition check with gin's binding validator so request
// structs can carry it as a tag.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("bookcondition", func(fl validator.FieldLevel) bool {
			return models.ValidCondition(fl.Field().String())
		})
	}
}

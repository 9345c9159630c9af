package routes

import (
	"sync"

	"Finary/internal/pkg"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request
// contracts. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("ulid", func(fl validator.FieldLevel) bool {
			return pkg.IsValidULID(fl.Field().String())
		})
	})
}

package controllers

import (
	"regexp"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// RegisterValidators adds the storefront tags to gin's validator. Call once at startup.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("analytics_event", func(fl validator.FieldLevel) bool {
		return models.EventName(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})
}

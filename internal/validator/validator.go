// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strconv"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"spendwise/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("frequency", validateFrequency)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

// validateFrequency accepts "custom" or a positive number of days.
func validateFrequency(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == models.FrequencyCustom {
		return true
	}
	days, err := strconv.Atoi(s)
	return err == nil && days > 0
}

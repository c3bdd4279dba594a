package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var bloodTypes = map[string]bool{
	"A+": true, "A-": true,
	"B+": true, "B-": true,
	"AB+": true, "AB-": true,
	"O+": true, "O-": true,
}

var paymentMethods = map[string]bool{
	"Cash":          true,
	"Credit Card":   true,
	"Debit Card":    true,
	"Insurance":     true,
	"Bank Transfer": true,
}

// RegisterCustom installs domain validations on gin's binding validator.
func RegisterCustom() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("bloodtype", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || bloodTypes[value]
	}); err != nil {
		return err
	}

	return v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return paymentMethods[fl.Field().String()]
	})
}

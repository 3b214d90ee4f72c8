// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validCurrencySymbols are the display symbols a user may pick for their
// profile. Symbols only; there is no multi-currency conversion.
var validCurrencySymbols = map[string]bool{
	"£": true, "$": true, "€": true, "¥": true, "₹": true,
	"₩": true, "R": true, "kr": true, "zł": true, "Fr": true,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("currency_symbol", validateCurrencySymbol)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "deposit", "withdrawal":
		return true
	}
	return false
}

func validateCurrencySymbol(fl validator.FieldLevel) bool {
	return validCurrencySymbols[fl.Field().String()]
}

package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-booking-engine/internal/domain"
	"github.com/shopspring/decimal"
)

var seatIDRgx = regexp.MustCompile(`^\s*[A-Za-z]\d{1,3}\s*$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_id", validateSeatID)
	validator.RegisterValidation("seat_type", validateSeatType)
	validator.RegisterValidation("positive_amount", validatePositiveAmount)

	return validator
}

func validateSeatID(fl validator.FieldLevel) bool {
	return seatIDRgx.MatchString(fl.Field().String())
}

func validateSeatType(fl validator.FieldLevel) bool {
	return domain.SeatCategory(fl.Field().String()).Valid()
}

func validatePositiveAmount(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return domain.ValidPrice(amount)
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "unique":
		return "must not contain duplicates"
	case "seat_id":
		return "must be a row letter followed by a seat number, such as A1"
	case "seat_type":
		return "must be one of standard, premium, vip or disabled"
	case "positive_amount":
		return "must be a positive amount with at most 2 decimal places"
	default:
		return "is invalid"
	}
}

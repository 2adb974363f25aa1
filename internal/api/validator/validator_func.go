package validator

import (
	"time"

	"github.com/Behyna/pawn-services/internal/model"
	"github.com/go-playground/validator/v10"
)

const (
	PawnStatusTag = "pawn_status"
	DateTag       = "date"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	PawnStatusTag: ValidatePawnStatus,
	DateTag:       ValidateDate,
}

func ValidatePawnStatus(fl validator.FieldLevel) bool {
	return model.Status(fl.Field().String()).Valid()
}

// ValidateDate accepts an empty string or a YYYY-MM-DD calendar date.
func ValidateDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}

	_, err := time.Parse(time.DateOnly, value)
	return err == nil
}

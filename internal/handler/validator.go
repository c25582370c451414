package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/domain"
)

// MaxParticipantLength bounds account identifiers such as wallet addresses
const MaxParticipantLength = 128

// Custom validation tags
const (
	tagDirection   = "direction"
	tagCivilDate   = "civildate"
	tagParticipant = "participant"
)

var fieldMessages = map[string]string{
	"required":     "This field is required",
	tagDirection:   "Must be 'positive' or 'negative'",
	tagCivilDate:   "Must be a date in YYYY-MM-DD format",
	tagParticipant: "Invalid participant identifier",
}

// requestValidator reports fields by their JSON names
var requestValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})

	must(v.RegisterValidation(tagDirection, validateDirection))
	must(v.RegisterValidation(tagCivilDate, validateCivilDate))
	must(v.RegisterValidation(tagParticipant, validateParticipant))
	return v
})

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// validateRequest checks req against its validate tags
func validateRequest(req interface{}) error {
	return requestValidator().Struct(req)
}

// validationFields maps each failing field to a message safe to show
// clients. Errors that are not validation failures collapse to one entry.
func validationFields(err error) map[string]string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"error": "Invalid request format"}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if msg, ok := fieldMessages[fe.Tag()]; ok {
			fields[fe.Field()] = msg
			continue
		}
		switch fe.Tag() {
		case "max":
			fields[fe.Field()] = fmt.Sprintf("Must be at most %s characters", fe.Param())
		case "min":
			fields[fe.Field()] = fmt.Sprintf("Must be at least %s characters", fe.Param())
		default:
			fields[fe.Field()] = "Invalid value"
		}
	}
	return fields
}

// validateDirection accepts "positive" or "negative" in any case. Empty is
// left to the required tag.
func validateDirection(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := domain.ParseDirection(s)
	return err == nil
}

// validateCivilDate accepts YYYY-MM-DD. Empty means today.
func validateCivilDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := calendar.ParseDate(s)
	return err == nil
}

func validateParticipant(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > MaxParticipantLength {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

package validators

import (
	"github.com/go-playground/validator/v10"
	"lifemate/cmd/internal/utils"
	"strings"
	"time"
	"unicode"
)

func HasUpper(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsUpper) >= 0
}

func HasLower(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsLower) >= 0
}

func HasDigit(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
}

func HasSpecial(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
}

// IsIso8601 accepts the date and date-time layouts the calendar reads
// back (see utils.ParseDate). Empty values pass; pair with "required"
// where the date is mandatory.
func IsIso8601(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := utils.ParseDate(value, time.UTC)
	return ok
}

// Register installs every custom tag on validate.
func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("hasupper", HasUpper)
	_ = validate.RegisterValidation("haslower", HasLower)
	_ = validate.RegisterValidation("hasdigit", HasDigit)
	_ = validate.RegisterValidation("hasspecial", HasSpecial)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
	_ = validate.RegisterValidation("iso8601", IsIso8601)
}

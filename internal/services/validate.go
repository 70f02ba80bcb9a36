package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"social-feed-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// fieldValidator checks single values against validator tags and turns
// failures into apperr.ErrInvalidInput
type fieldValidator struct {
	validate *validator.Validate
}

func newFieldValidator() *fieldValidator {
	v := validator.New()
	// registration only fails for an empty tag or a nil func
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handlePattern.MatchString(fl.Field().String())
	})
	return &fieldValidator{validate: v}
}

// text checks a string field: required (when asked) and at most max runes
func (f *fieldValidator) text(field, value string, required bool, max int, extra ...string) error {
	rules := []string{fmt.Sprintf("max=%d", max)}
	if required {
		rules = append([]string{"required"}, rules...)
	} else {
		rules = append([]string{"omitempty"}, rules...)
	}
	rules = append(rules, extra...)
	return f.check(field, value, strings.Join(rules, ","))
}

func (f *fieldValidator) check(field string, value any, rules string) error {
	err := f.validate.Var(value, rules)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperr.Invalid(field, describe(fieldErrs[0]))
	}
	return apperr.Invalid(field, err.Error())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "handle":
		return "may only contain letters, digits, '_' and '.'"
	default:
		return "is invalid"
	}
}

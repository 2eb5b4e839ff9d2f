package validation

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nexiot/site-backend/internal/core/domain"
)

// emailShape is deliberately loose: something@something.tld, no whitespace.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator wraps go-playground/validator and reports the first violation as
// a *domain.ValidationError.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the contact_email rule registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate checks i against its validate tags. Strings are expected to be
// trimmed by the caller.
func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fieldError(ve[0])
	}
	return err
}

func fieldError(fe validator.FieldError) *domain.ValidationError {
	rule := fe.Tag()
	if rule == "contact_email" {
		rule = "email"
	}
	return &domain.ValidationError{
		Field: strings.ToLower(fe.Field()),
		Rule:  rule,
	}
}

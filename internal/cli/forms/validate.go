// Package forms validates user input before it reaches the API. Failures
// here are local to the command and never touch the session.
package forms

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is matched by every validation failure
var ErrInvalidInput = errors.New("invalid input")

// passwordSpecials are the symbols a strong password may contain
const passwordSpecials = "@$!%*?&"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their flag names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// At least one lower, upper, digit and special; nothing outside that set
	v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})

	// At most two decimal places
	v.RegisterValidation("cents", func(fl validator.FieldLevel) bool {
		return hasCents(fl.Field().Float())
	})

	return v
}

func strongPassword(value string) bool {
	var lower, upper, digit, special bool
	for _, char := range value {
		switch {
		case char >= 'a' && char <= 'z':
			lower = true
		case char >= 'A' && char <= 'Z':
			upper = true
		case char >= '0' && char <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, char):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

func hasCents(value float64) bool {
	scaled := value * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

// FieldError is one failed rule
type FieldError struct {
	Field   string
	Message string
}

// Error collects every failed rule of a form
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Unwrap() error {
	return ErrInvalidInput
}

// Message returns the message for field, or "" if it passed
func (e *Error) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Validate checks form against its struct tags and returns *Error on failure
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		field := fieldPath(fe)
		out.Fields = append(out.Fields, FieldError{Field: field, Message: message(field, fe)})
	}
	return out
}

// fieldPath drops the struct name from the namespace: items[1].quantity
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, bound(fe))
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, bound(fe))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "strongpassword":
		return fmt.Sprintf("%s must contain an uppercase letter, a lowercase letter, a digit and one of %s", field, passwordSpecials)
	case "cents":
		return fmt.Sprintf("%s must have at most 2 decimals", field)
	case "eqfield":
		return "passwords do not match"
	case "unique":
		return fmt.Sprintf("%s must not list the same product twice", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

func bound(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fe.Param() + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return fe.Param() + " item(s)"
	}
	return fe.Param()
}

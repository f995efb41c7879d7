package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers; it reports JSON field names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ErrInvalidBody is returned by DecodeJSON for a body that cannot be decoded.
var ErrInvalidBody = errors.New("invalid request body")

// DecodeJSON decodes the request body into the given struct.
// An empty body, malformed JSON or a value of the wrong type yields an error
// wrapping ErrInvalidBody.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", ErrInvalidBody)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrInvalidBody)
		}
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}

// FieldErrorsFrom converts validator failures into client-facing field errors.
// It returns nil when err is not a validator.ValidationErrors.
func FieldErrorsFrom(err error) []FieldError {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil
	}

	out := make([]FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		out = append(out, FieldError{Field: fe.Field(), Message: describeTag(fe)})
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

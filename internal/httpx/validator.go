package httpx

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

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("notblank", validateNotBlank)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidationErrors maps a JSON field name to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func ValidateStruct(s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{"_": err.Error()}
	}

	out := make(ValidationErrors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		label := strings.ToUpper(field[:1]) + field[1:]
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("%s cannot be blank", label)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", label, param)
		case "max":
			message = fmt.Sprintf("%s must be between 1 and %s characters", label, param)
		case "gte", "lte":
			message = fmt.Sprintf("%s is out of range", label)
		default:
			message = fmt.Sprintf("%s is invalid", label)
		}

		if _, seen := out[field]; !seen {
			out[field] = message
		}
	}
	return out
}

// ErrBodyTooLarge is returned when the request body exceeds the limit set
// by RequestSizeLimitMiddleware.
var ErrBodyTooLarge = errors.New("request body too large")

// DecodeAndValidate reads a JSON body into dst and validates it. The error
// is either ErrBodyTooLarge or ValidationErrors; pass it to JSONDecodeError.
func DecodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ValidationErrors{"body": "request body is required"}
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return ValidationErrors{"body": "malformed JSON"}
	}
	if verrs := ValidateStruct(dst); verrs != nil {
		return verrs
	}
	return nil
}

// Package validation contains the logic for validating
// request data.
//
// Request types bind their path parameters and JSON body through Echo,
// then validate themselves. The first failing rule becomes the single
// client-facing message of a 400 response.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/deppfellow/todos/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// MsgInvalidBody is returned when the body is not a JSON object of the
// expected shape.
const MsgInvalidBody = "Invalid request body."

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// PathValidatable is implemented by requests whose path parameters must be
// checked before the body is read. A malformed id is reported even when the
// body is malformed too.
type PathValidatable interface {
	ValidatePath() error
}

// CustomValidationError represents a single validation issue for a specific field.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	if len(c) == 0 {
		return "Validation failed"
	}
	return c[0].Message
}

// Fail returns a CustomValidationErrors holding one error.
func Fail(field, message string) CustomValidationErrors {
	return CustomValidationErrors{{Field: field, Message: message}}
}

// Bodyless is implemented by requests that carry no body. BindAndValidate
// never reads the body of such requests.
type Bodyless interface {
	Bodyless()
}

// Messages maps "<json field>.<tag>" to the client message of a failed
// struct rule, e.g. "description.max".
type Messages map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so Messages keys match the wire format.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Struct checks s against its validate tags. Failures come back as
// CustomValidationErrors in field order, with messages taken from messages;
// a rule without an entry reports "<field> is invalid.".
func Struct(s any, messages Messages) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(CustomValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid."
		}
		out = append(out, CustomValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. path parameters are bound and, for PathValidatable payloads, checked
//  2. unless payload is Bodyless, the body is bound; any decoding failure
//     is a 400 "Invalid request body."
//  3. payload.Validate() applies the remaining rules
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	binder := &echo.DefaultBinder{}

	if err := binder.BindPathParams(c, payload); err != nil {
		return errs.NewBadRequestError(MsgInvalidBody).WithCause(err)
	}

	if pv, ok := payload.(PathValidatable); ok {
		if err := pv.ValidatePath(); err != nil {
			return toHTTPError(err)
		}
	}

	if _, ok := payload.(Bodyless); !ok {
		if err := binder.BindBody(c, payload); err != nil {
			return errs.NewBadRequestError(MsgInvalidBody).WithCause(err)
		}
	}

	if err := payload.Validate(); err != nil {
		return toHTTPError(err)
	}

	return nil
}

func toHTTPError(err error) *errs.HTTPError {
	var verrs CustomValidationErrors
	if errors.As(err, &verrs) {
		return errs.NewBadRequestError(verrs.Error()).WithCause(err)
	}
	return errs.NewBadRequestError("Validation failed").WithCause(err)
}

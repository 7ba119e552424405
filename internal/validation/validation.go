// Package validation checks request structs against their `binding` tags, the
// same tags gin enforces when it binds a request body, and turns validator
// failures into a field name plus a readable reason.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is the first failing field of a request, named by its JSON key.
type FieldError struct {
	Field  string
	Reason string
}

var engine = New()

// New returns a validator reading `binding` tags and reporting JSON field names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	Configure(v)
	return v
}

// Configure makes v report JSON keys instead of Go field names. It is applied
// to gin's own validator as well.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(JSONName)
}

func JSONName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// Check validates s and returns its first failing field, or nil.
func Check(s any) *FieldError {
	return First(engine.Struct(s))
}

// Value validates a single value against tag and reports failures under field.
func Value(field string, value any, tag string) *FieldError {
	fe := First(engine.Var(value, tag))
	if fe != nil {
		fe.Field = field
	}
	return fe
}

// First converts a validator failure into its first FieldError. Any other
// error, nil included, gives nil.
func First(err error) *FieldError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return nil
	}
	fe := errs[0]
	return &FieldError{Field: fe.Field(), Reason: Reason(fe)}
}

func Reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "failed the " + fe.Tag() + " check"
}

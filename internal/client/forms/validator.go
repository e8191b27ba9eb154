// Package forms validates user input before it is sent to the backend and
// turns failures into per-field messages.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/kbconsole/internal/client/client"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// engine performs one-time initialization of the validator.
func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(err)
		}
	})
	return validate
}

// jsonName reports fields under their JSON key so messages line up with
// what the backend sends back for the same field.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Validate checks form and returns a *client.ValidationError with one message
// per failing field, or nil.
func Validate(form any) error {
	err := engine().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid form: %w", err)
	}

	t := reflect.TypeOf(form)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	ve := client.NewValidationError("Please fix the highlighted fields")
	for _, fe := range verrs {
		ve.Add(fe.Field(), message(fe, label(t, fe)))
	}
	return ve
}

// label is the human name of the field, taken from its `label` tag.
func label(t reflect.Type, fe validator.FieldError) string {
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if l := f.Tag.Get("label"); l != "" {
			return l
		}
	}
	return fe.StructField()
}

func message(fe validator.FieldError, label string) string {
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "eqfield":
		return "Passwords do not match"
	case "gte", "lte":
		return label + " must be between 0 and 1"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return label + " is invalid"
	}
}

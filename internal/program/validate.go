package program

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their HCL names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("hcl"), ",", 2)[0]
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks a decoded program for structural errors. Every problem is
// reported, each wrapping ErrInvalidProgram.
func Validate(f *File) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalidProgram, fieldPath(fe), errorMessage(fe)))
	}
	return errors.Join(errs...)
}

// fieldPath drops the leading struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("at least %s required", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("%v is not one of: %s", fe.Value(), fe.Param())
	case "excludes":
		return fmt.Sprintf("must not contain %q", fe.Param())
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

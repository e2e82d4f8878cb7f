package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "tenant-portal-backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired            = "This field is required."
	msgOrganizationMissing = "Organization does not exist."
)

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs tag validation and turns failures into per-field messages
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	fieldErrs := apperrors.FieldErrors{}
	for _, fe := range validationErrs {
		fieldErrs.Add(fe.Field(), validationMessage(fe))
	}
	return fieldErrs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		if fe.Param() == "1" {
			return "This field may not be blank."
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

// mergeFieldErrors folds err into errs when it carries field messages and reports whether it did
func mergeFieldErrors(errs apperrors.FieldErrors, err error) bool {
	fieldErrs, ok := apperrors.ToFieldErrors(err)
	if !ok {
		return false
	}
	for field, messages := range fieldErrs {
		for _, m := range messages {
			errs.Add(field, m)
		}
	}
	return true
}

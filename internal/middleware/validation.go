package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "fidash/internal/errors"
	"fidash/pkg/contracts/domain"
)

// Validator validates decoded query parameter structs
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their query
// parameter name and knows the pillar enumeration. It panics when a
// custom validation cannot be registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := registerValidations(v); err != nil {
		panic(fmt.Sprintf("failed to register validations: %v", err))
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{validate: v}
}

func registerValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("pillar", isPillar); err != nil {
		return fmt.Errorf("pillar: %w", err)
	}
	return nil
}

// ValidateStruct validates a struct and returns a validation APIError
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return apierrors.FromValidator(fieldErrs)
	}
	return apierrors.NewWithDetails(apierrors.ErrInvalidRequest.StatusCode, apierrors.ErrInvalidRequest.ErrorCode, apierrors.ErrInvalidRequest.Message, err.Error())
}

// isPillar validates a single pillar name, case-insensitively
func isPillar(fl validator.FieldLevel) bool {
	return domain.Pillar(strings.ToUpper(fl.Field().String())).Valid()
}

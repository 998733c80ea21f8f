package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "github.com/SamSkanse/Skye-Financials-Automation/internal/errors"
)

var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

// Validator returns the shared validator with the decimal rules registered.
func Validator() *validator.Validate {
	structValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// decimal.Decimal is a struct; validate it as its string form
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		v.RegisterValidation("decimal_gte0", isNonNegativeDecimal)
		v.RegisterValidation("decimal_2dp", hasAtMostTwoDecimals)

		// Report yaml (then json) names so messages match the config file
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"yaml", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		structValidator = v
	})
	return structValidator
}

// Struct validates v and converts failures into a single validation AppError.
func Struct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "validation failed", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return apperrors.NewAppValidationError(strings.Join(msgs, "; ")).
		WithContext("fields", len(fieldErrs))
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), namespaceRoot(fe))
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be a number", field)
	case "decimal_gte0":
		return fmt.Sprintf("%s must not be negative", field)
	case "decimal_2dp":
		return fmt.Sprintf("%s must have at most two decimal places", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// namespaceRoot returns the "Struct." prefix of a field namespace.
func namespaceRoot(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[:i+1]
	}
	return ""
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func isNonNegativeDecimal(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && !d.IsNegative()
}

func hasAtMostTwoDecimals(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && d.Equal(d.Round(2))
}

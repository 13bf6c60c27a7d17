package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/municollect/internal/client/apierror"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern            = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)
	municipalityCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)
)

// ValidMunicipalityCode reports whether code is 2-10 uppercase letters or digits.
func ValidMunicipalityCode(code string) bool {
	return municipalityCodePattern.MatchString(code)
}

// ValidPhone reports whether s looks like a phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

var validatorInstance = sync.OnceValue(newValidator)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("municipality_code", func(fl validator.FieldLevel) bool {
		return ValidMunicipalityCode(fl.Field().String())
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		r := sl.Current().Interface().(PaymentRequest)
		if limit, ok := MaxAmount(r.ServiceType); ok && r.Amount > limit {
			sl.ReportError(r.Amount, "amount", "Amount", "amount_cap", strconv.FormatFloat(limit, 'f', -1, 64))
		}
	}, PaymentRequest{})

	return v
}

// Validate checks v against its validate tags. The first violation is
// returned as an *apierror.ValidationError naming the JSON field path.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apierror.NewValidation(err.Error(), "", nil)
	}

	fe := verrs[0]
	field := fieldPath(fe.Namespace())
	return apierror.NewValidation(message(fe), field, fe.Value())
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email address"
	case "uuid":
		return "must be a valid UUID"
	case "phone":
		return "invalid phone number"
	case "municipality_code":
		return "must be 2-10 uppercase letters or digits"
	case "datauri":
		return "must be a base64 data URI"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "amount_cap":
		return "must not exceed " + fe.Param()
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

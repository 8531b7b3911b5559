// Package validation wraps a process-wide go-playground/validator instance
// and turns its field errors into common.ValidationError values whose
// messages can be shown to API clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/HazimBhatt/sharefolio/internal/common"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// subdomainPattern is a single DNS label: lowercase letters, digits and inner
// hyphens, 1 to 63 characters.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// GetValidator returns the shared validator. Field names in messages come
// from the json tag so they match what clients sent.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
			return IsSubdomain(fl.Field().String())
		})
	})

	return validate
}

// IsSubdomain reports whether s is a valid portfolio subdomain label.
func IsSubdomain(s string) bool {
	return subdomainPattern.MatchString(s)
}

// ValidateStruct validates s and returns nil or a *common.ValidationError
// describing the first failing field.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return common.NewValidationError(err.Error())
	}

	return common.NewValidationError(translateError(fieldErrs[0]))
}

var errorMessageTemplates = map[string]string{
	"required":  "%s is required",
	"email":     "%s must be a valid email address",
	"subdomain": "%s may contain only lowercase letters, digits and hyphens",
	"numeric":   "%s must contain only digits",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}

	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

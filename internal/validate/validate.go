// Package validate wraps go-playground/validator with the custom tags and
// client-facing messages used across the CMS services.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/blich-studio/cms/internal/apperr"
)

var (
	objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report json names so details match request bodies.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister(v, "objectid", func(fl validator.FieldLevel) bool {
			return IsObjectID(fl.Field().String())
		})
		mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		// "" clears a nullable link column, anything else must be a URL.
		urls := validator.New()
		mustRegister(v, "urlorempty", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || urls.Var(s, "url") == nil
		})

		instance = v
	})

	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// IsObjectID reports whether s is a 24 character hex MongoDB ObjectId.
func IsObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}

// Struct validates s and converts failures into an *apperr.ValidationError
// whose headline message is the first failing field.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fe.Field(),
			Message: Message(fe),
		})
	}

	return &apperr.ValidationError{
		Message: fields[0].Message,
		Field:   fields[0].Field,
		Fields:  fields,
	}
}

// Message renders a single field failure. Length failures on optional
// pointer fields read the same as required failures because an empty
// string is the only way to hit min=1.
func Message(fe validator.FieldError) string {
	label := humanize(fe.Field())

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		if fe.Param() == "1" && isString(fe) {
			return label + " is required"
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
	case "objectid":
		return "Invalid MongoDB ObjectId"
	case "slug":
		return label + " may only contain lowercase letters, digits and dashes"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return label + " must be a valid email address"
	case "url", "http_url", "urlorempty":
		return label + " must be a valid URL"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", label, fe.Param())
	}

	return fmt.Sprintf("%s is invalid", label)
}

func isString(fe validator.FieldError) bool {
	k := fe.Kind()
	if k == reflect.Ptr {
		return fe.Type().Elem().Kind() == reflect.String
	}
	return k == reflect.String
}

// humanize turns a json field name such as "coverImage" into "Cover image".
func humanize(field string) string {
	if field == "" {
		return field
	}

	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

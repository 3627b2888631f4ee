// Package validation holds the form-entry validator shared by the domain
// services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the tags every domain form uses:
//
//	notblank  string is non-empty after trimming
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	return v
}

// RegisterEnum adds a tag accepting exactly the given values. Unlike the
// built-in oneof, values may contain spaces.
func RegisterEnum[T ~string](v *validator.Validate, tag string, values []T) {
	must(v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return slices.Contains(values, T(fl.Field().String()))
	}))
}

// Partial validates only the named struct fields of s, or all of them when
// fields is empty.
func Partial(v *validator.Validate, s any, fields []string) error {
	if len(fields) == 0 {
		return v.Struct(s)
	}
	return v.StructPartial(s, fields...)
}

// Describe renders validation failures as "field (tag)" pairs. Other errors
// are rendered as-is.
func Describe(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	parts := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}

// Fields lists the fields that failed validation.
func Fields(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	out := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, fe.Field())
	}
	return out
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

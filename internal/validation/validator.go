// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// customValidations are registered on the shared validator.
var customValidations = map[string]validator.Func{
	"dotted_version": func(fl validator.FieldLevel) bool {
		return IsDottedVersion(fl.Field().String())
	},
}

// GetValidator returns the process-wide validator. Error fields use json
// tag names so they match the request body.
var GetValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	for tag, fn := range customValidations {
		// Only an empty tag or nil func can fail.
		_ = v.RegisterValidation(tag, fn)
	}
	return v
})

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// IsDottedVersion reports whether s is one or more dot-separated runs of
// ASCII digits: "120" and "17.4.1" pass, "17." and "NT 10.0" do not.
func IsDottedVersion(s string) bool {
	if s == "" {
		return false
	}
	for part := range strings.SplitSeq(s, ".") {
		if part == "" || strings.IndexFunc(part, notDigit) >= 0 {
			return false
		}
	}
	return true
}

func notDigit(r rune) bool { return r < '0' || r > '9' }

// ValidateStruct checks s against its validate tags. It returns nil when s
// is valid.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: s was nil or not a struct.
		return &RequestValidationError{errors: []ValidationError{
			{field: "unknown", tag: "unknown", message: err.Error()},
		}}
	}

	out := &RequestValidationError{errors: make([]ValidationError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		path := fieldPath(fe)
		out.errors = append(out.errors, ValidationError{
			field:   path,
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: describe(fe, path),
		})
	}
	return out
}

// fieldPath strips the root struct from the namespace:
// "VisitorMatchRequest.previous_visitors[0]" becomes "previous_visitors[0]".
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

// messages holds message formats per tag. Formats take the field path and
// then the tag parameter.
var messages = map[string]string{
	"required":       "%s is required",
	"latitude":       "%s must be a valid latitude (-90 to 90)",
	"longitude":      "%s must be a valid longitude (-180 to 180)",
	"dotted_version": "%s must be a number or dotted version (e.g. 17.4.1)",
	"oneof":          "%s must be one of: %s",
	"gte":            "%s must be greater than or equal to %s",
	"lte":            "%s must be less than or equal to %s",
	"gt":             "%s must be greater than %s",
	"lt":             "%s must be less than %s",
}

// boundNouns qualifies min/max by the kind of value being bounded.
var boundNouns = map[reflect.Kind]string{
	reflect.String: " characters",
	reflect.Slice:  " items",
	reflect.Map:    " items",
}

func describe(fe validator.FieldError, path string) string {
	tag, param := fe.Tag(), fe.Param()

	if format, ok := messages[tag]; ok {
		if strings.Count(format, "%s") == 2 {
			return fmt.Sprintf(format, path, param)
		}
		return fmt.Sprintf(format, path)
	}

	var bound string
	switch tag {
	case "min":
		bound = "at least"
	case "max":
		bound = "at most"
	default:
		return fmt.Sprintf("%s failed %s validation", path, tag)
	}

	noun := boundNouns[fe.Kind()]
	verb := "be"
	if noun == " items" {
		verb = "contain"
	}
	return fmt.Sprintf("%s must %s %s %s%s", path, verb, bound, param, noun)
}

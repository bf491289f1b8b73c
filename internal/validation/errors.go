// Visitormatch - Visitor Identity Matching for Fraud Prevention
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/visitormatch

package validation

import "strings"

const errCodeValidation = "VALIDATION_ERROR"

// ValidationError describes one failed constraint.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

// Field is the JSON path of the offending value, e.g. "previous_visitors[0].ips".
func (e *ValidationError) Field() string { return e.field }

// Tag is the validator tag that failed ("required", "gte", ...).
func (e *ValidationError) Tag() string { return e.tag }

// Param is the tag parameter, "1" for min=1.
func (e *ValidationError) Param() string { return e.param }

// Value is the rejected value.
func (e *ValidationError) Value() interface{} { return e.value }

func (e *ValidationError) Error() string { return e.message }

// RequestValidationError collects every failed constraint of one request.
type RequestValidationError struct {
	errors []ValidationError
}

// Errors returns the individual failures in validator order.
func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) messages() []string {
	out := make([]string, len(ve.errors))
	for i := range ve.errors {
		out[i] = ve.errors[i].message
	}
	return out
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	return strings.Join(ve.messages(), "; ")
}

// APIError carries the fields of models.APIError. Callers copy them into
// their own response type.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError renders the failures as a VALIDATION_ERROR. A single failure
// reports its field and tag in Details; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	apiErr := &APIError{Code: errCodeValidation, Message: "Validation failed"}

	switch len(ve.errors) {
	case 0:
	case 1:
		e := ve.errors[0]
		apiErr.Message = e.message
		apiErr.Details = map[string]interface{}{"field": e.field, "tag": e.tag}
	default:
		fields := make([]map[string]interface{}, len(ve.errors))
		for i, e := range ve.errors {
			fields[i] = map[string]interface{}{"field": e.field, "tag": e.tag, "message": e.message}
		}
		apiErr.Message = strings.Join(ve.messages(), "; ")
		apiErr.Details = map[string]interface{}{"fields": fields}
	}
	return apiErr
}

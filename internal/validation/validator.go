// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

// Package validation wraps go-playground/validator v10 behind a
// thread-safe singleton and translates its field errors into the
// messages the API returns to clients.
//
//	if err := validation.ValidateStruct(&payload); err != nil {
//	    respondError(w, http.StatusBadRequest, err.Error())
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed constraint.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// RequestValidationError aggregates every failed constraint of one
// payload.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the individual field errors.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Error joins the field messages; this is what the API sends back as
// the message body.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, fe := range ve.errors {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator. The instance caches
// struct metadata, so sharing it matters for hot paths.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a payload. Returns nil when it passes.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{errors: []FieldError{
			{Field: "unknown", Tag: "unknown", Message: err.Error()},
		}}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fieldErrors[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

var simpleTemplates = map[string]string{
	"required":  "%s is required",
	"latitude":  "%s must be a valid latitude (-90 to 90)",
	"longitude": "%s must be a valid longitude (-180 to 180)",
}

var paramTemplates = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

// translateError converts a validator.FieldError to the message shown
// to API clients.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := simpleTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := paramTemplates[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind().String() == "string"
	switch tag {
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
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

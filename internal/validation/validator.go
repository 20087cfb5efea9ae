// Package validation provides struct validation using go-playground/validator v10.
// A single validator instance is shared process-wide; it caches struct info and
// carries the custom media URL and format selector rules.
//
//	type analyzeForm struct {
//	    URL string `validate:"required,mediaurl"`
//	}
//
//	if err := validation.ValidateStruct(&form); err != nil {
//	    // err.Error() is a user-facing message
//	}
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Custom tags
const (
	TagMediaURL       = "mediaurl"
	TagFormatSelector = "formatselector"
)

// MaxSelectorLength bounds user-supplied format selectors
const MaxSelectorLength = 200

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error returns a human-readable error message.
func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError represents a collection of validation errors.
type RequestValidationError struct {
	Fields []FieldError
}

// Error implements the error interface, returning a combined error message.
func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// registration only fails on programmer error (empty tag or nil func)
		_ = validate.RegisterValidation(TagMediaURL, validateMediaURL)
		_ = validate.RegisterValidation(TagFormatSelector, validateFormatSelector)
	})
	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or *RequestValidationError if validation fails.
func ValidateStruct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translateError(fe),
		}
	}
	return &RequestValidationError{Fields: fields}
}

// ValidateMediaURL checks a single URL with the mediaurl rule
func ValidateMediaURL(raw string) error {
	if err := GetValidator().Var(raw, "required,"+TagMediaURL); err != nil {
		return fmt.Errorf("url must be an http(s) link to a video or playlist")
	}
	return nil
}

// validateMediaURL accepts absolute http and https URLs with a host
func validateMediaURL(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// validateFormatSelector accepts yt-dlp selector syntax: ids, +, /, filters
// in brackets and comparison operators. Whitespace and shell metacharacters
// are rejected.
func validateFormatSelector(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > MaxSelectorLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_+/[]<>=!.*?^$~:", r):
		default:
			return false
		}
	}
	return true
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":        "%s is required",
	TagMediaURL:       "%s must be an http(s) link to a video or playlist",
	TagFormatSelector: "%s is not a valid format selector",
}

// errorMessageWithParam maps validation tags to templates that include param.
var errorMessageWithParam = map[string]string{
	"oneof":            "%s must be one of: %s",
	"required_without": "%s is required when %s is not set",
	"max":              "%s must be at most %s characters",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, field, strings.ToLower(fe.Param()))
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

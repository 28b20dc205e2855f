// Package validator collects per-field input validation errors in the shape
// the API returns them.
package validator

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// FieldError describes a single failed check on a named field.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// Validator accumulates field errors across a set of checks.
type Validator struct {
	errs []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Require checks that the value is non-empty after trimming.
func (v *Validator) Require(field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		v.errs = append(v.errs, FieldError{Param: field, Msg: msg})
	}
}

// Email checks that the value has the shape of an email address.
func (v *Validator) Email(field, value, msg string) {
	if !emailRegex.MatchString(strings.TrimSpace(value)) {
		v.errs = append(v.errs, FieldError{Param: field, Msg: msg})
	}
}

// MinLength checks that the value is at least n characters long.
func (v *Validator) MinLength(field, value string, n int, msg string) {
	if len(value) < n {
		v.errs = append(v.errs, FieldError{Param: field, Msg: msg})
	}
}

// Valid reports whether every check passed.
func (v *Validator) Valid() bool {
	return len(v.errs) == 0
}

// Errors returns the accumulated field errors.
func (v *Validator) Errors() []FieldError {
	return v.errs
}

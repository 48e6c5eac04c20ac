package service

import (
	"fmt"
	"regexp"
)

// ValidationError reports a rejected registration field together with the
// rule it broke, for the caller to render.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("auth: validation failed on %s: %s", e.Field, e.Reason)
}

var emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)

func validateRegistration(req RegisterRequest) error {
	if len(req.Name) < 2 || len(req.Name) > 40 {
		return &ValidationError{Field: "name", Reason: "must be between 2 and 40 characters"}
	}
	if len(req.Password) < 6 || len(req.Password) > 255 {
		return &ValidationError{Field: "password", Reason: "must be between 6 and 255 characters"}
	}
	if !emailPattern.MatchString(req.Email) {
		return &ValidationError{Field: "email", Reason: "must look like abc@example.com"}
	}
	return nil
}

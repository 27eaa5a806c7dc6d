// Package validation checks the shape of incoming participant and message
// payloads and sanitizes free-text fields before they reach the services.
package validation

import (
	"fmt"
	"html"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"chatroom/errors"
)

var validate = validator.New()

// policy strips every tag; only text content survives.
var policy = bluemonday.StrictPolicy()

type ParticipantRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// MessageRequest covers both send and edit. The status kind is system-only
// and deliberately absent from the accepted values.
type MessageRequest struct {
	From string `json:"from" validate:"required,min=1"`
	To   string `json:"to" validate:"required,min=1"`
	Text string `json:"text" validate:"required,min=1"`
	Kind string `json:"type" validate:"required,oneof=message private_message"`
}

func ValidateParticipant(req ParticipantRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	return nil
}

func ValidateMessage(req MessageRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	return nil
}

// Sanitize strips markup from free text and trims surrounding whitespace.
// The strict policy escapes the surviving text, so entities are unescaped
// back to plain characters afterwards.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}

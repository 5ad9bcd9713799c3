package domain

import (
	"errors"
	"fmt"
)

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// ErrTemplateNotFound is returned when no template has the requested name
type ErrTemplateNotFound struct {
	Message string
}

func (e *ErrTemplateNotFound) Error() string {
	return e.Message
}

// ErrSessionNotFound is returned for unknown or expired builder sessions
type ErrSessionNotFound struct {
	SessionID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("builder session not found: %s", e.SessionID)
}

// ErrMediaNotFound is returned when a download ref does not resolve to an asset
type ErrMediaNotFound struct {
	Ref string
}

func (e *ErrMediaNotFound) Error() string {
	return fmt.Sprintf("media asset not found: %s", e.Ref)
}

// ErrSaveInProgress is returned when a session already has a save in flight.
var ErrSaveInProgress = errors.New("a save is already in progress for this session")

// ErrUnsupportedMedia is returned when fetched bytes are not an embeddable image
var ErrUnsupportedMedia = errors.New("media asset is not a supported image")

// ErrMediaUnavailable is returned when no media storage is configured
var ErrMediaUnavailable = errors.New("media storage is not configured")

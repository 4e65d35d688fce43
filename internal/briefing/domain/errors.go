package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRowNotFound     = errors.New("row not found")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownSection  = errors.New("unknown section")
	ErrInvalidValue    = errors.New("invalid field value")
	ErrReadOnly        = errors.New("record is read-only for this role")
	ErrUnsavedChanges  = errors.New("unsaved changes exist")
	ErrSaveInProgress  = errors.New("a save is already in progress")
	ErrStaleLoad       = errors.New("load superseded by a newer session")
	ErrNoSession       = errors.New("no active session")
	ErrEmptyRecordKey  = errors.New("record key is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many open sessions, try again later")
)

// AuthError is returned for rejected credentials. Message is safe to show the user.
type AuthError struct {
	Role    Role
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// SaveError carries the gateway failure message that must reach the user verbatim.
type SaveError struct {
	Message string
	Err     error
}

func (e *SaveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

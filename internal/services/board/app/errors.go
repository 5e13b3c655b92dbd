package app

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSignedIn is returned when an operation needs a signed-in viewer.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrForbidden is returned when the viewer may not act on a resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUserNotFound is returned for unknown users and handles.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned for a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrHandleTaken is returned when signing up with a handle in use.
	ErrHandleTaken = errors.New("handle is already taken")
	// ErrPostNotFound is returned for unknown posts.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound is returned for unknown comments.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrThumbnailNotFound is returned when a post has no stored image.
	ErrThumbnailNotFound = errors.New("thumbnail not found")
)

// ValidationError reports invalid user input with a message safe to show.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field string, format string, args ...any) error {
	return ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsValidation returns the validation error carried by err, if any.
func AsValidation(err error) (ValidationError, bool) {
	var validation ValidationError
	if errors.As(err, &validation) {
		return validation, true
	}
	return ValidationError{}, false
}

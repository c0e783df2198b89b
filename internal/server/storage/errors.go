package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrTokenNotFound indicates that auth token was not found or has expired
	ErrTokenNotFound = errors.New("auth token not found")

	// ErrObjectNotFound indicates that object was not found
	ErrObjectNotFound = errors.New("object not found")
)

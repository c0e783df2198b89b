package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that the client is not logged in
	ErrSessionNotFound = errors.New("session not found")

	// ErrObjectNotFound indicates that object is not in the local cache
	ErrObjectNotFound = errors.New("object not found")
)

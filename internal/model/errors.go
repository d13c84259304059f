package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrCredentialNotFound = errors.New("credential not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNoCredentials      = errors.New("no credentials available for sign-in")

	// Session errors
	ErrSessionActive = errors.New("session is still in progress")
)

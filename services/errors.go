package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")

	ErrTeamNotFound     = errors.New("megaschaak team not found")
	ErrTeamNameRequired = errors.New("team name is required")
	ErrTeamExists       = errors.New("user already has a team in this league")

	ErrUploadsDisabled = errors.New("file uploads are not configured")
)

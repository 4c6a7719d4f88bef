package repository

import "errors"

// Common repository errors
var (
	// ErrBoardNotFound is returned when a board is not found
	ErrBoardNotFound = errors.New("board not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when registering an email that is already taken
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrInvalidCredentials is returned when email and password do not match a user
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotAuthenticated is returned when an operation requires a signed-in user
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrPersistenceFailed wraps generic store I/O failures
	ErrPersistenceFailed = errors.New("persistence failed")
)

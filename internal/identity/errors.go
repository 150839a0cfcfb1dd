package identity

import "errors"

// ErrInvalidCredentials is returned when no user matches a username/password pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrDuplicateUsername is returned when registering a username that is taken.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrInvalidInput is returned for an empty username or password, or an unknown role.
var ErrInvalidInput = errors.New("invalid user input")

package services

import "errors"

// Business-rule failures are returned as error kinds and translated to HTTP
// status codes at the handler edge only.
var (
	// ErrPaymentInsufficient means the tendered payment does not cover the
	// check total. Nothing is persisted when it occurs.
	ErrPaymentInsufficient = errors.New("payment amount is less than total amount due")

	// ErrNotFound covers both a missing check and a check owned by someone
	// else; callers cannot tell the two apart.
	ErrNotFound = errors.New("check not found")

	// ErrUsernameTaken is reported when the users.username unique constraint
	// rejects an insert.
	ErrUsernameTaken = errors.New("username already registered")

	// ErrInvalidToken covers bad signatures, malformed tokens, expired tokens
	// and tokens whose subject no longer resolves to a user.
	ErrInvalidToken = errors.New("invalid token")
)

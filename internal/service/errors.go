// Package service implements the business rules between the HTTP handlers
// and the repositories. Every expected failure is one of the sentinel errors
// below, so the handler layer can perform a total mapping to HTTP statuses
// without ever inspecting storage errors.
package service

import "errors"

var (
	// ErrEmailTaken and ErrUsernameTaken surface as 409 at registration
	// and profile update.
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials deliberately covers both unknown email and
	// wrong password so a caller cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInactiveUser means the credentials were correct but the account
	// is banned.
	ErrInactiveUser = errors.New("user inactive")

	// ErrInvalidToken covers every decode failure at logout: expired,
	// malformed or badly signed. Logout is fail-closed on purpose.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidTokenPayload means the token decoded but lacks the claims
	// logout needs (jti, sub, exp). Not reachable from a well-formed client.
	ErrInvalidTokenPayload = errors.New("invalid token payload")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// Rating rules.
	ErrAlreadyRated = errors.New("photo already rated")
	ErrSelfRating   = errors.New("cannot rate own photo")
	ErrRatingValue  = errors.New("rating value must be between 1 and 5")

	// Tag rules.
	ErrTooManyTags = errors.New("too many tags")

	// ErrInvalidRole rejects unknown role names in admin role changes.
	ErrInvalidRole = errors.New("invalid role")
)

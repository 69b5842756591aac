package auth

import "errors"

var (
	// ErrInvalidToken indicates a token that failed signature or
	// structural verification.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrExpiredToken indicates a token past its expiry.
	ErrExpiredToken = errors.New("auth: token expired")

	// ErrMissingTenant indicates a token without a tenant claim.
	ErrMissingTenant = errors.New("auth: token has no tenant")
)

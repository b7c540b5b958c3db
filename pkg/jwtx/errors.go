package jwtx

import "errors"

var (
	// ErrExpired reports a token whose expiry instant has passed.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrMalformed reports any other parse or signature failure.
	ErrMalformed = errors.New("jwtx: malformed token")
)

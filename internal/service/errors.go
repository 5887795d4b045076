package service

import "errors"

// Sentinels the handlers map to HTTP status codes. Validation failures stay
// plain errors and map to 400.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Stores wrap driver errors into these so services and handlers never see DynamoDB or SQL types.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

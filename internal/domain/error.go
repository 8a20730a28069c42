package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnknownCapability  = errors.New("unknown capability")
	ErrRateLimited        = errors.New("rate limited")
	ErrQuotaExhausted     = errors.New("quota exhausted")
	ErrStreamDecode       = errors.New("stream decode failed")
	ErrGatewayUnavailable = errors.New("completion gateway unavailable")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)

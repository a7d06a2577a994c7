package di

import "github.com/kbukum/tinydi/errors"

// Sentinel errors for use with errors.Is. Matching is done on the error code,
// so the detailed errors returned by the container match these values.
var (
	ErrAmbiguousConstructor = errors.New(errors.ErrCodeAmbiguousConstructor, "ambiguous constructor")
	ErrInvalidConstructor   = errors.New(errors.ErrCodeInvalidConstructor, "invalid constructor")
	ErrNotRegistered        = errors.New(errors.ErrCodeNotRegistered, "type is not registered")
	ErrTypeMismatch         = errors.New(errors.ErrCodeTypeMismatch, "type mismatch")
	ErrUnknownLifetime      = errors.New(errors.ErrCodeUnknownLifetime, "unknown lifetime")
)

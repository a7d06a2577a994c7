package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Kind groups error codes by the phase in which they are raised.
type Kind string

const (
	// KindConfiguration is raised synchronously while registering services.
	KindConfiguration Kind = "configuration"
	// KindResolution is raised while resolving a service.
	KindResolution Kind = "resolution"
	// KindInternal marks invariant violations that should be unreachable.
	KindInternal Kind = "internal"
)

// Configuration errors
const (
	// ErrCodeAmbiguousConstructor indicates a type-based registration without exactly one constructor.
	ErrCodeAmbiguousConstructor ErrorCode = "AMBIGUOUS_CONSTRUCTOR"
	// ErrCodeInvalidConstructor indicates a constructor with an unusable signature.
	ErrCodeInvalidConstructor ErrorCode = "INVALID_CONSTRUCTOR"
	// ErrCodeInvalidConfig indicates a configuration struct failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Resolution errors
const (
	// ErrCodeNotRegistered indicates no registration exists anywhere in the container chain.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeTypeMismatch indicates a resolved value does not have the requested type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Internal errors
const (
	// ErrCodeUnknownLifetime indicates a registration holds a lifetime outside the defined set.
	ErrCodeUnknownLifetime ErrorCode = "UNKNOWN_LIFETIME"
)

var codeKinds = map[ErrorCode]Kind{
	ErrCodeAmbiguousConstructor: KindConfiguration,
	ErrCodeInvalidConstructor:   KindConfiguration,
	ErrCodeInvalidConfig:        KindConfiguration,
	ErrCodeNotRegistered:        KindResolution,
	ErrCodeTypeMismatch:         KindResolution,
	ErrCodeUnknownLifetime:      KindInternal,
}

// KindOf returns the kind an error code belongs to. Unknown codes are internal.
func KindOf(code ErrorCode) Kind {
	if k, ok := codeKinds[code]; ok {
		return k
	}
	return KindInternal
}

package di

import (
	"fmt"

	"github.com/kbukum/tinydi/errors"
)

// Lifetime controls how resolved values are shared.
type Lifetime int

const (
	// Transient constructs a new value on every resolution.
	Transient Lifetime = iota
	// PerScope constructs one value per Scope.
	PerScope
	// Singleton constructs one value for the owning container chain.
	Singleton
)

// String returns the string representation of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case PerScope:
		return "per_scope"
	case Singleton:
		return "singleton"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// ParseLifetime parses the names returned by String. "scoped" is accepted
// as an alias for per_scope. Other names give an UNKNOWN_LIFETIME error.
func ParseLifetime(s string) (Lifetime, error) {
	switch s {
	case "transient":
		return Transient, nil
	case "per_scope", "scoped":
		return PerScope, nil
	case "singleton":
		return Singleton, nil
	default:
		return 0, errors.UnknownLifetime("", s)
	}
}

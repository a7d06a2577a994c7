package di

import (
	"fmt"

	"github.com/kbukum/tinydi/errors"
)

// Resolve resolves T through r with type safety. Resolution and factory
// errors are returned unchanged.
//
// Example:
//
//	ctrl, err := di.Resolve[shop.ProductController](scope)
func Resolve[T any](r Resolver) (T, error) {
	var zero T
	key := Key[T]()
	instance, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		if instance == nil && isNilable(key) {
			return zero, nil
		}
		return zero, errors.TypeMismatch(key.String(), fmt.Sprintf("%T", instance), key.String())
	}
	return result, nil
}

// MustResolve resolves T through r and panics on error.
func MustResolve[T any](r Resolver) T {
	result, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", Key[T](), err))
	}
	return result
}

// TryResolve resolves T through r, returning false on any error.
// Use this when a dependency is optional.
//
//	if clock, ok := di.TryResolve[Clock](r); ok {
//	    now = clock.Now()
//	}
func TryResolve[T any](r Resolver) (T, bool) {
	result, err := Resolve[T](r)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}

package di

import (
	"fmt"
	"reflect"

	"github.com/kbukum/tinydi/errors"
)

// Key returns the service key for T. Use it with interface types to key by
// abstraction: di.Key[ProductService]().
func Key[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Register binds K to the implementation Impl built by exactly one
// constructor. Impl must be assignable to K and the constructor must return
// Impl or (Impl, error).
func Register[K, Impl any](c *Container, lifetime Lifetime, constructors ...any) (*Container, error) {
	key, impl := Key[K](), Key[Impl]()
	if !impl.AssignableTo(key) {
		return c, errors.InvalidConstructor(impl.String(),
			fmt.Sprintf("%v is not assignable to %v", impl, key))
	}
	return c.registerConstructor(key, impl, lifetime, constructors)
}

// RegisterFactory binds K to a typed factory.
func RegisterFactory[K any](c *Container, factory func(Resolver) (K, error), lifetime Lifetime) *Container {
	if factory == nil {
		panic("di: RegisterFactory called with nil factory for " + Key[K]().String())
	}
	return c.RegisterFactory(Key[K](), func(r Resolver) (any, error) {
		v, err := factory(r)
		if err != nil {
			return nil, err
		}
		return v, nil
	}, lifetime)
}

// RegisterTransient is Register with the Transient lifetime.
func RegisterTransient[K, Impl any](c *Container, constructors ...any) (*Container, error) {
	return Register[K, Impl](c, Transient, constructors...)
}

// RegisterPerScope is Register with the PerScope lifetime.
func RegisterPerScope[K, Impl any](c *Container, constructors ...any) (*Container, error) {
	return Register[K, Impl](c, PerScope, constructors...)
}

// RegisterSingleton is Register with the Singleton lifetime.
func RegisterSingleton[K, Impl any](c *Container, constructors ...any) (*Container, error) {
	return Register[K, Impl](c, Singleton, constructors...)
}

// RegisterTransientFactory is RegisterFactory with the Transient lifetime.
func RegisterTransientFactory[K any](c *Container, factory func(Resolver) (K, error)) *Container {
	return RegisterFactory(c, factory, Transient)
}

// RegisterPerScopeFactory is RegisterFactory with the PerScope lifetime.
func RegisterPerScopeFactory[K any](c *Container, factory func(Resolver) (K, error)) *Container {
	return RegisterFactory(c, factory, PerScope)
}

// RegisterSingletonFactory is RegisterFactory with the Singleton lifetime.
func RegisterSingletonFactory[K any](c *Container, factory func(Resolver) (K, error)) *Container {
	return RegisterFactory(c, factory, Singleton)
}

// Must returns c and panics if err is non-nil. It is meant for registrations
// done once at startup:
//
//	di.Must(di.RegisterSingleton[Clock, *systemClock](c, NewSystemClock))
func Must(c *Container, err error) *Container {
	if err != nil {
		panic(fmt.Sprintf("di: registration failed: %v", err))
	}
	return c
}

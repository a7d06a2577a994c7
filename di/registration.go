package di

import (
	"reflect"

	"github.com/kbukum/tinydi/errors"
)

// registration binds one key to a factory and lifetime. Its pointer identity
// keys the per-scope cache, so two containers registering the same key never
// share PerScope values.
type registration struct {
	key      reflect.Type
	factory  Factory
	lifetime Lifetime
	source   string

	// Singleton state, guarded by the container chain's mutex.
	value any
	built bool
}

// resolve applies the lifetime policy. The caller holds the chain mutex.
func (r *registration) resolve(s *Scope) (any, error) {
	switch r.lifetime {
	case Transient:
		return s.construct(r)

	case Singleton:
		if r.built {
			return r.value, nil
		}
		v, err := s.construct(r)
		if err != nil {
			return nil, err
		}
		r.value, r.built = v, true
		return v, nil

	case PerScope:
		if v, ok := s.cached(r); ok {
			return v, nil
		}
		v, err := s.construct(r)
		if err != nil {
			return nil, err
		}
		s.set(r, v)
		return v, nil

	default:
		return nil, errors.UnknownLifetime(r.key.String(), r.lifetime)
	}
}

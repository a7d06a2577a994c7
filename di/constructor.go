package di

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/kbukum/tinydi/errors"
)

var errorType = reflect.TypeFor[error]()

// constructor holds the reflected signature of a constructor function.
// Supported shapes:
//   - func(Dep1, Dep2, ...) T
//   - func(Dep1, Dep2, ...) (T, error)
type constructor struct {
	fn           reflect.Value
	name         string
	params       []reflect.Type
	returnsError bool
}

// parseConstructor validates fn and checks that its result is assignable to target.
func parseConstructor(fn any, target reflect.Type) (*constructor, error) {
	if fn == nil {
		return nil, errors.InvalidConstructor(target.String(), "constructor cannot be nil")
	}

	fnValue := reflect.ValueOf(fn)
	fnType := fnValue.Type()
	if fnType.Kind() != reflect.Func {
		return nil, errors.InvalidConstructor(target.String(),
			fmt.Sprintf("constructor must be a function, got %v", fnType))
	}
	if fnValue.IsNil() {
		return nil, errors.InvalidConstructor(target.String(), "constructor cannot be nil")
	}
	if fnType.IsVariadic() {
		return nil, errors.InvalidConstructor(target.String(), "variadic constructors are not supported")
	}

	numOut := fnType.NumOut()
	if numOut == 0 || numOut > 2 {
		return nil, errors.InvalidConstructor(target.String(),
			fmt.Sprintf("constructor must return (T) or (T, error), got %d return values", numOut))
	}
	if numOut == 2 && fnType.Out(1) != errorType {
		return nil, errors.InvalidConstructor(target.String(),
			fmt.Sprintf("constructor's second return value must be error, got %v", fnType.Out(1)))
	}
	if out := fnType.Out(0); !out.AssignableTo(target) {
		return nil, errors.InvalidConstructor(target.String(),
			fmt.Sprintf("constructor returns %v which is not assignable to %v", out, target))
	}

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	return &constructor{
		fn:           fnValue,
		name:         runtime.FuncForPC(fnValue.Pointer()).Name(),
		params:       params,
		returnsError: numOut == 2,
	}, nil
}

// invoke resolves every parameter through r and calls the constructor.
// Errors from resolution or from the constructor are returned as is.
func (c *constructor) invoke(r Resolver) (any, error) {
	args := make([]reflect.Value, len(c.params))
	for i, p := range c.params {
		v, err := r.Resolve(p)
		if err != nil {
			return nil, err
		}
		arg, err := argValue(p, v)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	results := c.fn.Call(args)
	if c.returnsError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

func argValue(p reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		if isNilable(p) {
			return reflect.Zero(p), nil
		}
		return reflect.Value{}, errors.TypeMismatch(p.String(), "nil", p.String())
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(p) {
		return reflect.Value{}, errors.TypeMismatch(p.String(), rv.Type().String(), p.String())
	}
	return rv, nil
}

func isNilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

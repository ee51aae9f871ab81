// Package convert declares the runtime contracts shared by converters, the
// dispatcher, and the adapters produced by adapter-generator.
//
// A converter is any type whose method set satisfies Converter for two
// concrete types. The generator discovers those types at build time and emits
// one adapter with a statically typed method per conversion. Each adapter
// method delegates to a Dispatcher, which performs the actual lookup at
// runtime.
package convert

import (
	"errors"
	"fmt"
	"reflect"
)

// Converter converts one concrete source type to one concrete target type.
type Converter[S, T any] interface {
	Convert(source S) (T, error)
}

// Dispatcher converts an instance to the requested target type by locating
// the appropriate converter.
type Dispatcher interface {
	Convert(source any, target reflect.Type) (any, error)
}

// DispatcherFunc adapts an ordinary function to the Dispatcher interface.
type DispatcherFunc func(source any, target reflect.Type) (any, error)

// Convert calls f(source, target).
func (f DispatcherFunc) Convert(source any, target reflect.Type) (any, error) {
	return f(source, target)
}

// ErrUnexpectedResult is returned by Dispatch when the dispatcher produced a
// value that is not assignable to the requested target type.
var ErrUnexpectedResult = errors.New("dispatcher returned unexpected result type")

// Dispatch asks d to convert source into T and returns the typed result.
// A nil result is accepted for target types that have a nil zero value.
func Dispatch[T any](d Dispatcher, source any) (T, error) {
	var zero T

	target := reflect.TypeFor[T]()

	out, err := d.Convert(source, target)
	if err != nil {
		return zero, err
	}

	if out == nil {
		switch target.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return zero, nil
		default:
			return zero, fmt.Errorf("%w: got nil, want %s", ErrUnexpectedResult, target)
		}
	}

	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %s", ErrUnexpectedResult, out, target)
	}

	return typed, nil
}

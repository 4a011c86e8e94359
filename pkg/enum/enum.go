package enum

import "reflect"

// declared holds every value of each enum type, keyed by type name.
var declared = map[string][]any{}

// New declares a value of an enum type. Declaring every value through New
// keeps the type's value set closed and enumerable via All.
func New[T comparable](value T) T {
	name := reflect.TypeOf(value).Name()
	declared[name] = append(declared[name], value)
	return value
}

// All returns every declared value of the enum type T, in declaration order.
func All[T comparable]() []T {
	var zero T
	values := declared[reflect.TypeOf(zero).Name()]

	result := make([]T, 0, len(values))
	for _, v := range values {
		result = append(result, v.(T))
	}

	return result
}

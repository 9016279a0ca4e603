package generic

// Option holds a value that may be absent.
type Option[T any] struct {
	Value    T
	hasValue bool
}

// Expect returns the contained value, or panics with the supplied error message if there is no value.
func (o Option[T]) Expect(msg string) T {
	if o.hasValue {
		return o.Value
	} else {
		panic(msg)
	}
}

// IsNone returns true if this Option[T] does not have a value.
func (o Option[T]) IsNone() bool {
	return !o.hasValue
}

// IsSome returns true if this Option[T] has a value.
func (o Option[T]) IsSome() bool {
	return o.hasValue
}

// Unwrap returns the contained value, or panics if there is no value.
func (o Option[T]) Unwrap() T {
	return o.Expect("tried to Unwrap() a None")
}

// UnwrapOr returns the contained value, or other if there is no value.
func (o Option[T]) UnwrapOr(other T) T {
	if o.hasValue {
		return o.Value
	} else {
		return other
	}
}

// UnwrapOrElse returns the contained value, or the result of the callback if there is no value.
func (o Option[T]) UnwrapOrElse(f func() T) T {
	if o.hasValue {
		return o.Value
	} else {
		return f()
	}
}

// Some constructs an Option[T] that has a value.
func Some[T any](value T) Option[T] {
	return Option[T]{Value: value, hasValue: true}
}

// None constructs an Option[T] that does not have a value.
func None[T any]() Option[T] {
	return Option[T]{hasValue: false}
}

// NonZero is Some(value) unless value is the zero value of T, in which case it is None.
func NonZero[T comparable](value T) Option[T] {
	var zero T
	if value == zero {
		return None[T]()
	}
	return Some(value)
}

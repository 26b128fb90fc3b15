package bind

// Optional holds a value that may be unset. The zero Optional is unset, which
// is distinct from a set zero value: unset attributes are skipped on save.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Set stores v and marks the attribute as present.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.set = true
}

// Clear marks the attribute as absent.
func (o *Optional[T]) Clear() {
	var zero T
	o.value = zero
	o.set = false
}

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the attribute is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Or returns the value, or def when unset.
func (o Optional[T]) Or(def T) T {
	if !o.set {
		return def
	}
	return o.value
}

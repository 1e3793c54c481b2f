// Package dynarray implements an owning, index-addressed resizable array.
// Capacity doubles when a push finds the array full and halves when a pop
// leaves it less than a quarter full.
package dynarray

const defaultCapacity = 2

// Array is a resizable array of T. The zero value is not usable; call New.
type Array[T any] struct {
	data []T
	size int
}

// New returns an empty array with room for capacity elements.
// A capacity of 0 or less selects the default of 2.
func New[T any](capacity int) *Array[T] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Array[T]{data: make([]T, capacity)}
}

// Len returns the number of stored elements.
func (a *Array[T]) Len() int {
	if a == nil {
		return 0
	}
	return a.size
}

// Cap returns the number of elements the array can hold before it grows.
func (a *Array[T]) Cap() int {
	if a == nil {
		return 0
	}
	return len(a.data)
}

// IsEmpty reports whether the array holds no elements.
func (a *Array[T]) IsEmpty() bool {
	return a.Len() == 0
}

// Push appends v, doubling the backing storage when full.
func (a *Array[T]) Push(v T) {
	if a.size == len(a.data) {
		a.resize(len(a.data) * 2)
	}
	a.data[a.size] = v
	a.size++
}

// PopBack removes and returns the last element.
func (a *Array[T]) PopBack() (T, bool) {
	var zero T
	if a.Len() == 0 {
		return zero, false
	}
	a.size--
	v := a.data[a.size]
	a.data[a.size] = zero
	if a.size < len(a.data)/4 && len(a.data) > defaultCapacity {
		a.resize(len(a.data) / 2)
	}
	return v, true
}

// At returns the element at index i.
func (a *Array[T]) At(i int) (T, bool) {
	if i < 0 || i >= a.Len() {
		var zero T
		return zero, false
	}
	return a.data[i], true
}

// Set replaces the element at index i.
func (a *Array[T]) Set(i int, v T) bool {
	if i < 0 || i >= a.Len() {
		return false
	}
	a.data[i] = v
	return true
}

// Each calls fn for every element in index order until fn returns false.
func (a *Array[T]) Each(fn func(i int, v T) bool) {
	for i := 0; i < a.Len(); i++ {
		if !fn(i, a.data[i]) {
			return
		}
	}
}

// Destroy hands every element to release, when non-nil, and drops the
// backing storage. The array is empty afterwards.
func (a *Array[T]) Destroy(release func(T)) {
	if a == nil {
		return
	}
	if release != nil {
		for i := 0; i < a.size; i++ {
			release(a.data[i])
		}
	}
	a.data = nil
	a.size = 0
}

func (a *Array[T]) resize(capacity int) {
	if capacity < defaultCapacity {
		capacity = defaultCapacity
	}
	data := make([]T, capacity)
	copy(data, a.data[:a.size])
	a.data = data
}

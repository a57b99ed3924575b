package kv

import "context"

// Value is a type-safe view of a single key.
//
// It hides the "pre-fill the destination with the default" convention of
// Store.Get: Load returns a fresh default whenever the key is absent.
type Value[T any] struct {
	store Store
	key   string
	def   func() T
}

// NewValue creates a typed view of key. def builds the value reported when
// the key is absent; a nil def means the zero value of T.
func NewValue[T any](store Store, key string, def func() T) *Value[T] {
	if def == nil {
		def = func() T {
			var zero T
			return zero
		}
	}
	return &Value[T]{store: store, key: key, def: def}
}

// Key returns the key this value lives under.
func (v *Value[T]) Key() string {
	return v.key
}

// Load returns the stored value, or the default.
func (v *Value[T]) Load(ctx context.Context) (T, error) {
	out := v.def()
	if _, err := v.store.Get(ctx, v.key, &out); err != nil {
		return v.def(), err
	}
	return out, nil
}

// Store replaces the stored value.
func (v *Value[T]) Store(ctx context.Context, value T) error {
	return v.store.Set(ctx, v.key, value)
}

// Clear removes the key.
func (v *Value[T]) Clear(ctx context.Context) error {
	return v.store.Delete(ctx, v.key)
}

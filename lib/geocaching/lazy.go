package geocaching

import (
	"context"
	"fmt"
)

// field is an optional attribute. Whether it is set is tracked apart
// from the value, so a legitimately empty value never looks unset.
type field[T any] struct {
	value T
	set   bool
}

func (f *field[T]) put(v T) {
	f.value = v
	f.set = true
}

func (f *field[T]) get() (T, bool) {
	return f.value, f.set
}

// loadable is an entity whose optional fields can be populated by one
// full load.
type loadable interface {
	Load(ctx context.Context) error
	loadedOnce() bool
	describe() string
}

// lazyGet returns a field's value, performing at most one full load of
// the owning entity when the field has not been populated yet. A field
// still unset after a successful load is reported as unavailable
// rather than refetched.
func lazyGet[T any](ctx context.Context, e loadable, f *field[T], name string) (T, error) {
	if v, ok := f.get(); ok {
		return v, nil
	}

	if !e.loadedOnce() {
		if err := e.Load(ctx); err != nil {
			var zero T
			return zero, err
		}
	}

	v, ok := f.get()
	if !ok {
		var zero T
		return zero, LoadError{Msg: fmt.Sprintf("%s is not available for %s", name, e.describe())}
	}
	return v, nil
}

package ecs

// Handle refers to one attached component without exposing its index, which
// shifts whenever an earlier sibling of the same kind is removed.
type Handle[T Component] struct {
	c  T
	ok bool
}

// HandleOf wraps an attached component.
func HandleOf[T Component](c T) Handle[T] {
	return Handle[T]{c: c, ok: true}
}

// Get returns the component while it is still attached.
func (h Handle[T]) Get() (T, error) {
	var zero T
	if !h.Valid() {
		return zero, ErrStaleHandle
	}
	return h.c, nil
}

// Index returns the component's current index among its owner's components
// of the same kind.
func (h Handle[T]) Index() (int, error) {
	if !h.Valid() {
		return -1, ErrStaleHandle
	}
	return h.c.component().index, nil
}

func (h Handle[T]) Valid() bool {
	return h.ok && h.c.component().attached
}

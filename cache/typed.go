package cache

// Typed is a namespace-scoped view of a Store with a compile-time payload
// shape, so callers do not re-assert the shape of what they cached.
type Typed[T any] struct {
	store *Store
	ns    Namespace
}

func NewTyped[T any](store *Store, ns Namespace) Typed[T] {
	return Typed[T]{
		store: store,
		ns:    ns,
	}
}

// Get returns the cached value for key. The zero value and false on miss.
func (t Typed[T]) Get(key string) (T, bool) {
	var value T
	found := t.store.Get(t.ns, key, &value)
	return value, found
}

// Set caches value under key with the namespace TTL.
func (t Typed[T]) Set(key string, value T) {
	t.store.Set(t.ns, key, value)
}

// Clear drops every entry in this view's namespace.
func (t Typed[T]) Clear() {
	t.store.Clear(t.ns)
}

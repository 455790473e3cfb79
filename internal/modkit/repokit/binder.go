package repokit

import "disasterresponse/internal/platform/store"

// Binder is a tiny factory that binds a domain repo to a specific Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc lets you create a Binder from a function
type BindFunc[T any] func(Queryer) T

// Bind calls the underlying function
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// DialectBinder builds binders for repos whose SQL depends on the dialect
func DialectBinder[T any](d store.Dialect, fn func(Queryer, store.Dialect) T) Binder[T] {
	return BindFunc[T](func(q Queryer) T { return fn(q, d) })
}

// MustBind validates q then binds, panicking early on programmer error
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

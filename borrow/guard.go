package borrow

import (
	guestmem "github.com/wippyai/guestmem"
)

// Ref is a live shared loan over a target. The target's contents may be
// read, but not written, while the guard is unreleased.
type Ref[T guestmem.Pointer] struct {
	target   T
	scope    *Scope
	released bool
}

// Target returns the borrowed target.
func (r *Ref[T]) Target() T {
	return r.target
}

// Release settles the loan. Idempotent, so it is safe to defer and also
// release early on some paths.
func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.scope.settleShared(r.target.Addr())
}

// RefMut is a live exclusive loan over a target. The holder is the only
// party allowed to touch the target's contents while the guard is
// unreleased.
type RefMut[T guestmem.Pointer] struct {
	target   T
	scope    *Scope
	released bool
}

// Target returns the borrowed target.
func (r *RefMut[T]) Target() T {
	return r.target
}

// Release settles the loan. Idempotent.
func (r *RefMut[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.scope.settleExclusive(r.target.MutAddr())
}

package borrow

import (
	guestmem "github.com/wippyai/guestmem"
)

// TryShared requests a shared loan over target within s. It fails with
// *LoanError if the address is exclusively loaned, or ErrScopeEnded if the
// scope is over. On success the returned guard must be released before the
// scope ends.
func TryShared[T guestmem.Pointer](s *Scope, target T) (*Ref[T], error) {
	if err := s.registerShared(target.Addr()); err != nil {
		return nil, err
	}
	return &Ref[T]{target: target, scope: s}, nil
}

// Shared is TryShared for callers that treat a conflict as a bug. It panics
// with the request error; inside a host call the dispatch boundary turns
// that into a call failure without killing the process.
func Shared[T guestmem.Pointer](s *Scope, target T) *Ref[T] {
	ref, err := TryShared(s, target)
	if err != nil {
		panic(err)
	}
	return ref
}

// TryExclusive requests the exclusive loan over target within s. It fails
// with *LoanError if the address has any loan outstanding, or ErrScopeEnded
// if the scope is over.
func TryExclusive[T guestmem.Pointer](s *Scope, target T) (*RefMut[T], error) {
	if err := s.registerExclusive(target.MutAddr()); err != nil {
		return nil, err
	}
	return &RefMut[T]{target: target, scope: s}, nil
}

// Exclusive is TryExclusive for callers that treat a conflict as a bug.
// It panics with the request error.
func Exclusive[T guestmem.Pointer](s *Scope, target T) *RefMut[T] {
	ref, err := TryExclusive(s, target)
	if err != nil {
		panic(err)
	}
	return ref
}

package borrow

import (
	"errors"

	guestmem "github.com/wippyai/guestmem"
	"go.uber.org/zap"
)

// ErrScopeEnded is returned by loan requests against an ended scope.
var ErrScopeEnded = errors.New("access scope already ended")

// Scope models one bounded access window during which targets may be
// borrowed. It owns the loan ledger; when the scope ends the ledger dies
// with it and no loan can survive.
//
// A Scope is confined to a single goroutine.
type Scope struct {
	ledger    ledger
	observers []Observer
	ended     bool
}

// NewScope creates an empty scope ready to track loans.
func NewScope() *Scope {
	return &Scope{ledger: newLedger()}
}

// Active reports whether the scope still accepts loan requests.
func (s *Scope) Active() bool {
	return !s.ended
}

// Loans returns the number of addresses with outstanding loans.
func (s *Scope) Loans() int {
	return s.ledger.outstanding()
}

// Subscribe adds an observer for loan lifecycle events.
func (s *Scope) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer.
func (s *Scope) Unsubscribe(o Observer) {
	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// End closes the scope. Further loan requests fail with ErrScopeEnded.
// Loans still outstanding are reported as a *LeakError; they are dropped
// regardless, so the ledger cannot outlive its window. End is idempotent
// and returns nil on repeat calls.
func (s *Scope) End() error {
	if s.ended {
		return nil
	}
	s.ended = true

	if n := s.ledger.outstanding(); n > 0 {
		addrs := s.ledger.addrs()
		Logger().Error("scope ended with outstanding loans",
			zap.Int("count", n),
			zap.Uintptrs("addrs", addrsAsUintptrs(addrs)))
		return &LeakError{Count: n, Addrs: addrs}
	}

	Logger().Debug("scope ended clean")
	return nil
}

func (s *Scope) registerShared(addr guestmem.Addr) error {
	if s.ended {
		return ErrScopeEnded
	}
	count, lerr := s.ledger.registerShared(addr)
	if lerr != nil {
		s.notify(Event{Type: EventDenied, Addr: addr, Conflict: lerr.Conflict})
		Logger().Debug("shared loan denied",
			zap.Uintptr("addr", uintptr(addr)),
			zap.String("conflict", lerr.Conflict.String()))
		return lerr
	}
	s.notify(Event{Type: EventSharedTaken, Addr: addr, Shared: count})
	Logger().Debug("shared loan taken",
		zap.Uintptr("addr", uintptr(addr)),
		zap.Uint32("shared", count))
	return nil
}

func (s *Scope) registerExclusive(addr guestmem.Addr) error {
	if s.ended {
		return ErrScopeEnded
	}
	if lerr := s.ledger.registerExclusive(addr); lerr != nil {
		s.notify(Event{Type: EventDenied, Addr: addr, Conflict: lerr.Conflict})
		Logger().Debug("exclusive loan denied",
			zap.Uintptr("addr", uintptr(addr)),
			zap.String("conflict", lerr.Conflict.String()))
		return lerr
	}
	s.notify(Event{Type: EventExclusiveTaken, Addr: addr})
	Logger().Debug("exclusive loan taken", zap.Uintptr("addr", uintptr(addr)))
	return nil
}

func (s *Scope) settleShared(addr guestmem.Addr) {
	if s.ended {
		panic("borrow: guard released after its scope ended")
	}
	remaining := s.ledger.settleShared(addr)
	s.notify(Event{Type: EventSharedSettled, Addr: addr, Shared: remaining})
	Logger().Debug("shared loan settled",
		zap.Uintptr("addr", uintptr(addr)),
		zap.Uint32("shared", remaining))
}

func (s *Scope) settleExclusive(addr guestmem.Addr) {
	if s.ended {
		panic("borrow: guard released after its scope ended")
	}
	s.ledger.settleExclusive(addr)
	s.notify(Event{Type: EventExclusiveSettled, Addr: addr})
	Logger().Debug("exclusive loan settled", zap.Uintptr("addr", uintptr(addr)))
}

func (s *Scope) notify(e Event) {
	for _, o := range s.observers {
		o.OnLoanEvent(e)
	}
}

func addrsAsUintptrs(addrs []guestmem.Addr) []uintptr {
	out := make([]uintptr, len(addrs))
	for i, a := range addrs {
		out[i] = uintptr(a)
	}
	return out
}

package borrow

import (
	"fmt"

	guestmem "github.com/wippyai/guestmem"
)

// ConflictKind identifies why a loan request was refused.
type ConflictKind uint8

const (
	// ConflictExclusiveHeld means a shared loan was refused because an
	// exclusive loan is outstanding for the address.
	ConflictExclusiveHeld ConflictKind = iota
	// ConflictFrozen means an exclusive loan was refused because the address
	// already has loans outstanding, shared or exclusive.
	ConflictFrozen
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictExclusiveHeld:
		return "exclusive_held"
	case ConflictFrozen:
		return "frozen"
	default:
		return fmt.Sprintf("conflict(%d)", uint8(k))
	}
}

// LoanError reports a loan request refused by the ledger. It is the expected
// failure mode of Try requests; the ledger is unchanged when it is returned.
type LoanError struct {
	Conflict ConflictKind
	Addr     guestmem.Addr
}

func (e *LoanError) Error() string {
	switch e.Conflict {
	case ConflictFrozen:
		return fmt.Sprintf("address %#x is frozen", uintptr(e.Addr))
	default:
		return fmt.Sprintf("outstanding exclusive loan exists for address %#x", uintptr(e.Addr))
	}
}

// Is reports whether target matches this error type
func (e *LoanError) Is(target error) bool {
	_, ok := target.(*LoanError)
	return ok
}

// LeakError reports loans still outstanding when a scope ended. The loans
// are gone either way; the error exists so the caller can surface the bug.
type LeakError struct {
	Count int
	Addrs []guestmem.Addr
}

func (e *LeakError) Error() string {
	return fmt.Sprintf("scope ended with %d outstanding loan(s)", e.Count)
}

// Is reports whether target matches this error type
func (e *LeakError) Is(target error) bool {
	_, ok := target.(*LeakError)
	return ok
}

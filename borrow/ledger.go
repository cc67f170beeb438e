package borrow

import (
	"fmt"
	"slices"

	guestmem "github.com/wippyai/guestmem"
)

// loan is the per-address ledger entry. shared and exclusive never hold at
// the same time, and an entry with neither is removed from the table, so
// absence means unborrowed.
type loan struct {
	shared    uint32
	exclusive bool
}

// ledger tracks outstanding loans by identity address. It lives exactly as
// long as the scope that owns it.
type ledger struct {
	loans map[guestmem.Addr]loan
}

func newLedger() ledger {
	return ledger{loans: make(map[guestmem.Addr]loan)}
}

// registerShared records one more shared loan for addr and returns the new
// shared count. Fails without side effects if the address is exclusive.
func (l *ledger) registerShared(addr guestmem.Addr) (uint32, *LoanError) {
	entry := l.loans[addr]
	if entry.exclusive {
		return 0, &LoanError{Conflict: ConflictExclusiveHeld, Addr: addr}
	}
	entry.shared++
	l.loans[addr] = entry
	return entry.shared, nil
}

// registerExclusive records the exclusive loan for addr. Fails without side
// effects if the address has any loan outstanding.
func (l *ledger) registerExclusive(addr guestmem.Addr) *LoanError {
	if _, held := l.loans[addr]; held {
		return &LoanError{Conflict: ConflictFrozen, Addr: addr}
	}
	l.loans[addr] = loan{exclusive: true}
	return nil
}

// settleShared releases one shared loan for addr and returns the remaining
// shared count. A settle with no matching loan is a guard bookkeeping bug.
func (l *ledger) settleShared(addr guestmem.Addr) uint32 {
	entry, ok := l.loans[addr]
	if !ok || entry.exclusive {
		panic(fmt.Sprintf("borrow: no shared loan outstanding for address %#x", uintptr(addr)))
	}
	entry.shared--
	if entry.shared == 0 {
		delete(l.loans, addr)
		return 0
	}
	l.loans[addr] = entry
	return entry.shared
}

// settleExclusive releases the exclusive loan for addr.
func (l *ledger) settleExclusive(addr guestmem.Addr) {
	entry, ok := l.loans[addr]
	if !ok || !entry.exclusive {
		panic(fmt.Sprintf("borrow: no exclusive loan outstanding for address %#x", uintptr(addr)))
	}
	delete(l.loans, addr)
}

// outstanding returns the number of addresses with loans.
func (l *ledger) outstanding() int {
	return len(l.loans)
}

// addrs returns the addresses with outstanding loans, sorted for stable
// diagnostics.
func (l *ledger) addrs() []guestmem.Addr {
	out := make([]guestmem.Addr, 0, len(l.loans))
	for addr := range l.loans {
		out = append(out, addr)
	}
	slices.Sort(out)
	return out
}

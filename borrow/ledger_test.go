package borrow

import (
	"testing"
)

func TestLedger_SharedStacks(t *testing.T) {
	l := newLedger()

	count, lerr := l.registerShared(0x10)
	if lerr != nil {
		t.Fatalf("First shared loan failed: %v", lerr)
	}
	if count != 1 {
		t.Fatalf("Expected count 1, got %d", count)
	}

	count, lerr = l.registerShared(0x10)
	if lerr != nil {
		t.Fatalf("Second shared loan failed: %v", lerr)
	}
	if count != 2 {
		t.Fatalf("Expected count 2, got %d", count)
	}

	if l.outstanding() != 1 {
		t.Fatalf("Expected 1 loaned address, got %d", l.outstanding())
	}
}

func TestLedger_ExclusiveExcludesShared(t *testing.T) {
	l := newLedger()

	if lerr := l.registerExclusive(0x10); lerr != nil {
		t.Fatalf("Exclusive loan failed: %v", lerr)
	}

	_, lerr := l.registerShared(0x10)
	if lerr == nil {
		t.Fatal("Shared loan should fail while exclusive is outstanding")
	}
	if lerr.Conflict != ConflictExclusiveHeld {
		t.Fatalf("Expected exclusive_held, got %v", lerr.Conflict)
	}
	if lerr.Addr != 0x10 {
		t.Fatalf("Expected addr 0x10, got %#x", uintptr(lerr.Addr))
	}
}

func TestLedger_SharedFreezesExclusive(t *testing.T) {
	l := newLedger()

	if _, lerr := l.registerShared(0x10); lerr != nil {
		t.Fatalf("Shared loan failed: %v", lerr)
	}

	lerr := l.registerExclusive(0x10)
	if lerr == nil {
		t.Fatal("Exclusive loan should fail while shared is outstanding")
	}
	if lerr.Conflict != ConflictFrozen {
		t.Fatalf("Expected frozen, got %v", lerr.Conflict)
	}
}

func TestLedger_ExclusiveFreezesExclusive(t *testing.T) {
	l := newLedger()

	if lerr := l.registerExclusive(0x10); lerr != nil {
		t.Fatalf("Exclusive loan failed: %v", lerr)
	}

	lerr := l.registerExclusive(0x10)
	if lerr == nil {
		t.Fatal("Second exclusive loan should fail")
	}
	if lerr.Conflict != ConflictFrozen {
		t.Fatalf("Expected frozen, got %v", lerr.Conflict)
	}
}

func TestLedger_FailedRequestLeavesStateUntouched(t *testing.T) {
	l := newLedger()

	if _, lerr := l.registerShared(0x10); lerr != nil {
		t.Fatalf("Shared loan failed: %v", lerr)
	}
	if lerr := l.registerExclusive(0x10); lerr == nil {
		t.Fatal("Exclusive loan should fail")
	}

	// The denied request must not disturb the shared count
	count, lerr := l.registerShared(0x10)
	if lerr != nil {
		t.Fatalf("Shared loan after denial failed: %v", lerr)
	}
	if count != 2 {
		t.Fatalf("Expected count 2, got %d", count)
	}
}

func TestLedger_SettleRestoresUnborrowed(t *testing.T) {
	l := newLedger()

	l.registerShared(0x10)
	l.registerShared(0x10)

	if remaining := l.settleShared(0x10); remaining != 1 {
		t.Fatalf("Expected 1 remaining, got %d", remaining)
	}

	// One shared loan left, exclusive still frozen
	if lerr := l.registerExclusive(0x10); lerr == nil {
		t.Fatal("Exclusive should stay frozen with a shared loan outstanding")
	}

	if remaining := l.settleShared(0x10); remaining != 0 {
		t.Fatalf("Expected 0 remaining, got %d", remaining)
	}
	if l.outstanding() != 0 {
		t.Fatalf("Expected empty ledger, got %d entries", l.outstanding())
	}

	// Fully settled, exclusive is available again
	if lerr := l.registerExclusive(0x10); lerr != nil {
		t.Fatalf("Exclusive after full settle failed: %v", lerr)
	}
	l.settleExclusive(0x10)
	if l.outstanding() != 0 {
		t.Fatalf("Expected empty ledger, got %d entries", l.outstanding())
	}
}

func TestLedger_DistinctAddressesIndependent(t *testing.T) {
	l := newLedger()

	if lerr := l.registerExclusive(0x10); lerr != nil {
		t.Fatalf("Exclusive loan failed: %v", lerr)
	}
	if _, lerr := l.registerShared(0x20); lerr != nil {
		t.Fatalf("Shared loan on distinct address failed: %v", lerr)
	}
	if l.outstanding() != 2 {
		t.Fatalf("Expected 2 loaned addresses, got %d", l.outstanding())
	}
}

func TestLedger_SettleWithoutLoanPanics(t *testing.T) {
	assertPanics := func(name string, fn func()) {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("Expected panic")
				}
			}()
			fn()
		})
	}

	assertPanics("shared on empty ledger", func() {
		l := newLedger()
		l.settleShared(0x10)
	})
	assertPanics("exclusive on empty ledger", func() {
		l := newLedger()
		l.settleExclusive(0x10)
	})
	assertPanics("shared against exclusive entry", func() {
		l := newLedger()
		l.registerExclusive(0x10)
		l.settleShared(0x10)
	})
	assertPanics("exclusive against shared entry", func() {
		l := newLedger()
		l.registerShared(0x10)
		l.settleExclusive(0x10)
	})
}

func TestLedger_AddrsSorted(t *testing.T) {
	l := newLedger()
	l.registerShared(0x30)
	l.registerShared(0x10)
	l.registerExclusive(0x20)

	addrs := l.addrs()
	if len(addrs) != 3 {
		t.Fatalf("Expected 3 addresses, got %d", len(addrs))
	}
	if addrs[0] != 0x10 || addrs[1] != 0x20 || addrs[2] != 0x30 {
		t.Fatalf("Addresses not sorted: %v", addrs)
	}
}

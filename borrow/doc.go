// Package borrow implements dynamic loan tracking over borrowable targets.
//
// A Scope owns a ledger mapping identity addresses to loan state. Each
// address is in exactly one state at a time:
//
//	unborrowed ──TryShared──▶ shared(1) ──TryShared──▶ shared(n+1)
//	unborrowed ──TryExclusive──▶ exclusive
//
// Shared loans stack; an exclusive loan excludes everything else. A request
// that would break the discipline fails with *LoanError and leaves the
// ledger untouched. Releasing the last shared loan, or the exclusive loan,
// returns the address to unborrowed.
//
// Guards returned by the request functions must be released before the
// scope ends, typically with defer so the loan settles even while a panic
// unwinds the handler:
//
//	ref, err := borrow.TryShared(scope, target)
//	if err != nil {
//	    return err
//	}
//	defer ref.Release()
//	process(ref.Target())
//
// Ending a scope with loans still outstanding reports a *LeakError naming
// the leaked addresses; the loans die with the scope either way.
//
// A Scope is confined to the goroutine running the access window it models.
// It deliberately carries no mutex: two goroutines sharing one scope is a
// bug in the caller, not a supported configuration.
package borrow

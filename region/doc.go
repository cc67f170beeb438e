// Package region provides borrowable targets: windows onto guest linear
// memory (Region) and pinned host buffers (Buffer).
//
// A target pairs a byte view with the identity address of its backing
// storage. Targets are plain values; constructing one grants nothing.
// Access rights come from loans taken against the target's address in a
// borrow.Scope:
//
//	reg, err := region.FromMemory(mem, offset, size)
//	if err != nil {
//	    return err
//	}
//	ref, err := reg.TryBorrow(scope)
//	if err != nil {
//	    return err
//	}
//	defer ref.Release()
//	sum := checksum(ref.Target().Bytes())
//
// Identity is the window's start address. Re-deriving the same window
// yields the same address, so a second borrow of an exclusively loaned
// region is refused no matter how the target was obtained. Windows that
// merely overlap, starting at different offsets, have distinct identities;
// the ledger tracks loans per address, not byte ranges.
//
// Zero-size targets are rejected at construction. An empty view has no
// backing array, hence no identity address to track, and nothing a loan
// could protect.
package region

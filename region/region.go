package region

import (
	guestmem "github.com/wippyai/guestmem"
	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/errors"
)

// Region is a window onto guest linear memory. The view aliases the guest's
// storage directly; reading or writing it without a live loan defeats the
// discipline, so handlers should reach the bytes through a guard's target.
type Region struct {
	view   []byte
	addr   guestmem.Addr
	offset uint32
}

// FromMemory carves the window [offset, offset+size) out of mem. Zero-size
// windows and windows extending past the end of memory are rejected.
func FromMemory(mem guestmem.Memory, offset, size uint32) (Region, error) {
	if size == 0 {
		return Region{}, errors.ZeroSize(errors.PhaseRegion, "region")
	}
	view, ok := mem.Read(offset, size)
	if !ok {
		return Region{}, errors.OutOfBounds(errors.PhaseRegion, offset, size, mem.Size())
	}
	return Region{view: view, addr: guestmem.AddrOf(view), offset: offset}, nil
}

// Addr returns the identity address of the window start.
func (r Region) Addr() guestmem.Addr {
	return r.addr
}

// MutAddr returns the identity address of the window start. Regions have a
// single projection, so it equals Addr.
func (r Region) MutAddr() guestmem.Addr {
	return r.addr
}

// Offset returns the window's offset in guest memory.
func (r Region) Offset() uint32 {
	return r.offset
}

// Len returns the window size in bytes.
func (r Region) Len() int {
	return len(r.view)
}

// Bytes returns the live view. Access must be covered by an outstanding
// loan over this region's address.
func (r Region) Bytes() []byte {
	return r.view
}

// TryBorrow requests a shared loan over the region.
func (r Region) TryBorrow(s *borrow.Scope) (*borrow.Ref[Region], error) {
	return borrow.TryShared(s, r)
}

// Borrow is TryBorrow but panics on conflict.
func (r Region) Borrow(s *borrow.Scope) *borrow.Ref[Region] {
	return borrow.Shared(s, r)
}

// TryBorrowMut requests the exclusive loan over the region.
func (r Region) TryBorrowMut(s *borrow.Scope) (*borrow.RefMut[Region], error) {
	return borrow.TryExclusive(s, r)
}

// BorrowMut is TryBorrowMut but panics on conflict.
func (r Region) BorrowMut(s *borrow.Scope) *borrow.RefMut[Region] {
	return borrow.Exclusive(s, r)
}

package region

import (
	guestmem "github.com/wippyai/guestmem"
	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/errors"
)

// Buffer is a borrowable target over host-owned bytes, for storage the
// host pins on the guest's behalf and hands out across calls. The slice
// must not be reallocated while targets over it are in use; appending
// would move the backing array and orphan the identity address.
type Buffer struct {
	data []byte
	addr guestmem.Addr
}

// Wrap makes data borrowable. Empty buffers are rejected for the same
// reason as zero-size regions.
func Wrap(data []byte) (Buffer, error) {
	if len(data) == 0 {
		return Buffer{}, errors.ZeroSize(errors.PhaseRegion, "buffer")
	}
	return Buffer{data: data, addr: guestmem.AddrOf(data)}, nil
}

// Addr returns the identity address of the backing array.
func (b Buffer) Addr() guestmem.Addr {
	return b.addr
}

// MutAddr returns the identity address of the backing array.
func (b Buffer) MutAddr() guestmem.Addr {
	return b.addr
}

// Len returns the buffer size in bytes.
func (b Buffer) Len() int {
	return len(b.data)
}

// Bytes returns the wrapped bytes. Access must be covered by an
// outstanding loan over this buffer's address.
func (b Buffer) Bytes() []byte {
	return b.data
}

// TryBorrow requests a shared loan over the buffer.
func (b Buffer) TryBorrow(s *borrow.Scope) (*borrow.Ref[Buffer], error) {
	return borrow.TryShared(s, b)
}

// Borrow is TryBorrow but panics on conflict.
func (b Buffer) Borrow(s *borrow.Scope) *borrow.Ref[Buffer] {
	return borrow.Shared(s, b)
}

// TryBorrowMut requests the exclusive loan over the buffer.
func (b Buffer) TryBorrowMut(s *borrow.Scope) (*borrow.RefMut[Buffer], error) {
	return borrow.TryExclusive(s, b)
}

// BorrowMut is TryBorrowMut but panics on conflict.
func (b Buffer) BorrowMut(s *borrow.Scope) *borrow.RefMut[Buffer] {
	return borrow.Exclusive(s, b)
}

package guestmem

import "unsafe"

// Addr identifies the backing storage of a borrowable target. Two targets
// alias when their addresses compare equal. The value is opaque: it is used
// only for ledger lookups and diagnostics, never dereferenced.
type Addr uintptr

// AddrOf derives the identity address of a byte view from its backing array.
// A zero-length view has no backing identity and reports the zero Addr.
func AddrOf(view []byte) Addr {
	if len(view) == 0 {
		return 0
	}
	return Addr(uintptr(unsafe.Pointer(unsafe.SliceData(view))))
}

// Pointer is implemented by borrowable targets: values that project a window
// onto memory owned by the guest runtime (or pinned host storage) and can
// name that memory's identity address.
//
// Addr and MutAddr report the same address for targets whose read and write
// projections cover the same storage. They differ only for targets that
// expose distinct read-only and writable windows.
type Pointer interface {
	// Addr returns the identity address checked when a shared loan is requested.
	Addr() Addr
	// MutAddr returns the identity address checked when an exclusive loan is
	// requested.
	MutAddr() Addr
}

// Memory is the guest runtime's linear memory as seen by borrowable targets.
// Read returns a live view aliasing the underlying storage, not a copy, so a
// target built from it observes guest writes and its identity address is
// stable for the lifetime of the backing memory.
//
// wazero's api.Memory satisfies this interface.
type Memory interface {
	// Read returns the bytes in [offset, offset+byteCount), or false if the
	// range is out of bounds.
	Read(offset, byteCount uint32) ([]byte, bool)
	// Size returns the current memory size in bytes.
	Size() uint32
}

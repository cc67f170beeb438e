package host

import (
	"github.com/tetratelabs/wazero/api"

	guestmem "github.com/wippyai/guestmem"
	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/errors"
	"github.com/wippyai/guestmem/region"
)

// wazero memory satisfies the root Memory interface region targets consume.
var _ guestmem.Memory = (api.Memory)(nil)

// Call carries the per-invocation state handed to a host Func: the calling
// guest module, the raw value stack, and the access scope bounding every
// loan taken while handling the call.
type Call struct {
	scope *borrow.Scope
	mod   api.Module
	stack []uint64
}

// Scope returns the call's access scope. It ends when the handler returns;
// guards must be released before then.
func (c *Call) Scope() *borrow.Scope {
	return c.scope
}

// Module returns the calling guest module.
func (c *Call) Module() api.Module {
	return c.mod
}

// Arg returns the i-th raw argument.
func (c *Call) Arg(i int) uint64 {
	return c.stack[i]
}

// U32 returns the i-th argument as an unsigned 32-bit integer.
func (c *Call) U32(i int) uint32 {
	return api.DecodeU32(c.stack[i])
}

// SetResult writes the i-th result slot.
func (c *Call) SetResult(i int, v uint64) {
	c.stack[i] = v
}

// Region carves a borrowable window out of the calling module's linear
// memory.
func (c *Call) Region(offset, size uint32) (region.Region, error) {
	mem := c.mod.Memory()
	if mem == nil {
		return region.Region{}, errors.NoMemory(c.mod.Name())
	}
	return region.FromMemory(mem, offset, size)
}

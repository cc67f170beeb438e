package main

import (
	"errors"
	"fmt"

	guestmem "github.com/wippyai/guestmem"
	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/region"
)

// arenaMemory is a pinned in-process arena standing in for guest linear
// memory, so scenarios can carve region windows without running an engine.
type arenaMemory []byte

func (m arenaMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	if uint64(offset)+uint64(byteCount) > uint64(len(m)) {
		return nil, false
	}
	return m[offset : offset+byteCount : offset+byteCount], true
}

func (m arenaMemory) Size() uint32 {
	return uint32(len(m))
}

type releaser interface {
	Release()
}

type target struct {
	name string
	kind string
	ptr  guestmem.Pointer
	size uint32
}

type loanState struct {
	shared    uint32
	exclusive bool
}

// StepResult is the outcome of playing one step.
type StepResult struct {
	Index    int
	Step     Step
	Err      error
	Events   []borrow.Event
	Expected bool
}

// TargetState is a display snapshot of one target's ledger entry.
type TargetState struct {
	Name  string
	Kind  string
	Size  uint32
	State string
}

// Runner plays a scenario's steps, one at a time, against a single access
// scope. It observes the scope so every ledger transition is captured for
// display.
type Runner struct {
	sc      *Scenario
	scope   *borrow.Scope
	targets map[string]target
	order   []string
	guards  map[string]releaser
	states  map[guestmem.Addr]loanState
	tap     []borrow.Event
	next    int
}

func newRunner(sc *Scenario) (*Runner, error) {
	r := &Runner{sc: sc}
	if err := r.Reset(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reset rebuilds the arena, targets and scope, rewinding the scenario to
// its first step.
func (r *Runner) Reset() error {
	r.scope = borrow.NewScope()
	r.scope.Subscribe(r)
	r.targets = make(map[string]target)
	r.order = nil
	r.guards = make(map[string]releaser)
	r.states = make(map[guestmem.Addr]loanState)
	r.tap = nil
	r.next = 0

	arena := make(arenaMemory, r.sc.Arena)
	for _, def := range r.sc.Regions {
		reg, err := region.FromMemory(arena, def.Offset, def.Size)
		if err != nil {
			return fmt.Errorf("region %q: %w", def.Name, err)
		}
		r.addTarget(def.Name, "region", reg, def.Size)
	}
	for _, def := range r.sc.Buffers {
		buf, err := region.Wrap(make([]byte, def.Size))
		if err != nil {
			return fmt.Errorf("buffer %q: %w", def.Name, err)
		}
		r.addTarget(def.Name, "buffer", buf, def.Size)
	}
	return nil
}

func (r *Runner) addTarget(name, kind string, ptr guestmem.Pointer, size uint32) {
	r.targets[name] = target{name: name, kind: kind, ptr: ptr, size: size}
	r.order = append(r.order, name)
}

// OnLoanEvent tracks ledger state for display.
func (r *Runner) OnLoanEvent(e borrow.Event) {
	r.tap = append(r.tap, e)

	st := r.states[e.Addr]
	switch e.Type {
	case borrow.EventSharedTaken, borrow.EventSharedSettled:
		st.shared = e.Shared
	case borrow.EventExclusiveTaken:
		st.exclusive = true
	case borrow.EventExclusiveSettled:
		st.exclusive = false
	case borrow.EventDenied:
		return
	}
	if st.shared == 0 && !st.exclusive {
		delete(r.states, e.Addr)
		return
	}
	r.states[e.Addr] = st
}

// Step plays the next step. The second return is false once the scenario
// is exhausted.
func (r *Runner) Step() (StepResult, bool) {
	if r.next >= len(r.sc.Steps) {
		return StepResult{}, false
	}
	step := r.sc.Steps[r.next]
	idx := r.next
	r.next++

	mark := len(r.tap)
	var err error
	switch step.Op {
	case opShared:
		ref, rerr := borrow.TryShared(r.scope, r.targets[step.Target].ptr)
		err = rerr
		if err == nil && step.As != "" {
			r.guards[step.As] = ref
		}
	case opExclusive:
		mut, rerr := borrow.TryExclusive(r.scope, r.targets[step.Target].ptr)
		err = rerr
		if err == nil && step.As != "" {
			r.guards[step.As] = mut
		}
	case opSettle:
		if g, ok := r.guards[step.Guard]; ok {
			g.Release()
			delete(r.guards, step.Guard)
		} else {
			err = fmt.Errorf("no live guard %q", step.Guard)
		}
	}

	res := StepResult{
		Index:  idx,
		Step:   step,
		Err:    err,
		Events: append([]borrow.Event(nil), r.tap[mark:]...),
	}
	res.Expected = expectationMet(step.Expect, err)
	return res, true
}

// Finish ends the scope and reports loans the scenario left outstanding.
func (r *Runner) Finish() *borrow.LeakError {
	var leak *borrow.LeakError
	if err := r.scope.End(); errors.As(err, &leak) {
		return leak
	}
	return nil
}

// Done reports whether every step has been played.
func (r *Runner) Done() bool {
	return r.next >= len(r.sc.Steps)
}

// Pos returns the index of the next step to play.
func (r *Runner) Pos() int {
	return r.next
}

// TargetStates snapshots every target's current loan state, in scenario
// order.
func (r *Runner) TargetStates() []TargetState {
	out := make([]TargetState, 0, len(r.order))
	for _, name := range r.order {
		tgt := r.targets[name]
		state := "unborrowed"
		if st, ok := r.states[tgt.ptr.Addr()]; ok {
			if st.exclusive {
				state = "exclusive"
			} else {
				state = fmt.Sprintf("shared(%d)", st.shared)
			}
		}
		out = append(out, TargetState{Name: name, Kind: tgt.kind, Size: tgt.size, State: state})
	}
	return out
}

func expectationMet(expect string, err error) bool {
	var lerr *borrow.LoanError
	switch expect {
	case expectOK:
		return err == nil
	case expectExclusiveHeld:
		return errors.As(err, &lerr) && lerr.Conflict == borrow.ConflictExclusiveHeld
	case expectFrozen:
		return errors.As(err, &lerr) && lerr.Conflict == borrow.ConflictFrozen
	default:
		return false
	}
}

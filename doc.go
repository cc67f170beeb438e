// Package guestmem provides dynamic borrow tracking for memory owned by a
// guest WebAssembly runtime and accessed from Go host functions.
//
// Guest linear memory is shared mutable state: the guest hands the host
// pointers into it during a call, and nothing in either language's type
// system stops the host from creating overlapping views. This library
// enforces the shared-XOR-exclusive aliasing discipline at runtime: any
// number of concurrent read loans over a memory region, or exactly one
// write loan, never both.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	guestmem/            Root package with Addr, Pointer and Memory interfaces
//	├── borrow/          Loan ledger, access scopes and RAII-style guards
//	├── region/          Borrowable targets over guest memory and host buffers
//	├── dispatch/        Panic boundary between native handlers and the guest
//	├── host/            wazero host-module binding with per-call scopes
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Borrow a region of guest memory inside a host function:
//
//	mod := host.NewModule("env").
//	    Func("fill", func(ctx context.Context, call *host.Call) error {
//	        reg, err := call.Region(call.U32(0), call.U32(1))
//	        if err != nil {
//	            return err
//	        }
//	        ref, err := reg.TryBorrowMut(call.Scope())
//	        if err != nil {
//	            return err
//	        }
//	        defer ref.Release()
//	        for i := range ref.Target().Bytes() {
//	            ref.Target().Bytes()[i] = 0xAA
//	        }
//	        return nil
//	    }, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil)
//
//	if _, err := mod.Instantiate(ctx, r); err != nil {
//	    log.Fatal(err)
//	}
//
// The scope handed to each call dies when the call returns; loans cannot
// outlive it. A handler that panics is stopped at the dispatch boundary and
// the failure is reported to the guest runtime as an ordinary call error.
//
// # Loan Discipline
//
// Every target address is in one of three states per scope: unborrowed,
// shared (n outstanding read loans), or exclusive (one write loan). TryShared
// and TryExclusive report conflicts as *borrow.LoanError; the panicking
// variants Shared and Exclusive are for handlers that treat a conflict as a
// bug and rely on the dispatch boundary to contain it.
//
// # Thread Safety
//
// A Scope and its guards are confined to the goroutine running the host
// call. Scopes are cheap; create one per call (the host package does this
// automatically) rather than sharing one across goroutines.
//
// # Memory Model
//
// Loans guard access, not liveness. A target's view aliases guest memory
// directly, so the guest runtime must keep the backing memory alive and
// unmoved for the duration of the call scope. Views must never be retained
// past scope end.
package guestmem

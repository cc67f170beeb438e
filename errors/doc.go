// Package errors provides structured error types for the guestmem library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the identity address the error concerns,
// the offending value, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRegion, errors.KindOutOfBounds).
//		Addr(addr).
//		Detail("range [%d, %d) exceeds memory size %d", off, end, size).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseRegion, offset, size, limit)
//	err := errors.Registration("env", "fill", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind, so callers can test for a category without
// reproducing the detail text.
//
// Loan conflicts are deliberately not represented here: a refused borrow is
// an expected outcome of the discipline, reported as borrow.LoanError, while
// this package covers failures of the machinery around it.
package errors

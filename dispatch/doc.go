// Package dispatch contains the failure boundary between native handler
// code and the guest runtime.
//
// A panic that escapes a handler must not cross into the engine as a raw
// Go panic value: the guest side can only consume an error. Guard runs a
// handler and converts any panic into a *HostError carrying a single
// truncated message line:
//
//	err := dispatch.Guard(func() error {
//	    return handler(ctx, call)
//	})
//
// String and error panic payloads keep their text after the standard
// marker; anything else is reported as the marker alone, since an arbitrary
// payload may not be printable. The process survives either way; crashing
// the embedder is never an acceptable way to report a handler bug.
package dispatch

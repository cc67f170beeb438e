// Package host binds borrow-disciplined handlers into a wazero runtime as
// an importable host module.
//
// Every exported function runs inside the full call machinery: a fresh
// borrow.Scope is created before the handler and ended after it, the
// handler body runs behind the dispatch boundary, and any failure
// (returned, panicked, or a leak discovered at scope end) is raised into
// the engine so the guest call that triggered it fails with an ordinary
// error while the embedding process keeps running.
//
//	mod := host.NewModule("env").
//	    Func("checksum", func(ctx context.Context, call *host.Call) error {
//	        reg, err := call.Region(call.U32(0), call.U32(1))
//	        if err != nil {
//	            return err
//	        }
//	        ref, err := reg.TryBorrow(call.Scope())
//	        if err != nil {
//	            return err
//	        }
//	        defer ref.Release()
//	        call.SetResult(0, uint64(sum(ref.Target().Bytes())))
//	        return nil
//	    }, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32})
//
//	if _, err := mod.Instantiate(ctx, r); err != nil {
//	    log.Fatal(err)
//	}
//
// The scope dies when the call returns, so loans cannot cross calls and a
// leaked guard is caught immediately rather than poisoning later calls.
package host

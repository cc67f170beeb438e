package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/dispatch"
	"github.com/wippyai/guestmem/errors"
)

// Func is a host function body. It runs under a fresh access scope;
// returning a non-nil error fails the guest call that invoked it.
type Func func(ctx context.Context, call *Call) error

type fnDef struct {
	name    string
	fn      Func
	params  []api.ValueType
	results []api.ValueType
}

// ModuleBuilder assembles a host module whose exported functions each run
// under a per-call scope behind the dispatch boundary.
type ModuleBuilder struct {
	name      string
	funcs     []fnDef
	observers []borrow.Observer
}

// NewModule starts a host module with the given import name.
func NewModule(name string) *ModuleBuilder {
	return &ModuleBuilder{name: name}
}

// Func adds an exported function to the module.
func (b *ModuleBuilder) Func(name string, fn Func, params, results []api.ValueType) *ModuleBuilder {
	b.funcs = append(b.funcs, fnDef{name: name, fn: fn, params: params, results: results})
	return b
}

// Observe subscribes o to the loan events of every call scope this module
// creates.
func (b *ModuleBuilder) Observe(o borrow.Observer) *ModuleBuilder {
	b.observers = append(b.observers, o)
	return b
}

// Instantiate registers the module with the runtime, making its functions
// importable by guest modules.
func (b *ModuleBuilder) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	if b.name == "" {
		return nil, errors.InvalidInput(errors.PhaseBind, "module name cannot be empty")
	}

	builder := r.NewHostModuleBuilder(b.name)
	for _, def := range b.funcs {
		if def.name == "" {
			return nil, errors.InvalidInput(errors.PhaseBind, "function name cannot be empty")
		}
		if def.fn == nil {
			return nil, errors.Registration(b.name, def.name, errors.InvalidInput(errors.PhaseBind, "nil handler"))
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(b.adapt(def), def.params, def.results).
			Export(def.name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Instantiation(b.name, err)
	}

	Logger().Debug("host module instantiated",
		zap.String("module", b.name),
		zap.Int("funcs", len(b.funcs)))
	return mod, nil
}

// adapt wraps def in the per-call machinery: fresh scope, dispatch guard,
// scope teardown, failure escalation.
func (b *ModuleBuilder) adapt(def fnDef) api.GoModuleFunc {
	moduleName := b.name
	observers := b.observers
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		scope := borrow.NewScope()
		for _, o := range observers {
			scope.Subscribe(o)
		}
		call := &Call{scope: scope, mod: mod, stack: stack}

		err := dispatch.Guard(func() error {
			return def.fn(ctx, call)
		})

		if endErr := scope.End(); endErr != nil {
			Logger().Error("call scope leaked loans",
				zap.String("module", moduleName),
				zap.String("func", def.name),
				zap.Error(endErr))
			if err == nil {
				err = dispatch.Internal(endErr.Error())
			}
		}

		if err != nil {
			Logger().Warn("host function failed",
				zap.String("module", moduleName),
				zap.String("func", def.name),
				zap.Error(err))
			// The engine recovers this and reports it as the error of the
			// guest call in progress. The scope is already torn down.
			panic(err)
		}
	}
}

// Package builder records wyvern compute programs.
//
// A Builder owns the symbol store, the I/O and storage directories, and a
// stack of body frames that operations are recorded into. Contexts are the
// user-facing surface: they map user identifiers to variable and array
// tokens, materialize host literals, and drive control-flow recording.
//
//	b := builder.New()
//	ctx := b.NewContext()
//
//	_ = ctx.DeclVariable("n", wyvern.U32, wyvern.Input)
//	_ = ctx.DeclArray("data", wyvern.F32, wyvern.Input, 1024, 1024)
//
//	tid, _ := ctx.WorkerID()
//	_ = ctx.Set("i", tid)
//
//	prog, err := b.Finalize()
//
// # Values
//
// Every expression-producing call returns a Value: a small handle carrying
// the builder, the result type, and the token of the single-assignment slot
// holding the result. Operator methods on Value accept either another Value
// or a host literal; literals are materialized as Constant operations using
// the implicit typing rules (non-negative integers are U32, negative
// integers are I32, floats are F32, booleans are Bool).
//
// # Control flow
//
// If, IfElse, and While take condition and body callbacks. Each callback is
// invoked exactly once, and the operations it records are captured in a
// nested frame belonging to the resulting control-flow record:
//
//	err := ctx.While(
//	    func() (builder.Value, error) {
//	        i, err := ctx.Get("i")
//	        if err != nil {
//	            return builder.Value{}, err
//	        }
//	        return i.Lt(n)
//	    },
//	    func() error {
//	        // loop body
//	        return nil
//	    },
//	)
//
// # Errors
//
// All methods fail synchronously with structured errors from the errors
// package. A failed call appends no operation of its own. Host literal
// operands are materialized before the checks run, so their Constant
// operations stay behind when a later check fails; already-allocated token or
// label IDs are not reused.
// After Finalize the builder is sealed and every mutating call fails.
package builder

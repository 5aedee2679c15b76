// Package wyvern provides a host-embedded builder for data-parallel compute
// programs. An application assembles a single kernel body as a typed
// intermediate representation and emits it as a self-describing JSON document
// for a downstream executor such as a GPU runtime.
//
// # Architecture Overview
//
// The library is organized into a small set of packages with distinct
// responsibilities:
//
//	wyvern/          Root package with the DataType and IoType vocabularies
//	├── builder/     Program builder: contexts, values, control flow
//	├── program/     Serialized document model, encode/decode, validation
//	├── errors/      Structured error types for debugging
//	└── cmd/wyvern/  Document inspector CLI
//
// # Quick Start
//
// Build a program that adds one to its input:
//
//	b := builder.New()
//	ctx := b.NewContext()
//
//	if err := ctx.DeclVariable("n", wyvern.U32, wyvern.Input); err != nil {
//	    log.Fatal(err)
//	}
//	n, _ := ctx.Get("n")
//	sum, _ := n.Add(1)
//	_ = ctx.Set("x", sum)
//
//	prog, err := b.Finalize()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, _ := json.Marshal(prog)
//
// # Type System
//
// Programs operate over four primitive types: signed and unsigned 32-bit
// integers, IEEE-754 single precision floats, and booleans. There are no
// implicit conversions between numeric types; cross-type moves are explicit
// conversion operations emitted by the cast helpers on Context.
//
// # Execution Model
//
// The target program is data-parallel: the executor runs the kernel body once
// per worker, and the body distinguishes workers through the WorkerId and
// NumWorkers primitives. The builder records this parallelism declaratively
// and never executes anything itself.
//
// # Thread Safety
//
// A Builder is single-threaded and not reentrant. Distinct Builders are fully
// independent; values created in one may not participate in operations of
// another.
package wyvern

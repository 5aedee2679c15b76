// Package errors provides structured error types for the wyvern library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the offending user identifier where one
// exists and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseBuild, errors.KindTypeError).
//		Name("acc").
//		Detail("Add expects numeric operands, got Bool").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownName("tid")
//	err := errors.TypeMismatch("acc", "U32", "F32")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors

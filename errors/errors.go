package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild    Phase = "build"    // recording operations
	PhaseFinalize Phase = "finalize" // sealing a program
	PhaseDecode   Phase = "decode"   // parsing a serialized document
	PhaseValidate Phase = "validate" // structural document checks
)

// Kind categorizes the error
type Kind string

const (
	KindNameConflict Kind = "name_conflict" // name already declared in this context or bound as I/O
	KindUnknownName  Kind = "unknown_name"  // read of an undeclared name
	KindTypeError    Kind = "type_error"    // operand types outside an operation's admissible set
	KindTypeMismatch Kind = "type_mismatch" // store vs. declared variable type disagree
	KindCrossProgram Kind = "cross_program" // operands from different builders combined
	KindValueError   Kind = "value_error"   // literal outside its representable range
	KindUnbalanced   Kind = "unbalanced"    // finalize while a control frame is still open
	KindSealed       Kind = "sealed"        // mutation after finalize
	KindInvalidData  Kind = "invalid_data"  // malformed serialized document
	KindUnknownOp    Kind = "unknown_op"    // unrecognized operation tag
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Name   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Name != "" {
		b.WriteString(" at ")
		b.WriteString(e.Name)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Name sets the offending user identifier
func (b *Builder) Name(name string) *Builder {
	b.err.Name = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NameConflict reports a redeclaration of name within one context, or an
// input/output name already bound anywhere in the program.
func NameConflict(name string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindNameConflict,
		Name:   name,
		Detail: fmt.Sprintf("name %q already declared", name),
	}
}

// UnknownName reports a read of an undeclared name.
func UnknownName(name string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindUnknownName,
		Name:   name,
		Detail: fmt.Sprintf("name %q not declared", name),
	}
}

// TypeError reports operand types outside an operation's admissible set.
func TypeError(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindTypeError,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// TypeMismatch reports a store whose value type disagrees with the declared
// variable type.
func TypeMismatch(name, want, got string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindTypeMismatch,
		Name:   name,
		Detail: fmt.Sprintf("declared %s, stored %s", want, got),
	}
}

// CrossProgram reports operands from different builders combined in one
// operation.
func CrossProgram() *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindCrossProgram,
		Detail: "operands belong to different builders",
	}
}

// ValueError reports a literal outside its representable range.
func ValueError(value any, targetType string) *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindValueError,
		Detail: fmt.Sprintf("literal %v out of range for %s", value, targetType),
	}
}

// Unbalanced reports a finalize call while control frames are still open.
func Unbalanced(depth int) *Error {
	return &Error{
		Phase:  PhaseFinalize,
		Kind:   KindUnbalanced,
		Detail: fmt.Sprintf("%d control frame(s) still open", depth),
	}
}

// Sealed reports mutation of a finalized builder.
func Sealed() *Error {
	return &Error{
		Phase:  PhaseBuild,
		Kind:   KindSealed,
		Detail: "program already finalized",
	}
}

// InvalidData reports a malformed serialized document.
func InvalidData(phase Phase, detail string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// UnknownOp reports an unrecognized operation tag in a serialized document.
func UnknownOp(phase Phase, tag string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownOp,
		Detail: fmt.Sprintf("unknown operation tag %q", tag),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

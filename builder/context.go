package builder

import (
	"go.uber.org/zap"

	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
	"github.com/wyvern-compute/wyvern/program"
)

type slotKind uint8

const (
	slotVariable slotKind = iota
	slotArray
)

type slot struct {
	tid  program.Token
	ty   wyvern.DataType
	kind slotKind
}

// Context is the user-facing recording surface of a Builder. It associates
// user identifiers with variable and array tokens; several contexts over one
// builder have independent namespaces but share the program's I/O
// directories.
type Context struct {
	b    *Builder
	vars map[string]slot
}

// Builder returns the builder this context records into.
func (c *Context) Builder() *Builder { return c.b }

// DeclVariable declares a named scalar variable. Input and output
// declarations are additionally bound in the program's I/O directories.
func (c *Context) DeclVariable(name string, ty wyvern.DataType, io wyvern.IoType) error {
	if err := c.b.ensureOpen(); err != nil {
		return err
	}
	if _, ok := c.vars[name]; ok {
		return errors.NameConflict(name)
	}
	if io.Shared() {
		if err := c.b.checkIO(name); err != nil {
			return err
		}
	}
	tid := c.b.newVariable(ty)
	c.vars[name] = slot{tid: tid, ty: ty, kind: slotVariable}
	if io.Shared() {
		c.b.bindIO(name, tid, io)
	}

	Logger().Debug("variable declared",
		zap.String("name", name),
		zap.Stringer("type", ty),
		zap.Stringer("io", io),
		zap.Uint32("token", uint32(tid)),
	)
	return nil
}

// DeclArray declares a named array with a runtime length and a compile-time
// maximum length, and emits its ArrayNew operation. The size may be a U32
// value or a host integer literal; input and output arrays use shared
// storage.
func (c *Context) DeclArray(name string, ty wyvern.DataType, io wyvern.IoType, size any, maxSize uint32) error {
	if err := c.b.ensureOpen(); err != nil {
		return err
	}
	if _, ok := c.vars[name]; ok {
		return errors.NameConflict(name)
	}
	sz, err := c.b.coerce(size)
	if err != nil {
		return err
	}
	if sz.b != c.b {
		return errors.CrossProgram()
	}
	if sz.ty != wyvern.U32 {
		return errors.TypeError("array size must be U32, got %s", sz.ty)
	}
	if io.Shared() {
		if err := c.b.checkIO(name); err != nil {
			return err
		}
	}
	tid := c.b.newArray(ty)
	c.vars[name] = slot{tid: tid, ty: ty, kind: slotArray}
	if io.Shared() {
		c.b.bindIO(name, tid, io)
	}
	c.b.append(&program.ArrayNew{
		Array:   tid,
		Size:    sz.tid,
		Elem:    ty,
		MaxSize: maxSize,
		Shared:  io.Shared(),
	})
	class := program.StoragePrivateArray
	if io.Shared() {
		class = program.StorageSharedArray
	}
	c.b.storage[tid] = program.StorageEntry{Class: class, Type: ty, MaxSize: maxSize}

	Logger().Debug("array declared",
		zap.String("name", name),
		zap.Stringer("type", ty),
		zap.Stringer("io", io),
		zap.Uint32("max_size", maxSize),
		zap.Uint32("token", uint32(tid)),
	)
	return nil
}

// Get reads a named variable: it emits a Load into a fresh slot and returns
// the value. Reading an undeclared name fails; array names are accessed
// through Array instead.
func (c *Context) Get(name string) (Value, error) {
	if err := c.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	s, ok := c.vars[name]
	if !ok {
		return Value{}, errors.UnknownName(name)
	}
	if s.kind != slotVariable {
		return Value{}, errors.TypeError("name %q is an array; use Array to access it", name)
	}
	tid := c.b.newConstant(s.ty)
	c.b.append(&program.Load{Result: tid, Var: s.tid})
	return Value{b: c.b, ty: s.ty, tid: tid}, nil
}

// Set assigns a value to a named variable, emitting a Store. Writing to an
// undeclared name implicitly declares a private variable of the value's
// type; writing to a declared one requires the types to agree.
func (c *Context) Set(name string, value any) error {
	if err := c.b.ensureOpen(); err != nil {
		return err
	}
	v, err := c.b.coerce(value)
	if err != nil {
		return err
	}
	if v.b != c.b {
		return errors.CrossProgram()
	}
	s, ok := c.vars[name]
	if ok {
		if s.kind != slotVariable {
			return errors.TypeMismatch(name, "array "+s.ty.String(), v.ty.String())
		}
		if v.ty != s.ty {
			return errors.TypeMismatch(name, s.ty.String(), v.ty.String())
		}
		c.b.append(&program.Store{Var: s.tid, Value: v.tid})
		return nil
	}
	tid := c.b.newVariable(v.ty)
	c.vars[name] = slot{tid: tid, ty: v.ty, kind: slotVariable}
	c.b.append(&program.Store{Var: tid, Value: v.tid})
	return nil
}

// Array returns an accessor for a declared array.
func (c *Context) Array(name string) (ArrayRef, error) {
	if err := c.b.ensureOpen(); err != nil {
		return ArrayRef{}, err
	}
	s, ok := c.vars[name]
	if !ok {
		return ArrayRef{}, errors.UnknownName(name)
	}
	if s.kind != slotArray {
		return ArrayRef{}, errors.TypeError("name %q is a variable, not an array", name)
	}
	return ArrayRef{b: c.b, elem: s.ty, tid: s.tid}, nil
}

// WorkerID allocates a fresh U32 slot populated per worker by the executor.
func (c *Context) WorkerID() (Value, error) {
	return c.nullary(program.OpWorkerID)
}

// NumWorkers allocates a fresh U32 slot holding the worker count.
func (c *Context) NumWorkers() (Value, error) {
	return c.nullary(program.OpNumWorkers)
}

func (c *Context) nullary(op program.OpTag) (Value, error) {
	if err := c.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	tid := c.b.newConstant(wyvern.U32)
	c.b.append(&program.Nullary{Op: op, Result: tid})
	return Value{b: c.b, ty: wyvern.U32, tid: tid}, nil
}

// CondFunc computes a condition. Its operations are captured in the
// construct's condition list; it must return a Bool value.
type CondFunc func() (Value, error)

// BodyFunc records a branch or loop body.
type BodyFunc func() error

// recordCond runs cond in its own frame and returns the captured operations
// plus the condition slot.
func (c *Context) recordCond(cond CondFunc, tag program.OpTag) (program.OpList, program.Token, error) {
	c.b.pushFrame()
	v, err := cond()
	if err != nil {
		c.b.popFrame()
		return nil, 0, err
	}
	if v.b != c.b {
		c.b.popFrame()
		return nil, 0, errors.CrossProgram()
	}
	if v.ty != wyvern.Bool {
		c.b.popFrame()
		return nil, 0, errors.TypeError("%s condition must be Bool, got %s", tag, v.ty)
	}
	return c.b.popFrame(), v.tid, nil
}

// recordBody runs body in its own frame and returns the captured operations.
func (c *Context) recordBody(body BodyFunc) (program.OpList, error) {
	c.b.pushFrame()
	if err := body(); err != nil {
		c.b.popFrame()
		return nil, err
	}
	return c.b.popFrame(), nil
}

// If records a one-armed conditional. The condition and body callbacks are
// each invoked exactly once; the construct's labels are allocated in
// positional order when it is appended.
func (c *Context) If(cond CondFunc, body BodyFunc) error {
	if err := c.b.ensureOpen(); err != nil {
		return err
	}
	condOps, condSlot, err := c.recordCond(cond, program.OpIf)
	if err != nil {
		return err
	}
	thenOps, err := c.recordBody(body)
	if err != nil {
		return err
	}
	condEnd := c.b.freshLabel()
	thenEnd := c.b.freshLabel()
	c.b.append(&program.If{
		Cond:     condOps,
		CondSlot: condSlot,
		CondEnd:  condEnd,
		Then:     thenOps,
		ThenEnd:  thenEnd,
	})
	Logger().Debug("if recorded",
		zap.Int("cond_ops", len(condOps)),
		zap.Int("then_ops", len(thenOps)),
	)
	return nil
}

// IfElse records a two-armed conditional.
func (c *Context) IfElse(cond CondFunc, then, otherwise BodyFunc) error {
	if err := c.b.ensureOpen(); err != nil {
		return err
	}
	condOps, condSlot, err := c.recordCond(cond, program.OpIfElse)
	if err != nil {
		return err
	}
	thenOps, err := c.recordBody(then)
	if err != nil {
		return err
	}
	elseOps, err := c.recordBody(otherwise)
	if err != nil {
		return err
	}
	condEnd := c.b.freshLabel()
	thenEnd := c.b.freshLabel()
	elseEnd := c.b.freshLabel()
	c.b.append(&program.IfElse{
		Cond:     condOps,
		CondSlot: condSlot,
		CondEnd:  condEnd,
		Then:     thenOps,
		ThenEnd:  thenEnd,
		Else:     elseOps,
		ElseEnd:  elseEnd,
	})
	Logger().Debug("if-else recorded",
		zap.Int("cond_ops", len(condOps)),
		zap.Int("then_ops", len(thenOps)),
		zap.Int("else_ops", len(elseOps)),
	)
	return nil
}

// While records a pre-tested loop. The condition list is re-evaluated by the
// executor on every iteration.
func (c *Context) While(cond CondFunc, body BodyFunc) error {
	if err := c.b.ensureOpen(); err != nil {
		return err
	}
	condOps, condSlot, err := c.recordCond(cond, program.OpWhile)
	if err != nil {
		return err
	}
	bodyOps, err := c.recordBody(body)
	if err != nil {
		return err
	}
	head := c.b.freshLabel()
	condEnd := c.b.freshLabel()
	exit := c.b.freshLabel()
	c.b.append(&program.While{
		Head:     head,
		Cond:     condOps,
		CondSlot: condSlot,
		CondEnd:  condEnd,
		Body:     bodyOps,
		Exit:     exit,
	})
	Logger().Debug("while recorded",
		zap.Int("cond_ops", len(condOps)),
		zap.Int("body_ops", len(bodyOps)),
	)
	return nil
}

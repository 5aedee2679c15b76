package builder

import (
	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
	"github.com/wyvern-compute/wyvern/program"
)

// ArrayRef is an accessor for a declared array. Like Value it is a small
// handle and stays valid for the lifetime of its builder.
type ArrayRef struct {
	b    *Builder
	elem wyvern.DataType
	tid  program.Token
}

// Elem returns the array's element type.
func (a ArrayRef) Elem() wyvern.DataType { return a.elem }

// Token returns the array's token.
func (a ArrayRef) Token() program.Token { return a.tid }

// index coerces a host integer literal or U32 value into the index slot.
func (a ArrayRef) index(key any) (Value, error) {
	k, err := a.b.coerce(key)
	if err != nil {
		return Value{}, err
	}
	if k.b != a.b {
		return Value{}, errors.CrossProgram()
	}
	if k.ty != wyvern.U32 {
		return Value{}, errors.TypeError("array index must be U32, got %s", k.ty)
	}
	return k, nil
}

// Load reads the element at key into a fresh slot.
func (a ArrayRef) Load(key any) (Value, error) {
	if err := a.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	k, err := a.index(key)
	if err != nil {
		return Value{}, err
	}
	tid := a.b.newConstant(a.elem)
	a.b.append(&program.ArrayLoad{Result: tid, Array: a.tid, Index: k.tid})
	return Value{b: a.b, ty: a.elem, tid: tid}, nil
}

// Store writes value to the element at key. The value's type must match the
// element type.
func (a ArrayRef) Store(key, value any) error {
	if err := a.b.ensureOpen(); err != nil {
		return err
	}
	k, err := a.index(key)
	if err != nil {
		return err
	}
	v, err := a.b.coerce(value)
	if err != nil {
		return err
	}
	if v.b != a.b {
		return errors.CrossProgram()
	}
	if v.ty != a.elem {
		return errors.TypeError("cannot store %s into %s array", v.ty, a.elem)
	}
	a.b.append(&program.ArrayStore{Array: a.tid, Index: k.tid, Value: v.tid})
	return nil
}

// Len reads the array's runtime length into a fresh U32 slot.
func (a ArrayRef) Len() (Value, error) {
	if err := a.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	tid := a.b.newConstant(wyvern.U32)
	a.b.append(&program.ArrayLen{Result: tid, Array: a.tid})
	return Value{b: a.b, ty: wyvern.U32, tid: tid}, nil
}

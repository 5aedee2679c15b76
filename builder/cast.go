package builder

import (
	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
	"github.com/wyvern-compute/wyvern/program"
)

// The cast helpers accept either a host literal, which materializes a
// Constant of the target type, or an existing value, which emits the fixed
// conversion operation. Casting a value to its own type is an identity: the
// returned handle shares the source's slot and nothing is emitted.

// hostInt extracts an integer from the host literal forms the casts accept.
// Floats truncate toward zero.
func hostInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		if n >= 1<<63 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func hostFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case int:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint32:
		return float32(n), true
	case uint64:
		return float32(n), true
	case float32:
		return n, true
	case float64:
		return float32(n), true
	default:
		return 0, false
	}
}

// convert emits the conversion op carrying val into ty.
func (b *Builder) convert(val Value, op program.OpTag, ty wyvern.DataType) Value {
	tid := b.newConstant(ty)
	b.append(&program.Unary{Op: op, Result: tid, Operand: val.tid})
	return Value{b: b, ty: ty, tid: tid}
}

// Int32 casts to I32.
func (c *Context) Int32(v any) (Value, error) {
	if err := c.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	if val, ok := v.(Value); ok {
		if val.b != c.b {
			return Value{}, errors.CrossProgram()
		}
		switch val.ty {
		case wyvern.I32:
			return val, nil
		case wyvern.U32:
			return c.b.convert(val, program.OpI32FromU32, wyvern.I32), nil
		case wyvern.F32:
			return c.b.convert(val, program.OpI32FromF32, wyvern.I32), nil
		default:
			return Value{}, errors.TypeError("cannot cast %s value to I32", val.ty)
		}
	}
	n, ok := hostInt(v)
	if !ok {
		return Value{}, errors.TypeError("cannot cast %T to I32", v)
	}
	if n < -(1<<31) || n >= 1<<31 {
		return Value{}, errors.ValueError(n, "I32")
	}
	return c.b.constant(wyvern.I32, program.LitI32(int32(n))), nil
}

// Uint32 casts to U32.
func (c *Context) Uint32(v any) (Value, error) {
	if err := c.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	if val, ok := v.(Value); ok {
		if val.b != c.b {
			return Value{}, errors.CrossProgram()
		}
		switch val.ty {
		case wyvern.U32:
			return val, nil
		case wyvern.I32:
			return c.b.convert(val, program.OpU32FromI32, wyvern.U32), nil
		case wyvern.F32:
			return c.b.convert(val, program.OpU32FromF32, wyvern.U32), nil
		default:
			return Value{}, errors.TypeError("cannot cast %s value to U32", val.ty)
		}
	}
	n, ok := hostInt(v)
	if !ok {
		return Value{}, errors.TypeError("cannot cast %T to U32", v)
	}
	if n < 0 || n >= 1<<32 {
		return Value{}, errors.ValueError(n, "U32")
	}
	return c.b.constant(wyvern.U32, program.LitU32(uint32(n))), nil
}

// Float32 casts to F32.
func (c *Context) Float32(v any) (Value, error) {
	if err := c.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	if val, ok := v.(Value); ok {
		if val.b != c.b {
			return Value{}, errors.CrossProgram()
		}
		switch val.ty {
		case wyvern.F32:
			return val, nil
		case wyvern.I32:
			return c.b.convert(val, program.OpF32FromI32, wyvern.F32), nil
		case wyvern.U32:
			return c.b.convert(val, program.OpF32FromU32, wyvern.F32), nil
		default:
			return Value{}, errors.TypeError("cannot cast %s value to F32", val.ty)
		}
	}
	f, ok := hostFloat(v)
	if !ok {
		return Value{}, errors.TypeError("cannot cast %T to F32", v)
	}
	return c.b.constant(wyvern.F32, program.LitF32(f)), nil
}

// Bool casts to Bool. Only boolean literals and Bool values are accepted;
// there is no conversion operation from the numeric types.
func (c *Context) Bool(v any) (Value, error) {
	if err := c.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	switch val := v.(type) {
	case Value:
		if val.b != c.b {
			return Value{}, errors.CrossProgram()
		}
		if val.ty != wyvern.Bool {
			return Value{}, errors.TypeError("cannot cast %s value to Bool", val.ty)
		}
		return val, nil
	case bool:
		return c.b.constant(wyvern.Bool, program.LitBool(val)), nil
	default:
		return Value{}, errors.TypeError("cannot cast %T to Bool", v)
	}
}

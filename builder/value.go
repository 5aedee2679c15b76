package builder

import (
	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
	"github.com/wyvern-compute/wyvern/program"
)

// Value is a typed expression result: a handle on the single-assignment slot
// holding it. Values are small and copied freely; they stay valid for the
// lifetime of their builder.
type Value struct {
	b   *Builder
	ty  wyvern.DataType
	tid program.Token
}

// Type returns the value's program type.
func (v Value) Type() wyvern.DataType { return v.ty }

// Token returns the constant slot holding the value.
func (v Value) Token() program.Token { return v.tid }

// coerce materializes a host literal as a Constant operation, or passes an
// existing Value through. Non-negative integers become U32, negative
// integers I32, floats F32, booleans Bool.
func (b *Builder) coerce(v any) (Value, error) {
	switch val := v.(type) {
	case Value:
		return val, nil
	case int:
		return b.coerceInt(int64(val))
	case int32:
		return b.coerceInt(int64(val))
	case int64:
		return b.coerceInt(val)
	case uint32:
		return b.constant(wyvern.U32, program.LitU32(val)), nil
	case uint64:
		if val >= 1<<32 {
			return Value{}, errors.ValueError(val, "U32")
		}
		return b.constant(wyvern.U32, program.LitU32(uint32(val))), nil
	case float32:
		return b.constant(wyvern.F32, program.LitF32(val)), nil
	case float64:
		return b.constant(wyvern.F32, program.LitF32(float32(val))), nil
	case bool:
		return b.constant(wyvern.Bool, program.LitBool(val)), nil
	default:
		return Value{}, errors.TypeError("cannot use %T as a program value", v)
	}
}

func (b *Builder) coerceInt(v int64) (Value, error) {
	if v >= 0 {
		if v >= 1<<32 {
			return Value{}, errors.ValueError(v, "U32")
		}
		return b.constant(wyvern.U32, program.LitU32(uint32(v))), nil
	}
	if v < -(1 << 31) {
		return Value{}, errors.ValueError(v, "I32")
	}
	return b.constant(wyvern.I32, program.LitI32(int32(v))), nil
}

// constant allocates a fresh slot and records the Constant operation.
func (b *Builder) constant(ty wyvern.DataType, lit program.Literal) Value {
	tid := b.newConstant(ty)
	b.append(&program.Constant{Result: tid, Value: lit})
	return Value{b: b, ty: ty, tid: tid}
}

func admitsArithmetic(ty wyvern.DataType) bool { return ty.Numeric() }
func admitsShift(ty wyvern.DataType) bool      { return ty.Integer() }
func admitsBitwise(ty wyvern.DataType) bool {
	return ty.Integer() || ty == wyvern.Bool
}
func admitsAny(wyvern.DataType) bool { return true }

// binary implements the shared protocol of every two-operand operator:
// coerce the right-hand literal, reject cross-builder operands, validate the
// admissible type set, allocate the result slot, and append the record.
func (v Value) binary(op program.OpTag, rhs any, admits func(wyvern.DataType) bool, toBool bool) (Value, error) {
	if v.b == nil {
		return Value{}, errors.TypeError("operand is the zero Value")
	}
	if err := v.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	w, err := v.b.coerce(rhs)
	if err != nil {
		return Value{}, err
	}
	if w.b != v.b {
		return Value{}, errors.CrossProgram()
	}
	if v.ty != w.ty {
		return Value{}, errors.TypeError("%s operands disagree: %s vs %s", op, v.ty, w.ty)
	}
	if !admits(v.ty) {
		return Value{}, errors.TypeError("%s does not admit %s operands", op, v.ty)
	}
	resultType := v.ty
	if toBool {
		resultType = wyvern.Bool
	}
	tid := v.b.newConstant(resultType)
	v.b.append(&program.Binary{Op: op, Result: tid, LHS: v.tid, RHS: w.tid})
	return Value{b: v.b, ty: resultType, tid: tid}, nil
}

func (v Value) unary(op program.OpTag, admits func(wyvern.DataType) bool) (Value, error) {
	if v.b == nil {
		return Value{}, errors.TypeError("operand is the zero Value")
	}
	if err := v.b.ensureOpen(); err != nil {
		return Value{}, err
	}
	if !admits(v.ty) {
		return Value{}, errors.TypeError("%s does not admit %s operands", op, v.ty)
	}
	tid := v.b.newConstant(v.ty)
	v.b.append(&program.Unary{Op: op, Result: tid, Operand: v.tid})
	return Value{b: v.b, ty: v.ty, tid: tid}, nil
}

// Add emits an addition. Operands must share one of the numeric types.
func (v Value) Add(rhs any) (Value, error) {
	return v.binary(program.OpAdd, rhs, admitsArithmetic, false)
}

// Sub emits a subtraction.
func (v Value) Sub(rhs any) (Value, error) {
	return v.binary(program.OpSub, rhs, admitsArithmetic, false)
}

// Mul emits a multiplication.
func (v Value) Mul(rhs any) (Value, error) {
	return v.binary(program.OpMul, rhs, admitsArithmetic, false)
}

// Div emits a division. Integer operands divide as integers, F32 as IEEE;
// rounding policy is the executor's.
func (v Value) Div(rhs any) (Value, error) {
	return v.binary(program.OpDiv, rhs, admitsArithmetic, false)
}

// Rem emits a remainder. Signed remainders follow the sign of the dividend.
func (v Value) Rem(rhs any) (Value, error) {
	return v.binary(program.OpRem, rhs, admitsArithmetic, false)
}

// Shl emits a left shift. Operands must share one of the integer types.
func (v Value) Shl(rhs any) (Value, error) {
	return v.binary(program.OpShl, rhs, admitsShift, false)
}

// Shr emits a right shift.
func (v Value) Shr(rhs any) (Value, error) {
	return v.binary(program.OpShr, rhs, admitsShift, false)
}

// And emits a bitwise and (logical on Bool operands).
func (v Value) And(rhs any) (Value, error) {
	return v.binary(program.OpBitAnd, rhs, admitsBitwise, false)
}

// Or emits a bitwise or (logical on Bool operands).
func (v Value) Or(rhs any) (Value, error) {
	return v.binary(program.OpBitOr, rhs, admitsBitwise, false)
}

// Xor emits a bitwise xor (logical on Bool operands).
func (v Value) Xor(rhs any) (Value, error) {
	return v.binary(program.OpBitXor, rhs, admitsBitwise, false)
}

// Not emits a bitwise complement on integer operands or a logical negation
// on Bool operands.
func (v Value) Not() (Value, error) {
	return v.unary(program.OpNot, admitsBitwise)
}

// Neg emits an arithmetic negation.
func (v Value) Neg() (Value, error) {
	return v.unary(program.OpNeg, admitsArithmetic)
}

// Eq emits an equality comparison; the result is Bool.
func (v Value) Eq(rhs any) (Value, error) {
	return v.binary(program.OpEq, rhs, admitsAny, true)
}

// Ne emits an inequality comparison; the result is Bool.
func (v Value) Ne(rhs any) (Value, error) {
	return v.binary(program.OpNe, rhs, admitsAny, true)
}

// Lt emits a less-than comparison; the result is Bool.
func (v Value) Lt(rhs any) (Value, error) {
	return v.binary(program.OpLt, rhs, admitsArithmetic, true)
}

// Le emits a less-or-equal comparison; the result is Bool.
func (v Value) Le(rhs any) (Value, error) {
	return v.binary(program.OpLe, rhs, admitsArithmetic, true)
}

// Gt emits a greater-than comparison; the result is Bool.
func (v Value) Gt(rhs any) (Value, error) {
	return v.binary(program.OpGt, rhs, admitsArithmetic, true)
}

// Ge emits a greater-or-equal comparison; the result is Bool.
func (v Value) Ge(rhs any) (Value, error) {
	return v.binary(program.OpGe, rhs, admitsArithmetic, true)
}

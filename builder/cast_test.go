package builder

import (
	"testing"

	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
	"github.com/wyvern-compute/wyvern/program"
)

func TestIdentityCastSharesSlot(t *testing.T) {
	b := New()
	ctx := b.NewContext()

	uVal, uErr := ctx.Uint32(7)
	u := mustValue(t, uVal, uErr)
	before := len(b.frames[0])

	sameVal, sameErr := ctx.Uint32(u)
	same := mustValue(t, sameVal, sameErr)
	if same.Token() != u.Token() {
		t.Errorf("identity cast allocated a new slot: %d != %d", same.Token(), u.Token())
	}
	if got := len(b.frames[0]); got != before {
		t.Errorf("identity cast appended %d operation(s)", got-before)
	}
}

func TestConversionCatalogue(t *testing.T) {
	tests := []struct {
		name string
		from wyvern.DataType
		cast func(*Context, any) (Value, error)
		tag  program.OpTag
		to   wyvern.DataType
	}{
		{"I32fromU32", wyvern.U32, (*Context).Int32, program.OpI32FromU32, wyvern.I32},
		{"I32fromF32", wyvern.F32, (*Context).Int32, program.OpI32FromF32, wyvern.I32},
		{"U32fromI32", wyvern.I32, (*Context).Uint32, program.OpU32FromI32, wyvern.U32},
		{"U32fromF32", wyvern.F32, (*Context).Uint32, program.OpU32FromF32, wyvern.U32},
		{"F32fromI32", wyvern.I32, (*Context).Float32, program.OpF32FromI32, wyvern.F32},
		{"F32fromU32", wyvern.U32, (*Context).Float32, program.OpF32FromU32, wyvern.F32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			ctx := b.NewContext()
			src := typedValues(t, ctx)[tt.from]

			result, err := tt.cast(ctx, src)
			mustOK(t, err)
			if result.Type() != tt.to {
				t.Errorf("result type = %s, want %s", result.Type(), tt.to)
			}

			ops := b.frames[0]
			conv, ok := ops[len(ops)-1].(*program.Unary)
			if !ok || conv.Op != tt.tag {
				t.Fatalf("last op = %#v, want %s record", ops[len(ops)-1], tt.tag)
			}
			if conv.Result != result.Token() || conv.Operand != src.Token() {
				t.Errorf("conversion args %d -> %d, want %d -> %d",
					conv.Operand, conv.Result, src.Token(), result.Token())
			}
		})
	}
}

func TestCastLiterals(t *testing.T) {
	b := New()
	ctx := b.NewContext()

	iVal, iErr := ctx.Int32(3)
	i := mustValue(t, iVal, iErr)
	if i.Type() != wyvern.I32 {
		t.Errorf("Int32 literal type = %s, want I32", i.Type())
	}

	// Floats truncate toward zero when cast to an integer type.
	truncVal, truncErr := ctx.Int32(3.7)
	trunc := mustValue(t, truncVal, truncErr)
	ops := b.frames[0]
	constant, ok := ops[len(ops)-1].(*program.Constant)
	if !ok || constant.Value != program.LitI32(3) {
		t.Errorf("Int32(3.7) materialized %#v, want I32(3)", ops[len(ops)-1])
	}
	if trunc.Type() != wyvern.I32 {
		t.Errorf("Int32(3.7) type = %s, want I32", trunc.Type())
	}

	fVal, fErr := ctx.Float32(3)
	f := mustValue(t, fVal, fErr)
	if f.Type() != wyvern.F32 {
		t.Errorf("Float32(3) type = %s, want F32", f.Type())
	}
}

func TestBoolCastRestrictions(t *testing.T) {
	b := New()
	ctx := b.NewContext()
	vals := typedValues(t, ctx)

	// Bool value is an identity.
	sameVal, sameErr := ctx.Bool(vals[wyvern.Bool])
	same := mustValue(t, sameVal, sameErr)
	if same.Token() != vals[wyvern.Bool].Token() {
		t.Error("Bool identity cast allocated a new slot")
	}

	// There is no conversion from numeric types.
	for _, ty := range []wyvern.DataType{wyvern.I32, wyvern.U32, wyvern.F32} {
		_, err := ctx.Bool(vals[ty])
		wantKind(t, err, errors.PhaseBuild, errors.KindTypeError)
	}

	_, err := ctx.Bool(1)
	wantKind(t, err, errors.PhaseBuild, errors.KindTypeError)

	// And no cast from Bool into numeric types.
	_, err = ctx.Int32(vals[wyvern.Bool])
	wantKind(t, err, errors.PhaseBuild, errors.KindTypeError)
	_, err = ctx.Uint32(vals[wyvern.Bool])
	wantKind(t, err, errors.PhaseBuild, errors.KindTypeError)
	_, err = ctx.Float32(vals[wyvern.Bool])
	wantKind(t, err, errors.PhaseBuild, errors.KindTypeError)
}

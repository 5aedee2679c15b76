package program

import (
	"encoding/json"
	"testing"

	"github.com/wyvern-compute/wyvern"
)

func TestOperationMarshal(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want string
	}{
		{
			"binary arithmetic",
			&Binary{Op: OpAdd, Result: 3, LHS: 1, RHS: 2},
			`{"Add":[3,1,2]}`,
		},
		{
			"comparison",
			&Binary{Op: OpLt, Result: 9, LHS: 7, RHS: 8},
			`{"Lt":[9,7,8]}`,
		},
		{
			"unary",
			&Unary{Op: OpNeg, Result: 1, Operand: 0},
			`{"Neg":[1,0]}`,
		},
		{
			"conversion",
			&Unary{Op: OpF32FromU32, Result: 4, Operand: 2},
			`{"F32fromU32":[4,2]}`,
		},
		{
			"u32 constant",
			&Constant{Result: 2, Value: LitU32(1)},
			`{"Constant":[2,{"U32":1}]}`,
		},
		{
			"i32 constant",
			&Constant{Result: 0, Value: LitI32(-5)},
			`{"Constant":[0,{"I32":-5}]}`,
		},
		{
			"bool constant",
			&Constant{Result: 1, Value: LitBool(true)},
			`{"Constant":[1,{"Bool":true}]}`,
		},
		{
			"load",
			&Load{Result: 1, Var: 0},
			`{"Load":[1,0]}`,
		},
		{
			"store",
			&Store{Var: 4, Value: 3},
			`{"Store":[4,3]}`,
		},
		{
			"array new",
			&ArrayNew{Array: 2, Size: 1, Elem: wyvern.U32, MaxSize: 1024, Shared: true},
			`{"ArrayNew":[2,1,"U32",1024,true]}`,
		},
		{
			"array store",
			&ArrayStore{Array: 2, Index: 5, Value: 6},
			`{"ArrayStore":[2,5,6]}`,
		},
		{
			"array load",
			&ArrayLoad{Result: 7, Array: 2, Index: 5},
			`{"ArrayLoad":[7,2,5]}`,
		},
		{
			"array len",
			&ArrayLen{Result: 3, Array: 2},
			`{"ArrayLen":[3,2]}`,
		},
		{
			"worker id",
			&Nullary{Op: OpWorkerID, Result: 5},
			`{"WorkerId":[5]}`,
		},
		{
			"num workers",
			&Nullary{Op: OpNumWorkers, Result: 6},
			`{"NumWorkers":[6]}`,
		},
		{
			"if",
			&If{
				Cond:     OpList{&Constant{Result: 0, Value: LitBool(true)}},
				CondSlot: 0,
				CondEnd:  1,
				Then:     OpList{},
				ThenEnd:  2,
			},
			`{"If":[[{"Constant":[0,{"Bool":true}]}],0,1,[],2]}`,
		},
		{
			"while",
			&While{
				Head:     1,
				Cond:     OpList{},
				CondSlot: 0,
				CondEnd:  2,
				Body:     OpList{&Store{Var: 1, Value: 0}},
				Exit:     3,
			},
			`{"While":[1,[],0,2,[{"Store":[1,0]}],3]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.op)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("marshal = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestIfElseMarshal(t *testing.T) {
	op := &IfElse{
		Cond:     OpList{},
		CondSlot: 4,
		CondEnd:  1,
		Then:     OpList{},
		ThenEnd:  2,
		Else:     OpList{},
		ElseEnd:  3,
	}
	data, err := json.Marshal(op)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"IfElse":[[],4,1,[],2,[],3]}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

func TestOpTagNames(t *testing.T) {
	for tag := OpTag(0); int(tag) < len(opTagNames); tag++ {
		name := tag.String()
		if name == "unknown" || name == "" {
			t.Errorf("tag %d has no name", tag)
			continue
		}
		parsed, ok := ParseOpTag(name)
		if !ok || parsed != tag {
			t.Errorf("ParseOpTag(%q) = %v, %v; want %v", name, parsed, ok, tag)
		}
	}
	if _, ok := ParseOpTag("Frobnicate"); ok {
		t.Error("ParseOpTag accepted an unknown tag")
	}
}

func TestConversionTypes(t *testing.T) {
	tests := []struct {
		tag OpTag
		src wyvern.DataType
		dst wyvern.DataType
	}{
		{OpI32FromU32, wyvern.U32, wyvern.I32},
		{OpI32FromF32, wyvern.F32, wyvern.I32},
		{OpU32FromI32, wyvern.I32, wyvern.U32},
		{OpU32FromF32, wyvern.F32, wyvern.U32},
		{OpF32FromI32, wyvern.I32, wyvern.F32},
		{OpF32FromU32, wyvern.U32, wyvern.F32},
	}
	for _, tt := range tests {
		src, dst, ok := tt.tag.ConversionTypes()
		if !ok || src != tt.src || dst != tt.dst {
			t.Errorf("%s: ConversionTypes = %s -> %s, %v; want %s -> %s", tt.tag, src, dst, ok, tt.src, tt.dst)
		}
	}
	if _, _, ok := OpAdd.ConversionTypes(); ok {
		t.Error("Add reported conversion types")
	}
}

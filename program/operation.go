package program

import (
	"encoding/json"

	"github.com/wyvern-compute/wyvern"
)

// OpTag identifies an operation in the serialized catalogue. The string form
// of each tag is its stable serialization key.
type OpTag uint8

const (
	OpAdd OpTag = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpShl
	OpShr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpNot
	OpNeg
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpConstant
	OpLoad
	OpStore
	OpArrayNew
	OpArrayStore
	OpArrayLoad
	OpArrayLen
	OpWorkerID
	OpNumWorkers
	OpI32FromU32
	OpI32FromF32
	OpU32FromI32
	OpU32FromF32
	OpF32FromI32
	OpF32FromU32
	OpIf
	OpIfElse
	OpWhile
)

var opTagNames = [...]string{
	OpAdd:        "Add",
	OpSub:        "Sub",
	OpMul:        "Mul",
	OpDiv:        "Div",
	OpRem:        "Rem",
	OpShl:        "Shl",
	OpShr:        "Shr",
	OpBitAnd:     "BitAnd",
	OpBitOr:      "BitOr",
	OpBitXor:     "BitXor",
	OpNot:        "Not",
	OpNeg:        "Neg",
	OpEq:         "Eq",
	OpNe:         "Ne",
	OpLt:         "Lt",
	OpLe:         "Le",
	OpGt:         "Gt",
	OpGe:         "Ge",
	OpConstant:   "Constant",
	OpLoad:       "Load",
	OpStore:      "Store",
	OpArrayNew:   "ArrayNew",
	OpArrayStore: "ArrayStore",
	OpArrayLoad:  "ArrayLoad",
	OpArrayLen:   "ArrayLen",
	OpWorkerID:   "WorkerId",
	OpNumWorkers: "NumWorkers",
	OpI32FromU32: "I32fromU32",
	OpI32FromF32: "I32fromF32",
	OpU32FromI32: "U32fromI32",
	OpU32FromF32: "U32fromF32",
	OpF32FromI32: "F32fromI32",
	OpF32FromU32: "F32fromU32",
	OpIf:         "If",
	OpIfElse:     "IfElse",
	OpWhile:      "While",
}

func (t OpTag) String() string {
	if int(t) < len(opTagNames) {
		return opTagNames[t]
	}
	return "unknown"
}

var opTagByName = func() map[string]OpTag {
	m := make(map[string]OpTag, len(opTagNames))
	for t, name := range opTagNames {
		m[name] = OpTag(t)
	}
	return m
}()

// ParseOpTag resolves a serialization key back to its OpTag.
func ParseOpTag(name string) (OpTag, bool) {
	t, ok := opTagByName[name]
	return t, ok
}

// IsBinary reports whether t is a two-operand expression op.
func (t OpTag) IsBinary() bool {
	return t >= OpAdd && t <= OpBitXor || t >= OpEq && t <= OpGe
}

// IsComparison reports whether t yields a Bool regardless of operand type.
func (t OpTag) IsComparison() bool {
	return t >= OpEq && t <= OpGe
}

// IsConversion reports whether t is one of the six fixed cross-type moves.
func (t OpTag) IsConversion() bool {
	return t >= OpI32FromU32 && t <= OpF32FromU32
}

// IsControlFlow reports whether t carries nested operation lists.
func (t OpTag) IsControlFlow() bool {
	return t == OpIf || t == OpIfElse || t == OpWhile
}

// ConversionTypes returns the fixed source and target types of a conversion
// tag.
func (t OpTag) ConversionTypes() (src, dst wyvern.DataType, ok bool) {
	switch t {
	case OpI32FromU32:
		return wyvern.U32, wyvern.I32, true
	case OpI32FromF32:
		return wyvern.F32, wyvern.I32, true
	case OpU32FromI32:
		return wyvern.I32, wyvern.U32, true
	case OpU32FromF32:
		return wyvern.F32, wyvern.U32, true
	case OpF32FromI32:
		return wyvern.I32, wyvern.F32, true
	case OpF32FromU32:
		return wyvern.U32, wyvern.F32, true
	default:
		return 0, 0, false
	}
}

// Operation is one record in a program's operation list. Concrete records
// marshal as single-key objects keyed by their tag.
type Operation interface {
	json.Marshaler
	Tag() OpTag
}

// OpList is an ordered sequence of operation records. It marshals as a JSON
// array and knows how to decode the single-key record objects back into
// concrete types.
type OpList []Operation

func (l OpList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Operation(l))
}

// marshalOp writes the single-key positional record form.
func marshalOp(tag OpTag, args ...any) ([]byte, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(payload)+len(tag.String())+4)
	buf = append(buf, '{', '"')
	buf = append(buf, tag.String()...)
	buf = append(buf, '"', ':')
	buf = append(buf, payload...)
	return append(buf, '}'), nil
}

// Binary is a two-operand expression: [result, lhs, rhs].
type Binary struct {
	Op     OpTag
	Result Token
	LHS    Token
	RHS    Token
}

func (o *Binary) Tag() OpTag { return o.Op }
func (o *Binary) MarshalJSON() ([]byte, error) {
	return marshalOp(o.Op, o.Result, o.LHS, o.RHS)
}

// Unary is a one-operand expression (Not, Neg, conversions): [result, operand].
type Unary struct {
	Op      OpTag
	Result  Token
	Operand Token
}

func (o *Unary) Tag() OpTag { return o.Op }
func (o *Unary) MarshalJSON() ([]byte, error) {
	return marshalOp(o.Op, o.Result, o.Operand)
}

// Constant materializes a literal into a fresh slot: [result, {tag: value}].
type Constant struct {
	Result Token
	Value  Literal
}

func (o *Constant) Tag() OpTag { return OpConstant }
func (o *Constant) MarshalJSON() ([]byte, error) {
	return marshalOp(OpConstant, o.Result, o.Value)
}

// Load reads a variable into a fresh slot: [result, var].
type Load struct {
	Result Token
	Var    Token
}

func (o *Load) Tag() OpTag { return OpLoad }
func (o *Load) MarshalJSON() ([]byte, error) {
	return marshalOp(OpLoad, o.Result, o.Var)
}

// Store writes a slot into a variable: [var, value].
type Store struct {
	Var   Token
	Value Token
}

func (o *Store) Tag() OpTag { return OpStore }
func (o *Store) MarshalJSON() ([]byte, error) {
	return marshalOp(OpStore, o.Var, o.Value)
}

// ArrayNew declares an array: [array, size, type tag, max, shared].
type ArrayNew struct {
	Array   Token
	Size    Token
	Elem    wyvern.DataType
	MaxSize uint32
	Shared  bool
}

func (o *ArrayNew) Tag() OpTag { return OpArrayNew }
func (o *ArrayNew) MarshalJSON() ([]byte, error) {
	return marshalOp(OpArrayNew, o.Array, o.Size, o.Elem.String(), o.MaxSize, o.Shared)
}

// ArrayStore writes an element: [array, index, value].
type ArrayStore struct {
	Array Token
	Index Token
	Value Token
}

func (o *ArrayStore) Tag() OpTag { return OpArrayStore }
func (o *ArrayStore) MarshalJSON() ([]byte, error) {
	return marshalOp(OpArrayStore, o.Array, o.Index, o.Value)
}

// ArrayLoad reads an element into a fresh slot: [result, array, index].
type ArrayLoad struct {
	Result Token
	Array  Token
	Index  Token
}

func (o *ArrayLoad) Tag() OpTag { return OpArrayLoad }
func (o *ArrayLoad) MarshalJSON() ([]byte, error) {
	return marshalOp(OpArrayLoad, o.Result, o.Array, o.Index)
}

// ArrayLen reads the runtime length into a fresh U32 slot: [result, array].
type ArrayLen struct {
	Result Token
	Array  Token
}

func (o *ArrayLen) Tag() OpTag { return OpArrayLen }
func (o *ArrayLen) MarshalJSON() ([]byte, error) {
	return marshalOp(OpArrayLen, o.Result, o.Array)
}

// Nullary is a producer with no operands (WorkerId, NumWorkers): [result].
type Nullary struct {
	Op     OpTag
	Result Token
}

func (o *Nullary) Tag() OpTag { return o.Op }
func (o *Nullary) MarshalJSON() ([]byte, error) {
	return marshalOp(o.Op, o.Result)
}

// If is a one-armed conditional:
// [condOps, condSlot, condEnd, thenOps, thenEnd].
type If struct {
	Cond     OpList
	CondSlot Token
	CondEnd  Label
	Then     OpList
	ThenEnd  Label
}

func (o *If) Tag() OpTag { return OpIf }
func (o *If) MarshalJSON() ([]byte, error) {
	return marshalOp(OpIf, o.Cond, o.CondSlot, o.CondEnd, o.Then, o.ThenEnd)
}

// IfElse is a two-armed conditional:
// [condOps, condSlot, condEnd, thenOps, thenEnd, elseOps, elseEnd].
type IfElse struct {
	Cond     OpList
	CondSlot Token
	CondEnd  Label
	Then     OpList
	ThenEnd  Label
	Else     OpList
	ElseEnd  Label
}

func (o *IfElse) Tag() OpTag { return OpIfElse }
func (o *IfElse) MarshalJSON() ([]byte, error) {
	return marshalOp(OpIfElse, o.Cond, o.CondSlot, o.CondEnd, o.Then, o.ThenEnd, o.Else, o.ElseEnd)
}

// While is a pre-tested loop:
// [head, condOps, condSlot, condEnd, bodyOps, exit].
type While struct {
	Head     Label
	Cond     OpList
	CondSlot Token
	CondEnd  Label
	Body     OpList
	Exit     Label
}

func (o *While) Tag() OpTag { return OpWhile }
func (o *While) MarshalJSON() ([]byte, error) {
	return marshalOp(OpWhile, o.Head, o.Cond, o.CondSlot, o.CondEnd, o.Body, o.Exit)
}

package program

import (
	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
)

// Validate performs the structural checks that must hold on every finalized
// program document:
//
//   - token IDs form the contiguous prefix [0, N)
//   - label IDs are unique and form the contiguous prefix [1, M]
//   - every token referenced by an operation has a symbol entry
//   - storage and I/O directory entries agree with the symbol table
//   - operand arity and types match the operation catalogue
//   - every constant slot is assigned by exactly one operation
func (p *Program) Validate() error {
	v := &validator{
		p:        p,
		assigned: make(map[Token]int),
		labels:   make(map[Label]bool),
	}

	if err := v.checkTokens(); err != nil {
		return err
	}
	if err := v.checkStorage(); err != nil {
		return err
	}
	if err := v.checkDirectories(); err != nil {
		return err
	}
	if err := v.checkOps(p.Operations); err != nil {
		return err
	}
	if err := v.checkLabels(); err != nil {
		return err
	}
	return v.checkAssignments()
}

type validator struct {
	p        *Program
	assigned map[Token]int
	labels   map[Label]bool
}

func (v *validator) checkTokens() error {
	n := Token(len(v.p.Symbols))
	for tid := range v.p.Symbols {
		if tid >= n {
			return errors.InvalidData(errors.PhaseValidate, "token %d outside dense prefix [0, %d)", tid, n)
		}
	}
	return nil
}

func (v *validator) checkStorage() error {
	for tid, entry := range v.p.Storage {
		sym, ok := v.p.Symbols[tid]
		if !ok {
			return errors.InvalidData(errors.PhaseValidate, "storage entry for unknown token %d", tid)
		}
		switch entry.Class {
		case StorageVariable:
			if sym.Kind != KindVariable {
				return errors.InvalidData(errors.PhaseValidate, "token %d has variable storage but %s symbol", tid, sym.Kind)
			}
		case StoragePrivateArray, StorageSharedArray:
			if sym.Kind != KindArray {
				return errors.InvalidData(errors.PhaseValidate, "token %d has array storage but %s symbol", tid, sym.Kind)
			}
		}
		if entry.Type != sym.Type {
			return errors.InvalidData(errors.PhaseValidate, "token %d storage type %s disagrees with symbol type %s", tid, entry.Type, sym.Type)
		}
	}
	return nil
}

func (v *validator) checkDirectories() error {
	for name, tid := range v.p.Input {
		if _, ok := v.p.Symbols[tid]; !ok {
			return errors.InvalidData(errors.PhaseValidate, "input %q refers to unknown token %d", name, tid)
		}
	}
	for name, tid := range v.p.Output {
		if _, ok := v.p.Symbols[tid]; !ok {
			return errors.InvalidData(errors.PhaseValidate, "output %q refers to unknown token %d", name, tid)
		}
	}
	return nil
}

// symbol resolves a referenced token, failing on dangling references.
func (v *validator) symbol(tid Token, role string) (Symbol, error) {
	sym, ok := v.p.Symbols[tid]
	if !ok {
		return Symbol{}, errors.InvalidData(errors.PhaseValidate, "%s refers to unknown token %d", role, tid)
	}
	return sym, nil
}

func (v *validator) slot(tid Token, role string) (Symbol, error) {
	sym, err := v.symbol(tid, role)
	if err != nil {
		return Symbol{}, err
	}
	if sym.Kind != KindConstant {
		return Symbol{}, errors.InvalidData(errors.PhaseValidate, "%s token %d is a %s, expected constant slot", role, tid, sym.Kind)
	}
	return sym, nil
}

// result records an assignment into a constant slot and checks its type.
func (v *validator) result(tid Token, want wyvern.DataType, tag OpTag) error {
	sym, err := v.slot(tid, tag.String()+" result")
	if err != nil {
		return err
	}
	if sym.Type != want {
		return errors.InvalidData(errors.PhaseValidate, "%s result token %d has type %s, expected %s", tag, tid, sym.Type, want)
	}
	v.assigned[tid]++
	return nil
}

func (v *validator) checkOps(ops OpList) error {
	for _, op := range ops {
		if err := v.checkOp(op); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) checkOp(op Operation) error {
	switch o := op.(type) {
	case *Binary:
		return v.checkBinary(o)

	case *Unary:
		return v.checkUnary(o)

	case *Constant:
		return v.result(o.Result, o.Value.Type, OpConstant)

	case *Load:
		sym, err := v.symbol(o.Var, "Load variable")
		if err != nil {
			return err
		}
		if sym.Kind != KindVariable {
			return errors.InvalidData(errors.PhaseValidate, "Load from %s token %d", sym.Kind, o.Var)
		}
		return v.result(o.Result, sym.Type, OpLoad)

	case *Store:
		sym, err := v.symbol(o.Var, "Store variable")
		if err != nil {
			return err
		}
		if sym.Kind != KindVariable {
			return errors.InvalidData(errors.PhaseValidate, "Store to %s token %d", sym.Kind, o.Var)
		}
		val, err := v.slot(o.Value, "Store value")
		if err != nil {
			return err
		}
		if val.Type != sym.Type {
			return errors.InvalidData(errors.PhaseValidate, "Store of %s into %s variable %d", val.Type, sym.Type, o.Var)
		}
		return nil

	case *ArrayNew:
		sym, err := v.symbol(o.Array, "ArrayNew array")
		if err != nil {
			return err
		}
		if sym.Kind != KindArray {
			return errors.InvalidData(errors.PhaseValidate, "ArrayNew on %s token %d", sym.Kind, o.Array)
		}
		if sym.Type != o.Elem {
			return errors.InvalidData(errors.PhaseValidate, "ArrayNew element type %s disagrees with symbol type %s", o.Elem, sym.Type)
		}
		size, err := v.slot(o.Size, "ArrayNew size")
		if err != nil {
			return err
		}
		if size.Type != wyvern.U32 {
			return errors.InvalidData(errors.PhaseValidate, "ArrayNew size token %d has type %s, expected U32", o.Size, size.Type)
		}
		return nil

	case *ArrayStore:
		elem, err := v.arrayElem(o.Array, OpArrayStore)
		if err != nil {
			return err
		}
		if err := v.index(o.Index, OpArrayStore); err != nil {
			return err
		}
		val, err := v.slot(o.Value, "ArrayStore value")
		if err != nil {
			return err
		}
		if val.Type != elem {
			return errors.InvalidData(errors.PhaseValidate, "ArrayStore of %s into %s array %d", val.Type, elem, o.Array)
		}
		return nil

	case *ArrayLoad:
		elem, err := v.arrayElem(o.Array, OpArrayLoad)
		if err != nil {
			return err
		}
		if err := v.index(o.Index, OpArrayLoad); err != nil {
			return err
		}
		return v.result(o.Result, elem, OpArrayLoad)

	case *ArrayLen:
		if _, err := v.arrayElem(o.Array, OpArrayLen); err != nil {
			return err
		}
		return v.result(o.Result, wyvern.U32, OpArrayLen)

	case *Nullary:
		return v.result(o.Result, wyvern.U32, o.Op)

	case *If:
		if err := v.cond(o.Cond, o.CondSlot, OpIf); err != nil {
			return err
		}
		if err := v.label(o.CondEnd); err != nil {
			return err
		}
		if err := v.checkOps(o.Then); err != nil {
			return err
		}
		return v.label(o.ThenEnd)

	case *IfElse:
		if err := v.cond(o.Cond, o.CondSlot, OpIfElse); err != nil {
			return err
		}
		if err := v.label(o.CondEnd); err != nil {
			return err
		}
		if err := v.checkOps(o.Then); err != nil {
			return err
		}
		if err := v.label(o.ThenEnd); err != nil {
			return err
		}
		if err := v.checkOps(o.Else); err != nil {
			return err
		}
		return v.label(o.ElseEnd)

	case *While:
		if err := v.label(o.Head); err != nil {
			return err
		}
		if err := v.cond(o.Cond, o.CondSlot, OpWhile); err != nil {
			return err
		}
		if err := v.label(o.CondEnd); err != nil {
			return err
		}
		if err := v.checkOps(o.Body); err != nil {
			return err
		}
		return v.label(o.Exit)

	default:
		return errors.InvalidData(errors.PhaseValidate, "unknown operation record %T", op)
	}
}

func (v *validator) checkBinary(o *Binary) error {
	lhs, err := v.slot(o.LHS, o.Op.String()+" operand")
	if err != nil {
		return err
	}
	rhs, err := v.slot(o.RHS, o.Op.String()+" operand")
	if err != nil {
		return err
	}
	if lhs.Type != rhs.Type {
		return errors.InvalidData(errors.PhaseValidate, "%s operands disagree: %s vs %s", o.Op, lhs.Type, rhs.Type)
	}
	if !binaryAdmits(o.Op, lhs.Type) {
		return errors.InvalidData(errors.PhaseValidate, "%s does not admit %s operands", o.Op, lhs.Type)
	}
	resultType := lhs.Type
	if o.Op.IsComparison() {
		resultType = wyvern.Bool
	}
	return v.result(o.Result, resultType, o.Op)
}

func (v *validator) checkUnary(o *Unary) error {
	operand, err := v.slot(o.Operand, o.Op.String()+" operand")
	if err != nil {
		return err
	}
	if src, dst, ok := o.Op.ConversionTypes(); ok {
		if operand.Type != src {
			return errors.InvalidData(errors.PhaseValidate, "%s operand has type %s, expected %s", o.Op, operand.Type, src)
		}
		return v.result(o.Result, dst, o.Op)
	}
	switch o.Op {
	case OpNot:
		if !operand.Type.Integer() && operand.Type != wyvern.Bool {
			return errors.InvalidData(errors.PhaseValidate, "Not does not admit %s operands", operand.Type)
		}
	case OpNeg:
		if !operand.Type.Numeric() {
			return errors.InvalidData(errors.PhaseValidate, "Neg does not admit %s operands", operand.Type)
		}
	default:
		return errors.InvalidData(errors.PhaseValidate, "unexpected unary tag %s", o.Op)
	}
	return v.result(o.Result, operand.Type, o.Op)
}

func binaryAdmits(op OpTag, ty wyvern.DataType) bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpRem, OpLt, OpLe, OpGt, OpGe:
		return ty.Numeric()
	case OpShl, OpShr:
		return ty.Integer()
	case OpBitAnd, OpBitOr, OpBitXor:
		return ty.Integer() || ty == wyvern.Bool
	case OpEq, OpNe:
		return true
	default:
		return false
	}
}

func (v *validator) arrayElem(tid Token, tag OpTag) (wyvern.DataType, error) {
	sym, err := v.symbol(tid, tag.String()+" array")
	if err != nil {
		return 0, err
	}
	if sym.Kind != KindArray {
		return 0, errors.InvalidData(errors.PhaseValidate, "%s on %s token %d", tag, sym.Kind, tid)
	}
	return sym.Type, nil
}

func (v *validator) index(tid Token, tag OpTag) error {
	idx, err := v.slot(tid, tag.String()+" index")
	if err != nil {
		return err
	}
	if idx.Type != wyvern.U32 {
		return errors.InvalidData(errors.PhaseValidate, "%s index token %d has type %s, expected U32", tag, tid, idx.Type)
	}
	return nil
}

func (v *validator) cond(ops OpList, condSlot Token, tag OpTag) error {
	if err := v.checkOps(ops); err != nil {
		return err
	}
	sym, err := v.slot(condSlot, tag.String()+" condition")
	if err != nil {
		return err
	}
	if sym.Type != wyvern.Bool {
		return errors.InvalidData(errors.PhaseValidate, "%s condition token %d has type %s, expected Bool", tag, condSlot, sym.Type)
	}
	return nil
}

func (v *validator) label(l Label) error {
	if l == 0 {
		return errors.InvalidData(errors.PhaseValidate, "label 0 outside namespace [1, M]")
	}
	if v.labels[l] {
		return errors.InvalidData(errors.PhaseValidate, "label %d used twice", l)
	}
	v.labels[l] = true
	return nil
}

func (v *validator) checkLabels() error {
	m := Label(len(v.labels))
	for l := range v.labels {
		if l > m {
			return errors.InvalidData(errors.PhaseValidate, "label %d outside dense prefix [1, %d]", l, m)
		}
	}
	return nil
}

func (v *validator) checkAssignments() error {
	for tid, sym := range v.p.Symbols {
		if sym.Kind != KindConstant {
			continue
		}
		switch n := v.assigned[tid]; {
		case n == 0:
			return errors.InvalidData(errors.PhaseValidate, "constant slot %d never assigned", tid)
		case n > 1:
			return errors.InvalidData(errors.PhaseValidate, "constant slot %d assigned %d times", tid, n)
		}
	}
	return nil
}

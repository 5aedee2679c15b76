package program

import (
	"encoding/json"

	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
)

func (l *OpList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse operation list")
	}
	ops := make(OpList, 0, len(raws))
	for i, raw := range raws {
		op, err := decodeOperation(raw)
		if err != nil {
			return errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Cause(err).
				Detail("operation %d", i).
				Build()
		}
		ops = append(ops, op)
	}
	*l = ops
	return nil
}

func decodeOperation(raw json.RawMessage) (Operation, error) {
	var rec map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse operation record")
	}
	if len(rec) != 1 {
		return nil, errors.InvalidData(errors.PhaseDecode, "operation record must have exactly one key, got %d", len(rec))
	}

	var name string
	var payload json.RawMessage
	for k, v := range rec {
		name, payload = k, v
	}

	tag, ok := ParseOpTag(name)
	if !ok {
		return nil, errors.UnknownOp(errors.PhaseDecode, name)
	}

	var args []json.RawMessage
	if err := json.Unmarshal(payload, &args); err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse operation arguments")
	}

	d := argDecoder{tag: tag, args: args}
	switch {
	case tag.IsBinary():
		op := &Binary{Op: tag}
		d.token(&op.Result).token(&op.LHS).token(&op.RHS)
		return d.finish(op, 3)

	case tag == OpNot || tag == OpNeg || tag.IsConversion():
		op := &Unary{Op: tag}
		d.token(&op.Result).token(&op.Operand)
		return d.finish(op, 2)

	case tag == OpConstant:
		op := &Constant{}
		d.token(&op.Result).literal(&op.Value)
		return d.finish(op, 2)

	case tag == OpLoad:
		op := &Load{}
		d.token(&op.Result).token(&op.Var)
		return d.finish(op, 2)

	case tag == OpStore:
		op := &Store{}
		d.token(&op.Var).token(&op.Value)
		return d.finish(op, 2)

	case tag == OpArrayNew:
		op := &ArrayNew{}
		d.token(&op.Array).token(&op.Size).dataType(&op.Elem).u32(&op.MaxSize).boolean(&op.Shared)
		return d.finish(op, 5)

	case tag == OpArrayStore:
		op := &ArrayStore{}
		d.token(&op.Array).token(&op.Index).token(&op.Value)
		return d.finish(op, 3)

	case tag == OpArrayLoad:
		op := &ArrayLoad{}
		d.token(&op.Result).token(&op.Array).token(&op.Index)
		return d.finish(op, 3)

	case tag == OpArrayLen:
		op := &ArrayLen{}
		d.token(&op.Result).token(&op.Array)
		return d.finish(op, 2)

	case tag == OpWorkerID || tag == OpNumWorkers:
		op := &Nullary{Op: tag}
		d.token(&op.Result)
		return d.finish(op, 1)

	case tag == OpIf:
		op := &If{}
		d.ops(&op.Cond).token(&op.CondSlot).label(&op.CondEnd).ops(&op.Then).label(&op.ThenEnd)
		return d.finish(op, 5)

	case tag == OpIfElse:
		op := &IfElse{}
		d.ops(&op.Cond).token(&op.CondSlot).label(&op.CondEnd).
			ops(&op.Then).label(&op.ThenEnd).
			ops(&op.Else).label(&op.ElseEnd)
		return d.finish(op, 7)

	case tag == OpWhile:
		op := &While{}
		d.label(&op.Head).ops(&op.Cond).token(&op.CondSlot).label(&op.CondEnd).
			ops(&op.Body).label(&op.Exit)
		return d.finish(op, 6)

	default:
		return nil, errors.UnknownOp(errors.PhaseDecode, name)
	}
}

// argDecoder consumes an operation's positional arguments left to right,
// remembering the first failure.
type argDecoder struct {
	err  error
	tag  OpTag
	args []json.RawMessage
	pos  int
}

func (d *argDecoder) next() (json.RawMessage, bool) {
	if d.err != nil || d.pos >= len(d.args) {
		return nil, false
	}
	raw := d.args[d.pos]
	d.pos++
	return raw, true
}

func (d *argDecoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *argDecoder) token(dst *Token) *argDecoder {
	if raw, ok := d.next(); ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			d.fail(errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse token argument"))
		}
	}
	return d
}

func (d *argDecoder) label(dst *Label) *argDecoder {
	if raw, ok := d.next(); ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			d.fail(errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse label argument"))
		}
	}
	return d
}

func (d *argDecoder) u32(dst *uint32) *argDecoder {
	if raw, ok := d.next(); ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			d.fail(errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse integer argument"))
		}
	}
	return d
}

func (d *argDecoder) boolean(dst *bool) *argDecoder {
	if raw, ok := d.next(); ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			d.fail(errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse boolean argument"))
		}
	}
	return d
}

func (d *argDecoder) dataType(dst *wyvern.DataType) *argDecoder {
	if raw, ok := d.next(); ok {
		var tag string
		if err := json.Unmarshal(raw, &tag); err != nil {
			d.fail(errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse type argument"))
			return d
		}
		ty, found := wyvern.ParseDataType(tag)
		if !found {
			d.fail(errors.InvalidData(errors.PhaseDecode, "unknown data type %q", tag))
			return d
		}
		*dst = ty
	}
	return d
}

func (d *argDecoder) literal(dst *Literal) *argDecoder {
	if raw, ok := d.next(); ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			d.fail(err)
		}
	}
	return d
}

func (d *argDecoder) ops(dst *OpList) *argDecoder {
	if raw, ok := d.next(); ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			d.fail(err)
		}
	}
	return d
}

func (d *argDecoder) finish(op Operation, arity int) (Operation, error) {
	if d.err != nil {
		return nil, d.err
	}
	if len(d.args) != arity {
		return nil, errors.InvalidData(errors.PhaseDecode, "%s expects %d arguments, got %d", d.tag, arity, len(d.args))
	}
	return op, nil
}

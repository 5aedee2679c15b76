package program

import (
	"encoding/json"
	"fmt"

	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
)

// Token names a symbol (constant slot, variable, or array) within one
// program. Tokens are dense and start at 0.
type Token uint32

// Label names a control-flow point within one program. Labels are dense and
// start at 1.
type Label uint32

// SymbolKind distinguishes the three kinds of symbol a token can name.
type SymbolKind uint8

const (
	KindConstant SymbolKind = iota // single-assignment value slot
	KindVariable                   // mutable named cell
	KindArray                      // mutable indexed collection
)

var symbolKindNames = [...]string{
	KindConstant: "Constant",
	KindVariable: "Variable",
	KindArray:    "Array",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "unknown"
}

// ParseSymbolKind resolves a serialization tag back to its SymbolKind.
func ParseSymbolKind(tag string) (SymbolKind, bool) {
	for k, name := range symbolKindNames {
		if name == tag {
			return SymbolKind(k), true
		}
	}
	return 0, false
}

// Symbol records the kind and type of one token.
type Symbol struct {
	Kind SymbolKind
	Type wyvern.DataType
}

func (s Symbol) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{s.Kind.String(): s.Type.String()})
}

func (s *Symbol) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse symbol entry")
	}
	if len(m) != 1 {
		return errors.InvalidData(errors.PhaseDecode, "symbol entry must have exactly one key, got %d", len(m))
	}
	for kindTag, typeTag := range m {
		kind, ok := ParseSymbolKind(kindTag)
		if !ok {
			return errors.InvalidData(errors.PhaseDecode, "unknown symbol kind %q", kindTag)
		}
		ty, ok := wyvern.ParseDataType(typeTag)
		if !ok {
			return errors.InvalidData(errors.PhaseDecode, "unknown data type %q", typeTag)
		}
		s.Kind = kind
		s.Type = ty
	}
	return nil
}

// StorageClass distinguishes the three storage layouts.
type StorageClass uint8

const (
	StorageVariable StorageClass = iota
	StoragePrivateArray
	StorageSharedArray
)

var storageClassNames = [...]string{
	StorageVariable:     "Variable",
	StoragePrivateArray: "PrivateArray",
	StorageSharedArray:  "SharedArray",
}

func (c StorageClass) String() string {
	if int(c) < len(storageClassNames) {
		return storageClassNames[c]
	}
	return "unknown"
}

// StorageEntry describes the layout of one variable or array token. Constant
// slots never appear in storage.
type StorageEntry struct {
	Class   StorageClass
	Type    wyvern.DataType
	MaxSize uint32 // compile-time maximum length, arrays only
}

func (e StorageEntry) MarshalJSON() ([]byte, error) {
	switch e.Class {
	case StorageVariable:
		return json.Marshal(map[string]string{"Variable": e.Type.String()})
	case StoragePrivateArray, StorageSharedArray:
		return json.Marshal(map[string][]any{
			e.Class.String(): {e.Type.String(), e.MaxSize},
		})
	default:
		return nil, fmt.Errorf("unknown storage class %d", e.Class)
	}
}

func (e *StorageEntry) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse storage entry")
	}
	if len(m) != 1 {
		return errors.InvalidData(errors.PhaseDecode, "storage entry must have exactly one key, got %d", len(m))
	}
	for classTag, payload := range m {
		switch classTag {
		case "Variable":
			var typeTag string
			if err := json.Unmarshal(payload, &typeTag); err != nil {
				return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse variable storage")
			}
			ty, ok := wyvern.ParseDataType(typeTag)
			if !ok {
				return errors.InvalidData(errors.PhaseDecode, "unknown data type %q", typeTag)
			}
			e.Class = StorageVariable
			e.Type = ty
			e.MaxSize = 0
		case "PrivateArray", "SharedArray":
			var parts []json.RawMessage
			if err := json.Unmarshal(payload, &parts); err != nil {
				return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse array storage")
			}
			if len(parts) != 2 {
				return errors.InvalidData(errors.PhaseDecode, "array storage expects [type, max], got %d elements", len(parts))
			}
			var typeTag string
			if err := json.Unmarshal(parts[0], &typeTag); err != nil {
				return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse array element type")
			}
			ty, ok := wyvern.ParseDataType(typeTag)
			if !ok {
				return errors.InvalidData(errors.PhaseDecode, "unknown data type %q", typeTag)
			}
			var maxSize uint32
			if err := json.Unmarshal(parts[1], &maxSize); err != nil {
				return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse array max size")
			}
			if classTag == "PrivateArray" {
				e.Class = StoragePrivateArray
			} else {
				e.Class = StorageSharedArray
			}
			e.Type = ty
			e.MaxSize = maxSize
		default:
			return errors.InvalidData(errors.PhaseDecode, "unknown storage class %q", classTag)
		}
	}
	return nil
}

// Literal is the payload of a Constant operation: a host value tagged by its
// program type.
type Literal struct {
	Type wyvern.DataType
	I32  int32
	U32  uint32
	F32  float32
	Bool bool
}

// LitI32 returns an I32 literal payload.
func LitI32(v int32) Literal { return Literal{Type: wyvern.I32, I32: v} }

// LitU32 returns a U32 literal payload.
func LitU32(v uint32) Literal { return Literal{Type: wyvern.U32, U32: v} }

// LitF32 returns an F32 literal payload.
func LitF32(v float32) Literal { return Literal{Type: wyvern.F32, F32: v} }

// LitBool returns a Bool literal payload.
func LitBool(v bool) Literal { return Literal{Type: wyvern.Bool, Bool: v} }

func (l Literal) value() any {
	switch l.Type {
	case wyvern.I32:
		return l.I32
	case wyvern.U32:
		return l.U32
	case wyvern.F32:
		return l.F32
	default:
		return l.Bool
	}
}

func (l Literal) String() string {
	return fmt.Sprintf("%s(%v)", l.Type, l.value())
}

func (l Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{l.Type.String(): l.value()})
}

func (l *Literal) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse literal")
	}
	if len(m) != 1 {
		return errors.InvalidData(errors.PhaseDecode, "literal must have exactly one key, got %d", len(m))
	}
	for typeTag, payload := range m {
		ty, ok := wyvern.ParseDataType(typeTag)
		if !ok {
			return errors.InvalidData(errors.PhaseDecode, "unknown literal type %q", typeTag)
		}
		l.Type = ty
		var err error
		switch ty {
		case wyvern.I32:
			err = json.Unmarshal(payload, &l.I32)
		case wyvern.U32:
			err = json.Unmarshal(payload, &l.U32)
		case wyvern.F32:
			err = json.Unmarshal(payload, &l.F32)
		case wyvern.Bool:
			err = json.Unmarshal(payload, &l.Bool)
		}
		if err != nil {
			return errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse literal payload")
		}
	}
	return nil
}

// Program is the serialized document produced by a finalized builder.
// Integer-keyed maps marshal their keys as decimal strings, matching the wire
// schema.
type Program struct {
	Symbols    map[Token]Symbol       `json:"symbol"`
	Storage    map[Token]StorageEntry `json:"storage"`
	Input      map[string]Token       `json:"input"`
	Output     map[string]Token       `json:"output"`
	Operations OpList                 `json:"operation"`
}

// New returns an empty program document with all directories allocated, so
// that an empty program serializes with {} and [] fields rather than nulls.
func New() *Program {
	return &Program{
		Symbols:    make(map[Token]Symbol),
		Storage:    make(map[Token]StorageEntry),
		Input:      make(map[string]Token),
		Output:     make(map[string]Token),
		Operations: OpList{},
	}
}

// Decode parses a serialized program document.
func Decode(data []byte) (*Program, error) {
	p := New()
	if err := json.Unmarshal(data, p); err != nil {
		if _, ok := err.(*errors.Error); ok {
			return nil, err
		}
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidData, err, "parse program document")
	}
	if p.Symbols == nil {
		p.Symbols = make(map[Token]Symbol)
	}
	if p.Storage == nil {
		p.Storage = make(map[Token]StorageEntry)
	}
	if p.Input == nil {
		p.Input = make(map[string]Token)
	}
	if p.Output == nil {
		p.Output = make(map[string]Token)
	}
	if p.Operations == nil {
		p.Operations = OpList{}
	}
	return p, nil
}

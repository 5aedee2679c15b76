package builder

import (
	"go.uber.org/zap"

	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
	"github.com/wyvern-compute/wyvern/program"
)

// Builder accumulates one program. It owns the symbol store, the I/O and
// storage directories, and the frame stack; the bottom frame is the program
// root and nested frames hold control-flow bodies while they are being
// recorded.
//
// A Builder is single-threaded and not reentrant. It stays open until
// Finalize, after which every mutating call fails with a sealed error.
type Builder struct {
	symbols map[program.Token]program.Symbol
	storage map[program.Token]program.StorageEntry
	input   map[string]program.Token
	output  map[string]program.Token

	frames    []program.OpList
	nextToken program.Token
	nextLabel program.Label
	sealed    bool
}

// New creates an empty, open builder.
func New() *Builder {
	return &Builder{
		symbols:   make(map[program.Token]program.Symbol),
		storage:   make(map[program.Token]program.StorageEntry),
		input:     make(map[string]program.Token),
		output:    make(map[string]program.Token),
		frames:    []program.OpList{{}},
		nextLabel: 1,
	}
}

// NewContext returns a fresh recording surface over b with its own name
// namespace.
func (b *Builder) NewContext() *Context {
	return &Context{
		b:    b,
		vars: make(map[string]slot),
	}
}

// Finalize seals the builder and returns the serialized program document.
// It fails if any control frame is still open.
func (b *Builder) Finalize() (*program.Program, error) {
	if b.sealed {
		return nil, errors.Sealed()
	}
	if len(b.frames) != 1 {
		return nil, errors.Unbalanced(len(b.frames) - 1)
	}
	b.sealed = true

	Logger().Debug("program finalized",
		zap.Int("tokens", int(b.nextToken)),
		zap.Int("labels", int(b.nextLabel)-1),
		zap.Int("root_operations", len(b.frames[0])),
	)

	return &program.Program{
		Symbols:    b.symbols,
		Storage:    b.storage,
		Input:      b.input,
		Output:     b.output,
		Operations: b.frames[0],
	}, nil
}

func (b *Builder) ensureOpen() error {
	if b.sealed {
		return errors.Sealed()
	}
	return nil
}

func (b *Builder) freshToken() program.Token {
	tid := b.nextToken
	b.nextToken++
	return tid
}

func (b *Builder) freshLabel() program.Label {
	lid := b.nextLabel
	b.nextLabel++
	return lid
}

func (b *Builder) newConstant(ty wyvern.DataType) program.Token {
	tid := b.freshToken()
	b.symbols[tid] = program.Symbol{Kind: program.KindConstant, Type: ty}
	return tid
}

func (b *Builder) newVariable(ty wyvern.DataType) program.Token {
	tid := b.freshToken()
	b.symbols[tid] = program.Symbol{Kind: program.KindVariable, Type: ty}
	b.storage[tid] = program.StorageEntry{Class: program.StorageVariable, Type: ty}
	return tid
}

func (b *Builder) newArray(ty wyvern.DataType) program.Token {
	tid := b.freshToken()
	b.symbols[tid] = program.Symbol{Kind: program.KindArray, Type: ty}
	return tid
}

// append records op into the currently active frame.
func (b *Builder) append(op program.Operation) {
	b.frames[len(b.frames)-1] = append(b.frames[len(b.frames)-1], op)
}

func (b *Builder) pushFrame() {
	b.frames = append(b.frames, program.OpList{})
}

func (b *Builder) popFrame() program.OpList {
	frame := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	return frame
}

// checkIO rejects a name already bound in either I/O directory. Names are
// unique across both directories for the whole program.
func (b *Builder) checkIO(name string) error {
	if _, ok := b.input[name]; ok {
		return errors.NameConflict(name)
	}
	if _, ok := b.output[name]; ok {
		return errors.NameConflict(name)
	}
	return nil
}

// bindIO registers name in the input or output directory.
func (b *Builder) bindIO(name string, tid program.Token, io wyvern.IoType) {
	switch io {
	case wyvern.Input:
		b.input[name] = tid
	case wyvern.Output:
		b.output[name] = tid
	}
}

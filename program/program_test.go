package program

import (
	"encoding/json"
	"testing"

	"github.com/wyvern-compute/wyvern"
)

func TestSymbolJSON(t *testing.T) {
	tests := []struct {
		sym  Symbol
		want string
	}{
		{Symbol{Kind: KindConstant, Type: wyvern.I32}, `{"Constant":"I32"}`},
		{Symbol{Kind: KindVariable, Type: wyvern.U32}, `{"Variable":"U32"}`},
		{Symbol{Kind: KindArray, Type: wyvern.F32}, `{"Array":"F32"}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.sym)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("marshal = %s, want %s", data, tt.want)
		}

		var back Symbol
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back != tt.sym {
			t.Errorf("round trip = %#v, want %#v", back, tt.sym)
		}
	}

	var sym Symbol
	if err := json.Unmarshal([]byte(`{"Widget":"I32"}`), &sym); err == nil {
		t.Error("unknown symbol kind accepted")
	}
	if err := json.Unmarshal([]byte(`{"Constant":"I32","Variable":"U32"}`), &sym); err == nil {
		t.Error("multi-key symbol accepted")
	}
}

func TestStorageEntryJSON(t *testing.T) {
	tests := []struct {
		entry StorageEntry
		want  string
	}{
		{StorageEntry{Class: StorageVariable, Type: wyvern.Bool}, `{"Variable":"Bool"}`},
		{StorageEntry{Class: StoragePrivateArray, Type: wyvern.I32, MaxSize: 16}, `{"PrivateArray":["I32",16]}`},
		{StorageEntry{Class: StorageSharedArray, Type: wyvern.U32, MaxSize: 1048576}, `{"SharedArray":["U32",1048576]}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.entry)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("marshal = %s, want %s", data, tt.want)
		}

		var back StorageEntry
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back != tt.entry {
			t.Errorf("round trip = %#v, want %#v", back, tt.entry)
		}
	}

	var entry StorageEntry
	if err := json.Unmarshal([]byte(`{"PrivateArray":["I32"]}`), &entry); err == nil {
		t.Error("short array storage accepted")
	}
}

func TestLiteralJSON(t *testing.T) {
	tests := []struct {
		lit  Literal
		want string
	}{
		{LitI32(-5), `{"I32":-5}`},
		{LitU32(4294967295), `{"U32":4294967295}`},
		{LitF32(0.5), `{"F32":0.5}`},
		{LitBool(false), `{"Bool":false}`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.lit)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("marshal = %s, want %s", data, tt.want)
		}

		var back Literal
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if back != tt.lit {
			t.Errorf("round trip = %#v, want %#v", back, tt.lit)
		}
	}
}

func TestEmptyProgramJSON(t *testing.T) {
	data, err := json.Marshal(New())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"symbol":{},"storage":{},"input":{},"output":{},"operation":[]}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}

	p, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Symbols)+len(p.Storage)+len(p.Input)+len(p.Output)+len(p.Operations) != 0 {
		t.Errorf("decoded empty program is not empty: %#v", p)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("empty program fails validation: %v", err)
	}
}

func TestTokenKeysMarshalAsStrings(t *testing.T) {
	p := New()
	p.Symbols[0] = Symbol{Kind: KindVariable, Type: wyvern.U32}
	p.Storage[0] = StorageEntry{Class: StorageVariable, Type: wyvern.U32}
	p.Input["n"] = 0

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"symbol":{"0":{"Variable":"U32"}},"storage":{"0":{"Variable":"U32"}},"input":{"n":0},"output":{},"operation":[]}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

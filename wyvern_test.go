package wyvern

import "testing"

func TestDataTypeTags(t *testing.T) {
	tests := []struct {
		ty  DataType
		tag string
	}{
		{I32, "I32"},
		{U32, "U32"},
		{F32, "F32"},
		{Bool, "Bool"},
	}
	for _, tt := range tests {
		if got := tt.ty.String(); got != tt.tag {
			t.Errorf("%v.String() = %q, want %q", tt.ty, got, tt.tag)
		}
		parsed, ok := ParseDataType(tt.tag)
		if !ok || parsed != tt.ty {
			t.Errorf("ParseDataType(%q) = %v, %v; want %v", tt.tag, parsed, ok, tt.ty)
		}
	}
	if _, ok := ParseDataType("U64"); ok {
		t.Error("ParseDataType accepted an unknown tag")
	}
}

func TestDataTypePredicates(t *testing.T) {
	if !I32.Numeric() || !U32.Numeric() || !F32.Numeric() || Bool.Numeric() {
		t.Error("Numeric() wrong for some type")
	}
	if !I32.Integer() || !U32.Integer() || F32.Integer() || Bool.Integer() {
		t.Error("Integer() wrong for some type")
	}
}

func TestIoTypeTags(t *testing.T) {
	tests := []struct {
		io     IoType
		tag    string
		shared bool
	}{
		{Input, "input", true},
		{Output, "output", true},
		{Private, "private", false},
	}
	for _, tt := range tests {
		if got := tt.io.String(); got != tt.tag {
			t.Errorf("%v.String() = %q, want %q", tt.io, got, tt.tag)
		}
		if got := tt.io.Shared(); got != tt.shared {
			t.Errorf("%v.Shared() = %v, want %v", tt.io, got, tt.shared)
		}
		parsed, ok := ParseIoType(tt.tag)
		if !ok || parsed != tt.io {
			t.Errorf("ParseIoType(%q) = %v, %v; want %v", tt.tag, parsed, ok, tt.io)
		}
	}
}

package builder

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/wyvern-compute/wyvern"
	"github.com/wyvern-compute/wyvern/errors"
)

// test helpers

func mustValue(t *testing.T, v Value, err error) Value {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func wantKind(t *testing.T, err error, phase errors.Phase, kind errors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s/%s error, got nil", phase, kind)
	}
	if !stderrors.Is(err, &errors.Error{Phase: phase, Kind: kind}) {
		t.Fatalf("expected %s/%s error, got %v", phase, kind, err)
	}
}

func TestEmptyProgram(t *testing.T) {
	b := New()
	prog, err := b.Finalize()
	mustOK(t, err)

	data, err := json.Marshal(prog)
	mustOK(t, err)

	want := `{"symbol":{},"storage":{},"input":{},"output":{},"operation":[]}`
	if string(data) != want {
		t.Errorf("serialized empty program = %s, want %s", data, want)
	}
}

func TestFinalizeSeals(t *testing.T) {
	b := New()
	ctx := b.NewContext()
	mustOK(t, ctx.DeclVariable("n", wyvern.U32, wyvern.Input))

	if _, err := b.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	sealed := errors.PhaseBuild
	if err := ctx.DeclVariable("m", wyvern.U32, wyvern.Private); err == nil {
		t.Error("DeclVariable after finalize succeeded")
	} else {
		wantKind(t, err, sealed, errors.KindSealed)
	}
	if _, err := ctx.Get("n"); err == nil {
		t.Error("Get after finalize succeeded")
	} else {
		wantKind(t, err, sealed, errors.KindSealed)
	}
	if err := ctx.Set("n", 1); err == nil {
		t.Error("Set after finalize succeeded")
	} else {
		wantKind(t, err, sealed, errors.KindSealed)
	}
	if _, err := ctx.WorkerID(); err == nil {
		t.Error("WorkerID after finalize succeeded")
	} else {
		wantKind(t, err, sealed, errors.KindSealed)
	}
	if err := ctx.If(func() (Value, error) { return ctx.Bool(true) }, func() error { return nil }); err == nil {
		t.Error("If after finalize succeeded")
	} else {
		wantKind(t, err, sealed, errors.KindSealed)
	}
	if _, err := b.Finalize(); err == nil {
		t.Error("second finalize succeeded")
	} else {
		wantKind(t, err, sealed, errors.KindSealed)
	}
}

func TestFinalizeInsideControlFrame(t *testing.T) {
	b := New()
	ctx := b.NewContext()

	err := ctx.While(
		func() (Value, error) { return ctx.Bool(true) },
		func() error {
			_, err := b.Finalize()
			return err
		},
	)
	wantKind(t, err, errors.PhaseFinalize, errors.KindUnbalanced)

	// The failed finalize must not have sealed the builder, and the
	// abandoned construct must not reach the root.
	prog, err := b.Finalize()
	mustOK(t, err)
	if len(prog.Operations) != 0 {
		t.Errorf("abandoned construct leaked %d operations into the root", len(prog.Operations))
	}
}

func TestFinalizedProgramValidates(t *testing.T) {
	b := New()
	ctx := b.NewContext()

	mustOK(t, ctx.DeclVariable("n", wyvern.U32, wyvern.Input))
	nVal, nErr := ctx.Get("n")
	n := mustValue(t, nVal, nErr)
	mustOK(t, ctx.DeclArray("data", wyvern.F32, wyvern.Output, n, 256))

	err := ctx.IfElse(
		func() (Value, error) {
			vVal, vErr := ctx.Get("n")
			v := mustValue(t, vVal, vErr)
			return v.Gt(0)
		},
		func() error {
			data, err := ctx.Array("data")
			if err != nil {
				return err
			}
			return data.Store(0, float32(1.0))
		},
		func() error {
			return ctx.Set("fallback", true)
		},
	)
	mustOK(t, err)

	prog, err := b.Finalize()
	mustOK(t, err)
	if err := prog.Validate(); err != nil {
		t.Errorf("finalized program fails validation: %v", err)
	}
}

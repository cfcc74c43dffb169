package codegen_test

import (
	"context"
	"testing"

	"surge/internal/calling"
	"surge/internal/codegen"
	"surge/internal/dflow"
	"surge/internal/ir"
	"surge/internal/trace"
)

// TestGenerate_EmitsPhaseSpans covers the ambient tracing stack: a
// function generation call records one ScopeFunction span for the whole
// call plus one child ScopeNode span per major phase (signature
// materialization, region walk).
func TestGenerate_EmitsPhaseSpans(t *testing.T) {
	fn := newTestFunction("f", 1)
	fn.Blocks[1].Stmts = []ir.Stmt{{Kind: ir.StmtReturn}}

	collab := codegen.Collaborators{
		Signatures: calling.NewSignatures(),
		Hooks:      calling.NewHooks(),
		Variables:  calling.NewVariables(),
		Types:      calling.NewTypes(),
		Dataflow:   dflow.NewDataflow(),
		Liveness:   dflow.NewLiveness(nil),
	}
	gen := codegen.New(collab, codegen.Options{})

	tracer := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), tracer)

	root := basic(1)
	_, err := gen.Generate(ctx, fn, root, &calling.Signature{Name: "f"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	events := tracer.Snapshot()
	names := map[string]int{}
	for _, ev := range events {
		if ev.Kind == trace.KindSpanBegin {
			names[ev.Name]++
		}
	}
	for _, want := range []string{"generate_function", "signature_materialization", "region_walk"} {
		if names[want] != 1 {
			t.Errorf("expected exactly one %q span, got %d (events: %+v)", want, names[want], events)
		}
	}
}

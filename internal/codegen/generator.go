// Package codegen is the function-body code generator: it consumes one
// function's IR, region tree, and dataflow facts and produces a C-out
// FunctionDefinition. An instance is created per function, runs to
// completion, and is discarded; it holds no state that outlives the call.
package codegen

import (
	"context"

	"surge/internal/calling"
	"surge/internal/cgenerr"
	"surge/internal/coutast"
	"surge/internal/dflow"
	"surge/internal/image"
	"surge/internal/ir"
	"surge/internal/region"
	"surge/internal/trace"
)

// Collaborators bundles every external, read-only input the generator
// consults besides the function and region tree themselves (spec.md §6,
// "Consumed interfaces").
type Collaborators struct {
	Signatures *calling.Signatures
	Hooks      *calling.Hooks
	Variables  *calling.Variables
	Types      *calling.Types
	Dataflow   *dflow.Dataflow
	Liveness   *dflow.Liveness
	Image      *image.Image // optional; nil disables the string/global heuristics
}

// Generator runs the pipeline for one function at a time. It is cheap to
// construct and safe to reuse sequentially across functions as long as
// each call to Generate owns its own funcGenerator state.
type Generator struct {
	collab Collaborators
	opts   Options
}

// New returns a Generator configured with collab and opts.
func New(collab Collaborators, opts Options) *Generator {
	return &Generator{collab: collab, opts: opts}
}

// Result is what one call to Generate produces: the C-out tree and the
// id of the function definition rooted in it.
type Result struct {
	Tree *coutast.Tree
	Func coutast.DeclID
}

// Generate builds the C-out FunctionDefinition for fn given its region
// tree, or returns an error. A non-nil error is ctx's error when ctx is
// already done as dominator-tree construction starts, and an
// *cgenerr.InvariantViolation otherwise; there is no partial-output
// contract — on failure the caller must discard Result entirely.
//
// The only cancellation check in the whole pipeline happens inside
// dominator-tree construction (spec.md §5); the region walk itself never
// polls ctx.
//
// If ctx carries a tracer (trace.WithTracer), Generate emits one
// ScopeFunction span for the whole call plus one child ScopeNode span per
// major phase: signature materialization, region walk, and (when the
// region tree contains a SWITCH) switch reconstruction.
func (g *Generator) Generate(ctx context.Context, fn *ir.Function, root *region.Node, sig *calling.Signature) (*Result, error) {
	doms, err := dflow.NewDominators(ctx, fn)
	if err != nil {
		return nil, err
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFunction, "generate_function", 0)
	defer span.End(fn.Name)

	fg := &funcGenerator{
		gen:              g,
		fn:               fn,
		root:             root,
		sig:              sig,
		doms:             doms,
		tree:             coutast.NewTree(64, 64, 8, 8),
		tracer:           tracer,
		spanID:           span.ID(),
		variableDecls:    make(map[calling.VariableID]coutast.DeclID),
		labels:           make(map[ir.BlockID]coutast.LabelID),
		globalDecls:      make(map[uint64]coutast.DeclID),
		singleDefMemo:    make(map[calling.VariableID]*singleDefResult),
		singleUseMemo:    make(map[calling.VariableID]*singleUseResult),
		singleAssignMemo: make(map[calling.VariableID]boolMemo),
		movableMemo:      make(map[ir.TermID]boolMemo),
		intermediateMemo: make(map[calling.VariableID]boolMemo),
	}

	def, err := fg.createDefinition()
	if err != nil {
		return nil, err
	}
	return &Result{Tree: fg.tree, Func: def}, nil
}

// funcGenerator is the mutable, per-function state described in spec.md
// §3 ("Core-owned state"). It is exclusive to one Generate call.
type funcGenerator struct {
	gen  *Generator
	fn   *ir.Function
	root *region.Node
	sig  *calling.Signature
	doms *dflow.Dominators
	tree *coutast.Tree

	tracer trace.Tracer
	spanID uint64

	variableDecls map[calling.VariableID]coutast.DeclID
	declOrder     []calling.VariableID
	labels        map[ir.BlockID]coutast.LabelID
	labelPending  map[ir.BlockID]bool
	globalDecls   map[uint64]coutast.DeclID

	singleDefMemo    map[calling.VariableID]*singleDefResult
	singleUseMemo    map[calling.VariableID]*singleUseResult
	singleAssignMemo map[calling.VariableID]boolMemo
	movableMemo      map[ir.TermID]boolMemo
	intermediateMemo map[calling.VariableID]boolMemo

	bodyBlock coutast.StmtID
}

type boolMemo struct {
	computed bool
	value    bool
}

func (fg *funcGenerator) fail(code cgenerr.Code, format string, args ...any) error {
	return cgenerr.New(fg.fn.Name, code, format, args...)
}

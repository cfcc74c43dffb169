// Package trace provides a tracing subsystem for the decompiler pipeline.
//
// The trace package enables tracking of per-function generation phases and
// other operations to help diagnose performance issues and hangs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	snowman generate --trace=- --trace-level=phase
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - NopTracer: Zero-overhead no-op tracer when disabled
//   - StreamTracer: Immediate write to output (file/stderr)
//   - RingTracer: Circular buffer for crash dumps
//   - MultiTracer: Combines multiple tracers
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelError: Only crash dumps
//   - LevelPhase: Driver and pass boundaries
//   - LevelDetail: Function-level events
//   - LevelDebug: Everything including region/term nodes
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeDriver: Top-level CLI operations
//   - ScopeFunction: Per-function processing
//   - ScopePass: Analysis passes (dataflow, regions, codegen)
//   - ScopeNode: sub-phases within one function generation (signature
//     materialization, region walk, switch reconstruction)
//
// # Context Propagation
//
// Tracers are propagated through the generation pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "dominators", parentID)
//	defer span.End("")
package trace

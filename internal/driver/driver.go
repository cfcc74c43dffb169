// Package driver fans a batch of functions out across codegen.Generator
// runs, bounded by a worker limit, and collects their results in the
// same order the functions were submitted.
package driver

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"surge/internal/cache"
	"surge/internal/calling"
	"surge/internal/codegen"
	"surge/internal/ir"
	"surge/internal/progress"
	"surge/internal/region"
)

// Unit is one function queued for generation: its IR, the region tree
// built over it, and its resolved calling signature.
type Unit struct {
	Func   *ir.Function
	Region *region.Node
	Sig    *calling.Signature
}

// Outcome is the per-function result of a GenerateAll run. Err is set on
// failure; otherwise Dump holds the rendered function text, either fresh
// from Result (when CacheHit is false) or read back from the disk cache.
type Outcome struct {
	Unit     Unit
	Result   *codegen.Result
	Dump     string
	Err      error
	CacheHit bool
}

// GenerateAll runs gen.Generate for every unit, using up to jobs workers
// (GOMAXPROCS when jobs <= 0). Results are returned in the same order as
// units regardless of completion order; a failing unit does not cancel
// its siblings, it only populates its own Outcome.Err. If c is non-nil,
// a hit skips generation and a miss populates the cache after a
// successful run. If events is non-nil, GenerateAll sends a progress.Event
// on it for every stage transition of every unit; the caller owns the
// channel and must drain it concurrently with this call.
func GenerateAll(ctx context.Context, gen *codegen.Generator, opts codegen.Options, units []Unit, jobs int, c *cache.Cache, events chan<- progress.Event) ([]Outcome, error) {
	if len(units) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(units))
	fingerprint := optionsFingerprint(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(units)))

	for i, u := range units {
		g.Go(func(i int, u Unit) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				outcomes[i] = generateOne(gctx, gen, u, fingerprint, c, events)
				return nil
			}
		}(i, u))
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func generateOne(ctx context.Context, gen *codegen.Generator, u Unit, fingerprint uint64, c *cache.Cache, events chan<- progress.Event) Outcome {
	emit := func(stage progress.Stage, status progress.Status) {
		if events == nil {
			return
		}
		select {
		case events <- progress.Event{Function: u.Func.Name, Addr: u.Func.Addr, Stage: stage, Status: status}:
		case <-ctx.Done():
		}
	}

	emit(progress.StageGenerating, progress.StatusWorking)

	key := cache.NewKey(u.Func.Addr, u.Func.Name, fingerprint)

	if c != nil {
		if summary, ok, err := c.Get(key); err == nil && ok {
			emit(progress.StageDone, progress.StatusDone)
			return Outcome{Unit: u, CacheHit: true, Dump: summary.Dump}
		}
	}

	result, err := gen.Generate(ctx, u.Func, u.Region, u.Sig)
	if err != nil {
		emit(progress.StageDone, progress.StatusError)
		return Outcome{Unit: u, Err: err}
	}
	dump := result.Tree.Dump(result.Func)

	if c != nil {
		emit(progress.StageCaching, progress.StatusWorking)
		summary := &cache.Summary{
			FuncName:   u.Func.Name,
			FuncAddr:   u.Func.Addr,
			SourceHash: functionFingerprint(u.Func),
			Dump:       dump,
		}
		// Caching is an optimization, not a correctness requirement: a
		// write failure is swallowed rather than turning a successful
		// generation into an error.
		_ = c.Put(key, summary)
	}

	emit(progress.StageDone, progress.StatusDone)
	return Outcome{Unit: u, Result: result, Dump: dump}
}

// optionsFingerprint packs the Options switches that affect generated
// output into a cache-key-stable integer.
func optionsFingerprint(o codegen.Options) uint64 {
	var bits uint64
	if o.PreferConstants {
		bits |= 1 << 0
	}
	if o.PreferCStrings {
		bits |= 1 << 1
	}
	if o.PreferGlobals {
		bits |= 1 << 2
	}
	if o.RegisterVariableNames {
		bits |= 1 << 3
	}
	if o.ExperimentalInlining {
		bits |= 1 << 4
	}
	return bits
}

// functionFingerprint hashes the shape of fn, stored as a cache entry's
// SourceHash: the function's address and name, its block and term counts,
// and each block's statement count. It is not a content hash: no term
// field and no instruction address goes into it.
func functionFingerprint(fn *ir.Function) [sha256.Size]byte {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], fn.Addr)
	h.Write(buf[:])
	fmt.Fprintf(h, "|%s|%d|%d", fn.Name, len(fn.Blocks), len(fn.Terms))
	for _, bb := range fn.Blocks {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(bb.Stmts)))
		h.Write(buf[:])
	}
	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

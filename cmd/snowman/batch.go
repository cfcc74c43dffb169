package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"surge/internal/cache"
	"surge/internal/codegen"
	"surge/internal/config"
	"surge/internal/driver"
	"surge/internal/ir/synth"
)

var (
	batchCount   int
	batchJobs    int
	batchNoCache bool
)

func init() {
	batchCmd.Flags().IntVar(&batchCount, "count", 8, "number of synthesized function clones to process")
	batchCmd.Flags().IntVar(&batchJobs, "jobs", 0, "worker count (<= 0 uses the manifest, then GOMAXPROCS)")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "bypass the disk cache for this run")
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate C-out for a batch of cloned function fixtures concurrently",
	Long: `batch fans internal/ir/synth.Batch's cloned fixtures out across
internal/driver.GenerateAll, standing in for a set of functions pulled
from one analyzed binary and sharing one whole-program Collaborators.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	manifest, err := config.LoadFromDir(".")
	if err != nil {
		return err
	}
	opts := generateOptions(manifest)

	jobs := batchJobs
	if jobs <= 0 {
		jobs = manifest.Driver.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var c *cache.Cache
	if manifest.Cache.Enabled && !batchNoCache {
		dir, err := manifest.Cache.CacheDir("snowman")
		if err != nil {
			return fmt.Errorf("resolve cache dir: %w", err)
		}
		c, err = cache.Open(dir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
	}

	cases, collab := synth.Batch(batchCount)
	units := make([]driver.Unit, len(cases))
	for i, cs := range cases {
		units[i] = driver.Unit{Func: cs.Func, Region: cs.Region, Sig: cs.Sig}
	}
	gen := codegen.New(collab, opts)

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var outcomes []driver.Outcome
	if shouldUseTUI(mode) {
		outcomes, err = runBatchWithUI(cmd.Context(), "snowman batch", units, gen, opts, jobs, c)
	} else {
		outcomes, err = driver.GenerateAll(cmd.Context(), gen, opts, units, jobs, c, nil)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(out, "%s: error: %v\n", o.Unit.Func.Name, o.Err)
			continue
		}
		tag := "generated"
		if o.CacheHit {
			tag = "cached"
		}
		fmt.Fprintf(out, "%s: %s (%d bytes)\n", o.Unit.Func.Name, tag, len(o.Dump))
	}
	return nil
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"surge/internal/codegen"
	"surge/internal/config"
	"surge/internal/ir/synth"
	"surge/internal/observ"
)

var (
	generateName    string
	generateTimings bool
)

func init() {
	generateCmd.Flags().StringVar(&generateName, "name", "", "generate only the fixture with this name (default: all)")
	generateCmd.Flags().BoolVar(&generateTimings, "timings", false, "print per-fixture generation timings")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate C-out for one or all synthesized function fixtures",
	Long: `generate runs codegen.Generator directly over the fixtures in
internal/ir/synth, standing in for the disassembler and lifter this repo
never implements, and prints each function's rendered C-out tree.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	manifest, err := config.LoadFromDir(".")
	if err != nil {
		return err
	}
	opts := generateOptions(manifest)

	cases := synth.All()
	if generateName != "" {
		filtered := cases[:0]
		for _, c := range cases {
			if c.Name == generateName {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("no fixture named %q (known: %s)", generateName, fixtureNames(synth.All()))
		}
		cases = filtered
	}

	timer := observ.NewTimer()
	out := cmd.OutOrStdout()
	for _, c := range cases {
		gen := codegen.New(c.Collab, opts)
		idx := timer.Begin(c.Name)
		res, err := gen.Generate(cmd.Context(), c.Func, c.Region, c.Sig)
		timer.End(idx, "")
		if err != nil {
			return fmt.Errorf("generate %s: %w", c.Name, err)
		}
		fmt.Fprintf(out, "// %s (0x%x)\n%s\n", c.Name, c.Func.Addr, res.Tree.Dump(res.Func))
	}

	if generateTimings {
		fmt.Fprint(out, timer.Summary())
	}
	return nil
}

func generateOptions(m *config.Manifest) codegen.Options {
	return codegen.Options{
		PreferConstants:       m.Generate.PreferConstants,
		PreferCStrings:        m.Generate.PreferCStrings,
		PreferGlobals:         m.Generate.PreferGlobals,
		RegisterVariableNames: m.Generate.RegisterVariableNames,
		ExperimentalInlining:  m.Generate.ExperimentalInlining,
	}
}

func fixtureNames(cases []synth.Case) string {
	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

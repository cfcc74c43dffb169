package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"surge/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "snowman",
	Short: "Function-body decompiler code generator",
	Long:  `snowman turns a function's IR, region tree, and dataflow facts into a C-out AST.`,
}

// main sets the command version, registers subcommands and persistent
// flags, and executes the root command. A non-nil error from Execute
// exits the process with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("trace", "", "write a trace stream to this path")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace verbosity (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "trace in-memory ring buffer size")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit a heartbeat trace event at this interval (0 disables)")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI mode (auto|on|off)")

	var traceCleanup func()
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if traceCleanup != nil {
			traceCleanup()
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal, used to
// auto-detect whether the batch progress bar should render.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

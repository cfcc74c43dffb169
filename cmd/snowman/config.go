package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"surge/internal/config"
)

var configDir string

func init() {
	configCmd.Flags().StringVar(&configDir, "dir", ".", "directory to search for snowman.toml")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Load and print the effective generation manifest",
	Long: `config resolves the snowman.toml that generate/batch would use
(searching upward from --dir, falling back to defaults) and prints its
effective settings.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	manifest, err := config.LoadFromDir(configDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if manifest.Path == "" {
		fmt.Fprintln(out, "# no snowman.toml found, showing defaults")
	} else {
		fmt.Fprintf(out, "# %s\n", manifest.Path)
	}

	fmt.Fprintf(out, "[generate]\n")
	fmt.Fprintf(out, "prefer_constants = %t\n", manifest.Generate.PreferConstants)
	fmt.Fprintf(out, "prefer_cstrings = %t\n", manifest.Generate.PreferCStrings)
	fmt.Fprintf(out, "prefer_globals = %t\n", manifest.Generate.PreferGlobals)
	fmt.Fprintf(out, "register_variable_names = %t\n", manifest.Generate.RegisterVariableNames)
	fmt.Fprintf(out, "experimental_inlining = %t\n\n", manifest.Generate.ExperimentalInlining)

	fmt.Fprintf(out, "[driver]\n")
	fmt.Fprintf(out, "jobs = %d\n\n", manifest.Driver.Jobs)

	dir, err := manifest.Cache.CacheDir("snowman")
	if err != nil {
		return fmt.Errorf("resolve cache dir: %w", err)
	}
	fmt.Fprintf(out, "[cache]\n")
	fmt.Fprintf(out, "enabled = %t\n", manifest.Cache.Enabled)
	fmt.Fprintf(out, "dir = %q\n", dir)
	return nil
}

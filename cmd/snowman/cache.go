package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"surge/internal/cache"
	"surge/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the on-disk function summary cache",
}

var cacheInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report the cache location and entry count",
	Args:  cobra.NoArgs,
	RunE:  runCacheInspect,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached function summary",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheInspectCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheInspect(cmd *cobra.Command, args []string) error {
	dir, err := resolveCacheDir()
	if err != nil {
		return err
	}
	entries, err := filepath.Glob(filepath.Join(dir, "functions", "*.mp"))
	if err != nil {
		return fmt.Errorf("list cache entries: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cache dir: %s\n", dir)
	fmt.Fprintf(out, "entries:   %d\n", len(entries))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	dir, err := resolveCacheDir()
	if err != nil {
		return err
	}
	c, err := cache.Open(dir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if err := c.DropAll(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", dir)
	return nil
}

func resolveCacheDir() (string, error) {
	manifest, err := config.LoadFromDir(".")
	if err != nil {
		return "", err
	}
	return manifest.Cache.CacheDir("snowman")
}

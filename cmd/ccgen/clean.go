package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ccgen/internal/buildpipeline"
	"ccgen/internal/project"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated IR and, with --cache, the IR cache",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache", false, "also drop the IR cache")
}

func runClean(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg := project.Default()
	base := cwd
	manifest, found, err := project.LoadManifest(cwd)
	if err != nil {
		return err
	}
	if found {
		cfg = manifest.Config
		base = manifest.Root
	}
	cfg.Resolve(base)
	out := cmd.OutOrStdout()

	info, err := os.Stat(cfg.Build.OutDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		_, _ = fmt.Fprintf(out, "output directory not found\n")
	case err != nil:
		return fmt.Errorf("failed to stat %q: %w", cfg.Build.OutDir, err)
	case !info.IsDir():
		return fmt.Errorf("%q is not a directory", cfg.Build.OutDir)
	default:
		if err := os.RemoveAll(cfg.Build.OutDir); err != nil {
			return fmt.Errorf("failed to remove %q: %w", cfg.Build.OutDir, err)
		}
		_, _ = fmt.Fprintf(out, "removed %s\n", formatPathForOutput(base, cfg.Build.OutDir))
	}

	dropCache, err := cmd.Flags().GetBool("cache")
	if err != nil || !dropCache {
		return err
	}
	if cfg.Build.CacheDir == "" {
		_, _ = fmt.Fprintf(out, "no cache configured\n")
		return nil
	}
	cache, err := buildpipeline.OpenCache(cfg.Build.CacheDir)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop cache: %w", err)
	}
	_, _ = fmt.Fprintf(out, "dropped cache %s\n", formatPathForOutput(base, cache.Dir()))
	return nil
}

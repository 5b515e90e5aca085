package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ccgen/internal/backend/llvm"
	"ccgen/internal/buildpipeline"
	"ccgen/internal/diagfmt"
	"ccgen/internal/observ"
	"ccgen/internal/project"
	"ccgen/internal/source"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] inputs...",
	Short: "Generate LLVM IR for AST documents",
	Long: `Generate LLVM IR for every input. Inputs are .yaml, .yml or .astpack files,
or directories searched recursively for them. Settings come from the nearest
ccgen.toml; flags override it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: buildExecution,
}

func init() {
	buildCmd.Flags().String("out-dir", "", "output directory (default [build].out_dir or ./build)")
	buildCmd.Flags().Int("jobs", 0, "max parallel units (0=auto)")
	buildCmd.Flags().Bool("stdout", false, "print IR to stdout instead of writing files")
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().String("target", "", "target triple (default [module].target_triple)")
	buildCmd.Flags().String("unreachable", "", "unreachable statements policy (warn|error)")
	buildCmd.Flags().String("cache-dir", "", "IR cache directory (default [build].cache_dir)")
	buildCmd.Flags().Bool("no-cache", false, "disable the IR cache")
	buildCmd.Flags().String("diag-format", "pretty", "diagnostics format (pretty|json)")
	buildCmd.Flags().String("path-mode", "auto", "diagnostic paths (auto|absolute|basename)")
	buildCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
}

// buildSettings is ccgen.toml merged with command-line flags.
type buildSettings struct {
	inputs      []string
	baseDir     string
	outDir      string
	jobs        int
	stdout      bool
	ui          progressMode
	target      string
	unreachable llvm.UnreachablePolicy
	cacheDir    string
	diagFormat  string
	pathMode    diagfmt.PathMode
	withNotes   bool
	maxDiags    int
	quiet       bool
	timings     bool
}

func resolveBuildSettings(cmd *cobra.Command, args []string) (*buildSettings, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg := project.Default()
	base := cwd
	manifest, found, err := project.LoadManifest(cwd)
	if err != nil {
		return nil, err
	}
	if found {
		cfg = manifest.Config
		base = manifest.Root
	}
	cfg.Resolve(base)

	flags := cmd.Flags()
	s := &buildSettings{
		baseDir:     cwd,
		outDir:      cfg.Build.OutDir,
		jobs:        cfg.Build.Jobs,
		target:      cfg.Module.TargetTriple,
		unreachable: cfg.Unreachable(),
		cacheDir:    cfg.Build.CacheDir,
	}
	if flags.Changed("out-dir") {
		if s.outDir, err = flags.GetString("out-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
		if s.jobs < 0 {
			return nil, fmt.Errorf("--jobs must not be negative")
		}
	}
	if flags.Changed("target") {
		if s.target, err = flags.GetString("target"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("unreachable") {
		value, err := flags.GetString("unreachable")
		if err != nil {
			return nil, err
		}
		if s.unreachable, err = llvm.ParseUnreachablePolicy(value); err != nil {
			return nil, err
		}
	}
	if flags.Changed("cache-dir") {
		if s.cacheDir, err = flags.GetString("cache-dir"); err != nil {
			return nil, err
		}
	}
	if noCache, err := flags.GetBool("no-cache"); err != nil {
		return nil, err
	} else if noCache {
		s.cacheDir = ""
	}
	if s.stdout, err = flags.GetBool("stdout"); err != nil {
		return nil, err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return nil, err
	}
	if s.ui, err = parseProgressMode(uiValue); err != nil {
		return nil, err
	}
	if s.diagFormat, err = flags.GetString("diag-format"); err != nil {
		return nil, err
	}
	if s.diagFormat != "pretty" && s.diagFormat != "json" {
		return nil, fmt.Errorf("unsupported --diag-format %q (must be pretty or json)", s.diagFormat)
	}
	pathValue, err := flags.GetString("path-mode")
	if err != nil {
		return nil, err
	}
	var ok bool
	if s.pathMode, ok = diagfmt.ParsePathMode(pathValue); !ok {
		return nil, fmt.Errorf("invalid --path-mode %q (expected auto|absolute|basename)", pathValue)
	}
	if s.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return nil, err
	}
	root := cmd.Root().PersistentFlags()
	if s.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, err
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, err
	}

	if s.inputs, err = collectInputs(args); err != nil {
		return nil, err
	}
	return s, nil
}

// collectInputs expands directories into the documents below them, sorted
// for a deterministic order.
func collectInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		found, err := listDocuments(arg)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no .yaml, .yml or .astpack files in %q", arg)
		}
		inputs = append(inputs, found...)
	}
	return inputs, nil
}

func buildExecution(cmd *cobra.Command, args []string) error {
	s, err := resolveBuildSettings(cmd, args)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var cache *buildpipeline.Cache
	if s.cacheDir != "" {
		if cache, err = buildpipeline.OpenCache(s.cacheDir); err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	files := source.NewFileSet()
	files.SetBaseDir(s.baseDir)
	timer := observ.NewTimer()
	req := &buildpipeline.Request{
		Inputs:         s.inputs,
		OutDir:         s.outDir,
		Stdout:         s.stdout,
		Jobs:           s.jobs,
		TargetTriple:   s.target,
		Unreachable:    s.unreachable,
		MaxDiagnostics: s.maxDiags,
		Cache:          cache,
		Files:          files,
	}
	if s.timings {
		req.Timer = timer
	}

	var res *buildpipeline.Result
	if s.useProgressView(isTerminal(os.Stdout)) {
		res, err = runBuildWithUI(cmd.Context(), "ccgen build", s.inputs, req)
	} else {
		res, err = buildpipeline.Build(cmd.Context(), req)
	}
	if res == nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if s.stdout {
		if werr := printIR(stdout, res); werr != nil {
			return werr
		}
	}
	if derr := printDiagnostics(stderr, res, s); derr != nil {
		return derr
	}
	if !s.quiet && !s.stdout {
		printWritten(stdout, res, s.baseDir)
	}
	if s.timings {
		if terr := printStageTimings(stderr, res, req.Timer); terr != nil {
			return terr
		}
	}
	return err
}

func printIR(w io.Writer, res *buildpipeline.Result) error {
	for _, u := range res.Units {
		if u == nil || u.Err != nil || u.IR == "" {
			continue
		}
		if _, err := io.WriteString(w, u.IR); err != nil {
			return err
		}
	}
	return nil
}

func printDiagnostics(w io.Writer, res *buildpipeline.Result, s *buildSettings) error {
	diags := res.Diagnostics()
	if s.diagFormat == "json" {
		return diagfmt.JSON(w, diags, res.Files, diagfmt.JSONOpts{PathMode: s.pathMode, IncludeNotes: s.withNotes})
	}
	if len(diags) == 0 {
		return nil
	}
	if err := diagfmt.Pretty(w, diags, res.Files, diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		PathMode:  s.pathMode,
		ShowNotes: s.withNotes,
	}); err != nil {
		return err
	}
	if !s.quiet {
		_, err := fmt.Fprintln(w, diagfmt.Summary(diags))
		return err
	}
	return nil
}

func printWritten(w io.Writer, res *buildpipeline.Result, base string) {
	for _, u := range res.Units {
		if u == nil || u.Err != nil || u.OutputPath == "" {
			continue
		}
		suffix := ""
		if u.Cached {
			suffix = " (cached)"
		}
		_, _ = fmt.Fprintf(w, "wrote %s%s\n", formatPathForOutput(base, u.OutputPath), suffix)
	}
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

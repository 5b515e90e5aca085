// Package buildpipeline runs decode, lower and write over a set of AST
// documents, one codegen session per unit.
package buildpipeline

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ccgen/internal/astio"
	"ccgen/internal/backend/llvm"
	"ccgen/internal/diag"
	"ccgen/internal/observ"
	"ccgen/internal/project"
	"ccgen/internal/source"
	"ccgen/internal/trace"
)

// Request configures a build.
type Request struct {
	Inputs []string
	// OutDir receives <base name>.ll per input. Ignored with Stdout.
	OutDir string
	// Stdout keeps the rendered IR in UnitResult.IR instead of writing files.
	Stdout         bool
	Jobs           int
	TargetTriple   string
	Unreachable    llvm.UnreachablePolicy
	MaxDiagnostics int
	// Cache is optional; nil disables caching.
	Cache    *Cache
	Progress ProgressSink
	// Files is optional; Build creates one when nil.
	Files *source.FileSet
	// Timer is optional and receives one phase per unit and stage.
	Timer *observ.Timer
}

// UnitResult is the outcome of one input.
type UnitResult struct {
	Input      string
	Module     string
	OutputPath string
	IR         string
	Bag        *diag.Bag
	Timings    *Timings
	Cached     bool
	Err        error
}

// Result collects every unit in input order.
type Result struct {
	Units  []*UnitResult
	Files  *source.FileSet
	Failed int
}

// ErrUnitsFailed is returned by Build when at least one unit failed.
var ErrUnitsFailed = errors.New("one or more units failed")

// Diagnostics returns the diagnostics of every unit, sorted.
func (r *Result) Diagnostics() []diag.Diagnostic {
	all := diag.NewBag(0)
	for _, u := range r.Units {
		if u != nil && u.Bag != nil {
			all.Merge(u.Bag)
		}
	}
	all.Sort()
	return all.Items()
}

// OutputPath returns where the IR of input is written inside outDir.
func OutputPath(outDir, input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+".ll")
}

// Build generates every input. Units run concurrently and never share IR
// state, so one failing unit does not stop the others. The returned error is
// a request problem, cancellation, or ErrUnitsFailed.
func Build(ctx context.Context, req *Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return nil, fmt.Errorf("missing build request")
	}
	if len(req.Inputs) == 0 {
		return nil, fmt.Errorf("no inputs")
	}
	if !req.Stdout && req.OutDir == "" {
		return nil, fmt.Errorf("missing output directory")
	}
	if err := checkOutputCollisions(req); err != nil {
		return nil, err
	}
	files := req.Files
	if files == nil {
		files = source.NewFileSet()
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "build", trace.CurrentSpan(ctx))
	span.WithExtra("units", strconv.Itoa(len(req.Inputs)))
	ctx = trace.WithSpan(ctx, span)

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	result := &Result{Files: files, Units: make([]*UnitResult, len(req.Inputs))}
	emitQueued(req.Progress, req.Inputs)

	// indices are unique per goroutine, no lock needed for result.Units
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Inputs)))
	for i, input := range req.Inputs {
		i, input := i, input
		g.Go(func() error {
			u := &UnitResult{Input: input, Bag: diag.NewBag(req.MaxDiagnostics), Timings: &Timings{}}
			result.Units[i] = u
			if err := gctx.Err(); err != nil {
				u.Err = err
				emitStage(req.Progress, input, StageDecode, StatusError, err, 0)
				return err
			}
			buildUnit(gctx, req, files, u)
			return nil
		})
	}
	err := g.Wait()

	for _, u := range result.Units {
		if u != nil && u.Err != nil {
			result.Failed++
		}
	}
	span.WithExtra("failed", strconv.Itoa(result.Failed))
	span.End("")

	switch {
	case err != nil:
		return result, err
	case ctx.Err() != nil:
		return result, ctx.Err()
	case result.Failed > 0:
		return result, ErrUnitsFailed
	}
	return result, nil
}

func checkOutputCollisions(req *Request) error {
	if req.Stdout {
		return nil
	}
	seen := make(map[string]string, len(req.Inputs))
	for _, input := range req.Inputs {
		out := OutputPath(req.OutDir, input)
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("inputs %q and %q both write %s", prev, input, out)
		}
		seen[out] = input
	}
	return nil
}

type unitRun struct {
	req   *Request
	files *source.FileSet
	u     *UnitResult
	file  source.FileID
}

func (r *unitRun) stage(ctx context.Context, stage Stage, fn func(context.Context) error) error {
	input := r.u.Input
	emitStage(r.req.Progress, input, stage, StatusWorking, nil, 0)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, string(stage), trace.CurrentSpan(ctx))
	start := time.Now()
	err := fn(trace.WithSpan(ctx, span))
	elapsed := time.Since(start)
	span.End(input)
	r.u.Timings.Add(stage, elapsed)
	if r.req.Timer != nil {
		r.req.Timer.Record(string(stage)+" "+input, elapsed, "")
	}
	if err != nil {
		r.fail(stage, err, elapsed)
		return err
	}
	emitStage(r.req.Progress, input, stage, StatusDone, nil, elapsed)
	return nil
}

func (r *unitRun) fail(stage Stage, err error, elapsed time.Duration) {
	r.u.Err = err
	reportError(r.u.Bag, r.file, err)
	emitStage(r.req.Progress, r.u.Input, stage, StatusError, err, elapsed)
}

func buildUnit(ctx context.Context, req *Request, files *source.FileSet, u *UnitResult) {
	r := &unitRun{req: req, files: files, u: u, file: files.Add(u.Input)}
	opts := llvm.Options{
		TargetTriple: req.TargetTriple,
		Unreachable:  req.Unreachable,
		Reporter:     &diag.BagReporter{Bag: u.Bag},
	}
	if !req.Stdout {
		u.OutputPath = OutputPath(req.OutDir, u.Input)
	}

	var (
		unit    *astio.Unit
		out     *llvm.Output
		key     project.Digest
		payload *CachePayload
	)
	err := r.stage(ctx, StageDecode, func(ctx context.Context) error {
		data, err := os.ReadFile(u.Input)
		if err != nil {
			return &readError{path: u.Input, err: err}
		}
		if req.Cache != nil {
			key = CacheKey(sha256.Sum256(data), moduleHint(u.Input), opts)
			if payload = r.lookup(ctx, key); payload != nil {
				return nil
			}
		}
		unit, err = astio.Decode(u.Input, data, files)
		return err
	})
	if err != nil {
		return
	}
	if payload != nil {
		r.replay(ctx, payload)
		return
	}
	u.Module = unit.Module

	err = r.stage(ctx, StageLower, func(ctx context.Context) error {
		s := llvm.NewSession(unit.Module, opts)
		if err := s.Run(ctx, unit.Tree); err != nil {
			return err
		}
		var err error
		out, err = s.Finish()
		return err
	})
	if err != nil {
		return
	}

	if req.Cache != nil {
		payload := &CachePayload{Module: unit.Module, IR: out.String(), Warnings: cacheWarnings(u.Bag)}
		if err := req.Cache.Put(key, payload); err != nil {
			diag.ReportWarning(&diag.BagReporter{Bag: u.Bag}, diag.IOWriteFailure, source.Loc{File: r.file},
				fmt.Sprintf("cache write failed: %v", err)).Emit()
		}
	}
	r.write(ctx, out)
}

func (r *unitRun) lookup(ctx context.Context, key project.Digest) *CachePayload {
	payload, ok, err := r.req.Cache.Get(key)
	if err != nil {
		diag.ReportWarning(&diag.BagReporter{Bag: r.u.Bag}, diag.IOReadFailure, source.Loc{File: r.file},
			fmt.Sprintf("ignoring cache entry: %v", err)).Emit()
		return nil
	}
	if !ok {
		return nil
	}
	trace.Point(trace.FromContext(ctx), trace.ScopePass, "cache-hit", r.u.Input, trace.CurrentSpan(ctx))
	return payload
}

func (r *unitRun) replay(ctx context.Context, payload *CachePayload) {
	r.u.Cached = true
	r.u.Module = payload.Module
	replayWarnings(r.u.Bag, r.file, payload.Warnings)
	emitStage(r.req.Progress, r.u.Input, StageLower, StatusCached, nil, 0)
	r.write(ctx, llvm.NewOutput(payload.Module, payload.IR))
}

func (r *unitRun) write(ctx context.Context, out *llvm.Output) {
	if r.req.Stdout {
		r.u.IR = out.String()
		emitStage(r.req.Progress, r.u.Input, StageWrite, StatusDone, nil, 0)
		return
	}
	_ = r.stage(ctx, StageWrite, func(context.Context) error {
		return out.WriteToFile(r.u.OutputPath)
	})
}

// moduleHint is the module name the unit would get without a module key.
// Documents that name their module are keyed by contents anyway.
func moduleHint(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

package harness

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/zeromicro/go-zero/core/logx"
)

// Runner 按Options执行一组benchmark
type Runner struct {
	opts       Options
	benchmarks []Benchmark
}

func NewRunner(opts Options, benchmarks []Benchmark) *Runner {
	return &Runner{opts: opts, benchmarks: benchmarks}
}

func (r *Runner) Options() Options { return r.opts }

// Run 依次执行每个匹配的benchmark。
// FailOnError为true时遇到第一个错误立即返回，不产生报告；
// 否则跳过失败的benchmark，返回部分报告和ErrPartialRun。
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}
	selected := r.selected()
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoBenchmarks, r.opts.Include)
	}

	logger := logx.WithContext(ctx)
	report := &Report{Mode: r.opts.Mode.String()}
	var failed []error
	for _, b := range selected {
		res, err := r.runBenchmark(ctx, b)
		if err != nil {
			if r.opts.FailOnError || ctx.Err() != nil {
				return nil, err
			}
			logger.Errorf("benchmark %s failed, skipped: %v", b.Name, err)
			failed = append(failed, err)
			continue
		}
		report.Results = append(report.Results, res)
	}
	slices.SortFunc(report.Results, func(a, b Result) int {
		return cmp.Compare(a.Benchmark, b.Benchmark)
	})

	if len(failed) > 0 {
		return report, fmt.Errorf("%w: %w", ErrPartialRun, errors.Join(failed...))
	}
	return report, nil
}

func (r *Runner) selected() []Benchmark {
	// Validate已经检查过正则
	re := regexp.MustCompile(r.opts.Include)
	var out []Benchmark
	for _, b := range r.benchmarks {
		if re.MatchString(b.Name) {
			out = append(out, b)
		}
	}
	return out
}

func (r *Runner) runBenchmark(ctx context.Context, b Benchmark) (Result, error) {
	logger := logx.WithContext(ctx)
	logger.Infof("# Benchmark: %s", b.Name)

	if r.opts.Forks == 0 {
		res, err := runFork(ctx, b, r.opts)
		if err != nil {
			return Result{}, err
		}
		return newResult(b.Name, r.opts, res.Iterations)
	}

	for i := 0; i < r.opts.WarmupForks; i++ {
		logger.Infof("# Warmup Fork: %d of %d", i+1, r.opts.WarmupForks)
		if _, err := r.spawnFork(ctx, b); err != nil {
			return Result{}, err
		}
	}

	var iterations []iterationResult
	for i := 0; i < r.opts.Forks; i++ {
		logger.Infof("# Fork: %d of %d", i+1, r.opts.Forks)
		res, err := r.spawnFork(ctx, b)
		if err != nil {
			return Result{}, err
		}
		iterations = append(iterations, res.Iterations...)
	}
	return newResult(b.Name, r.opts, iterations)
}

package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/bytedance/sonic"
	"github.com/zeromicro/go-zero/core/logx"
)

// forkEnv 子进程通过该环境变量收到fork请求
const forkEnv = "REFLECTION_BENCH_FORK"

const (
	failureSetup      = "setup"
	failureInvocation = "invocation"
	failureFork       = "fork"
)

type forkRequest struct {
	Benchmark string  `json:"benchmark"`
	Options   Options `json:"options"`
}

// forkResult 一个fork的全部测量迭代，子进程以JSON写到stdout
type forkResult struct {
	Benchmark  string            `json:"benchmark"`
	Iterations []iterationResult `json:"iterations,omitempty"`
	Failure    *forkFailure      `json:"failure,omitempty"`
}

type forkFailure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func failureOf(err error) *forkFailure {
	var se *SetupError
	if errors.As(err, &se) {
		return &forkFailure{Kind: failureSetup, Message: se.Err.Error()}
	}
	var ie *InvocationError
	if errors.As(err, &ie) {
		return &forkFailure{Kind: failureInvocation, Message: ie.Err.Error()}
	}
	return &forkFailure{Kind: failureFork, Message: err.Error()}
}

// err 在父进程中还原子进程的错误类型
func (f *forkFailure) err(benchmark string) error {
	cause := errors.New(f.Message)
	switch f.Kind {
	case failureSetup:
		return &SetupError{Benchmark: benchmark, Err: cause}
	case failureInvocation:
		return &InvocationError{Benchmark: benchmark, Err: cause}
	default:
		return &ForkError{Benchmark: benchmark, Err: cause}
	}
}

// IsForkChild 当前进程是否由Runner作为fork启动
func IsForkChild() bool {
	_, ok := os.LookupEnv(forkEnv)
	return ok
}

// ServeFork fork子进程的入口，返回值作为进程退出码。日志写到stderr，stdout只留给结果。
func ServeFork(benchmarks []Benchmark) int {
	return serveFork(context.Background(), os.Getenv(forkEnv), benchmarks, os.Stdout, setupForkLog)
}

// setupForkLog 子进程沿用父进程的日志配置
func setupForkLog(c logx.LogConf) {
	logx.MustSetup(c)
	logx.SetWriter(logx.NewWriter(os.Stderr))
}

func serveFork(ctx context.Context, raw string, benchmarks []Benchmark, w io.Writer, setupLog func(logx.LogConf)) int {
	var req forkRequest
	if err := sonic.UnmarshalString(raw, &req); err != nil {
		setupLog(logx.LogConf{})
		logx.Errorf("decode fork request: %v", err)
		return 2
	}
	setupLog(req.Options.Log)

	var (
		res *forkResult
		err error
	)
	if b, ok := lookup(benchmarks, req.Benchmark); ok {
		res, err = runFork(ctx, b, req.Options)
	} else {
		err = fmt.Errorf("unknown benchmark %q", req.Benchmark)
	}
	if err != nil {
		logx.Errorf("fork %s failed: %v", req.Benchmark, err)
		res = &forkResult{Benchmark: req.Benchmark, Failure: failureOf(err)}
	}

	out, mErr := sonic.Marshal(res)
	if mErr != nil {
		logx.Errorf("encode fork result: %v", mErr)
		return 2
	}
	if _, wErr := w.Write(out); wErr != nil {
		logx.Errorf("write fork result: %v", wErr)
		return 2
	}
	if err != nil {
		return 1
	}
	return 0
}

func lookup(benchmarks []Benchmark, name string) (Benchmark, bool) {
	for _, b := range benchmarks {
		if b.Name == name {
			return b, true
		}
	}
	return Benchmark{}, false
}

// runFork 在当前进程内完成一个fork：每个线程setup一次，预热，然后测量
func runFork(ctx context.Context, b Benchmark, opts Options) (*forkResult, error) {
	ops := make([]Op, opts.Threads)
	for i := range ops {
		op, err := setup(b)
		if err != nil {
			return nil, &SetupError{Benchmark: b.Name, Err: err}
		}
		ops[i] = op
	}
	workers := newWorkers(ops)

	for i := 0; i < opts.WarmupIterations; i++ {
		it, err := runIteration(ctx, workers, opts.WarmupTime, opts)
		if err != nil {
			return nil, invocationError(ctx, b.Name, err)
		}
		logx.Infof("# Warmup Iteration %d: %.3f %s", i+1, it.Score, scoreUnit(opts))
	}

	res := &forkResult{Benchmark: b.Name}
	for i := 0; i < opts.MeasurementIterations; i++ {
		it, err := runIteration(ctx, workers, opts.MeasurementTime, opts)
		if err != nil {
			return nil, invocationError(ctx, b.Name, err)
		}
		logx.Infof("Iteration %d: %.3f %s", i+1, it.Score, scoreUnit(opts))
		res.Iterations = append(res.Iterations, it)
	}
	return res, nil
}

func setup(b Benchmark) (op Op, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	op, err = b.Setup()
	if err == nil && op == nil {
		err = errNilOp
	}
	return op, err
}

func invocationError(ctx context.Context, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &InvocationError{Benchmark: name, Err: err}
}

// spawnFork 重新执行当前可执行文件来运行一个fork
func (r *Runner) spawnFork(ctx context.Context, b Benchmark) (*forkResult, error) {
	req, err := sonic.MarshalString(forkRequest{Benchmark: b.Name, Options: r.opts})
	if err != nil {
		return nil, &ForkError{Benchmark: b.Name, Err: err}
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, &ForkError{Benchmark: b.Name, Err: err}
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, exe)
	cmd.Env = append(os.Environ(), forkEnv+"="+req)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	var res forkResult
	if err := sonic.Unmarshal(stdout.Bytes(), &res); err != nil {
		return nil, &ForkError{Benchmark: b.Name, Err: errors.Join(runErr, fmt.Errorf("decode fork result: %w", err))}
	}
	if res.Failure != nil {
		return nil, res.Failure.err(b.Name)
	}
	if runErr != nil {
		return nil, &ForkError{Benchmark: b.Name, Err: runErr}
	}
	return &res, nil
}

package harness

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/zeromicro/go-zero/core/syncx"
	"golang.org/x/sync/errgroup"
)

const (
	// targetBatchTime 批次规模翻倍直到单批耗时达到该值
	targetBatchTime = time.Millisecond
	maxBatchSize    = 1 << 30
	// maxSamples 每个线程每轮最多保留的批次样本数
	maxSamples = 1 << 16
)

// iterationResult 一轮迭代所有线程的汇总，按Options.Mode和TimeUnit换算
type iterationResult struct {
	Ops     int64     `json:"ops"`
	Score   float64   `json:"score"`
	Samples []float64 `json:"samples"`
}

// worker 一个线程的Op和它当前的批次规模，批次规模跨迭代保留
type worker struct {
	op    Op
	batch int64
}

func newWorkers(ops []Op) []*worker {
	ws := make([]*worker, len(ops))
	for i, op := range ops {
		ws[i] = &worker{op: op, batch: 1}
	}
	return ws
}

type threadResult struct {
	ops     int64
	elapsed time.Duration
	samples []float64
}

func score(mode Mode, unit time.Duration, ops int64, elapsed time.Duration) float64 {
	if ops == 0 || elapsed <= 0 {
		return 0
	}
	if mode == Throughput {
		return float64(ops) / float64(elapsed) * float64(unit)
	}
	return float64(elapsed) / float64(ops) / float64(unit)
}

// runIteration 每个线程在自己的Op上循环执行，持续d后统一停止
func runIteration(ctx context.Context, workers []*worker, d time.Duration, opts Options) (iterationResult, error) {
	if opts.ShouldDoGC {
		runtime.GC()
	}

	done := syncx.NewAtomicBool()
	g, gctx := errgroup.WithContext(ctx)
	results := make([]threadResult, len(workers))
	for i, w := range workers {
		g.Go(func() error {
			r, err := measureThread(gctx, w, done, opts)
			results[i] = r
			return err
		})
	}

	timer := time.NewTimer(d)
	select {
	case <-timer.C:
	case <-gctx.Done():
	}
	timer.Stop()
	done.Set(true)

	if err := g.Wait(); err != nil {
		return iterationResult{}, err
	}
	return combine(results, opts), nil
}

// measureThread 至少执行一个批次。批次规模翻倍到单批耗时达到targetBatchTime，
// 只有达到该规模的批次才作为样本，爬坡阶段的小批次主要是计时开销
func measureThread(ctx context.Context, w *worker, done *syncx.AtomicBool, opts Options) (threadResult, error) {
	var (
		res  threadResult
		bh   = &Blackhole{}
		last float64
	)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		batch := w.batch
		start := time.Now()
		if err := runBatch(w.op, bh, batch); err != nil {
			return res, err
		}
		elapsed := time.Since(start)

		res.ops += batch
		res.elapsed += elapsed
		last = score(opts.Mode, opts.TimeUnit, batch, elapsed)
		steady := elapsed >= targetBatchTime || batch >= maxBatchSize
		if steady && len(res.samples) < maxSamples {
			res.samples = append(res.samples, last)
		}
		if !steady {
			w.batch *= 2
		}
		if done.True() {
			// 整轮都没爬到目标规模时保留最后一个批次
			if len(res.samples) == 0 {
				res.samples = append(res.samples, last)
			}
			return res, nil
		}
	}
}

func runBatch(op Op, bh *Blackhole, n int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	for i := int64(0); i < n; i++ {
		if err := op(bh); err != nil {
			return err
		}
	}
	return nil
}

// combine 平均耗时取所有线程的总耗时/总次数，吞吐量按线程累加
func combine(results []threadResult, opts Options) iterationResult {
	var it iterationResult
	var elapsed time.Duration
	for _, r := range results {
		it.Ops += r.ops
		elapsed += r.elapsed
		it.Samples = append(it.Samples, r.samples...)
		if opts.Mode == Throughput {
			it.Score += score(Throughput, opts.TimeUnit, r.ops, r.elapsed)
		}
	}
	if opts.Mode != Throughput {
		it.Score = score(AverageTime, opts.TimeUnit, it.Ops, elapsed)
	}
	return it
}

// Package harness 执行基准测试：按fork隔离状态，预热后计时测量，汇总平均耗时和误差。
//
// 子进程fork通过重新执行当前可执行文件实现，main函数需要在最开始调用:
//
//	if harness.IsForkChild() {
//		os.Exit(harness.ServeFork(benchmarks))
//	}
package harness

import (
	"errors"
	"fmt"
)

// Op 被测的一次操作，结果必须交给Blackhole
type Op func(bh *Blackhole) error

// Benchmark 一个可独立执行的基准操作。
// Setup 在每个fork的每个线程上各调用一次，返回绑定到该线程私有状态的Op。
type Benchmark struct {
	Name  string
	Setup func() (Op, error)
}

// Blackhole 吸收操作的返回值，防止编译器把调用当作死代码消除
type Blackhole struct {
	str string
}

func (bh *Blackhole) ConsumeString(s string) { bh.str = s }

// Last 最近一次被吸收的字符串
func (bh *Blackhole) Last() string { return bh.str }

// ---------- 错误 ----------

var (
	ErrNoBenchmarks = errors.New("no benchmarks matched")
	ErrPartialRun   = errors.New("some benchmarks failed")
	errNilOp        = errors.New("setup returned nil op")
)

// SetupError Setup失败，所在fork不会进入测量
type SetupError struct {
	Benchmark string
	Err       error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("benchmark %s: setup: %v", e.Benchmark, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// InvocationError 测量过程中操作返回错误或panic，本轮迭代作废
type InvocationError struct {
	Benchmark string
	Err       error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("benchmark %s: invocation: %v", e.Benchmark, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// ForkError 子进程异常退出或输出无法解析
type ForkError struct {
	Benchmark string
	Err       error
}

func (e *ForkError) Error() string {
	return fmt.Sprintf("benchmark %s: fork: %v", e.Benchmark, e.Err)
}

func (e *ForkError) Unwrap() error { return e.Err }

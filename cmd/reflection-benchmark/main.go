package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/m-fedosov/reflection-benchmark/internal/config"
	"github.com/m-fedosov/reflection-benchmark/internal/harness"
	"github.com/m-fedosov/reflection-benchmark/reflection/performance"
	"github.com/zeromicro/go-zero/core/logx"
)

var configFile = flag.String("f", "", "the config file, built-in defaults are used when empty")

func main() {
	// fork子进程不解析命令行，直接执行请求的benchmark
	if harness.IsForkChild() {
		os.Exit(harness.ServeFork(performance.Benchmarks()))
	}
	flag.Parse()
	os.Exit(run())
}

func run() int {
	var c config.Config
	if err := config.Load(*configFile, &c); err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	logx.MustSetup(c.Log)
	// stdout只输出报告
	logx.SetWriter(logx.NewWriter(os.Stderr))
	defer logx.Close()

	if c.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			logx.Errorf("start gops agent: %v", err)
		} else {
			defer agent.Close()
		}
	}

	runner, err := InitializeRunner(c)
	if err != nil {
		logx.Errorf("init runner: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runner.Run(ctx)
	if report != nil {
		if wErr := writeReport(os.Stdout, c.Format, report); wErr != nil {
			logx.Errorf("write report: %v", wErr)
			return 1
		}
	}
	if err != nil {
		logx.Errorf("benchmark run failed: %v", err)
		return 1
	}
	return 0
}

func writeReport(w io.Writer, format string, report *harness.Report) error {
	if format == "json" {
		return report.WriteJSON(w)
	}
	return report.WriteText(w)
}

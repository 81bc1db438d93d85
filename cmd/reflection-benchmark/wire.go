//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/m-fedosov/reflection-benchmark/internal/config"
	"github.com/m-fedosov/reflection-benchmark/internal/harness"
	"github.com/m-fedosov/reflection-benchmark/reflection/performance"
)

// InitializeRunner 由wire生成实现：Config → Options，加上全部benchmark，组装出Runner
func InitializeRunner(c config.Config) (*harness.Runner, error) {
	wire.Build(
		config.NewOptions,      // config.Config → harness.Options, error
		performance.Benchmarks, // → []harness.Benchmark
		harness.NewRunner,      // harness.Options, []harness.Benchmark → *harness.Runner
	)
	return nil, nil
}

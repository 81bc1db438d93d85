package config

import (
	"time"

	"github.com/m-fedosov/reflection-benchmark/internal/harness"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

// Config 基准测试运行配置，字段与harness.Options一一对应
type Config struct {
	// Include 按正则筛选benchmark
	Include  string `json:",default=ReflectionBenchmark"`
	Mode     string `json:",default=avgt,options=avgt|thrpt"`
	TimeUnit string `json:",default=ns,options=ns|us|ms|s"`

	Forks                 int           `json:",default=1"`
	WarmupForks           int           `json:",default=1"`
	WarmupIterations      int           `json:",default=1"`
	WarmupTime            time.Duration `json:",default=5s"`
	MeasurementIterations int           `json:",default=1"`
	MeasurementTime       time.Duration `json:",default=5s"`
	Threads               int           `json:",default=1"`
	ShouldDoGC            bool          `json:",default=true"`
	FailOnError           bool          `json:",default=true"`

	// Format 报告输出格式
	Format string `json:",default=text,options=text|json"`
	// Gops 运行期间启动gops agent
	Gops bool         `json:",optional"`
	Log  logx.LogConf `json:",optional"`
}

// Load 从文件加载配置，支持 yaml/json/toml 以及 ${ENV} 替换；path为空时只填充默认值
func Load(path string, c *Config) error {
	if path == "" {
		return conf.FillDefault(c)
	}
	return conf.Load(path, c, conf.UseEnv())
}

// NewOptions 把配置转换为harness.Options并校验
func NewOptions(c Config) (harness.Options, error) {
	mode, err := harness.ParseMode(c.Mode)
	if err != nil {
		return harness.Options{}, err
	}
	unit, err := harness.ParseTimeUnit(c.TimeUnit)
	if err != nil {
		return harness.Options{}, err
	}

	opts := harness.Options{
		Include:               c.Include,
		Mode:                  mode,
		TimeUnit:              unit,
		Forks:                 c.Forks,
		WarmupForks:           c.WarmupForks,
		WarmupIterations:      c.WarmupIterations,
		WarmupTime:            c.WarmupTime,
		MeasurementIterations: c.MeasurementIterations,
		MeasurementTime:       c.MeasurementTime,
		Threads:               c.Threads,
		ShouldDoGC:            c.ShouldDoGC,
		FailOnError:           c.FailOnError,
		Log:                   c.Log,
	}
	if err := opts.Validate(); err != nil {
		return harness.Options{}, err
	}
	return opts, nil
}

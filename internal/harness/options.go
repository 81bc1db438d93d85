package harness

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

var ErrInvalidOptions = errors.New("invalid options")

// Mode 基准测试的度量方式
type Mode int

const (
	AverageTime Mode = iota // 每次调用的平均耗时
	Throughput              // 单位时间内的调用次数
)

func (m Mode) String() string {
	switch m {
	case AverageTime:
		return "avgt"
	case Throughput:
		return "thrpt"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "avgt":
		return AverageTime, nil
	case "thrpt":
		return Throughput, nil
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidOptions, s)
	}
}

var timeUnits = []struct {
	label string
	unit  time.Duration
}{
	{"ns", time.Nanosecond},
	{"us", time.Microsecond},
	{"ms", time.Millisecond},
	{"s", time.Second},
}

func ParseTimeUnit(s string) (time.Duration, error) {
	for _, u := range timeUnits {
		if u.label == s {
			return u.unit, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown time unit %q", ErrInvalidOptions, s)
}

func unitLabel(d time.Duration) string {
	for _, u := range timeUnits {
		if u.unit == d {
			return u.label
		}
	}
	return d.String()
}

// Options 一次基准测试的完整配置，fork子进程收到的是同一份
type Options struct {
	// Include 按正则筛选benchmark名字，为空表示全部
	Include  string        `json:"include"`
	Mode     Mode          `json:"mode"`
	TimeUnit time.Duration `json:"timeUnit"`
	// Forks 为0时在当前进程内执行，WarmupForks被忽略
	Forks                 int           `json:"forks"`
	WarmupForks           int           `json:"warmupForks"`
	WarmupIterations      int           `json:"warmupIterations"`
	WarmupTime            time.Duration `json:"warmupTime"`
	MeasurementIterations int           `json:"measurementIterations"`
	MeasurementTime       time.Duration `json:"measurementTime"`
	// Threads 每个线程独立调用一次Setup，状态不共享
	Threads int `json:"threads"`
	// ShouldDoGC 每次迭代开始前执行runtime.GC
	ShouldDoGC bool `json:"shouldDoGC"`
	// FailOnError 任何benchmark出错立即终止整个运行，不输出部分结果
	FailOnError bool `json:"failOnError"`
	// Log fork子进程按同一份配置初始化logx
	Log logx.LogConf `json:"log"`
}

// DefaultOptions 1个fork、1个预热fork，预热和测量各1轮5秒，纳秒为单位的平均耗时
func DefaultOptions() Options {
	return Options{
		Mode:                  AverageTime,
		TimeUnit:              time.Nanosecond,
		Forks:                 1,
		WarmupForks:           1,
		WarmupIterations:      1,
		WarmupTime:            5 * time.Second,
		MeasurementIterations: 1,
		MeasurementTime:       5 * time.Second,
		Threads:               1,
		ShouldDoGC:            true,
		FailOnError:           true,
	}
}

func (o Options) Validate() error {
	switch {
	case o.Mode != AverageTime && o.Mode != Throughput:
		return fmt.Errorf("%w: unknown mode %s", ErrInvalidOptions, o.Mode)
	case o.TimeUnit <= 0:
		return fmt.Errorf("%w: time unit must be positive", ErrInvalidOptions)
	case o.Forks < 0 || o.WarmupForks < 0:
		return fmt.Errorf("%w: fork counts must not be negative", ErrInvalidOptions)
	case o.WarmupIterations < 0:
		return fmt.Errorf("%w: warmup iterations must not be negative", ErrInvalidOptions)
	case o.WarmupIterations > 0 && o.WarmupTime <= 0:
		return fmt.Errorf("%w: warmup time must be positive", ErrInvalidOptions)
	case o.MeasurementIterations < 1:
		return fmt.Errorf("%w: at least one measurement iteration is required", ErrInvalidOptions)
	case o.MeasurementTime <= 0:
		return fmt.Errorf("%w: measurement time must be positive", ErrInvalidOptions)
	case o.Threads < 1:
		return fmt.Errorf("%w: at least one thread is required", ErrInvalidOptions)
	}
	if _, err := regexp.Compile(o.Include); err != nil {
		return fmt.Errorf("%w: include: %w", ErrInvalidOptions, err)
	}
	return nil
}

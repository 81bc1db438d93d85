package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.Equal(t, AverageTime, opts.Mode)
	require.Equal(t, time.Nanosecond, opts.TimeUnit)
	require.Equal(t, 1, opts.Forks)
	require.Equal(t, 1, opts.WarmupForks)
	require.Equal(t, 1, opts.WarmupIterations)
	require.Equal(t, 5*time.Second, opts.WarmupTime)
	require.Equal(t, 1, opts.MeasurementIterations)
	require.Equal(t, 5*time.Second, opts.MeasurementTime)
	require.Equal(t, 1, opts.Threads)
	require.True(t, opts.ShouldDoGC)
	require.True(t, opts.FailOnError)
	require.NoError(t, opts.Validate())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"未知模式", func(o *Options) { o.Mode = Mode(7) }},
		{"时间单位为0", func(o *Options) { o.TimeUnit = 0 }},
		{"fork数为负", func(o *Options) { o.Forks = -1 }},
		{"预热fork数为负", func(o *Options) { o.WarmupForks = -1 }},
		{"预热迭代数为负", func(o *Options) { o.WarmupIterations = -1 }},
		{"预热时长为0", func(o *Options) { o.WarmupTime = 0 }},
		{"没有测量迭代", func(o *Options) { o.MeasurementIterations = 0 }},
		{"测量时长为0", func(o *Options) { o.MeasurementTime = 0 }},
		{"没有线程", func(o *Options) { o.Threads = 0 }},
		{"非法正则", func(o *Options) { o.Include = "(" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			require.ErrorIs(t, opts.Validate(), ErrInvalidOptions)
		})
	}
}

// 不预热时预热时长可以为0
func TestOptions_ValidateNoWarmup(t *testing.T) {
	opts := DefaultOptions()
	opts.WarmupIterations = 0
	opts.WarmupTime = 0
	require.NoError(t, opts.Validate())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("avgt")
	require.NoError(t, err)
	require.Equal(t, AverageTime, m)

	m, err = ParseMode("thrpt")
	require.NoError(t, err)
	require.Equal(t, Throughput, m)

	_, err = ParseMode("sample")
	require.ErrorIs(t, err, ErrInvalidOptions)

	require.Equal(t, "avgt", AverageTime.String())
	require.Equal(t, "thrpt", Throughput.String())
	require.Equal(t, "Mode(9)", Mode(9).String())
}

func TestParseTimeUnit(t *testing.T) {
	for label, want := range map[string]time.Duration{
		"ns": time.Nanosecond,
		"us": time.Microsecond,
		"ms": time.Millisecond,
		"s":  time.Second,
	} {
		got, err := ParseTimeUnit(label)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, label, unitLabel(got))
	}

	_, err := ParseTimeUnit("m")
	require.ErrorIs(t, err, ErrInvalidOptions)
	require.Equal(t, "1m0s", unitLabel(time.Minute))
}

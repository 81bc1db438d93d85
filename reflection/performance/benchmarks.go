package performance

import "github.com/m-fedosov/reflection-benchmark/internal/harness"

const (
	suiteName = "ReflectionBenchmark"
	// subjectName 基准测试中被测对象持有的字符串
	subjectName = "m-fedosov"
)

// Benchmarks 四种调用方式各自作为独立的benchmark，每次Setup都新建一份State
func Benchmarks() []harness.Benchmark {
	return []harness.Benchmark{
		withState("DirectAccess", directAccess),
		withState("ReflectionAccess", reflectionAccess),
		withState("MethodHandleAccess", methodHandleAccess),
		withState("AdapterAccess", adapterAccess),
	}
}

func withState(name string, op func(*State) harness.Op) harness.Benchmark {
	return harness.Benchmark{
		Name: suiteName + "." + name,
		Setup: func() (harness.Op, error) {
			s, err := NewState(subjectName)
			if err != nil {
				return nil, err
			}
			return op(s), nil
		},
	}
}

// 下面四个闭包分别写出调用，保证DirectAccess在闭包内是静态调用

func directAccess(s *State) harness.Op {
	return func(bh *harness.Blackhole) error {
		bh.ConsumeString(s.DirectAccess())
		return nil
	}
}

func reflectionAccess(s *State) harness.Op {
	return func(bh *harness.Blackhole) error {
		bh.ConsumeString(s.ReflectionAccess())
		return nil
	}
}

func methodHandleAccess(s *State) harness.Op {
	return func(bh *harness.Blackhole) error {
		bh.ConsumeString(s.MethodHandleAccess())
		return nil
	}
}

func adapterAccess(s *State) harness.Op {
	return func(bh *harness.Blackhole) error {
		bh.ConsumeString(s.AdapterAccess())
		return nil
	}
}

// Package performance 对比直接调用、反射调用、预解析的方法句柄以及预绑定适配器
// 这四种调用无参访问器的方式的性能差异。
//
// 使用方式：
//
//	go test -run '^$' -bench '^BenchmarkAccess' -benchmem .
//	go run ./cmd/reflection-benchmark
package performance

//go:generate mockgen -source=subject.go -destination=mock_namer_test.go -package=performance

// Namer 被测访问器的契约：无参数，返回字符串
type Namer interface {
	Name() string
}

// Programmer 被测对象，构造后只读
type Programmer struct {
	name string
}

func NewProgrammer(name string) *Programmer {
	return &Programmer{name: name}
}

func (p *Programmer) Name() string { return p.name }

package main

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/m-fedosov/reflection-benchmark/reflection/performance"
)

var sink string

// ============================================================
// 陷阱1：在热路径上按名字查找方法
// reflect.Type.MethodByName 每次都要在方法表中查找并构造reflect.Method，
// 放在循环里会把查找开销算进每一次调用。
// 正确做法：setup阶段解析一次描述符，之后只调用。
// ============================================================

func lookupEveryCall(p *performance.Programmer) string {
	m, _ := reflect.TypeOf(p).MethodByName("Name")
	return m.Func.Call([]reflect.Value{reflect.ValueOf(p)})[0].String()
}

func trapLookupEveryCall() {
	fmt.Println("=== 陷阱1：每次调用都 MethodByName ===")
	p := performance.NewProgrammer("m-fedosov")

	perCall := testing.Benchmark(func(b *testing.B) {
		for b.Loop() {
			sink = lookupEveryCall(p)
		}
	})

	d, err := performance.ResolveDescriptor(reflect.TypeOf(p), "Name")
	if err != nil {
		panic(err)
	}
	resolvedOnce := testing.Benchmark(func(b *testing.B) {
		for b.Loop() {
			sink = d.Invoke(p)
		}
	})

	fmt.Printf("每次查找:   %s\n", perCall)
	fmt.Printf("预先解析:   %s\n\n", resolvedOnce)
}

// ============================================================
// 陷阱2：在被测操作里 recover 吞掉错误
// 反射调用失败会panic，如果在操作内部recover并返回零值，
// benchmark照样跑完并给出一个"很快"的分数，测量结果是错的。
// 正确做法：错误一直向上传播，由harness终止本次运行。
// ============================================================

func swallow(d performance.Descriptor, recv any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = ""
		}
	}()
	return d.Invoke(recv)
}

func trapSwallowPanic() {
	fmt.Println("=== 陷阱2：recover 吞掉调用失败 ===")
	d, err := performance.ResolveDescriptor(reflect.TypeOf(&performance.Programmer{}), "Name")
	if err != nil {
		panic(err)
	}

	// 接收者类型错误，每次调用都会失败
	wrong := struct{}{}
	r := testing.Benchmark(func(b *testing.B) {
		for b.Loop() {
			sink = swallow(d, wrong)
		}
	})
	fmt.Printf("吞掉panic后的\"分数\": %s (每次调用都失败了)\n\n", r)
}

// ============================================================
// 陷阱3：对接口类型解析方法句柄
// 接口类型的reflect.Method没有可调用的Func，
// 必须用具体类型解析，否则setup阶段就会失败。
// ============================================================

func trapInterfaceReceiver() {
	fmt.Println("=== 陷阱3：用接口类型解析 ===")
	var n performance.Namer = performance.NewProgrammer("alice")

	_, err := performance.Resolve(n, "Name") // T推断为Namer
	fmt.Println("Resolve[Namer] 失败:", errors.Is(err, performance.ErrBindFailed), err)

	r, err := performance.Resolve(n.(*performance.Programmer), "Name")
	if err != nil {
		panic(err)
	}
	fmt.Println("Resolve[*Programmer]:", r.Adapter.Call())
}

func main() {
	trapLookupEveryCall()
	trapSwallowPanic()
	trapInterfaceReceiver()
}

package performance

//go:generate stringer -type=Strategy

// Strategy 访问器的调用方式
type Strategy uint8

const (
	DirectCall           Strategy = iota // 编译期确定的直接调用
	DescriptorLookupCall                 // 反射描述符 + reflect.Value.Call
	ResolvedHandleCall                   // 预解析的强类型函数值，调用时传入接收者
	PrebuiltAdapterCall                  // 预绑定接收者的适配器，调用时无参数
)

// Strategies 按基准测试的顺序返回全部调用方式
func Strategies() []Strategy {
	return []Strategy{DirectCall, DescriptorLookupCall, ResolvedHandleCall, PrebuiltAdapterCall}
}

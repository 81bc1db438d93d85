package performance

import "fmt"

// accessorName 被测访问器的方法名
const accessorName = "Name"

// State 每个fork、每个线程各自持有一份，setup完成后只读
type State struct {
	subject    *Programmer
	descriptor Descriptor
	handle     func(*Programmer) string
	adapter    Callable
}

// NewState 构造被测对象并解析出三种间接调用方式，任何解析失败都直接返回
func NewState(name string) (*State, error) {
	subject := NewProgrammer(name)
	resolved, err := Resolve(subject, accessorName)
	if err != nil {
		return nil, err
	}
	return &State{
		subject:    subject,
		descriptor: resolved.Descriptor,
		handle:     resolved.Handle,
		adapter:    resolved.Adapter,
	}, nil
}

func (s *State) DirectAccess() string       { return s.subject.Name() }
func (s *State) ReflectionAccess() string   { return s.descriptor.Invoke(s.subject) }
func (s *State) MethodHandleAccess() string { return s.handle(s.subject) }
func (s *State) AdapterAccess() string      { return s.adapter.Call() }

// Access 按调用方式分派，供表驱动测试使用。基准测试直接调用上面四个方法
func (s *State) Access(st Strategy) string {
	switch st {
	case DirectCall:
		return s.DirectAccess()
	case DescriptorLookupCall:
		return s.ReflectionAccess()
	case ResolvedHandleCall:
		return s.MethodHandleAccess()
	case PrebuiltAdapterCall:
		return s.AdapterAccess()
	default:
		panic(fmt.Sprintf("unknown strategy %s", st))
	}
}

package performance

import (
	"errors"
	"fmt"
	"reflect"
)

// ---------- 解析错误 ----------

var (
	ErrMethodNotFound    = errors.New("method not found")
	ErrSignatureMismatch = errors.New("signature mismatch")
	ErrBindFailed        = errors.New("bind failed")
)

// ResolutionError 访问器解析失败，发生在setup阶段，对所在fork是致命错误
type ResolutionError struct {
	Type   string
	Method string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s.%s: %v", e.Type, e.Method, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

var stringType = reflect.TypeFor[string]()

// ---------- 反射描述符 ----------

// Descriptor 按名字和签名解析出的方法描述，调用时需要传入接收者
type Descriptor struct {
	recv   reflect.Type
	method reflect.Method
}

func (d Descriptor) Name() string           { return d.method.Name }
func (d Descriptor) Receiver() reflect.Type { return d.recv }

// Invoke 通过反射调用方法。接收者类型不匹配时reflect会panic，调用方不做恢复
func (d Descriptor) Invoke(recv any) string {
	out := d.method.Func.Call([]reflect.Value{reflect.ValueOf(recv)})
	return out[0].String()
}

// ResolveDescriptor 在t的方法集中查找名为name、签名为 func() string 的方法
func ResolveDescriptor(t reflect.Type, name string) (Descriptor, error) {
	if t == nil || t.Kind() == reflect.Interface {
		// 接口类型的方法没有具体实现可供调用
		return Descriptor{}, &ResolutionError{Type: typeName(t), Method: name, Err: ErrBindFailed}
	}
	m, ok := t.MethodByName(name)
	if !ok {
		return Descriptor{}, &ResolutionError{Type: typeName(t), Method: name, Err: ErrMethodNotFound}
	}
	// m.Type的第一个参数是接收者
	ft := m.Type
	if ft.NumIn() != 1 || ft.NumOut() != 1 || ft.Out(0) != stringType {
		return Descriptor{}, &ResolutionError{
			Type:   typeName(t),
			Method: name,
			Err:    fmt.Errorf("%w: have %s, want func() string", ErrSignatureMismatch, ft),
		}
	}
	return Descriptor{recv: t, method: m}, nil
}

// ---------- 方法句柄 ----------

// Unreflect 把描述符转换为可直接调用的强类型函数值，接收者作为第一个参数
func Unreflect[T any](d Descriptor) (func(T) string, error) {
	if !d.method.Func.IsValid() {
		return nil, &ResolutionError{Type: typeName(d.recv), Method: d.method.Name, Err: ErrBindFailed}
	}
	handle, ok := d.method.Func.Interface().(func(T) string)
	if !ok {
		return nil, &ResolutionError{
			Type:   typeName(d.recv),
			Method: d.method.Name,
			Err:    fmt.Errorf("%w: have %s, want %s", ErrSignatureMismatch, d.method.Type, reflect.TypeFor[func(T) string]()),
		}
	}
	return handle, nil
}

// ---------- 预绑定适配器 ----------

// Callable 单方法调用接口，调用时不需要任何参数
type Callable interface {
	Call() string
}

type boundCallable[T any] struct {
	handle func(T) string
	recv   T
}

func (c *boundCallable[T]) Call() string { return c.handle(c.recv) }

// Bind 把方法句柄绑定到固定的接收者上，生成的适配器之后不再做任何解析
func Bind[T any](handle func(T) string, recv T) (Callable, error) {
	if handle == nil || isNil(recv) {
		return nil, &ResolutionError{Type: reflect.TypeFor[T]().String(), Method: "<bind>", Err: ErrBindFailed}
	}
	return &boundCallable[T]{handle: handle, recv: recv}, nil
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Resolved 从同一个访问器解析出的三种间接调用方式
type Resolved[T any] struct {
	Descriptor Descriptor
	Handle     func(T) string
	Adapter    Callable
}

// Resolve 依次解析反射描述符、方法句柄，并把句柄绑定到subject上。
// T必须是具体类型，任一步失败都返回*ResolutionError。
func Resolve[T any](subject T, name string) (*Resolved[T], error) {
	d, err := ResolveDescriptor(reflect.TypeFor[T](), name)
	if err != nil {
		return nil, err
	}
	handle, err := Unreflect[T](d)
	if err != nil {
		return nil, err
	}
	adapter, err := Bind(handle, subject)
	if err != nil {
		return nil, err
	}
	return &Resolved[T]{Descriptor: d, Handle: handle, Adapter: adapter}, nil
}

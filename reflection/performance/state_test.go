package performance

import "testing"

// ---------- 四种调用方式的结果必须一致 ----------

func TestState_AllStrategiesReturnBoundName(t *testing.T) {
	tests := []struct {
		name    string
		subject string
	}{
		{name: "基准测试使用的名字", subject: "m-fedosov"},
		{name: "普通名字", subject: "alice"},
		{name: "空字符串", subject: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewState(tt.subject)
			if err != nil {
				t.Fatalf("NewState(%q) error: %v", tt.subject, err)
			}
			for _, st := range Strategies() {
				if got := s.Access(st); got != tt.subject {
					t.Errorf("%s = %q, want %q", st, got, tt.subject)
				}
			}
		})
	}
}

func TestState_NamedAccessors(t *testing.T) {
	s, err := NewState("alice")
	if err != nil {
		t.Fatal(err)
	}
	got := []string{s.DirectAccess(), s.ReflectionAccess(), s.MethodHandleAccess(), s.AdapterAccess()}
	for i, v := range got {
		if v != "alice" {
			t.Errorf("accessor #%d = %q, want %q", i, v, "alice")
		}
	}
}

// 多次调用不会产生漂移
func TestState_RepeatedAccessIsStable(t *testing.T) {
	s, err := NewState("m-fedosov")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 1000; i++ {
		for _, st := range Strategies() {
			if got := s.Access(st); got != "m-fedosov" {
				t.Fatalf("call %d via %s = %q, want %q", i, st, got, "m-fedosov")
			}
		}
	}
}

// 适配器在setup时已绑定接收者，调用时不需要任何参数
func TestState_AdapterNeedsNoArguments(t *testing.T) {
	s, err := NewState("alice")
	if err != nil {
		t.Fatal(err)
	}
	call := s.adapter.Call
	for i := 0; i < 10_000; i++ {
		if got := call(); got != "alice" {
			t.Fatalf("call %d = %q, want %q", i, got, "alice")
		}
	}
}

func TestState_IndependentInstances(t *testing.T) {
	a, err := NewState("alice")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewState("bob")
	if err != nil {
		t.Fatal(err)
	}
	if a.AdapterAccess() != "alice" || b.AdapterAccess() != "bob" {
		t.Errorf("adapters share state: a=%q b=%q", a.AdapterAccess(), b.AdapterAccess())
	}
}

func TestState_UnknownStrategyPanics(t *testing.T) {
	s, err := NewState("alice")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown strategy")
		}
	}()
	s.Access(Strategy(42))
}

func TestStrategy_String(t *testing.T) {
	tests := []struct {
		st   Strategy
		want string
	}{
		{DirectCall, "DirectCall"},
		{DescriptorLookupCall, "DescriptorLookupCall"},
		{ResolvedHandleCall, "ResolvedHandleCall"},
		{PrebuiltAdapterCall, "PrebuiltAdapterCall"},
		{Strategy(9), "Strategy(9)"},
	}
	for _, tt := range tests {
		if got := tt.st.String(); got != tt.want {
			t.Errorf("Strategy(%d).String() = %q, want %q", uint8(tt.st), got, tt.want)
		}
	}
}

package skill

import (
	"context"
	"testing"
)

type fakeSkill struct{ calls int }

func (f *fakeSkill) Name() string        { return "fake" }
func (f *fakeSkill) Description() string { return "a fake skill" }
func (f *fakeSkill) Parameters() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}
func (f *fakeSkill) Execute(ctx context.Context, args Args) Result {
	f.calls++
	return OK("ok")
}

func TestRegistryLazilyCachesInstances(t *testing.T) {
	shared := &fakeSkill{}
	reg := NewRegistry(&Services{})
	built := 0
	reg.Register("fake", func(*Services) Skill { built++; return shared })

	if _, err := reg.Get("fake"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := reg.Get("fake"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if built != 1 || shared.calls != 0 {
		t.Fatalf("factory should only construct once and Get should not execute (built %d, calls %d)", built, shared.calls)
	}

	res := reg.Execute(context.Background(), "fake", nil)
	if !res.Success || res.Output != "ok" {
		t.Fatalf("got %+v", res)
	}
	if shared.calls != 1 {
		t.Fatalf("expected 1 call, got %d", shared.calls)
	}
}

func TestRegistryExecuteUnknownSkillFails(t *testing.T) {
	reg := NewRegistry(&Services{})
	res := reg.Execute(context.Background(), "nope", nil)
	if res.Success || res.Error == "" {
		t.Fatalf("expected failure, got %+v", res)
	}
}

func TestRegistryDefinitionsIncludesEveryRegisteredSkill(t *testing.T) {
	reg := NewRegistry(&Services{})
	reg.Register("zzz", func(*Services) Skill { return &fakeSkill{} })
	reg.Register("aaa", func(*Services) Skill { return &fakeSkill{} })

	defs := reg.Definitions()
	if len(defs) != 2 {
		t.Fatalf("got %d defs", len(defs))
	}
	if defs[0].Type != "function" || defs[0].Function.Parameters == nil {
		t.Fatalf("unexpected shape: %+v", defs[0])
	}
}

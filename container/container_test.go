package container

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-datastore/core"
)

func TestContainer_SingletonBuiltOnce(t *testing.T) {
	c := New()
	var builds atomic.Int64
	c.RegisterSingleton("config", func(core.Resolver) (any, error) {
		builds.Add(1)
		return &struct{ Name string }{Name: "options"}, nil
	})

	var wg sync.WaitGroup
	results := make([]any, 16)
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			resolved, err := c.Resolve("config")
			if err != nil {
				t.Errorf("resolve: %v", err)
				return
			}
			results[idx] = resolved
		}(i)
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Fatalf("expected factory to run once, ran %d times", got)
	}
	for _, resolved := range results {
		if resolved != results[0] {
			t.Fatalf("expected a single shared instance")
		}
	}
}

func TestContainer_SingletonFactoryResolvesOtherSingletons(t *testing.T) {
	c := New()
	c.RegisterSingleton("inner", func(core.Resolver) (any, error) {
		return "inner-value", nil
	})
	c.RegisterSingleton("outer", func(r core.Resolver) (any, error) {
		inner, err := r.Resolve("inner")
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("outer(%v)", inner), nil
	})

	resolved, err := c.Resolve("outer")
	if err != nil {
		t.Fatalf("resolve outer: %v", err)
	}
	if resolved != "outer(inner-value)" {
		t.Fatalf("unexpected outer value: %v", resolved)
	}
}

func TestContainer_ReRegisterReplacesBinding(t *testing.T) {
	c := New()
	c.RegisterSingleton("value", func(core.Resolver) (any, error) {
		return "first", nil
	})
	if resolved, _ := c.Resolve("value"); resolved != "first" {
		t.Fatalf("expected first binding, got %v", resolved)
	}

	c.RegisterSingleton("value", func(core.Resolver) (any, error) {
		return "second", nil
	})
	if resolved, _ := c.Resolve("value"); resolved != "second" {
		t.Fatalf("expected replaced binding, got %v", resolved)
	}
}

func TestContainer_UnknownKey(t *testing.T) {
	c := New()
	if _, err := c.Resolve("missing"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestContainer_ScopedInstancesPerScope(t *testing.T) {
	c := New()
	var builds atomic.Int64
	c.RegisterScoped("unit", func(core.Resolver) (any, error) {
		builds.Add(1)
		return &struct{ n int64 }{n: builds.Load()}, nil
	})

	first := c.Scope()
	second := c.Scope()

	a1, err := first.Resolve("unit")
	if err != nil {
		t.Fatalf("resolve in first scope: %v", err)
	}
	a2, err := first.Resolve("unit")
	if err != nil {
		t.Fatalf("resolve in first scope again: %v", err)
	}
	b1, err := second.Resolve("unit")
	if err != nil {
		t.Fatalf("resolve in second scope: %v", err)
	}

	if a1 != a2 {
		t.Fatalf("expected one instance per scope")
	}
	if a1 == b1 {
		t.Fatalf("expected distinct instances across scopes")
	}
	if got := builds.Load(); got != 2 {
		t.Fatalf("expected one build per scope, got %d", got)
	}
}

func TestContainer_ScopedKeyFromRootFails(t *testing.T) {
	c := New()
	c.RegisterScoped("unit", func(core.Resolver) (any, error) {
		return struct{}{}, nil
	})
	if _, err := c.Resolve("unit"); err == nil {
		t.Fatalf("expected scope-bound key to fail at the root")
	}
}

func TestScope_SingletonSharedAcrossScopes(t *testing.T) {
	c := New()
	c.RegisterSingleton("shared", func(core.Resolver) (any, error) {
		return &struct{ Name string }{Name: "shared"}, nil
	})

	first, err := c.Scope().Resolve("shared")
	if err != nil {
		t.Fatalf("resolve from scope: %v", err)
	}
	second, err := c.Scope().Resolve("shared")
	if err != nil {
		t.Fatalf("resolve from another scope: %v", err)
	}
	if first != second {
		t.Fatalf("singletons must be shared across scopes")
	}
}

func TestScope_ScopedFactoryResolvesSingletons(t *testing.T) {
	c := New()
	c.RegisterSingleton("dep", func(core.Resolver) (any, error) {
		return "dep-value", nil
	})
	c.RegisterScoped("unit", func(r core.Resolver) (any, error) {
		dep, err := r.Resolve("dep")
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("unit(%v)", dep), nil
	})

	resolved, err := c.Scope().Resolve("unit")
	if err != nil {
		t.Fatalf("resolve scoped: %v", err)
	}
	if resolved != "unit(dep-value)" {
		t.Fatalf("unexpected scoped value: %v", resolved)
	}
}

package core

import (
	"fmt"
	"strings"
)

type testSettings struct {
	ExtKind string
	Target  string
	Retries int
}

func (s *testSettings) Kind() string {
	return s.ExtKind
}

func (s *testSettings) Validate() error {
	return nil
}

func (s *testSettings) Clone() Extension {
	if s == nil {
		return nil
	}
	cloned := *s
	return &cloned
}

func testMutator(kind string, fn func(*testSettings)) func(Extension) Extension {
	return func(current Extension) Extension {
		settings, _ := current.(*testSettings)
		if settings == nil {
			settings = &testSettings{ExtKind: kind}
		}
		if fn != nil {
			fn(settings)
		}
		return settings
	}
}

func configureTest(builder *Builder, kind string, fn func(*testSettings)) *Builder {
	return builder.Configure(kind, testMutator(kind, fn))
}

// testProvider auto-configures its Target from the config section named after
// its kind and requires Target at service creation.
type testProvider struct {
	kind        string
	autoCalls   int
	createCalls int
}

func (p *testProvider) Kind() string {
	return p.kind
}

func (p *testProvider) AutoConfigure(source ConfigSource, builder *Builder) error {
	p.autoCalls++
	if source == nil || builder == nil {
		return nil
	}
	section, ok := Section(source, p.kind)
	if !ok {
		return nil
	}
	target, _ := section["target"].(string)
	if strings.TrimSpace(target) == "" {
		return nil
	}
	builder.AutoConfigure(p.kind, testMutator(p.kind, func(s *testSettings) {
		s.Target = target
	}))
	return nil
}

func (p *testProvider) CreateServices(options *Options) (ProviderServices, error) {
	p.createCalls++
	ext, ok := options.Extension(p.kind)
	if !ok {
		return nil, NewConfigurationError(p.kind + ": extension is not configured")
	}
	settings, ok := ext.(*testSettings)
	if !ok {
		return nil, NewConfigurationError(fmt.Sprintf("%s: unexpected extension type %T", p.kind, ext))
	}
	if strings.TrimSpace(settings.Target) == "" {
		return nil, NewConfigurationError(p.kind + ": target is required")
	}
	return &testServices{kind: p.kind, target: settings.Target}, nil
}

type testServices struct {
	kind   string
	target string
}

func (s *testServices) ProviderKind() string {
	return s.kind
}

// fakeContainer caches singleton instances and treats scoped registrations as
// one implicit scope, which is enough for exercising the services builder.
type fakeContainer struct {
	singletons map[string]FactoryFunc
	scoped     map[string]FactoryFunc
	instances  map[string]any
}

func newFakeContainer() *fakeContainer {
	return &fakeContainer{
		singletons: map[string]FactoryFunc{},
		scoped:     map[string]FactoryFunc{},
		instances:  map[string]any{},
	}
}

func (c *fakeContainer) RegisterSingleton(key string, factory FactoryFunc) {
	c.singletons[key] = factory
	delete(c.instances, key)
}

func (c *fakeContainer) RegisterScoped(key string, factory FactoryFunc) {
	c.scoped[key] = factory
}

func (c *fakeContainer) Resolve(key string) (any, error) {
	if cached, ok := c.instances[key]; ok {
		return cached, nil
	}
	if factory, ok := c.singletons[key]; ok {
		instance, err := factory(c)
		if err != nil {
			return nil, err
		}
		c.instances[key] = instance
		return instance, nil
	}
	if factory, ok := c.scoped[key]; ok {
		return factory(c)
	}
	return nil, fmt.Errorf("fake container: nothing registered under %s", key)
}

func newTestRegistry(providers ...Provider) *ProviderRegistry {
	registry := NewProviderRegistry()
	for _, provider := range providers {
		if err := registry.Register(provider); err != nil {
			panic(err)
		}
	}
	return registry
}

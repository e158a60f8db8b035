package container

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-datastore/core"
)

type binding struct {
	factory core.FactoryFunc
	scoped  bool

	once  sync.Once
	value any
	err   error
}

// Container holds the registration table. Registration is expected to run
// once, at process start, on a single thread; resolution is safe for
// concurrent use and builds each singleton at most once.
type Container struct {
	mu       sync.RWMutex
	bindings map[string]*binding
}

func New() *Container {
	return &Container{bindings: make(map[string]*binding)}
}

// RegisterSingleton binds a factory whose result is cached for the lifetime
// of the container. Re-registering a key replaces the binding, discarding any
// previously built instance.
func (c *Container) RegisterSingleton(key string, factory core.FactoryFunc) {
	c.register(key, factory, false)
}

// RegisterScoped binds a factory whose result is cached per scope. Scoped
// keys cannot be resolved from the root container.
func (c *Container) RegisterScoped(key string, factory core.FactoryFunc) {
	c.register(key, factory, true)
}

func (c *Container) register(key string, factory core.FactoryFunc, scoped bool) {
	key = strings.TrimSpace(key)
	if key == "" || factory == nil {
		return
	}
	c.mu.Lock()
	c.bindings[key] = &binding{factory: factory, scoped: scoped}
	c.mu.Unlock()
}

func (c *Container) Resolve(key string) (any, error) {
	bound, err := c.binding(key)
	if err != nil {
		return nil, err
	}
	if bound.scoped {
		return nil, fmt.Errorf("container: %s is scope-bound; resolve it through a scope", key)
	}
	return c.resolveSingleton(bound, c)
}

// Scope opens a new resolution scope. Scoped instances are cached per scope;
// singleton resolution delegates to the container.
func (c *Container) Scope() *Scope {
	return &Scope{
		container: c,
		instances: make(map[string]any),
	}
}

func (c *Container) binding(key string) (*binding, error) {
	key = strings.TrimSpace(key)
	c.mu.RLock()
	bound, ok := c.bindings[key]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("container: nothing registered under %s", key)
	}
	return bound, nil
}

// resolveSingleton guards single construction with the binding's own once, so
// a factory that resolves other singletons does not deadlock the container.
func (c *Container) resolveSingleton(bound *binding, resolver core.Resolver) (any, error) {
	bound.once.Do(func() {
		bound.value, bound.err = bound.factory(resolver)
	})
	return bound.value, bound.err
}

// Scope resolves scope-bound services with a per-scope instance cache. A
// scope models one logical unit of work and must not be shared across
// concurrent units; singleton lookups fall through to the parent container.
type Scope struct {
	container *Container
	mu        sync.Mutex
	instances map[string]any
}

func (s *Scope) Resolve(key string) (any, error) {
	if s == nil || s.container == nil {
		return nil, fmt.Errorf("container: scope is not initialized")
	}
	bound, err := s.container.binding(key)
	if err != nil {
		return nil, err
	}
	if !bound.scoped {
		return s.container.resolveSingleton(bound, s)
	}

	key = strings.TrimSpace(key)
	s.mu.Lock()
	cached, ok := s.instances[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	instance, err := bound.factory(s)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if existing, ok := s.instances[key]; ok {
		instance = existing
	} else {
		s.instances[key] = instance
	}
	s.mu.Unlock()
	return instance, nil
}

var (
	_ core.Container = (*Container)(nil)
	_ core.Resolver  = (*Scope)(nil)
)

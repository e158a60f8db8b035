package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ProviderRegistry maps extension kinds to provider descriptors. It is meant
// to be populated explicitly at process start and passed into the services
// builder; selection is fully deterministic and there is no ambient global
// registry.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]Provider)}
}

func (r *ProviderRegistry) Register(provider Provider) error {
	if provider == nil {
		return fmt.Errorf("core: provider is nil")
	}
	kind := strings.TrimSpace(provider.Kind())
	if kind == "" {
		return fmt.Errorf("core: provider kind is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[kind]; exists {
		return fmt.Errorf("core: provider already registered for kind: %s", kind)
	}
	r.providers[kind] = provider
	return nil
}

func (r *ProviderRegistry) Lookup(kind string) (Provider, bool) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, false
	}
	r.mu.RLock()
	provider, ok := r.providers[kind]
	r.mu.RUnlock()
	return provider, ok
}

func (r *ProviderRegistry) List() []Provider {
	r.mu.RLock()
	kinds := make([]string, 0, len(r.providers))
	for kind := range r.providers {
		kinds = append(kinds, kind)
	}
	r.mu.RUnlock()
	sort.Strings(kinds)
	providers := make([]Provider, 0, len(kinds))
	r.mu.RLock()
	for _, kind := range kinds {
		providers = append(providers, r.providers[kind])
	}
	r.mu.RUnlock()
	return providers
}

// ProviderFor selects the single descriptor responsible for the given options
// value. Zero configured extensions fail with a no-provider error, more than
// one with an ambiguous-provider error, and a single extension whose kind has
// no registered descriptor with a configuration error.
func (r *ProviderRegistry) ProviderFor(options *Options) (Provider, error) {
	kinds := options.Kinds()
	switch len(kinds) {
	case 0:
		return nil, NewNoProviderConfiguredError()
	case 1:
	default:
		sorted := append([]string(nil), kinds...)
		sort.Strings(sorted)
		return nil, NewAmbiguousProviderError(sorted)
	}
	provider, ok := r.Lookup(kinds[0])
	if !ok {
		return nil, NewConfigurationError("core: no provider registered for extension kind: " + kinds[0])
	}
	return provider, nil
}

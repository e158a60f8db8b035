package datastore

import (
	"github.com/goliatone/go-datastore/core"
	"github.com/goliatone/go-datastore/providers/memory"
	"github.com/goliatone/go-datastore/providers/sqlbackend"
)

func SQLBackendProvider() core.Provider {
	return sqlbackend.Descriptor{}
}

func MemoryProvider() core.Provider {
	return memory.Descriptor{}
}

// DefaultRegistry returns a registry populated with every built-in provider.
func DefaultRegistry() (*core.ProviderRegistry, error) {
	registry := core.NewProviderRegistry()
	for _, provider := range []core.Provider{
		sqlbackend.Descriptor{},
		memory.Descriptor{},
	} {
		if err := registry.Register(provider); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

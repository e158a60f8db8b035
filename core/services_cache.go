package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const providerServicesCacheKeyPrefix = "go-datastore::provider_services::v1"

// ProviderServicesCache shares provider runtime service sets between
// identically configured options values, keyed by provider kind and the
// options fingerprint.
type ProviderServicesCache struct {
	cache repositorycache.CacheService
}

func NewProviderServicesCache(cache repositorycache.CacheService) (*ProviderServicesCache, error) {
	if cache == nil {
		return nil, NewMissingDependencyError("cache service")
	}
	return &ProviderServicesCache{cache: cache}, nil
}

// ProviderServicesCacheKey returns the deterministic cache key contract:
// go-datastore::provider_services::v1::<kind>::<fingerprint> with each
// segment URL-path escaped.
func ProviderServicesCacheKey(kind string, options *Options) string {
	segments := []string{
		url.PathEscape(strings.TrimSpace(kind)),
		url.PathEscape(options.Fingerprint()),
	}
	return strings.Join(append([]string{providerServicesCacheKeyPrefix}, segments...), "::")
}

func (c *ProviderServicesCache) GetOrCreate(ctx context.Context, provider Provider, options *Options) (ProviderServices, error) {
	if c == nil || c.cache == nil {
		return nil, fmt.Errorf("core: provider services cache is not configured")
	}
	if provider == nil {
		return nil, NewMissingDependencyError("provider")
	}
	key := ProviderServicesCacheKey(provider.Kind(), options)
	return repositorycache.GetOrFetch(ctx, c.cache, key, func(context.Context) (ProviderServices, error) {
		return provider.CreateServices(options)
	})
}

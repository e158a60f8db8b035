package core

import (
	"context"
	"fmt"
	"reflect"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const (
	// OptionsAliasKey resolves the most recently registered context's options
	// without knowing the concrete context type.
	OptionsAliasKey = "datastore.options"

	optionsKeyPrefix  = "datastore.options."
	servicesKeyPrefix = "datastore.services."
	contextKeyPrefix  = "datastore.context."
)

// ServicesBuilder registers context types with the consumed DI container and
// produces the factories that assemble each context's options value. It
// mutates only the container's registration table; it performs no I/O and
// never opens a database connection itself.
type ServicesBuilder struct {
	container      Container
	registry       *ProviderRegistry
	logger         Logger
	loggerProvider LoggerProvider
	metrics        MetricsRecorder
	configSource   ConfigSource
	servicesCache  *ProviderServicesCache
}

type Option func(*ServicesBuilder)

func WithLogger(logger Logger) Option {
	return func(b *ServicesBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *ServicesBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *ServicesBuilder) {
		b.metrics = recorder
	}
}

// WithConfigSource supplies the external configuration collaborator used by
// provider auto-configuration. Without it every auto-configure pass is a
// no-op.
func WithConfigSource(source ConfigSource) Option {
	return func(b *ServicesBuilder) {
		b.configSource = source
	}
}

// WithServicesCache shares provider service sets between identically
// configured options values across containers.
func WithServicesCache(cache repositorycache.CacheService) Option {
	return func(b *ServicesBuilder) {
		if cache == nil {
			return
		}
		b.servicesCache = &ProviderServicesCache{cache: cache}
	}
}

func NewServicesBuilder(container Container, registry *ProviderRegistry, options ...Option) (*ServicesBuilder, error) {
	if container == nil {
		return nil, NewMissingDependencyError("container")
	}
	if registry == nil {
		return nil, NewMissingDependencyError("provider registry")
	}
	builder := &ServicesBuilder{
		container: container,
		registry:  registry,
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		option(builder)
	}

	provider, logger := glog.Resolve("datastore", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("datastore"); named != nil {
			logger = glog.Ensure(named)
		}
	}
	builder.loggerProvider = provider
	builder.logger = logger

	if builder.metrics == nil {
		builder.metrics = NopMetricsRecorder{}
	}
	return builder, nil
}

// ContextFactory constructs a context instance from its resolved options and
// the provider's runtime services.
type ContextFactory[T any] func(options *Options, services ProviderServices) (T, error)

// RegisterContext binds a context type into the DI container:
//
//  1. a singleton factory for the context's options value, merging the
//     explicit action with provider auto-configuration and the context's
//     OnConfiguring hook;
//  2. a singleton alias resolving the context-agnostic options key to the
//     same instance (last registration wins);
//  3. a singleton factory for the selected provider's runtime services;
//  4. the context itself, scope-bound, activated from options and services.
//
// Calling RegisterContext for distinct context types is additive; a later
// registration never perturbs an earlier one. All factories are
// side-effect-free and safely re-runnable.
func RegisterContext[T any](b *ServicesBuilder, factory ContextFactory[T], action func(*Builder)) error {
	if b == nil {
		return NewMissingDependencyError("services builder")
	}
	if factory == nil {
		return goerrors.New("core: context factory is required", goerrors.CategoryBadInput).
			WithTextCode(ErrorCodeBadInput)
	}

	name := contextTypeName[T]()
	optionsKey := optionsKeyPrefix + name
	servicesKey := servicesKeyPrefix + name
	contextKey := contextKeyPrefix + name
	hook := probeConfigurer[T]()

	b.container.RegisterSingleton(optionsKey, func(Resolver) (any, error) {
		return b.buildOptions(name, action, hook)
	})
	b.container.RegisterSingleton(OptionsAliasKey, func(r Resolver) (any, error) {
		return r.Resolve(optionsKey)
	})
	b.container.RegisterSingleton(servicesKey, func(r Resolver) (any, error) {
		options, err := resolveTyped[*Options](r, optionsKey)
		if err != nil {
			return nil, err
		}
		provider, err := b.registry.ProviderFor(options)
		if err != nil {
			return nil, err
		}
		return b.buildProviderServices(name, provider, options)
	})
	b.container.RegisterScoped(contextKey, func(r Resolver) (any, error) {
		options, err := resolveTyped[*Options](r, optionsKey)
		if err != nil {
			return nil, err
		}
		services, err := resolveTyped[ProviderServices](r, servicesKey)
		if err != nil {
			return nil, err
		}
		return factory(options, services)
	})

	b.logger.Debug("registered data-store context", "context", name, "hook", hook != nil)
	return nil
}

func (b *ServicesBuilder) buildOptions(name string, action func(*Builder), hook OptionsConfigurer) (*Options, error) {
	builder := NewBuilder()
	if action != nil {
		action(builder)
	}
	for _, provider := range b.registry.List() {
		if err := provider.AutoConfigure(b.configSource, builder); err != nil {
			return nil, wrapConfigurationError(err,
				"core: auto-configuration failed for provider "+provider.Kind())
		}
	}
	if hook != nil {
		staged := BuilderFromOptions(builder.Build())
		hook.OnConfiguring(staged)
		builder = staged
	}

	options := builder.Build()
	if _, err := b.registry.ProviderFor(options); err != nil {
		return nil, err
	}

	b.metrics.IncCounter(context.Background(), "datastore.options.resolved", 1,
		cloneTags(map[string]string{"context": name}))
	b.logger.Debug("resolved data-store options", "context", name, "kinds", options.Kinds())
	return options, nil
}

func (b *ServicesBuilder) buildProviderServices(name string, provider Provider, options *Options) (ProviderServices, error) {
	var services ProviderServices
	var err error
	if b.servicesCache != nil {
		services, err = b.servicesCache.GetOrCreate(context.Background(), provider, options)
	} else {
		services, err = provider.CreateServices(options)
	}
	if err != nil {
		return nil, err
	}
	b.metrics.IncCounter(context.Background(), "datastore.provider_services.built", 1,
		cloneTags(map[string]string{"context": name, "provider": provider.Kind()}))
	return services, nil
}

// ResolveOptions resolves the options value registered for context type T.
func ResolveOptions[T any](r Resolver) (*Options, error) {
	if r == nil {
		return nil, NewMissingDependencyError("resolver")
	}
	return resolveTyped[*Options](r, optionsKeyPrefix+contextTypeName[T]())
}

// ResolveProviderServices resolves the provider runtime services built for
// context type T.
func ResolveProviderServices[T any](r Resolver) (ProviderServices, error) {
	if r == nil {
		return nil, NewMissingDependencyError("resolver")
	}
	return resolveTyped[ProviderServices](r, servicesKeyPrefix+contextTypeName[T]())
}

// ResolveContext activates the scope-bound context instance for type T.
func ResolveContext[T any](r Resolver) (T, error) {
	var zero T
	if r == nil {
		return zero, NewMissingDependencyError("resolver")
	}
	return resolveTyped[T](r, contextKeyPrefix+contextTypeName[T]())
}

// CurrentOptions resolves the context-agnostic options alias. When several
// context types are registered the alias tracks the most recent registration.
func CurrentOptions(r Resolver) (*Options, error) {
	if r == nil {
		return nil, NewMissingDependencyError("resolver")
	}
	return resolveTyped[*Options](r, OptionsAliasKey)
}

func resolveTyped[T any](r Resolver, key string) (T, error) {
	var zero T
	resolved, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}
	typed, ok := resolved.(T)
	if !ok {
		return zero, fmt.Errorf("core: unexpected type %T registered under %s", resolved, key)
	}
	return typed, nil
}

func contextTypeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// probeConfigurer returns a zero-value instance of T when the context type
// implements OptionsConfigurer. The hook runs once, inside the options
// singleton factory, against that probe; it must therefore derive its
// configuration from constants or captured state, not instance fields.
func probeConfigurer[T any]() OptionsConfigurer {
	t := reflect.TypeOf((*T)(nil)).Elem()
	iface := reflect.TypeOf((*OptionsConfigurer)(nil)).Elem()
	switch {
	case t.Kind() == reflect.Interface:
		return nil
	case t.Kind() == reflect.Pointer && t.Implements(iface):
		return reflect.New(t.Elem()).Interface().(OptionsConfigurer)
	case t.Implements(iface):
		return reflect.New(t).Elem().Interface().(OptionsConfigurer)
	case reflect.PointerTo(t).Implements(iface):
		return reflect.New(t).Interface().(OptionsConfigurer)
	default:
		return nil
	}
}

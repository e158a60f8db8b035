package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// Extension is a provider-owned configuration fragment stored inside an
// Options value. The generic options machinery never interprets its contents;
// it only keys extensions by kind and guards precedence between sources.
type Extension interface {
	Kind() string
	Validate() error
	Clone() Extension
}

// Provider describes one storage backend. Each provider owns exactly one
// extension kind; the registry routes an options value carrying that kind to
// this descriptor.
type Provider interface {
	Kind() string

	// AutoConfigure inspects externally supplied configuration and, when the
	// provider recognizes applicable settings, applies them through the
	// builder's auto-configuration path. It must be idempotent and must be a
	// no-op when source is nil or carries nothing for this provider.
	AutoConfigure(source ConfigSource, builder *Builder) error

	// CreateServices constructs the backend's runtime service set from an
	// already-resolved options value.
	CreateServices(options *Options) (ProviderServices, error)
}

// ProviderServices is the runtime service set a provider builds for a
// resolved options value.
type ProviderServices interface {
	ProviderKind() string
}

// ConfigSource is the externally supplied configuration collaborator. A nil
// source is valid and turns every auto-configuration pass into a no-op.
type ConfigSource interface {
	TryGet(key string) (any, bool)
}

// Resolver resolves registered services by key.
type Resolver interface {
	Resolve(key string) (any, error)
}

// FactoryFunc builds a service instance, resolving collaborators through the
// supplied resolver.
type FactoryFunc func(r Resolver) (any, error)

// Container is the narrow registration surface consumed from the DI
// collaborator. Lifetime enforcement (singleton-once, per-scope instances)
// is the container's contract, not reimplemented here.
type Container interface {
	Resolver
	RegisterSingleton(key string, factory FactoryFunc)
	RegisterScoped(key string, factory FactoryFunc)
}

// OptionsConfigurer is the overridable construction hook a context type may
// implement. It runs after the options-action/auto-configure merge and is
// applied last, so it can override both.
type OptionsConfigurer interface {
	OnConfiguring(builder *Builder)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

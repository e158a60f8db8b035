// Package datastore wires application context types to pluggable storage
// backends: it registers a context with a DI container, merges explicit
// builder configuration with provider auto-configuration, and hands each
// context one immutable, provider-bound options value at construction time.
package datastore

import "github.com/goliatone/go-datastore/core"

type Options = core.Options

type Builder = core.Builder

type Extension = core.Extension

type Provider = core.Provider

type ProviderServices = core.ProviderServices

type ProviderRegistry = core.ProviderRegistry

type ServicesBuilder = core.ServicesBuilder

type Option = core.Option

type ConfigSource = core.ConfigSource

type Container = core.Container

type Resolver = core.Resolver

type FactoryFunc = core.FactoryFunc

type OptionsConfigurer = core.OptionsConfigurer

type MetricsRecorder = core.MetricsRecorder

type ContextFactory[T any] = core.ContextFactory[T]

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithConfigSource    = core.WithConfigSource
	WithServicesCache   = core.WithServicesCache
)

var (
	IsNoProviderConfigured = core.IsNoProviderConfigured
	IsAmbiguousProvider    = core.IsAmbiguousProvider
	IsConfigurationError   = core.IsConfigurationError
	IsMissingDependency    = core.IsMissingDependency
)

func NewBuilder() *Builder {
	return core.NewBuilder()
}

func NewProviderRegistry() *ProviderRegistry {
	return core.NewProviderRegistry()
}

func NewServicesBuilder(container Container, registry *ProviderRegistry, options ...Option) (*ServicesBuilder, error) {
	return core.NewServicesBuilder(container, registry, options...)
}

func NewMapConfigSource(values map[string]any) *core.MapConfigSource {
	return core.NewMapConfigSource(values)
}

func RegisterContext[T any](builder *ServicesBuilder, factory ContextFactory[T], action func(*Builder)) error {
	return core.RegisterContext[T](builder, factory, action)
}

func ResolveContext[T any](r Resolver) (T, error) {
	return core.ResolveContext[T](r)
}

func ResolveOptions[T any](r Resolver) (*Options, error) {
	return core.ResolveOptions[T](r)
}

func ResolveProviderServices[T any](r Resolver) (ProviderServices, error) {
	return core.ResolveProviderServices[T](r)
}

func CurrentOptions(r Resolver) (*Options, error) {
	return core.CurrentOptions(r)
}

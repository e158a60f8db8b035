// Package container provides a minimal lifetimes container implementing the
// core registration contract: process-wide singletons built at most once per
// container, and scope-bound services cached per logical unit of work. The
// services builder only depends on the core.Container interface; applications
// with their own DI container can supply that instead.
package container

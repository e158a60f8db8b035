// Package core contains the canonical data-store configuration contracts and
// resolution logic: options values and builders, provider descriptors, the
// provider registry, and the services builder that wires context types into a
// consumed dependency-injection container. Provider-specific backends must
// depend on this package; core must not depend on any backend.
package core

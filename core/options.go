package core

import (
	"fmt"
	"sort"
	"strings"
)

// Source identifies where an extension's settings came from. Higher values
// take precedence; a weaker source never overwrites a stronger one.
type Source int

const (
	SourceAuto Source = iota
	SourceExplicit
)

func (s Source) String() string {
	switch s {
	case SourceAuto:
		return "auto"
	case SourceExplicit:
		return "explicit"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

type extensionEntry struct {
	kind   string
	source Source
	ext    Extension
}

func (e extensionEntry) clone() extensionEntry {
	cloned := e
	if e.ext != nil {
		cloned.ext = e.ext.Clone()
	}
	return cloned
}

// Options is the immutable, strongly keyed configuration bag for one context
// type. Extensions are unique per kind and ordered by first configuration.
// Safe to share across concurrently resolved context instances.
type Options struct {
	entries []extensionEntry
}

// Extension returns a copy of the settings registered under kind.
func (o *Options) Extension(kind string) (Extension, bool) {
	if o == nil {
		return nil, false
	}
	kind = strings.TrimSpace(kind)
	for _, entry := range o.entries {
		if entry.kind == kind {
			return entry.ext.Clone(), true
		}
	}
	return nil, false
}

// Extensions returns copies of every configured extension in registration
// order.
func (o *Options) Extensions() []Extension {
	if o == nil {
		return []Extension{}
	}
	out := make([]Extension, 0, len(o.entries))
	for _, entry := range o.entries {
		out = append(out, entry.ext.Clone())
	}
	return out
}

// Kinds returns the configured extension kinds in registration order.
func (o *Options) Kinds() []string {
	if o == nil {
		return []string{}
	}
	out := make([]string, 0, len(o.entries))
	for _, entry := range o.entries {
		out = append(out, entry.kind)
	}
	return out
}

// ExtensionSource reports which configuration source last set the extension
// of the given kind.
func (o *Options) ExtensionSource(kind string) (Source, bool) {
	if o == nil {
		return SourceAuto, false
	}
	kind = strings.TrimSpace(kind)
	for _, entry := range o.entries {
		if entry.kind == kind {
			return entry.source, true
		}
	}
	return SourceAuto, false
}

// Fingerprint returns a deterministic identity for the configured settings,
// used to share provider service sets between identically configured options
// values. Kinds are sorted so registration order does not leak into identity.
func (o *Options) Fingerprint() string {
	if o == nil || len(o.entries) == 0 {
		return "empty"
	}
	parts := make([]string, 0, len(o.entries))
	for _, entry := range o.entries {
		parts = append(parts, fmt.Sprintf("%s=%+v", entry.kind, entry.ext))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func (o *Options) cloneEntries() []extensionEntry {
	if o == nil || len(o.entries) == 0 {
		return nil
	}
	cloned := make([]extensionEntry, len(o.entries))
	for i, entry := range o.entries {
		cloned[i] = entry.clone()
	}
	return cloned
}

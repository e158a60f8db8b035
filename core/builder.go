package core

import "strings"

// Builder stages extension settings before they are sealed into an Options
// value. Not safe for concurrent use; intended for single-threaded,
// single-pass configuration at process start.
type Builder struct {
	entries []extensionEntry
	index   map[string]int
}

func NewBuilder() *Builder {
	return &Builder{index: map[string]int{}}
}

// BuilderFromOptions seeds a builder with the entries of an existing options
// value, preserving each extension's recorded source. Used to layer the
// context's OnConfiguring hook on top of an already-merged result; the source
// options value is never mutated.
func BuilderFromOptions(options *Options) *Builder {
	builder := NewBuilder()
	if options == nil {
		return builder
	}
	builder.entries = options.cloneEntries()
	for i, entry := range builder.entries {
		builder.index[entry.kind] = i
	}
	return builder
}

// Configure applies mutate to the current (or newly created) extension
// settings of kind and stores the result back. Explicitly configured settings
// always win over auto-configuration; a second explicit call for the same
// kind replaces the previous settings.
func (b *Builder) Configure(kind string, mutate func(Extension) Extension) *Builder {
	return b.configure(SourceExplicit, kind, mutate)
}

// AutoConfigure is the provider-facing variant of Configure. It is skipped
// entirely when the kind was already set by a stronger source, which keeps
// provider auto-configuration from overwriting explicit values regardless of
// call order.
func (b *Builder) AutoConfigure(kind string, mutate func(Extension) Extension) *Builder {
	return b.configure(SourceAuto, kind, mutate)
}

func (b *Builder) configure(source Source, kind string, mutate func(Extension) Extension) *Builder {
	if b == nil || mutate == nil {
		return b
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return b
	}
	if b.index == nil {
		b.index = map[string]int{}
	}
	if idx, ok := b.index[kind]; ok {
		entry := b.entries[idx]
		if source < entry.source {
			return b
		}
		next := mutate(entry.ext.Clone())
		if next == nil {
			return b
		}
		b.entries[idx] = extensionEntry{kind: kind, source: source, ext: next}
		return b
	}
	next := mutate(nil)
	if next == nil {
		return b
	}
	b.index[kind] = len(b.entries)
	b.entries = append(b.entries, extensionEntry{kind: kind, source: source, ext: next})
	return b
}

// Build seals the staged configuration into an immutable Options value. The
// returned value holds defensive copies, so later builder mutations cannot
// reach an already-returned instance.
func (b *Builder) Build() *Options {
	if b == nil || len(b.entries) == 0 {
		return &Options{}
	}
	entries := make([]extensionEntry, len(b.entries))
	for i, entry := range b.entries {
		entries[i] = entry.clone()
	}
	return &Options{entries: entries}
}
